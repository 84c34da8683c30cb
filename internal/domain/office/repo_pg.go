package office

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osteoclinic/clinic/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type repoPG struct {
	pool *pgxpool.Pool
}

// NewPGRepository creates a PostgreSQL-backed office settings repository.
func NewPGRepository(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const settingsCols = `id, invoice_office_header, office_address_street,
	office_address_complement, office_address_zipcode, office_address_city,
	office_phone, office_siret, amount, currency, invoice_content,
	invoice_footer, invoice_start_sequence, updated_at`

func scanSettings(row pgx.Row) (*Settings, error) {
	var s Settings
	err := row.Scan(
		&s.ID, &s.InvoiceOfficeHeader, &s.OfficeAddressStreet,
		&s.OfficeAddressComplement, &s.OfficeAddressZipcode, &s.OfficeAddressCity,
		&s.OfficePhone, &s.OfficeSiret, &s.Amount, &s.Currency, &s.InvoiceContent,
		&s.InvoiceFooter, &s.InvoiceStartSequence, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repoPG) GetSettings(ctx context.Context) (*Settings, error) {
	row := r.conn(ctx).QueryRow(ctx,
		`SELECT `+settingsCols+` FROM office_settings WHERE id = 1`)
	settings, err := scanSettings(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			// No row yet, the practice runs on defaults until first save.
			return &Settings{ID: 1}, nil
		}
		return nil, fmt.Errorf("get office settings: %w", err)
	}
	return settings, nil
}

func (r *repoPG) SaveSettings(ctx context.Context, settings *Settings) error {
	settings.ID = 1
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO office_settings (
			id, invoice_office_header, office_address_street,
			office_address_complement, office_address_zipcode, office_address_city,
			office_phone, office_siret, amount, currency, invoice_content,
			invoice_footer, invoice_start_sequence, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now())
		ON CONFLICT (id) DO UPDATE SET
			invoice_office_header = EXCLUDED.invoice_office_header,
			office_address_street = EXCLUDED.office_address_street,
			office_address_complement = EXCLUDED.office_address_complement,
			office_address_zipcode = EXCLUDED.office_address_zipcode,
			office_address_city = EXCLUDED.office_address_city,
			office_phone = EXCLUDED.office_phone,
			office_siret = EXCLUDED.office_siret,
			amount = EXCLUDED.amount,
			currency = EXCLUDED.currency,
			invoice_content = EXCLUDED.invoice_content,
			invoice_footer = EXCLUDED.invoice_footer,
			invoice_start_sequence = EXCLUDED.invoice_start_sequence,
			updated_at = now()`,
		settings.ID, settings.InvoiceOfficeHeader, settings.OfficeAddressStreet,
		settings.OfficeAddressComplement, settings.OfficeAddressZipcode, settings.OfficeAddressCity,
		settings.OfficePhone, settings.OfficeSiret, settings.Amount, settings.Currency,
		settings.InvoiceContent, settings.InvoiceFooter, settings.InvoiceStartSequence,
	)
	if err != nil {
		return fmt.Errorf("save office settings: %w", err)
	}
	return nil
}

func (r *repoPG) GetSequenceForUpdate(ctx context.Context) (string, error) {
	var value string
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT invoice_start_sequence FROM office_settings WHERE id = 1 FOR UPDATE`,
	).Scan(&value)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("lock invoice sequence: %w", err)
	}
	return value, nil
}

func (r *repoPG) SetSequence(ctx context.Context, value string) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO office_settings (id, invoice_start_sequence, updated_at)
		VALUES (1, $1, now())
		ON CONFLICT (id) DO UPDATE SET
			invoice_start_sequence = EXCLUDED.invoice_start_sequence,
			updated_at = now()`, value)
	if err != nil {
		return fmt.Errorf("set invoice sequence: %w", err)
	}
	return nil
}

func (r *repoPG) GetTherapistSettings(ctx context.Context, userID int64) (*TherapistSettings, error) {
	var s TherapistSettings
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT user_id, adeli, quality, siret, invoice_footer
		FROM therapist_settings WHERE user_id = $1`, userID,
	).Scan(&s.UserID, &s.Adeli, &s.Quality, &s.Siret, &s.InvoiceFooter)
	if err != nil {
		if err == pgx.ErrNoRows {
			return &TherapistSettings{UserID: userID}, nil
		}
		return nil, fmt.Errorf("get therapist settings: %w", err)
	}
	return &s, nil
}

func (r *repoPG) SaveTherapistSettings(ctx context.Context, settings *TherapistSettings) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO therapist_settings (user_id, adeli, quality, siret, invoice_footer)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			adeli = EXCLUDED.adeli,
			quality = EXCLUDED.quality,
			siret = EXCLUDED.siret,
			invoice_footer = EXCLUDED.invoice_footer`,
		settings.UserID, settings.Adeli, settings.Quality, settings.Siret, settings.InvoiceFooter,
	)
	if err != nil {
		return fmt.Errorf("save therapist settings: %w", err)
	}
	return nil
}
