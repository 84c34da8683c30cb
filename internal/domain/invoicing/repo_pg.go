package invoicing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
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

// NewPGRepository creates a PostgreSQL-backed invoice repository.
func NewPGRepository(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const invoiceCols = `id, number, date, type, status, amount, currency,
	payment_mode, check_bank, check_payer, check_number,
	header, office_address_street, office_address_complement,
	office_address_zipcode, office_address_city, office_phone, office_siret,
	therapist_name, therapist_first_name, therapist_id, quality, adeli, location,
	patient_family_name, patient_original_name, patient_first_name,
	patient_address_street, patient_address_complement,
	patient_address_zipcode, patient_address_city,
	content_invoice, footer, credit_note_for, created_at`

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	err := row.Scan(
		&inv.ID, &inv.Number, &inv.Date, &inv.Type, &inv.Status, &inv.Amount, &inv.Currency,
		&inv.PaymentMode, &inv.CheckBank, &inv.CheckPayer, &inv.CheckNumber,
		&inv.Header, &inv.OfficeAddressStreet, &inv.OfficeAddressComplement,
		&inv.OfficeAddressZipcode, &inv.OfficeAddressCity, &inv.OfficePhone, &inv.OfficeSiret,
		&inv.TherapistName, &inv.TherapistFirstName, &inv.TherapistID, &inv.Quality, &inv.Adeli, &inv.Location,
		&inv.PatientFamilyName, &inv.PatientOriginalName, &inv.PatientFirstName,
		&inv.PatientAddressStreet, &inv.PatientAddressComplement,
		&inv.PatientAddressZipcode, &inv.PatientAddressCity,
		&inv.ContentInvoice, &inv.Footer, &inv.CreditNoteFor, &inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *repoPG) Create(ctx context.Context, inv *Invoice) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	row := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO invoices (
			id, number, date, type, status, amount, currency,
			payment_mode, check_bank, check_payer, check_number,
			header, office_address_street, office_address_complement,
			office_address_zipcode, office_address_city, office_phone, office_siret,
			therapist_name, therapist_first_name, therapist_id, quality, adeli, location,
			patient_family_name, patient_original_name, patient_first_name,
			patient_address_street, patient_address_complement,
			patient_address_zipcode, patient_address_city,
			content_invoice, footer, credit_note_for
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29, $30,
			$31, $32, $33, $34
		)
		RETURNING created_at`,
		inv.ID, inv.Number, inv.Date, inv.Type, inv.Status, inv.Amount, inv.Currency,
		inv.PaymentMode, inv.CheckBank, inv.CheckPayer, inv.CheckNumber,
		inv.Header, inv.OfficeAddressStreet, inv.OfficeAddressComplement,
		inv.OfficeAddressZipcode, inv.OfficeAddressCity, inv.OfficePhone, inv.OfficeSiret,
		inv.TherapistName, inv.TherapistFirstName, inv.TherapistID, inv.Quality, inv.Adeli, inv.Location,
		inv.PatientFamilyName, inv.PatientOriginalName, inv.PatientFirstName,
		inv.PatientAddressStreet, inv.PatientAddressComplement,
		inv.PatientAddressZipcode, inv.PatientAddressCity,
		inv.ContentInvoice, inv.Footer, inv.CreditNoteFor,
	)
	if err := row.Scan(&inv.CreatedAt); err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	row := r.conn(ctx).QueryRow(ctx,
		`SELECT `+invoiceCols+` FROM invoices WHERE id = $1`, id)
	inv, err := scanInvoice(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("invoice %s not found", id)
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Invoice, int, error) {
	c := r.conn(ctx)

	var total int
	if err := c.QueryRow(ctx, `SELECT COUNT(*) FROM invoices`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}

	rows, err := c.Query(ctx, `
		SELECT `+invoiceCols+` FROM invoices
		ORDER BY date DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	return invoices, total, rows.Err()
}

func (r *repoPG) HighestNumber(ctx context.Context) (int64, error) {
	var highest int64
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COALESCE(MAX(number::bigint), 0) FROM invoices`,
	).Scan(&highest)
	if err != nil {
		return 0, fmt.Errorf("highest invoice number: %w", err)
	}
	return highest, nil
}
