package event

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

// NewPGRepository creates a PostgreSQL-backed event repository.
func NewPGRepository(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const eventCols = `id, date, clazz, type, comment, reference, user_id`

func scanEvent(row pgx.Row) (*OfficeEvent, error) {
	var ev OfficeEvent
	err := row.Scan(&ev.ID, &ev.Date, &ev.Clazz, &ev.Type, &ev.Comment, &ev.Reference, &ev.UserID)
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

func (r *repoPG) Create(ctx context.Context, ev *OfficeEvent) error {
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO office_events (id, date, clazz, type, comment, reference, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		ev.ID, ev.Date, ev.Clazz, ev.Type, ev.Comment, ev.Reference, ev.UserID,
	)
	if err != nil {
		return fmt.Errorf("insert office event: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*OfficeEvent, error) {
	row := r.conn(ctx).QueryRow(ctx,
		`SELECT `+eventCols+` FROM office_events WHERE id = $1`, id)
	ev, err := scanEvent(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("office event %s not found", id)
		}
		return nil, fmt.Errorf("get office event: %w", err)
	}
	return ev, nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*OfficeEvent, int, error) {
	c := r.conn(ctx)

	var total int
	if err := c.QueryRow(ctx, `SELECT COUNT(*) FROM office_events`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count office events: %w", err)
	}

	rows, err := c.Query(ctx, `
		SELECT `+eventCols+` FROM office_events
		ORDER BY date DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list office events: %w", err)
	}
	defer rows.Close()

	var events []*OfficeEvent
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan office event: %w", err)
		}
		events = append(events, ev)
	}
	return events, total, rows.Err()
}
