package invoicing

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines storage for issued invoices. Invoices are append-only,
// there is no update or delete.
type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	List(ctx context.Context, limit, offset int) ([]*Invoice, int, error)

	// HighestNumber returns the largest issued invoice number, zero when
	// none exists yet.
	HighestNumber(ctx context.Context) (int64, error)
}
