package examination

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines storage for examinations and their comments.
type Repository interface {
	Create(ctx context.Context, exam *Examination) error
	GetByID(ctx context.Context, id uuid.UUID) (*Examination, error)
	Update(ctx context.Context, exam *Examination) error
	List(ctx context.Context, limit, offset int) ([]*Examination, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Examination, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status int16, statusReason *string) error
	LinkInvoice(ctx context.Context, id uuid.UUID, invoiceID uuid.UUID) error
	AddComment(ctx context.Context, comment *Comment) error
	ListComments(ctx context.Context, examinationID uuid.UUID) ([]*Comment, error)
}
