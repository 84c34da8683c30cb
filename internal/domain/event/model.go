package event

import (
	"time"

	"github.com/google/uuid"
)

// Event types.
const (
	TypeExaminationCreated int16 = 1
	TypeInvoiceIssued      int16 = 2
	TypeCreditNoteIssued   int16 = 3
)

// OfficeEvent maps to the office_events table. Events form an append-only
// activity feed of what happened in the practice; the reference field carries
// the id of the entity named by clazz.
type OfficeEvent struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Date      time.Time `db:"date" json:"date"`
	Clazz     string    `db:"clazz" json:"clazz"`
	Type      int16     `db:"type" json:"type"`
	Comment   string    `db:"comment" json:"comment"`
	Reference string    `db:"reference" json:"reference"`
	UserID    int64     `db:"user_id" json:"user_id"`
}
