package examination

import (
	"time"

	"github.com/google/uuid"
)

// Examination statuses.
const (
	StatusInProgress        int16 = 0
	StatusWaitingForPayment int16 = 1
	StatusInvoicedPaid      int16 = 2
	StatusNotInvoiced       int16 = 3
)

// Examination types.
const (
	TypeNormal        int16 = 1
	TypeContinuation  int16 = 2
	TypeReturn        int16 = 3
	TypeEmergency     int16 = 4
)

// Examination maps to the examinations table. The clinical fields mirror the
// sections of an osteopathic consultation record.
type Examination struct {
	ID                 uuid.UUID  `db:"id" json:"id"`
	PatientID          uuid.UUID  `db:"patient_id" json:"patient_id"`
	TherapistID        *int64     `db:"therapist_id" json:"therapist_id,omitempty"`
	Date               time.Time  `db:"date" json:"date"`
	Reason             string     `db:"reason" json:"reason"`
	ReasonDescription  string     `db:"reason_description" json:"reason_description"`
	ORL                string     `db:"orl" json:"orl"`
	Visceral           string     `db:"visceral" json:"visceral"`
	Pulmo              string     `db:"pulmo" json:"pulmo"`
	UroGyneco          string     `db:"uro_gyneco" json:"uro_gyneco"`
	Periphery          string     `db:"periphery" json:"periphery"`
	GeneralState       string     `db:"general_state" json:"general_state"`
	MedicalExamination string     `db:"medical_examination" json:"medical_examination"`
	Diagnosis          string     `db:"diagnosis" json:"diagnosis"`
	Treatments         string     `db:"treatments" json:"treatments"`
	Conclusion         string     `db:"conclusion" json:"conclusion"`
	Type               int16      `db:"type" json:"type"`
	Status             int16      `db:"status" json:"status"`
	StatusReason       *string    `db:"status_reason" json:"status_reason,omitempty"`
	InvoiceID          *uuid.UUID `db:"invoice_id" json:"invoice_id,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// Comment is a free-text note attached to an examination.
type Comment struct {
	ID            uuid.UUID `db:"id" json:"id"`
	ExaminationID uuid.UUID `db:"examination_id" json:"examination_id"`
	UserID        int64     `db:"user_id" json:"user_id"`
	Date          time.Time `db:"date" json:"date"`
	Comment       string    `db:"comment" json:"comment"`
}
