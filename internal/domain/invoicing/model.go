package invoicing

import (
	"time"

	"github.com/google/uuid"
)

// Invoice document types.
const (
	TypeInvoice    = "invoice"
	TypeCreditNote = "creditnote"
)

// Invoice statuses.
const (
	StatusWaitingForPayment int16 = 1
	StatusInvoicedPaid      int16 = 2
)

// Payment modes.
const (
	PaymentCheck   = "check"
	PaymentCash    = "cash"
	PaymentNotPaid = "notpaid"
)

// Invoice is an immutable snapshot of everything needed to render the
// document. Office, therapist and patient details are copied verbatim at
// issue time so later settings edits never alter an issued invoice.
type Invoice struct {
	ID       uuid.UUID `db:"id" json:"id"`
	Number   string    `db:"number" json:"number"`
	Date     time.Time `db:"date" json:"date"`
	Type     string    `db:"type" json:"type"`
	Status   int16     `db:"status" json:"status"`
	Amount   float64   `db:"amount" json:"amount"`
	Currency string    `db:"currency" json:"currency"`

	PaymentMode string  `db:"payment_mode" json:"payment_mode"`
	CheckBank   *string `db:"check_bank" json:"check_bank,omitempty"`
	CheckPayer  *string `db:"check_payer" json:"check_payer,omitempty"`
	CheckNumber *string `db:"check_number" json:"check_number,omitempty"`

	Header                  string `db:"header" json:"header"`
	OfficeAddressStreet     string `db:"office_address_street" json:"office_address_street"`
	OfficeAddressComplement string `db:"office_address_complement" json:"office_address_complement"`
	OfficeAddressZipcode    string `db:"office_address_zipcode" json:"office_address_zipcode"`
	OfficeAddressCity       string `db:"office_address_city" json:"office_address_city"`
	OfficePhone             string `db:"office_phone" json:"office_phone"`
	OfficeSiret             string `db:"office_siret" json:"office_siret"`

	TherapistName      string `db:"therapist_name" json:"therapist_name"`
	TherapistFirstName string `db:"therapist_first_name" json:"therapist_first_name"`
	TherapistID        int64  `db:"therapist_id" json:"therapist_id"`
	Quality            string `db:"quality" json:"quality"`
	Adeli              string `db:"adeli" json:"adeli"`
	Location           string `db:"location" json:"location"`

	PatientFamilyName        string `db:"patient_family_name" json:"patient_family_name"`
	PatientOriginalName      string `db:"patient_original_name" json:"patient_original_name"`
	PatientFirstName         string `db:"patient_first_name" json:"patient_first_name"`
	PatientAddressStreet     string `db:"patient_address_street" json:"patient_address_street"`
	PatientAddressComplement string `db:"patient_address_complement" json:"patient_address_complement"`
	PatientAddressZipcode    string `db:"patient_address_zipcode" json:"patient_address_zipcode"`
	PatientAddressCity       string `db:"patient_address_city" json:"patient_address_city"`

	ContentInvoice string `db:"content_invoice" json:"content_invoice"`
	Footer         string `db:"footer" json:"footer"`

	// CreditNoteFor links a credit note back to the invoice it cancels.
	CreditNoteFor *uuid.UUID `db:"credit_note_for" json:"credit_note_for,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
