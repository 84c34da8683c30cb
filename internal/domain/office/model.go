package office

import "time"

// Settings is the practice-wide configuration. Exactly one row exists, the
// repository pins its id to 1 on every save.
type Settings struct {
	ID                      int64     `db:"id" json:"id"`
	InvoiceOfficeHeader     string    `db:"invoice_office_header" json:"invoice_office_header"`
	OfficeAddressStreet     string    `db:"office_address_street" json:"office_address_street"`
	OfficeAddressComplement string    `db:"office_address_complement" json:"office_address_complement"`
	OfficeAddressZipcode    string    `db:"office_address_zipcode" json:"office_address_zipcode"`
	OfficeAddressCity       string    `db:"office_address_city" json:"office_address_city"`
	OfficePhone             string    `db:"office_phone" json:"office_phone"`
	OfficeSiret             string    `db:"office_siret" json:"office_siret"`
	Amount                  *float64  `db:"amount" json:"amount,omitempty"`
	Currency                string    `db:"currency" json:"currency"`
	InvoiceContent          string    `db:"invoice_content" json:"invoice_content"`
	InvoiceFooter           string    `db:"invoice_footer" json:"invoice_footer"`
	InvoiceStartSequence    string    `db:"invoice_start_sequence" json:"invoice_start_sequence"`
	UpdatedAt               time.Time `db:"updated_at" json:"updated_at"`
}

// TherapistSettings extends a user account with per-therapist invoicing
// overrides. Nil override fields fall back to the office-wide values.
type TherapistSettings struct {
	UserID        int64   `db:"user_id" json:"user_id"`
	Adeli         string  `db:"adeli" json:"adeli"`
	Quality       string  `db:"quality" json:"quality"`
	Siret         *string `db:"siret" json:"siret,omitempty"`
	InvoiceFooter *string `db:"invoice_footer" json:"invoice_footer,omitempty"`
}
