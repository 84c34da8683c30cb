package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patients table. Patients are read-only inputs for the
// invoicing flow; their identity and address fields are copied verbatim onto
// invoices at generation time.
type Patient struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	FamilyName        string     `db:"family_name" json:"family_name"`
	OriginalName      string     `db:"original_name" json:"original_name"`
	FirstName         string     `db:"first_name" json:"first_name"`
	BirthDate         time.Time  `db:"birth_date" json:"birth_date"`
	AddressStreet     string     `db:"address_street" json:"address_street"`
	AddressComplement string     `db:"address_complement" json:"address_complement"`
	AddressZipcode    string     `db:"address_zipcode" json:"address_zipcode"`
	AddressCity       string     `db:"address_city" json:"address_city"`
	Phone             *string    `db:"phone" json:"phone,omitempty"`
	MobilePhone       *string    `db:"mobile_phone" json:"mobile_phone,omitempty"`
	Sex               *string    `db:"sex" json:"sex,omitempty"`
	DoctorID          *uuid.UUID `db:"doctor_id" json:"doctor_id,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
}
