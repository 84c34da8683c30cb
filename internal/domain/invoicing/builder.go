package invoicing

import (
	"context"
	"time"

	"github.com/osteoclinic/clinic/internal/domain/office"
	"github.com/osteoclinic/clinic/internal/domain/patient"
	"github.com/osteoclinic/clinic/internal/platform/auth"
)

// Builder assembles invoice and credit note snapshots. It only builds
// documents, persistence and status transitions belong to the service.
type Builder struct {
	seq SequenceAllocator
	now func() time.Time
}

func NewBuilder(seq SequenceAllocator) *Builder {
	return &Builder{seq: seq, now: time.Now}
}

// Build snapshots the office settings, the acting therapist and the patient
// into a new invoice. The therapist siret and footer replace the office ones
// when set.
func (b *Builder) Build(
	ctx context.Context,
	p *patient.Patient,
	settings *office.Settings,
	therapist *office.TherapistSettings,
	actor *auth.Actor,
	req *CloseRequest,
) (*Invoice, error) {
	inv := &Invoice{
		Amount:   req.Amount,
		Currency: settings.Currency,
		Header:   settings.InvoiceOfficeHeader,

		OfficeAddressStreet:     settings.OfficeAddressStreet,
		OfficeAddressComplement: settings.OfficeAddressComplement,
		OfficeAddressZipcode:    settings.OfficeAddressZipcode,
		OfficeAddressCity:       settings.OfficeAddressCity,
		OfficePhone:             settings.OfficePhone,
		OfficeSiret:             settings.OfficeSiret,

		PaymentMode:        req.PaymentMode,
		TherapistName:      actor.LastName,
		TherapistFirstName: actor.FirstName,
		TherapistID:        actor.ID,
		Quality:            therapist.Quality,
		Adeli:              therapist.Adeli,
		Location:           settings.OfficeAddressCity,

		PatientFamilyName:        p.FamilyName,
		PatientOriginalName:      p.OriginalName,
		PatientFirstName:         p.FirstName,
		PatientAddressStreet:     p.AddressStreet,
		PatientAddressComplement: p.AddressComplement,
		PatientAddressZipcode:    p.AddressZipcode,
		PatientAddressCity:       p.AddressCity,

		ContentInvoice: settings.InvoiceContent,
		Footer:         settings.InvoiceFooter,

		Type: TypeInvoice,
	}

	if therapist.Siret != nil {
		inv.OfficeSiret = *therapist.Siret
	}
	if therapist.InvoiceFooter != nil {
		inv.Footer = *therapist.InvoiceFooter
	}

	if req.PaymentMode == PaymentCheck && req.Check != nil {
		inv.CheckBank = &req.Check.Bank
		inv.CheckPayer = &req.Check.Payer
		inv.CheckNumber = &req.Check.Number
	}

	if req.PaymentMode == PaymentNotPaid {
		inv.Status = StatusWaitingForPayment
	} else {
		inv.Status = StatusInvoicedPaid
	}

	number, err := b.seq.NextNumber(ctx)
	if err != nil {
		return nil, err
	}
	inv.Number = number
	inv.Date = b.now()
	return inv, nil
}

// Cancel builds the credit note for an issued invoice. Every snapshot field
// is copied from the original, the amount is negated and the note gets a
// fresh number and today's date.
func (b *Builder) Cancel(ctx context.Context, original *Invoice) (*Invoice, error) {
	note := &Invoice{
		Amount:   -1 * original.Amount,
		Currency: original.Currency,
		Header:   original.Header,

		OfficeAddressStreet:     original.OfficeAddressStreet,
		OfficeAddressComplement: original.OfficeAddressComplement,
		OfficeAddressZipcode:    original.OfficeAddressZipcode,
		OfficeAddressCity:       original.OfficeAddressCity,
		OfficePhone:             original.OfficePhone,
		OfficeSiret:             original.OfficeSiret,

		PaymentMode:        original.PaymentMode,
		TherapistName:      original.TherapistName,
		TherapistFirstName: original.TherapistFirstName,
		TherapistID:        original.TherapistID,
		Quality:            original.Quality,
		Adeli:              original.Adeli,
		Location:           original.Location,

		PatientFamilyName:        original.PatientFamilyName,
		PatientOriginalName:      original.PatientOriginalName,
		PatientFirstName:         original.PatientFirstName,
		PatientAddressStreet:     original.PatientAddressStreet,
		PatientAddressComplement: original.PatientAddressComplement,
		PatientAddressZipcode:    original.PatientAddressZipcode,
		PatientAddressCity:       original.PatientAddressCity,

		ContentInvoice: original.ContentInvoice,
		Footer:         original.Footer,

		Status: StatusInvoicedPaid,
	}

	// Cancelling a credit note yields a positive amount, which makes the
	// result an invoice again rather than another credit note.
	if note.Amount < 0 {
		note.Type = TypeCreditNote
	} else {
		note.Type = TypeInvoice
	}

	number, err := b.seq.NextNumber(ctx)
	if err != nil {
		return nil, err
	}
	note.Number = number
	note.Date = b.now()
	originalID := original.ID
	note.CreditNoteFor = &originalID
	return note, nil
}
