package invoicing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/osteoclinic/clinic/internal/domain/event"
	"github.com/osteoclinic/clinic/internal/domain/examination"
	"github.com/osteoclinic/clinic/internal/domain/office"
	"github.com/osteoclinic/clinic/internal/domain/patient"
	"github.com/osteoclinic/clinic/internal/platform/auth"
)

// Service orchestrates closing examinations and cancelling invoices. Every
// mutation runs inside a single transaction so an invoice never exists
// without its examination updates, and a consumed number never leaks to two
// documents.
type Service struct {
	invoices Repository
	exams    examination.Repository
	patients patient.Repository
	settings office.Repository
	builder  *Builder
	runner   TxRunner
	events   event.Recorder
	logger   zerolog.Logger
	now      func() time.Time
}

func NewService(
	invoices Repository,
	exams examination.Repository,
	patients patient.Repository,
	settings office.Repository,
	builder *Builder,
	runner TxRunner,
	events event.Recorder,
	logger zerolog.Logger,
) *Service {
	return &Service{
		invoices: invoices,
		exams:    exams,
		patients: patients,
		settings: settings,
		builder:  builder,
		runner:   runner,
		events:   events,
		logger:   logger,
		now:      time.Now,
	}
}

// CloseResult reports the outcome of closing an examination. Invoice is nil
// when the examination was closed without invoicing.
type CloseResult struct {
	Examination *examination.Examination `json:"examination"`
	Invoice     *Invoice                 `json:"invoice,omitempty"`
}

// CloseExamination finishes an examination. Depending on the request it
// either marks it not invoiced with a reason, or issues an invoice snapshot
// and moves the examination to paid or waiting for payment.
func (s *Service) CloseExamination(ctx context.Context, examID uuid.UUID, req *CloseRequest, actor *auth.Actor) (*CloseResult, error) {
	if errs := req.Validate(); errs != nil {
		return nil, errs
	}
	if actor == nil {
		return nil, fmt.Errorf("authenticated user required to close an examination")
	}

	var result CloseResult
	err := s.runner.InTx(ctx, func(ctx context.Context) error {
		exam, err := s.exams.GetByID(ctx, examID)
		if err != nil {
			return err
		}
		if exam.InvoiceID != nil {
			return ErrAlreadyInvoiced
		}

		if req.Status == CloseNotInvoiced {
			reason := req.Reason
			if err := s.exams.UpdateStatus(ctx, exam.ID, examination.StatusNotInvoiced, &reason); err != nil {
				return err
			}
			exam.Status = examination.StatusNotInvoiced
			exam.StatusReason = &reason
			result.Examination = exam
			return nil
		}

		p, err := s.patients.GetByID(ctx, exam.PatientID)
		if err != nil {
			return err
		}
		officeSettings, err := s.settings.GetSettings(ctx)
		if err != nil {
			return err
		}
		therapistSettings, err := s.settings.GetTherapistSettings(ctx, actor.ID)
		if err != nil {
			return err
		}

		inv, err := s.builder.Build(ctx, p, officeSettings, therapistSettings, actor, req)
		if err != nil {
			return err
		}
		if err := s.invoices.Create(ctx, inv); err != nil {
			return err
		}
		if err := s.exams.LinkInvoice(ctx, exam.ID, inv.ID); err != nil {
			return err
		}

		status := examination.StatusInvoicedPaid
		if req.PaymentMode == PaymentNotPaid {
			status = examination.StatusWaitingForPayment
		}
		if err := s.exams.UpdateStatus(ctx, exam.ID, status, nil); err != nil {
			return err
		}

		if err := s.events.Record(ctx, "invoice", event.TypeInvoiceIssued,
			fmt.Sprintf("invoice %s issued", inv.Number), inv.ID.String(), actor.ID); err != nil {
			return err
		}

		exam.Status = status
		exam.StatusReason = nil
		exam.InvoiceID = &inv.ID
		result.Examination = exam
		result.Invoice = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Invoice != nil {
		s.logger.Info().Str("number", result.Invoice.Number).
			Str("examination_id", examID.String()).Msg("invoice issued")
	}
	return &result, nil
}

// CancelInvoice issues a credit note for an invoice. The original invoice is
// kept untouched, the note carries the opposite amount under a fresh number.
func (s *Service) CancelInvoice(ctx context.Context, invoiceID uuid.UUID, actor *auth.Actor) (*Invoice, error) {
	if actor == nil {
		return nil, fmt.Errorf("authenticated user required to cancel an invoice")
	}

	var note *Invoice
	err := s.runner.InTx(ctx, func(ctx context.Context) error {
		original, err := s.invoices.GetByID(ctx, invoiceID)
		if err != nil {
			return err
		}

		note, err = s.builder.Cancel(ctx, original)
		if err != nil {
			return err
		}
		if err := s.invoices.Create(ctx, note); err != nil {
			return err
		}

		return s.events.Record(ctx, "invoice", event.TypeCreditNoteIssued,
			fmt.Sprintf("credit note %s issued for invoice %s", note.Number, original.Number),
			note.ID.String(), actor.ID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("number", note.Number).
		Str("invoice_id", invoiceID.String()).Msg("credit note issued")
	return note, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.invoices.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Invoice, int, error) {
	return s.invoices.List(ctx, limit, offset)
}
