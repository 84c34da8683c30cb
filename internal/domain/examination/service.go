package examination

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/osteoclinic/clinic/internal/domain/event"
	"github.com/osteoclinic/clinic/internal/domain/patient"
	"github.com/osteoclinic/clinic/internal/platform/auth"
)

// Service manages the consultation record lifecycle up to the point where an
// examination is handed to invoicing for closing.
type Service struct {
	exams    Repository
	patients patient.Repository
	events   event.Recorder
	logger   zerolog.Logger
	now      func() time.Time
}

func NewService(exams Repository, patients patient.Repository, events event.Recorder, logger zerolog.Logger) *Service {
	return &Service{
		exams:    exams,
		patients: patients,
		events:   events,
		logger:   logger,
		now:      time.Now,
	}
}

// Create validates and stores a new examination. The examination starts in
// progress, dated now unless the caller supplied a date, and attributed to the
// acting therapist when no therapist was given.
func (s *Service) Create(ctx context.Context, exam *Examination, actor *auth.Actor) (*Examination, error) {
	if exam.PatientID == uuid.Nil {
		return nil, fmt.Errorf("patient_id is required")
	}
	if strings.TrimSpace(exam.Reason) == "" {
		return nil, fmt.Errorf("reason is required")
	}
	if _, err := s.patients.GetByID(ctx, exam.PatientID); err != nil {
		return nil, fmt.Errorf("patient %s not found", exam.PatientID)
	}

	if exam.Date.IsZero() {
		exam.Date = s.now()
	}
	if exam.Type == 0 {
		exam.Type = TypeNormal
	}
	exam.Status = StatusInProgress
	exam.StatusReason = nil
	exam.InvoiceID = nil
	if exam.TherapistID == nil && actor != nil {
		exam.TherapistID = &actor.ID
	}

	if err := s.exams.Create(ctx, exam); err != nil {
		return nil, err
	}

	if actor != nil {
		if err := s.events.Record(ctx, "examination", event.TypeExaminationCreated,
			"examination created", exam.ID.String(), actor.ID); err != nil {
			s.logger.Warn().Err(err).Str("examination_id", exam.ID.String()).
				Msg("examination created but event not recorded")
		}
	}
	return exam, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Examination, error) {
	return s.exams.GetByID(ctx, id)
}

// Update replaces the clinical fields of an open examination. Status, invoice
// linkage and patient ownership are never touched here.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in *Examination) (*Examination, error) {
	existing, err := s.exams.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Reason) == "" {
		return nil, fmt.Errorf("reason is required")
	}

	existing.Reason = in.Reason
	existing.ReasonDescription = in.ReasonDescription
	existing.ORL = in.ORL
	existing.Visceral = in.Visceral
	existing.Pulmo = in.Pulmo
	existing.UroGyneco = in.UroGyneco
	existing.Periphery = in.Periphery
	existing.GeneralState = in.GeneralState
	existing.MedicalExamination = in.MedicalExamination
	existing.Diagnosis = in.Diagnosis
	existing.Treatments = in.Treatments
	existing.Conclusion = in.Conclusion
	if in.Type != 0 {
		existing.Type = in.Type
	}
	if !in.Date.IsZero() {
		existing.Date = in.Date
	}
	if in.TherapistID != nil {
		existing.TherapistID = in.TherapistID
	}

	if err := s.exams.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Examination, int, error) {
	return s.exams.List(ctx, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Examination, error) {
	return s.exams.ListByPatient(ctx, patientID)
}

// AddComment attaches a free-text note written by the acting user.
func (s *Service) AddComment(ctx context.Context, examinationID uuid.UUID, text string, actor *auth.Actor) (*Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("comment is required")
	}
	if _, err := s.exams.GetByID(ctx, examinationID); err != nil {
		return nil, err
	}

	comment := &Comment{
		ExaminationID: examinationID,
		Date:          s.now(),
		Comment:       text,
	}
	if actor != nil {
		comment.UserID = actor.ID
	}
	if err := s.exams.AddComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *Service) ListComments(ctx context.Context, examinationID uuid.UUID) ([]*Comment, error) {
	return s.exams.ListComments(ctx, examinationID)
}
