package invoicing

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/osteoclinic/clinic/internal/domain/examination"
	"github.com/osteoclinic/clinic/internal/domain/office"
	"github.com/osteoclinic/clinic/internal/domain/patient"
)

// -- Mock Repositories --

type mockInvoiceRepo struct {
	items map[uuid.UUID]*Invoice
}

func newMockInvoiceRepo() *mockInvoiceRepo {
	return &mockInvoiceRepo{items: make(map[uuid.UUID]*Invoice)}
}

func (m *mockInvoiceRepo) Create(_ context.Context, inv *Invoice) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	inv.CreatedAt = time.Now()
	copied := *inv
	m.items[inv.ID] = &copied
	return nil
}

func (m *mockInvoiceRepo) GetByID(_ context.Context, id uuid.UUID) (*Invoice, error) {
	inv, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("invoice %s not found", id)
	}
	return inv, nil
}

func (m *mockInvoiceRepo) List(_ context.Context, limit, offset int) ([]*Invoice, int, error) {
	var result []*Invoice
	for _, inv := range m.items {
		result = append(result, inv)
	}
	return result, len(result), nil
}

func (m *mockInvoiceRepo) HighestNumber(_ context.Context) (int64, error) {
	var highest int64
	for _, inv := range m.items {
		var n int64
		fmt.Sscanf(inv.Number, "%d", &n)
		if n > highest {
			highest = n
		}
	}
	return highest, nil
}

type mockExamRepo struct {
	items map[uuid.UUID]*examination.Examination
}

func newMockExamRepo() *mockExamRepo {
	return &mockExamRepo{items: make(map[uuid.UUID]*examination.Examination)}
}

func (m *mockExamRepo) Create(_ context.Context, e *examination.Examination) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	m.items[e.ID] = e
	return nil
}

func (m *mockExamRepo) GetByID(_ context.Context, id uuid.UUID) (*examination.Examination, error) {
	e, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("examination %s not found", id)
	}
	return e, nil
}

func (m *mockExamRepo) Update(_ context.Context, e *examination.Examination) error {
	m.items[e.ID] = e
	return nil
}

func (m *mockExamRepo) List(_ context.Context, limit, offset int) ([]*examination.Examination, int, error) {
	var result []*examination.Examination
	for _, e := range m.items {
		result = append(result, e)
	}
	return result, len(result), nil
}

func (m *mockExamRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*examination.Examination, error) {
	var result []*examination.Examination
	for _, e := range m.items {
		if e.PatientID == patientID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *mockExamRepo) UpdateStatus(_ context.Context, id uuid.UUID, status int16, statusReason *string) error {
	e, ok := m.items[id]
	if !ok {
		return fmt.Errorf("examination %s not found", id)
	}
	e.Status = status
	e.StatusReason = statusReason
	return nil
}

func (m *mockExamRepo) LinkInvoice(_ context.Context, id uuid.UUID, invoiceID uuid.UUID) error {
	e, ok := m.items[id]
	if !ok {
		return fmt.Errorf("examination %s not found", id)
	}
	e.InvoiceID = &invoiceID
	return nil
}

func (m *mockExamRepo) AddComment(_ context.Context, _ *examination.Comment) error { return nil }

func (m *mockExamRepo) ListComments(_ context.Context, _ uuid.UUID) ([]*examination.Comment, error) {
	return nil, nil
}

type mockPatientRepo struct {
	items map[uuid.UUID]*patient.Patient
}

func newMockPatientRepo() *mockPatientRepo {
	return &mockPatientRepo{items: make(map[uuid.UUID]*patient.Patient)}
}

func (m *mockPatientRepo) Create(_ context.Context, p *patient.Patient) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.items[p.ID] = p
	return nil
}

func (m *mockPatientRepo) GetByID(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("patient %s not found", id)
	}
	return p, nil
}

func (m *mockPatientRepo) List(_ context.Context, limit, offset int) ([]*patient.Patient, int, error) {
	var result []*patient.Patient
	for _, p := range m.items {
		result = append(result, p)
	}
	return result, len(result), nil
}

type mockOfficeRepo struct {
	settings  *office.Settings
	therapist *office.TherapistSettings
	sequence  string
}

func (m *mockOfficeRepo) GetSettings(_ context.Context) (*office.Settings, error) {
	if m.settings == nil {
		return &office.Settings{ID: 1}, nil
	}
	return m.settings, nil
}

func (m *mockOfficeRepo) SaveSettings(_ context.Context, s *office.Settings) error {
	s.ID = 1
	m.settings = s
	return nil
}

func (m *mockOfficeRepo) GetSequenceForUpdate(_ context.Context) (string, error) {
	return m.sequence, nil
}

func (m *mockOfficeRepo) SetSequence(_ context.Context, value string) error {
	m.sequence = value
	return nil
}

func (m *mockOfficeRepo) GetTherapistSettings(_ context.Context, userID int64) (*office.TherapistSettings, error) {
	if m.therapist == nil {
		return &office.TherapistSettings{UserID: userID}, nil
	}
	return m.therapist, nil
}

func (m *mockOfficeRepo) SaveTherapistSettings(_ context.Context, s *office.TherapistSettings) error {
	m.therapist = s
	return nil
}

type mockRecorder struct {
	recorded []string
}

func (m *mockRecorder) Record(_ context.Context, clazz string, _ int16, comment, _ string, _ int64) error {
	m.recorded = append(m.recorded, clazz+": "+comment)
	return nil
}

type failingRunner struct{}

func (failingRunner) InTx(_ context.Context, _ func(ctx context.Context) error) error {
	return ErrConflict
}

// -- Test setup --

type serviceFixture struct {
	service  *Service
	invoices *mockInvoiceRepo
	exams    *mockExamRepo
	patients *mockPatientRepo
	officeDB *mockOfficeRepo
	events   *mockRecorder
}

func newServiceFixture() *serviceFixture {
	invoices := newMockInvoiceRepo()
	exams := newMockExamRepo()
	patients := newMockPatientRepo()
	officeDB := &mockOfficeRepo{settings: testOfficeSettings()}
	events := &mockRecorder{}

	builder := NewBuilder(NewSequenceAllocator(officeDB))
	svc := NewService(
		invoices, exams, patients, officeDB,
		builder, MemoryTxRunner{}, events, zerolog.Nop(),
	)
	return &serviceFixture{
		service:  svc,
		invoices: invoices,
		exams:    exams,
		patients: patients,
		officeDB: officeDB,
		events:   events,
	}
}

func (f *serviceFixture) addOpenExamination(t *testing.T) *examination.Examination {
	t.Helper()
	p := testPatient()
	if err := f.patients.Create(context.Background(), p); err != nil {
		t.Fatalf("create patient: %v", err)
	}
	exam := &examination.Examination{
		PatientID: p.ID,
		Date:      time.Now(),
		Reason:    "lombalgie",
		Type:      examination.TypeNormal,
		Status:    examination.StatusInProgress,
	}
	if err := f.exams.Create(context.Background(), exam); err != nil {
		t.Fatalf("create examination: %v", err)
	}
	return exam
}

// -- Tests --

func TestCloseExaminationIssuesInvoice(t *testing.T) {
	f := newServiceFixture()
	exam := f.addOpenExamination(t)
	req := &CloseRequest{Status: CloseInvoiced, PaymentMode: PaymentCash, Amount: 55}

	result, err := f.service.CloseExamination(context.Background(), exam.ID, req, testActor())
	if err != nil {
		t.Fatalf("CloseExamination failed: %v", err)
	}

	if result.Invoice == nil {
		t.Fatal("expected invoice in result")
	}
	if result.Invoice.Number != "10000" {
		t.Errorf("expected first number 10000, got %s", result.Invoice.Number)
	}
	if f.officeDB.sequence != "10001" {
		t.Errorf("expected sequence pointer advanced to 10001, got %s", f.officeDB.sequence)
	}

	stored, err := f.exams.GetByID(context.Background(), exam.ID)
	if err != nil {
		t.Fatalf("get examination: %v", err)
	}
	if stored.Status != examination.StatusInvoicedPaid {
		t.Errorf("expected examination paid, got status %d", stored.Status)
	}
	if stored.InvoiceID == nil || *stored.InvoiceID != result.Invoice.ID {
		t.Error("examination must be linked to the issued invoice")
	}
	if len(f.events.recorded) != 1 {
		t.Errorf("expected 1 office event, got %d", len(f.events.recorded))
	}
}

func TestCloseExaminationSequenceAcrossInvoices(t *testing.T) {
	f := newServiceFixture()
	req := &CloseRequest{Status: CloseInvoiced, PaymentMode: PaymentCash, Amount: 55}

	first := f.addOpenExamination(t)
	second := f.addOpenExamination(t)

	r1, err := f.service.CloseExamination(context.Background(), first.ID, req, testActor())
	if err != nil {
		t.Fatalf("first close failed: %v", err)
	}
	r2, err := f.service.CloseExamination(context.Background(), second.ID, req, testActor())
	if err != nil {
		t.Fatalf("second close failed: %v", err)
	}

	if r1.Invoice.Number != "10000" || r2.Invoice.Number != "10001" {
		t.Errorf("expected consecutive numbers 10000/10001, got %s/%s",
			r1.Invoice.Number, r2.Invoice.Number)
	}
}

func TestCloseExaminationNotPaid(t *testing.T) {
	f := newServiceFixture()
	exam := f.addOpenExamination(t)
	req := &CloseRequest{Status: CloseInvoiced, PaymentMode: PaymentNotPaid, Amount: 55}

	result, err := f.service.CloseExamination(context.Background(), exam.ID, req, testActor())
	if err != nil {
		t.Fatalf("CloseExamination failed: %v", err)
	}

	if result.Invoice.Status != StatusWaitingForPayment {
		t.Errorf("expected invoice waiting for payment, got %d", result.Invoice.Status)
	}
	stored, _ := f.exams.GetByID(context.Background(), exam.ID)
	if stored.Status != examination.StatusWaitingForPayment {
		t.Errorf("expected examination waiting for payment, got %d", stored.Status)
	}
}

func TestCloseExaminationNotInvoiced(t *testing.T) {
	f := newServiceFixture()
	exam := f.addOpenExamination(t)
	req := &CloseRequest{Status: CloseNotInvoiced, Reason: "seance offerte"}

	result, err := f.service.CloseExamination(context.Background(), exam.ID, req, testActor())
	if err != nil {
		t.Fatalf("CloseExamination failed: %v", err)
	}

	if result.Invoice != nil {
		t.Error("no invoice must be issued when closing without invoicing")
	}
	stored, _ := f.exams.GetByID(context.Background(), exam.ID)
	if stored.Status != examination.StatusNotInvoiced {
		t.Errorf("expected not invoiced status, got %d", stored.Status)
	}
	if stored.StatusReason == nil || *stored.StatusReason != "seance offerte" {
		t.Error("status reason must be recorded")
	}
	if len(f.invoices.items) != 0 {
		t.Error("no invoice row must exist")
	}
}

func TestCloseExaminationAlreadyInvoiced(t *testing.T) {
	f := newServiceFixture()
	exam := f.addOpenExamination(t)
	req := &CloseRequest{Status: CloseInvoiced, PaymentMode: PaymentCash, Amount: 55}

	if _, err := f.service.CloseExamination(context.Background(), exam.ID, req, testActor()); err != nil {
		t.Fatalf("first close failed: %v", err)
	}
	_, err := f.service.CloseExamination(context.Background(), exam.ID, req, testActor())
	if !errors.Is(err, ErrAlreadyInvoiced) {
		t.Errorf("expected ErrAlreadyInvoiced, got %v", err)
	}
	if len(f.invoices.items) != 1 {
		t.Errorf("expected a single invoice, got %d", len(f.invoices.items))
	}
}

func TestCloseExaminationValidation(t *testing.T) {
	f := newServiceFixture()
	exam := f.addOpenExamination(t)
	req := &CloseRequest{Status: CloseInvoiced, PaymentMode: PaymentCash}

	_, err := f.service.CloseExamination(context.Background(), exam.ID, req, testActor())
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if _, ok := verrs["amount"]; !ok {
		t.Errorf("expected amount error, got %v", verrs)
	}
}

func TestCloseExaminationConflict(t *testing.T) {
	f := newServiceFixture()
	exam := f.addOpenExamination(t)
	f.service.runner = failingRunner{}
	req := &CloseRequest{Status: CloseInvoiced, PaymentMode: PaymentCash, Amount: 55}

	_, err := f.service.CloseExamination(context.Background(), exam.ID, req, testActor())
	if !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestCancelInvoice(t *testing.T) {
	f := newServiceFixture()
	exam := f.addOpenExamination(t)
	req := &CloseRequest{Status: CloseInvoiced, PaymentMode: PaymentCash, Amount: 55}

	result, err := f.service.CloseExamination(context.Background(), exam.ID, req, testActor())
	if err != nil {
		t.Fatalf("close failed: %v", err)
	}

	note, err := f.service.CancelInvoice(context.Background(), result.Invoice.ID, testActor())
	if err != nil {
		t.Fatalf("CancelInvoice failed: %v", err)
	}

	if note.Amount != -55 {
		t.Errorf("expected amount -55, got %f", note.Amount)
	}
	if note.Type != TypeCreditNote {
		t.Errorf("expected creditnote, got %s", note.Type)
	}
	if note.Number != "10001" {
		t.Errorf("expected next number 10001, got %s", note.Number)
	}
	if len(f.invoices.items) != 2 {
		t.Errorf("original invoice must survive, got %d rows", len(f.invoices.items))
	}
	if len(f.events.recorded) != 2 {
		t.Errorf("expected 2 office events, got %d", len(f.events.recorded))
	}
}

func TestCancelInvoiceNotFound(t *testing.T) {
	f := newServiceFixture()
	if _, err := f.service.CancelInvoice(context.Background(), uuid.New(), testActor()); err == nil {
		t.Error("expected error for unknown invoice")
	}
}
