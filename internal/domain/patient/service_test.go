package patient

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	items map[uuid.UUID]*Patient
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[uuid.UUID]*Patient)}
}

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	m.items[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("patient %s not found", id)
	}
	return p, nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Patient, int, error) {
	var result []*Patient
	for _, p := range m.items {
		result = append(result, p)
	}
	return result, len(result), nil
}

func TestCreatePatient(t *testing.T) {
	svc := NewService(newMockRepo())

	p := &Patient{
		FamilyName: "Dupont",
		FirstName:  "Claire",
		BirthDate:  time.Date(1988, 5, 12, 0, 0, 0, 0, time.UTC),
	}
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Error("expected id to be assigned")
	}
}

func TestCreatePatientValidation(t *testing.T) {
	svc := NewService(newMockRepo())

	if err := svc.Create(context.Background(), &Patient{BirthDate: time.Now().AddDate(-30, 0, 0)}); err == nil {
		t.Error("expected error for missing family name")
	}
	if err := svc.Create(context.Background(), &Patient{FamilyName: "Dupont"}); err == nil {
		t.Error("expected error for missing birth date")
	}
	if err := svc.Create(context.Background(), &Patient{
		FamilyName: "Dupont",
		BirthDate:  time.Now().AddDate(1, 0, 0),
	}); err == nil {
		t.Error("expected error for future birth date")
	}
}

func TestGetPatient(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	p := &Patient{FamilyName: "Martin", BirthDate: time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)}
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := svc.Get(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.FamilyName != "Martin" {
		t.Errorf("expected Martin, got %s", got.FamilyName)
	}

	if _, err := svc.Get(context.Background(), uuid.New()); err == nil {
		t.Error("expected error for unknown patient")
	}
}
