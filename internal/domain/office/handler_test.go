package office

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/osteoclinic/clinic/internal/platform/auth"
)

func newTestHandler(highest int64) (*Handler, *mockRepo, *echo.Echo) {
	repo := newMockRepo()
	return NewHandler(newTestService(repo, highest)), repo, echo.New()
}

func TestHandler_UpdateSettings(t *testing.T) {
	h, repo, e := newTestHandler(0)

	body := `{"office_siret":"123 456 789 00010","invoice_start_sequence":"15000"}`
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.UpdateSettings(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if repo.settings.InvoiceStartSequence != "15000" {
		t.Errorf("sequence not persisted, got %q", repo.settings.InvoiceStartSequence)
	}
}

func TestHandler_UpdateSettings_SequencePolicyForbidden(t *testing.T) {
	h, _, e := newTestHandler(10050)

	body := `{"invoice_start_sequence":"101"}`
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.UpdateSettings(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusForbidden {
		t.Errorf("expected 403 for rejected sequence override, got %v", err)
	}
}

func TestHandler_TherapistSettingsRequiresActor(t *testing.T) {
	h, _, e := newTestHandler(0)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.GetTherapistSettings(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without actor, got %v", err)
	}
}

func TestHandler_UpdateTherapistSettings(t *testing.T) {
	h, repo, e := newTestHandler(0)

	body := `{"adeli":"810000000","quality":"Osteopathe D.O."}`
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	ctx := auth.ContextWithActor(req.Context(), &auth.Actor{ID: 7, FirstName: "Anne", LastName: "Leroy", Role: "therapist"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req.WithContext(ctx), rec)

	if err := h.UpdateTherapistSettings(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if repo.therapist[7] == nil || repo.therapist[7].Adeli != "810000000" {
		t.Errorf("therapist settings not persisted for acting user")
	}
}
