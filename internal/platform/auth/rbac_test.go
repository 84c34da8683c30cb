package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func contextWithRole(e *echo.Echo, role string) echo.Context {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if role != "" {
		ctx := ContextWithActor(req.Context(), &Actor{ID: 1, Role: role})
		req = req.WithContext(ctx)
	}
	return e.NewContext(req, httptest.NewRecorder())
}

func TestRequireRole_NoActor(t *testing.T) {
	e := echo.New()
	h := RequireRole("therapist")(okHandler)

	err := h(contextWithRole(e, ""))
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without actor, got %v", err)
	}
}

func TestRequireRole_Matching(t *testing.T) {
	e := echo.New()
	h := RequireRole("therapist", "secretary")(okHandler)

	for _, role := range []string{"therapist", "secretary"} {
		if err := h(contextWithRole(e, role)); err != nil {
			t.Errorf("expected role %s to pass, got %v", role, err)
		}
	}
}

func TestRequireRole_AdminAlwaysPasses(t *testing.T) {
	e := echo.New()
	h := RequireRole("therapist")(okHandler)

	if err := h(contextWithRole(e, "admin")); err != nil {
		t.Errorf("expected admin to pass, got %v", err)
	}
}

func TestRequireRole_Forbidden(t *testing.T) {
	e := echo.New()
	h := RequireRole("therapist")(okHandler)

	err := h(contextWithRole(e, "secretary"))
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusForbidden {
		t.Errorf("expected 403 for wrong role, got %v", err)
	}
}
