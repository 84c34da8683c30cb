package office

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/osteoclinic/clinic/internal/platform/auth"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/office-settings", h.GetSettings)
	api.PUT("/office-settings", h.UpdateSettings, auth.RequireRole("admin"))
	api.GET("/therapist-settings", h.GetTherapistSettings)
	api.PUT("/therapist-settings", h.UpdateTherapistSettings)
}

func (h *Handler) GetSettings(c echo.Context) error {
	settings, err := h.service.GetSettings(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load office settings")
	}
	return c.JSON(http.StatusOK, settings)
}

func (h *Handler) UpdateSettings(c echo.Context) error {
	var in Settings
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	updated, err := h.service.UpdateSettings(c.Request().Context(), &in)
	if err != nil {
		if errors.Is(err, ErrSequencePolicy) {
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update office settings")
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) GetTherapistSettings(c echo.Context) error {
	actor := auth.ActorFromContext(c.Request().Context())
	if actor == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	settings, err := h.service.GetTherapistSettings(c.Request().Context(), actor.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load therapist settings")
	}
	return c.JSON(http.StatusOK, settings)
}

func (h *Handler) UpdateTherapistSettings(c echo.Context) error {
	actor := auth.ActorFromContext(c.Request().Context())
	if actor == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	var in TherapistSettings
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	updated, err := h.service.UpdateTherapistSettings(c.Request().Context(), actor.ID, &in)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update therapist settings")
	}
	return c.JSON(http.StatusOK, updated)
}
