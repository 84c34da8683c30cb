package event

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/osteoclinic/clinic/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/events", h.List)
}

func (h *Handler) List(c echo.Context) error {
	params := pagination.FromContext(c)
	events, total, err := h.service.List(c.Request().Context(), params.Limit, params.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list events")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(events, total, params))
}
