package invoicing

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/osteoclinic/clinic/internal/platform/auth"
	"github.com/osteoclinic/clinic/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/examinations/:id/close", h.CloseExamination)
	api.GET("/invoices", h.List)
	api.GET("/invoices/:id", h.Get)
	api.POST("/invoices/:id/cancel", h.CancelInvoice)
}

func (h *Handler) CloseExamination(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid examination id")
	}

	var req CloseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	actor := auth.ActorFromContext(c.Request().Context())
	result, err := h.service.CloseExamination(c.Request().Context(), id, &req, actor)
	if err != nil {
		var verrs ValidationErrors
		switch {
		case errors.As(err, &verrs):
			return c.JSON(http.StatusBadRequest, map[string]any{"errors": verrs})
		case errors.Is(err, ErrAlreadyInvoiced):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, ErrConflict):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case strings.Contains(err.Error(), "not found"):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to close examination")
		}
	}

	body := map[string]any{"examination": result.Examination}
	if result.Invoice != nil {
		body["invoice"] = result.Invoice
		if result.Invoice.Status == StatusWaitingForPayment {
			body["message"] = "waiting for payment"
		}
	}
	return c.JSON(http.StatusOK, body)
}

func (h *Handler) CancelInvoice(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid invoice id")
	}

	actor := auth.ActorFromContext(c.Request().Context())
	note, err := h.service.CancelInvoice(c.Request().Context(), id, actor)
	if err != nil {
		switch {
		case errors.Is(err, ErrConflict):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case strings.Contains(err.Error(), "not found"):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to cancel invoice")
		}
	}
	return c.JSON(http.StatusCreated, note)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid invoice id")
	}

	inv, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "invoice not found")
	}
	return c.JSON(http.StatusOK, inv)
}

func (h *Handler) List(c echo.Context) error {
	params := pagination.FromContext(c)
	invoices, total, err := h.service.List(c.Request().Context(), params.Limit, params.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list invoices")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(invoices, total, params))
}
