package medrecord

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/cliniq/cliniq/internal/domain/patient"
	"github.com/cliniq/cliniq/internal/platform/apperr"
	"github.com/cliniq/cliniq/internal/platform/auth"
)

// Handler provides the HTTP handler for clinical updates.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the medical record routes on the API group.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.PUT("/patients/:id/medical-record", h.Update)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var clinical patient.Clinical
	if err := c.Bind(&clinical); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	actor := auth.ActorFromContext(c.Request().Context())
	p, err := h.svc.Update(c.Request().Context(), actor, id, clinical)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, p)
}
