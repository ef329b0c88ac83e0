package family

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cliniq/cliniq/internal/platform/apperr"
	"github.com/cliniq/cliniq/internal/platform/auth"
)

// Handler provides HTTP handlers for family views.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the family routes on the API group.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/families/:phone/history", h.FamilyHistory)
}

func (h *Handler) FamilyHistory(c echo.Context) error {
	actor := auth.ActorFromContext(c.Request().Context())
	view, err := h.svc.FamilyHistory(c.Request().Context(), actor, c.Param("phone"))
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, view)
}
