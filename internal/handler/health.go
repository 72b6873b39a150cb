package handler // package handler holds the HTTP handlers for the kiosk and planning APIs

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/seating-chart/internal/seating"
)

// HealthHandler answers load balancer probes.
type HealthHandler struct {
	Store *seating.Store
}

func NewHealthHandler(store *seating.Store) *HealthHandler {
	return &HealthHandler{Store: store}
}

// Health always returns 200 while the process serves requests.  The body
// says whether a chart is loaded and at which version.
func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":       "ok",
		"chart_loaded": h.Store.Chart() != nil,
		"version":      h.Store.Version(),
	})
}
