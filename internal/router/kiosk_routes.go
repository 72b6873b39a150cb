package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/seating-chart/internal/handler"
)

// RegisterKiosk registers the public lookup endpoints under /v1/kiosk.
// The middlewares given (rate limit, then cache) wrap every kiosk route.
func RegisterKiosk(e *echo.Echo, h *handler.KioskHandler, mws ...echo.MiddlewareFunc) {
	g := e.Group("/v1/kiosk", mws...)
	g.GET("/chart", h.Chart)
	g.GET("/search", h.Search)
	g.GET("/letters", h.Letters)
	g.GET("/letters/:letter", h.ByLetter)
	g.GET("/guests/:id", h.Guest)
}
