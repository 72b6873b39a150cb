package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/seating-chart/internal/handler"
	"github.com/iliyamo/seating-chart/internal/middleware"
	"github.com/iliyamo/seating-chart/internal/utils"
)

// RegisterPlanning registers the editing API under /v1.  Every route
// requires a valid JWT with the PLANNER role.
func RegisterPlanning(e *echo.Echo, h *handler.PlanningHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(utils.RolePlanner),
	)

	g.GET("/chart", h.GetChart)
	g.POST("/chart", h.StartChart)
	g.DELETE("/chart", h.ClearChart)
	g.POST("/chart/import/:format", h.Import)
	g.GET("/chart/export/:format", h.Export)
	g.GET("/chart/template.csv", h.Template)

	g.GET("/tables", h.ListTables)
	g.POST("/tables", h.AddTable)
	g.PATCH("/tables/:id", h.UpdateTable)
	g.DELETE("/tables/:id", h.RemoveTable)

	g.POST("/guests/:id/move", h.MoveGuest)
	g.PATCH("/guests/:id", h.UpdateGuest)
}
