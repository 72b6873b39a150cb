package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/seating-chart/internal/kiosk"
	"github.com/iliyamo/seating-chart/internal/model"
	"github.com/iliyamo/seating-chart/internal/seating"
)

// PlanningHandler serves the planner's editing API.  Mutations on a
// missing chart answer 409; a mutation that names an unknown guest or
// table is a no-op and answers 200 with the unchanged chart.
type PlanningHandler struct {
	Store *seating.Store
	Log   *zap.Logger
}

func NewPlanningHandler(store *seating.Store, log *zap.Logger) *PlanningHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &PlanningHandler{Store: store, Log: log}
}

// ----- DTOs -----

type startReq struct {
	Name string `json:"name"`
}

type addTableReq struct {
	Name  string `json:"name"`
	Seats *int   `json:"seats"`
}

type moveReq struct {
	TableID string `json:"table_id"`
}

type guestPatchReq struct {
	Name       *string `json:"name"`
	MealChoice *string `json:"meal_choice"`
	Notes      *string `json:"notes"`
}

type addTableResp struct {
	Table model.Table         `json:"table"`
	Chart *model.SeatingChart `json:"chart"`
}

// chartOr409 writes the current chart with status, or 409 when there is
// none.
func (h *PlanningHandler) chartOr409(c echo.Context, status int) error {
	chart, err := h.Store.Snapshot()
	if err != nil {
		return errorJSON(c, http.StatusConflict, "no chart")
	}
	return c.JSON(status, chart)
}

func (h *PlanningHandler) loaded() bool { return h.Store.Chart() != nil }

// GetChart returns the chart being planned.
func (h *PlanningHandler) GetChart(c echo.Context) error {
	chart, err := h.Store.Snapshot()
	if err != nil {
		return errorJSON(c, http.StatusNotFound, "no chart")
	}
	return c.JSON(http.StatusOK, chart)
}

// StartChart replaces the chart with an empty one.
func (h *PlanningHandler) StartChart(c echo.Context) error {
	var req startReq
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}
	chart := h.Store.StartEmpty(strings.TrimSpace(req.Name))
	h.Log.Info("chart started", zap.String("chart_id", chart.ID))
	return c.JSON(http.StatusCreated, chart)
}

// ClearChart drops the chart, persisted copy included.
func (h *PlanningHandler) ClearChart(c echo.Context) error {
	h.Store.Clear()
	return c.NoContent(http.StatusNoContent)
}

// ListTables summarizes table occupancy.
func (h *PlanningHandler) ListTables(c echo.Context) error {
	chart, err := h.Store.Snapshot()
	if err != nil {
		return errorJSON(c, http.StatusNotFound, "no chart")
	}
	return c.JSON(http.StatusOK, kiosk.Tables(chart))
}

// AddTable creates an empty table on the next grid slot.
func (h *PlanningHandler) AddTable(c echo.Context) error {
	var req addTableReq
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return errorJSON(c, http.StatusBadRequest, "name required")
	}
	seats := model.DefaultSeats
	if req.Seats != nil {
		if *req.Seats <= 0 {
			return errorJSON(c, http.StatusBadRequest, "seats must be positive")
		}
		seats = *req.Seats
	}
	if !h.loaded() {
		return errorJSON(c, http.StatusConflict, "no chart")
	}

	table, ok := h.Store.PlaceTable(req.Name, seats)
	if !ok {
		return errorJSON(c, http.StatusConflict, "no chart")
	}
	chart, err := h.Store.Snapshot()
	if err != nil {
		return errorJSON(c, http.StatusConflict, "no chart")
	}
	return c.JSON(http.StatusCreated, addTableResp{Table: table, Chart: chart})
}

// UpdateTable renames, resizes or moves a table.
func (h *PlanningHandler) UpdateTable(c echo.Context) error {
	var patch seating.TablePatch
	if err := c.Bind(&patch); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}
	if patch.Seats != nil && *patch.Seats <= 0 {
		return errorJSON(c, http.StatusBadRequest, "seats must be positive")
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return errorJSON(c, http.StatusBadRequest, "name must not be empty")
		}
		patch.Name = &name
	}
	if !h.loaded() {
		return errorJSON(c, http.StatusConflict, "no chart")
	}
	h.Store.UpdateTable(c.Param("id"), patch)
	return h.chartOr409(c, http.StatusOK)
}

// RemoveTable deletes a table; its guests become unassigned.
func (h *PlanningHandler) RemoveTable(c echo.Context) error {
	if !h.loaded() {
		return errorJSON(c, http.StatusConflict, "no chart")
	}
	h.Store.RemoveTable(c.Param("id"))
	return h.chartOr409(c, http.StatusOK)
}

// MoveGuest seats a guest at table_id, or unassigns them when it is empty.
func (h *PlanningHandler) MoveGuest(c echo.Context) error {
	var req moveReq
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}
	if !h.loaded() {
		return errorJSON(c, http.StatusConflict, "no chart")
	}
	h.Store.MoveGuest(c.Param("id"), strings.TrimSpace(req.TableID))
	return h.chartOr409(c, http.StatusOK)
}

// UpdateGuest edits a guest's name, meal choice or notes.
func (h *PlanningHandler) UpdateGuest(c echo.Context) error {
	var req guestPatchReq
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}
	var patch seating.GuestPatch
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return errorJSON(c, http.StatusBadRequest, "name must not be empty")
		}
		patch.Name = &name
	}
	if req.MealChoice != nil {
		meal := model.ParseMealChoice(*req.MealChoice)
		if meal == model.MealNone && strings.TrimSpace(*req.MealChoice) != "" {
			return errorJSON(c, http.StatusBadRequest, "unknown meal choice")
		}
		patch.MealChoice = &meal
	}
	patch.Notes = req.Notes
	if !h.loaded() {
		return errorJSON(c, http.StatusConflict, "no chart")
	}
	h.Store.UpdateGuest(c.Param("id"), patch)
	return h.chartOr409(c, http.StatusOK)
}
