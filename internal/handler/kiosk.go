package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/seating-chart/internal/kiosk"
	"github.com/iliyamo/seating-chart/internal/model"
	"github.com/iliyamo/seating-chart/internal/seating"
)

// KioskHandler serves the read-only lookups used at the venue entrance.
// Every endpoint answers 404 while no chart is loaded.
type KioskHandler struct {
	Store *seating.Store
}

func NewKioskHandler(store *seating.Store) *KioskHandler {
	return &KioskHandler{Store: store}
}

func (h *KioskHandler) chart(c echo.Context) (*model.SeatingChart, error) {
	chart, err := h.Store.Snapshot()
	if err != nil {
		return nil, errorJSON(c, http.StatusNotFound, "no chart")
	}
	return chart, nil
}

// Chart returns the whole chart for the floor plan display.
func (h *KioskHandler) Chart(c echo.Context) error {
	chart, err := h.chart(c)
	if chart == nil {
		return err
	}
	return c.JSON(http.StatusOK, chart)
}

// Search matches q against guest names, ignoring case.
func (h *KioskHandler) Search(c echo.Context) error {
	chart, err := h.chart(c)
	if chart == nil {
		return err
	}
	return c.JSON(http.StatusOK, entries(kiosk.Search(chart, c.QueryParam("q"))))
}

// Letters lists the surname initials that have at least one guest.
func (h *KioskHandler) Letters(c echo.Context) error {
	chart, err := h.chart(c)
	if chart == nil {
		return err
	}
	return c.JSON(http.StatusOK, kiosk.Letters(chart))
}

// ByLetter lists the guests whose surname starts with :letter.
func (h *KioskHandler) ByLetter(c echo.Context) error {
	chart, err := h.chart(c)
	if chart == nil {
		return err
	}
	return c.JSON(http.StatusOK, entries(kiosk.ByLetter(chart, c.Param("letter"))))
}

// Guest tells one guest where they sit.
func (h *KioskHandler) Guest(c echo.Context) error {
	chart, err := h.chart(c)
	if chart == nil {
		return err
	}
	e, ok := kiosk.Find(chart, c.Param("id"))
	if !ok {
		return errorJSON(c, http.StatusNotFound, "guest not found")
	}
	return c.JSON(http.StatusOK, e)
}

// entries keeps empty results as [] rather than null.
func entries(es []kiosk.Entry) []kiosk.Entry {
	if es == nil {
		return []kiosk.Entry{}
	}
	return es
}
