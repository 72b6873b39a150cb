// Package exporter writes a seating chart out as a kiosk document (JSON)
// or as a guest list (CSV or spreadsheet).
package exporter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/iliyamo/seating-chart/internal/importer"
	"github.com/iliyamo/seating-chart/internal/model"
)

// Format selects an export flavour.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/octet-stream"
}

// FileName is the download name for an export produced at now, e.g.
// seating-chart-2026-06-20.json or guest-list-2026-06-20.csv.
func FileName(f Format, now time.Time) string {
	day := now.UTC().Format("2006-01-02")
	if f == FormatJSON {
		return fmt.Sprintf("seating-chart-%s.json", day)
	}
	return fmt.Sprintf("guest-list-%s.%s", day, f)
}

// WriteJSON writes the full chart, indented by two spaces.  The output
// can be loaded back with importer.LoadJSON.
func WriteJSON(w io.Writer, c *model.SeatingChart) error {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal chart: %w", err)
	}
	_, err = w.Write(b)
	return err
}

// guestRows flattens the chart into guest list rows: seated guests table
// by table, then unassigned guests with an empty table column.
func guestRows(c *model.SeatingChart) [][]string {
	rows := make([][]string, 0, c.GuestCount())
	for _, t := range c.Tables {
		for _, g := range t.Guests {
			rows = append(rows, []string{g.Name, t.Name, string(g.MealChoice), g.Notes})
		}
	}
	for _, g := range c.UnassignedGuests {
		rows = append(rows, []string{g.Name, "", string(g.MealChoice), g.Notes})
	}
	return rows
}

// WriteCSV writes the guest list with every data field double-quoted.
func WriteCSV(w io.Writer, c *model.SeatingChart) error {
	lines := []string{strings.Join(importer.Header, ",")}
	for _, row := range guestRows(c) {
		quoted := make([]string, len(row))
		for i, f := range row {
			quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
		}
		lines = append(lines, strings.Join(quoted, ","))
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}
