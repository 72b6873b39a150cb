// Package importer turns guest lists (CSV or spreadsheet) and exported
// chart documents (JSON) into seating charts.
package importer

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/seating-chart/internal/model"
)

// ErrMalformed wraps every failure to parse an import file.  The caller
// shows it to the user and leaves the current chart alone.
var ErrMalformed = errors.New("malformed import file")

// tablePrefix is stripped from table labels before grouping, so "Table 4"
// and "4" end up at the same table.
const tablePrefix = "Table "

// Record is one row of a guest list.
type Record struct {
	Name       string
	Table      string
	MealChoice string
	Notes      string
}

// Header is the column layout of guest list files, both for import and
// export.
var Header = []string{"Name", "Table", "Meal choice", "Notes"}

// CSVTemplate is offered for download as a starting point.
const CSVTemplate = `Name,Table,Meal choice,Notes
John Doe,Table 1,Steak,
Jane Smith,Table 1,Chicken,Vegetarian option needed
Bob Johnson,Table 2,Veg,Nut allergy
`

// BuildChart creates a chart from guest records.  Records with a table
// label are grouped per label, in order of first appearance, into tables
// named "Table <label>" whose capacity is the group size but at least
// model.DefaultSeats.  Tables are laid out on the default grid.  Records
// without a label are unassigned; records without a name are dropped.
func BuildChart(records []Record, name string, now time.Time) *model.SeatingChart {
	if name == "" {
		name = model.DefaultChartName
	}
	var (
		order      []string
		groups     = map[string][]model.Guest{}
		unassigned = []model.Guest{}
	)
	for _, r := range records {
		if strings.TrimSpace(r.Name) == "" {
			continue
		}
		g := model.Guest{
			ID:         uuid.NewString(),
			Name:       strings.TrimSpace(r.Name),
			MealChoice: model.ParseMealChoice(r.MealChoice),
			Notes:      strings.TrimSpace(r.Notes),
		}
		label := normalizeLabel(r.Table)
		if label == "" {
			unassigned = append(unassigned, g)
			continue
		}
		if _, ok := groups[label]; !ok {
			order = append(order, label)
		}
		groups[label] = append(groups[label], g)
	}

	tables := make([]model.Table, 0, len(order))
	for i, label := range order {
		guests := groups[label]
		x, y := model.GridPosition(i)
		tables = append(tables, model.Table{
			ID:     uuid.NewString(),
			Name:   tablePrefix + label,
			Seats:  max(len(guests), model.DefaultSeats),
			X:      x,
			Y:      y,
			Guests: guests,
		})
	}
	return &model.SeatingChart{
		ID:               uuid.NewString(),
		Name:             name,
		Tables:           tables,
		UnassignedGuests: unassigned,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func normalizeLabel(label string) string {
	label = strings.TrimSpace(label)
	return strings.TrimSpace(strings.TrimPrefix(label, tablePrefix))
}

// recordsFromRows maps a header row plus data rows onto records.  Columns
// are found by header name, so their order does not matter and extra
// columns are ignored.
func recordsFromRows(rows [][]string) ([]Record, error) {
	if len(rows) == 0 {
		return nil, errors.New("missing header row")
	}
	col := map[string]int{}
	for i, h := range rows[0] {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := col[h]; !dup {
			col[h] = i
		}
	}
	nameIdx, ok := col["name"]
	if !ok {
		return nil, errors.New(`missing "Name" column`)
	}
	cell := func(row []string, key string) string {
		i, ok := col[key]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	out := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if nameIdx >= len(row) || strings.TrimSpace(row[nameIdx]) == "" {
			continue
		}
		out = append(out, Record{
			Name:       cell(row, "name"),
			Table:      cell(row, "table"),
			MealChoice: cell(row, "meal choice"),
			Notes:      cell(row, "notes"),
		})
	}
	return out, nil
}
