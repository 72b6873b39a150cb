package importer

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/iliyamo/seating-chart/internal/model"
	"github.com/iliyamo/seating-chart/internal/seating"
)

var now = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func TestParseCSV(t *testing.T) {
	in := "Name,Table,Meal choice,Notes\n" +
		"John Doe,Table 1,Steak,\n" +
		"\n" +
		",Table 1,Veg,no name\n" +
		"\"Smith, Jane\",1,chicken,\"Needs \"\"quiet\"\" seat\"\n" +
		"Bob Johnson,,Veg\n"

	recs, err := ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, Record{Name: "John Doe", Table: "Table 1", MealChoice: "Steak"}, recs[0])
	assert.Equal(t, Record{Name: "Smith, Jane", Table: "1", MealChoice: "chicken", Notes: `Needs "quiet" seat`}, recs[1])
	assert.Equal(t, Record{Name: "Bob Johnson", MealChoice: "Veg"}, recs[2])
}

func TestParseCSV_ColumnOrderAndBOM(t *testing.T) {
	in := "\ufeffNotes, name ,TABLE\nwindow,Ann Lee,Table 7\n"
	recs, err := ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, Record{Name: "Ann Lee", Table: "Table 7", Notes: "window"}, recs[0])
}

func TestParseCSV_Malformed(t *testing.T) {
	tt := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"no name column", "Guest,Table\nA,1\n"},
		{"bad quoting", "Name,Table\n\"unterminated,1\n"},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(tc.in))
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestBuildChart(t *testing.T) {
	recs := []Record{
		{Name: "A One", Table: "Table 2"},
		{Name: "B Two", Table: "1", MealChoice: "Steak"},
		{Name: "C Three"},
		{Name: "D Four", Table: "2", Notes: " late "},
		{Name: "   "},
	}
	for i := 0; i < 9; i++ {
		recs = append(recs, Record{Name: "Crowd Member", Table: "Table 3"})
	}

	c := BuildChart(recs, "", now)
	require.NoError(t, seating.CheckRoster(c))
	assert.Equal(t, model.DefaultChartName, c.Name)
	assert.Equal(t, now, c.CreatedAt)
	assert.Equal(t, now, c.UpdatedAt)
	assert.NotEmpty(t, c.ID)

	require.Len(t, c.Tables, 3)
	assert.Equal(t, "Table 2", c.Tables[0].Name)
	assert.Equal(t, "Table 1", c.Tables[1].Name)
	assert.Equal(t, "Table 3", c.Tables[2].Name)

	assert.Equal(t, []string{"A One", "D Four"}, names(c.Tables[0].Guests))
	assert.Equal(t, "late", c.Tables[0].Guests[1].Notes)
	assert.Equal(t, model.MealSteak, c.Tables[1].Guests[0].MealChoice)

	assert.Equal(t, model.DefaultSeats, c.Tables[0].Seats)
	assert.Equal(t, 9, c.Tables[2].Seats)

	assert.Equal(t, 100.0, c.Tables[0].X)
	assert.Equal(t, 350.0, c.Tables[1].X)
	assert.Equal(t, 600.0, c.Tables[2].X)

	assert.Equal(t, []string{"C Three"}, names(c.UnassignedGuests))
	assert.Equal(t, 12, c.GuestCount())
}

func TestBuildChart_Empty(t *testing.T) {
	c := BuildChart(nil, "Gala", now)
	assert.Equal(t, "Gala", c.Name)
	assert.NotNil(t, c.Tables)
	assert.NotNil(t, c.UnassignedGuests)
	assert.Zero(t, c.GuestCount())
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Name", "Table", "Meal choice", "Notes"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"Ann Lee", "Table 5", "Veg", "vegan"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"", "Table 5"}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]any{"Tom Ray"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	recs, err := ParseXLSX(buf)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, Record{Name: "Ann Lee", Table: "Table 5", MealChoice: "Veg", Notes: "vegan"}, recs[0])
	assert.Equal(t, Record{Name: "Tom Ray"}, recs[1])
}

func TestParseXLSX_Malformed(t *testing.T) {
	_, err := ParseXLSX(bytes.NewReader([]byte("not a workbook")))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestLoadJSON(t *testing.T) {
	doc := `{
  "id": "abc",
  "name": "Kiosk",
  "tables": [
    {"id": "t1", "name": "Table 1", "seats": 8, "x": 100, "y": 100,
     "guests": [{"id": "g1", "name": "Ann Lee", "table": "Table 1", "mealChoice": "Veg"}]}
  ],
  "unassignedGuests": [{"id": "g2", "name": "Tom Ray"}],
  "createdAt": "2026-05-01T12:00:00.000Z",
  "updatedAt": "2026-05-01T12:30:00.000Z"
}`
	c, err := LoadJSON(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "Kiosk", c.Name)
	require.Len(t, c.Tables, 1)
	assert.Equal(t, model.MealVeg, c.Tables[0].Guests[0].MealChoice)
	assert.Equal(t, "g2", c.UnassignedGuests[0].ID)
	assert.Equal(t, 30*time.Minute, c.UpdatedAt.Sub(c.CreatedAt))
}

func TestLoadJSON_Malformed(t *testing.T) {
	_, err := LoadJSON(strings.NewReader(`{"tables": [`))
	assert.ErrorIs(t, err, ErrMalformed)

	dup := `{"tables":[{"id":"t","seats":2,"guests":[{"id":"g"}]}],"unassignedGuests":[{"id":"g"}]}`
	_, err = LoadJSON(strings.NewReader(dup))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestCSVTemplateRoundTrip(t *testing.T) {
	recs, err := ParseCSV(strings.NewReader(CSVTemplate))
	require.NoError(t, err)
	c := BuildChart(recs, "", now)
	require.Len(t, c.Tables, 2)
	assert.Len(t, c.Tables[0].Guests, 2)
}

func names(gs []model.Guest) []string {
	out := make([]string, len(gs))
	for i, g := range gs {
		out[i] = g.Name
	}
	return out
}
