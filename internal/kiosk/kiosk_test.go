package kiosk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/seating-chart/internal/model"
)

func chart() *model.SeatingChart {
	return &model.SeatingChart{
		Tables: []model.Table{
			{ID: "t1", Name: "Table 1", Seats: 2, Guests: []model.Guest{
				{ID: "g1", Name: "Anna Zimmer"},
				{ID: "g2", Name: "Ben Adams"},
			}},
			{ID: "t2", Name: "Table 2", Seats: 8, Guests: []model.Guest{
				{ID: "g3", Name: "Chris  van Abbe"},
			}},
		},
		UnassignedGuests: []model.Guest{
			{ID: "g4", Name: "Dana ábel"},
			{ID: "g5", Name: "Prince"},
		},
	}
}

func entryIDs(es []Entry) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.ID
	}
	return out
}

func TestRosterAndFind(t *testing.T) {
	c := chart()
	r := Roster(c)
	require.Len(t, r, 5)
	assert.Equal(t, "Table 1", r[0].TableName)
	assert.Equal(t, "t2", r[2].TableID)
	assert.Empty(t, r[3].TableID)

	e, ok := Find(c, "g3")
	require.True(t, ok)
	assert.Equal(t, "Table 2", e.TableName)

	e, ok = Find(c, "g5")
	require.True(t, ok)
	assert.Empty(t, e.TableName)

	_, ok = Find(c, "nobody")
	assert.False(t, ok)

	tbl, ok := FindTable(c, "g2")
	require.True(t, ok)
	assert.Equal(t, "t1", tbl.ID)
	_, ok = FindTable(c, "g4")
	assert.False(t, ok)
}

func TestSearch(t *testing.T) {
	c := chart()
	assert.Equal(t, []string{"g1", "g3", "g4"}, entryIDs(Search(c, "AN")))
	assert.Equal(t, []string{"g3"}, entryIDs(Search(c, "van a")))
	assert.Equal(t, []string{"g4"}, entryIDs(Search(c, "ÁBEL")))
	assert.Empty(t, Search(c, "   "))
	assert.Empty(t, Search(c, "zzz"))
}

func TestSurnameAndInitials(t *testing.T) {
	assert.Equal(t, "Abbe", Surname("Chris  van Abbe "))
	assert.Equal(t, "Prince", Surname("Prince"))
	assert.Empty(t, Surname("   "))

	assert.Equal(t, "CA", Initials("chris van abbe"))
	assert.Equal(t, "P", Initials("prince"))
	assert.Empty(t, Initials(""))
}

func TestLettersAndByLetter(t *testing.T) {
	c := chart()
	assert.Equal(t, []string{"A", "P", "Z", "Á"}, Letters(c))

	assert.Equal(t, []string{"g3", "g2"}, entryIDs(ByLetter(c, "a")))
	assert.Equal(t, []string{"g4"}, entryIDs(ByLetter(c, "Á")))
	assert.Empty(t, ByLetter(c, "Q"))
	assert.Empty(t, ByLetter(c, ""))
}

func TestTables(t *testing.T) {
	s := Tables(chart())
	require.Len(t, s, 2)
	assert.Equal(t, TableSummary{ID: "t1", Name: "Table 1", Seats: 2, Occupied: 2, Full: true}, s[0])
	assert.False(t, s[1].Full)
	assert.Equal(t, 1, s[1].Occupied)
}
