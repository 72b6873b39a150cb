// Package kiosk answers the read-only questions asked at the venue
// entrance: where is this guest sitting, who matches what I typed, and
// whose surname starts with this letter.
package kiosk

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/iliyamo/seating-chart/internal/model"
)

// Entry is a guest together with the table they are seated at.  TableID
// and TableName are empty for unassigned guests.
type Entry struct {
	model.Guest
	TableID   string `json:"tableId,omitempty"`
	TableName string `json:"tableName,omitempty"`
}

// TableSummary describes the occupancy of one table.
type TableSummary struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Seats    int     `json:"seats"`
	Occupied int     `json:"occupied"`
	Full     bool    `json:"full"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

var fold = cases.Fold()

// Roster lists every guest with their table: seated guests table by
// table, then unassigned guests.
func Roster(c *model.SeatingChart) []Entry {
	out := make([]Entry, 0, c.GuestCount())
	for _, t := range c.Tables {
		for _, g := range t.Guests {
			out = append(out, Entry{Guest: g, TableID: t.ID, TableName: t.Name})
		}
	}
	for _, g := range c.UnassignedGuests {
		out = append(out, Entry{Guest: g})
	}
	return out
}

// FindTable returns the table seating guestID.
func FindTable(c *model.SeatingChart, guestID string) (*model.Table, bool) {
	t := c.TableOf(guestID)
	return t, t != nil
}

// Find returns the roster entry for guestID.
func Find(c *model.SeatingChart, guestID string) (Entry, bool) {
	ti, gi, ok := c.FindGuest(guestID)
	switch {
	case !ok:
		return Entry{}, false
	case ti < 0:
		return Entry{Guest: c.UnassignedGuests[gi]}, true
	}
	t := c.Tables[ti]
	return Entry{Guest: t.Guests[gi], TableID: t.ID, TableName: t.Name}, true
}

// Search returns the guests whose name contains query, ignoring case.
// A blank query matches nobody.
func Search(c *model.SeatingChart, query string) []Entry {
	q := fold.String(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []Entry
	for _, e := range Roster(c) {
		if strings.Contains(fold.String(e.Name), q) {
			out = append(out, e)
		}
	}
	return out
}

// Surname is the last whitespace-separated word of a full name.
func Surname(name string) string {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

// Initials returns the upper-cased first letters of the first and last
// word of name, or a single letter for one-word names.
func Initials(name string) string {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return firstLetter(parts[0])
	}
	return firstLetter(parts[0]) + firstLetter(parts[len(parts)-1])
}

func firstLetter(s string) string {
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return ""
	}
	return string(unicode.ToUpper(r))
}

// Letters returns the sorted set of surname initials present in the
// roster.
func Letters(c *model.SeatingChart) []string {
	seen := map[string]struct{}{}
	for _, g := range c.Roster() {
		if l := firstLetter(Surname(g.Name)); l != "" {
			seen[l] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for l := range seen {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// ByLetter returns the guests whose surname starts with letter, ordered
// by surname using English collation.
func ByLetter(c *model.SeatingChart, letter string) []Entry {
	letter = firstLetter(strings.TrimSpace(letter))
	if letter == "" {
		return nil
	}
	var out []Entry
	for _, e := range Roster(c) {
		if firstLetter(Surname(e.Name)) == letter {
			out = append(out, e)
		}
	}
	col := collate.New(language.English)
	sort.SliceStable(out, func(i, j int) bool {
		return col.CompareString(Surname(out[i].Name), Surname(out[j].Name)) < 0
	})
	return out
}

// Tables summarizes the occupancy of every table.
func Tables(c *model.SeatingChart) []TableSummary {
	out := make([]TableSummary, 0, len(c.Tables))
	for _, t := range c.Tables {
		out = append(out, TableSummary{
			ID:       t.ID,
			Name:     t.Name,
			Seats:    t.Seats,
			Occupied: len(t.Guests),
			Full:     t.IsFull(),
			X:        t.X,
			Y:        t.Y,
		})
	}
	return out
}
