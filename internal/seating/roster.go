package seating

import (
	"fmt"

	"github.com/iliyamo/seating-chart/internal/model"
)

// CheckRoster verifies the structural invariants of a chart: table ids
// are unique, every table has a positive capacity and no guest id occurs
// twice across the tables and the unassigned list.  Occupancy above
// capacity is allowed.
func CheckRoster(c *model.SeatingChart) error {
	if c == nil {
		return nil
	}
	tables := make(map[string]struct{}, len(c.Tables))
	guests := make(map[string]string, c.GuestCount())
	seen := func(g model.Guest, where string) error {
		if g.ID == "" {
			return fmt.Errorf("guest %q in %s has no id", g.Name, where)
		}
		if prev, dup := guests[g.ID]; dup {
			return fmt.Errorf("guest id %q appears in %s and %s", g.ID, prev, where)
		}
		guests[g.ID] = where
		return nil
	}
	for _, t := range c.Tables {
		if t.ID == "" {
			return fmt.Errorf("table %q has no id", t.Name)
		}
		if _, dup := tables[t.ID]; dup {
			return fmt.Errorf("table id %q appears twice", t.ID)
		}
		tables[t.ID] = struct{}{}
		if t.Seats <= 0 {
			return fmt.Errorf("table %q has %d seats", t.ID, t.Seats)
		}
		for _, g := range t.Guests {
			if err := seen(g, "table "+t.ID); err != nil {
				return err
			}
		}
	}
	for _, g := range c.UnassignedGuests {
		if err := seen(g, "unassigned"); err != nil {
			return err
		}
	}
	return nil
}
