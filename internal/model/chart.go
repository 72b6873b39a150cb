package model

import "time"

// DefaultChartName is used when a chart is created without a name.
const DefaultChartName = "My Wedding Seating Chart"

// SeatingChart is the whole seating plan.  The guests of all tables plus
// UnassignedGuests form the roster; no guest id appears twice in it.
//
// Fields:
//  ID               – opaque identifier of the chart.
//  Name             – title of the plan.
//  Tables           – tables in canvas/creation order, unique ids.
//  UnassignedGuests – guests without a table.
//  CreatedAt        – when the chart was imported or started.
//  UpdatedAt        – time of the last committed mutation.
type SeatingChart struct {
    ID               string    `json:"id"`
    Name             string    `json:"name"`
    Tables           []Table   `json:"tables"`
    UnassignedGuests []Guest   `json:"unassignedGuests"`
    CreatedAt        time.Time `json:"createdAt"`
    UpdatedAt        time.Time `json:"updatedAt"`
}

// Clone returns a deep copy that shares no slices with c.
func (c *SeatingChart) Clone() *SeatingChart {
    if c == nil {
        return nil
    }
    out := *c
    out.Tables = make([]Table, len(c.Tables))
    for i, t := range c.Tables {
        t.Guests = append([]Guest(nil), t.Guests...)
        if t.Guests == nil {
            t.Guests = []Guest{}
        }
        out.Tables[i] = t
    }
    out.UnassignedGuests = append([]Guest(nil), c.UnassignedGuests...)
    if out.UnassignedGuests == nil {
        out.UnassignedGuests = []Guest{}
    }
    return &out
}

// FindTable returns the index of the table with the given id, or -1.
func (c *SeatingChart) FindTable(tableID string) int {
    for i := range c.Tables {
        if c.Tables[i].ID == tableID {
            return i
        }
    }
    return -1
}

// FindGuest locates a guest, scanning the tables in order and then the
// unassigned list.  tableIdx is -1 when the guest is unassigned; ok is
// false when the id is not in the chart.
func (c *SeatingChart) FindGuest(guestID string) (tableIdx, guestIdx int, ok bool) {
    for ti := range c.Tables {
        for gi := range c.Tables[ti].Guests {
            if c.Tables[ti].Guests[gi].ID == guestID {
                return ti, gi, true
            }
        }
    }
    for gi := range c.UnassignedGuests {
        if c.UnassignedGuests[gi].ID == guestID {
            return -1, gi, true
        }
    }
    return -1, -1, false
}

// TableOf returns the table a guest is seated at, or nil when the guest
// is unassigned or unknown.
func (c *SeatingChart) TableOf(guestID string) *Table {
    ti, _, ok := c.FindGuest(guestID)
    if !ok || ti < 0 {
        return nil
    }
    return &c.Tables[ti]
}

// Roster lists every guest: seated guests table by table, then the
// unassigned ones.
func (c *SeatingChart) Roster() []Guest {
    out := make([]Guest, 0, c.GuestCount())
    for _, t := range c.Tables {
        out = append(out, t.Guests...)
    }
    return append(out, c.UnassignedGuests...)
}

// GuestCount is the size of the roster.
func (c *SeatingChart) GuestCount() int {
    n := len(c.UnassignedGuests)
    for _, t := range c.Tables {
        n += len(t.Guests)
    }
    return n
}
