// Package seating owns the in-memory seating chart and the mutations that
// keep its guests, tables and unassigned list consistent.  Every mutation
// clones the current chart, edits the clone and swaps it in, so readers and
// subscribers only ever see complete charts.
package seating

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iliyamo/seating-chart/internal/model"
)

// ErrNoChart is returned by Snapshot when no chart has been loaded or
// started yet.
var ErrNoChart = errors.New("no chart loaded")

// Op names the mutation that produced a Change.
type Op string

const (
	OpSet         Op = "set"
	OpClear       Op = "clear"
	OpAddTable    Op = "add_table"
	OpRemoveTable Op = "remove_table"
	OpUpdateTable Op = "update_table"
	OpMoveGuest   Op = "move_guest"
	OpUpdateGuest Op = "update_guest"
)

// Change describes one committed mutation.  Chart is the committed
// snapshot (nil after a clear) and must be treated as read-only.
type Change struct {
	Op      Op
	Version uint64
	Chart   *model.SeatingChart
	GuestID string
	TableID string
	At      time.Time
}

// Subscriber is notified after every committed mutation.  It runs on the
// caller's goroutine, outside the store lock, and must not block.  Changes
// reach every subscriber in version order; a subscriber must not call
// back into the store.
type Subscriber func(Change)

// TablePatch carries the table fields to overwrite; nil fields are kept.
type TablePatch struct {
	Name  *string  `json:"name,omitempty"`
	Seats *int     `json:"seats,omitempty"`
	X     *float64 `json:"x,omitempty"`
	Y     *float64 `json:"y,omitempty"`
}

// GuestPatch carries the guest fields to overwrite; nil fields are kept.
type GuestPatch struct {
	Name       *string           `json:"name,omitempty"`
	MealChoice *model.MealChoice `json:"meal_choice,omitempty"`
	Notes      *string           `json:"notes,omitempty"`
}

// Store holds zero or one SeatingChart.
type Store struct {
	mu      sync.Mutex
	chart   *model.SeatingChart
	version uint64
	subs    []Subscriber
	now     func() time.Time
	log     *zap.Logger

	// notifyMu is taken before mu is released on commit and held while
	// subscribers run, so fan-out follows commit order.
	notifyMu sync.Mutex
	// epoch tells this process's versions apart from a previous run's.
	epoch string
}

// Option customizes a Store.
type Option func(*Store)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns an empty store.
func New(log *zap.Logger, opts ...Option) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{now: func() time.Time { return time.Now().UTC() }, log: log, epoch: uuid.NewString()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Subscribe registers fn for all future changes.
func (s *Store) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Chart returns a deep copy of the current chart, or nil.
func (s *Store) Chart() *model.SeatingChart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chart.Clone()
}

// Snapshot is Chart with ErrNoChart instead of a nil result.
func (s *Store) Snapshot() (*model.SeatingChart, error) {
	c := s.Chart()
	if c == nil {
		return nil, ErrNoChart
	}
	return c, nil
}

// Version increases by one with every committed mutation.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Revision identifies the current chart state across restarts: it pairs
// the version with a per-process epoch, since versions start over on
// every boot.
func (s *Store) Revision() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch + ":" + strconv.FormatUint(s.version, 10)
}

// SetChart replaces the whole aggregate.  A nil chart clears it.  The
// chart is copied, so the caller keeps ownership of its argument.
func (s *Store) SetChart(chart *model.SeatingChart) {
	op := OpSet
	if chart == nil {
		op = OpClear
	}
	s.mu.Lock()
	s.chart = chart.Clone()
	s.version++
	s.log.Info("chart replaced", zap.String("op", string(op)), zap.Uint64("version", s.version))
	s.commitLocked(Change{Op: op, Version: s.version, Chart: s.chart, At: s.now()})
}

// Clear drops the chart.  Subscribers see OpClear and purge their copies.
func (s *Store) Clear() { s.SetChart(nil) }

// StartEmpty replaces the aggregate with a chart that has no tables and
// no guests.
func (s *Store) StartEmpty(name string) *model.SeatingChart {
	if name == "" {
		name = model.DefaultChartName
	}
	now := s.now()
	c := &model.SeatingChart{
		ID:               uuid.NewString(),
		Name:             name,
		Tables:           []model.Table{},
		UnassignedGuests: []model.Guest{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	s.SetChart(c)
	return c.Clone()
}

// NewTable builds an empty table with a fresh id, placed on the next free
// slot of the default grid as of now.  It does not add the table to the
// chart; PlaceTable does both in one commit.
func (s *Store) NewTable(name string, seats int) model.Table {
	s.mu.Lock()
	n := 0
	if s.chart != nil {
		n = len(s.chart.Tables)
	}
	s.mu.Unlock()
	return newTable(name, seats, n)
}

func newTable(name string, seats, index int) model.Table {
	if seats <= 0 {
		seats = model.DefaultSeats
	}
	x, y := model.GridPosition(index)
	return model.Table{ID: uuid.NewString(), Name: name, Seats: seats, X: x, Y: y, Guests: []model.Guest{}}
}

// PlaceTable creates an empty table and adds it on the grid slot that
// follows the last table at commit time.  It reports false without a
// chart.
func (s *Store) PlaceTable(name string, seats int) (model.Table, bool) {
	var placed model.Table
	ok := s.mutate(OpAddTable, "", "", func(c *model.SeatingChart) bool {
		placed = newTable(name, seats, len(c.Tables))
		c.Tables = append(c.Tables, placed)
		return true
	})
	return placed, ok
}

// AddTable appends table to the chart.  New tables start empty; any
// guests on the argument are ignored.  A table whose id is already in use
// is rejected.
func (s *Store) AddTable(table model.Table) bool {
	return s.mutate(OpAddTable, "", table.ID, func(c *model.SeatingChart) bool {
		if c.FindTable(table.ID) >= 0 {
			s.log.Warn("add table: duplicate id", zap.String("table_id", table.ID))
			return false
		}
		table.Guests = []model.Guest{}
		c.Tables = append(c.Tables, table)
		return true
	})
}

// RemoveTable deletes a table and appends its guests, in seating order,
// to the unassigned list.
func (s *Store) RemoveTable(tableID string) bool {
	return s.mutate(OpRemoveTable, "", tableID, func(c *model.SeatingChart) bool {
		i := c.FindTable(tableID)
		if i < 0 {
			return false
		}
		c.UnassignedGuests = append(c.UnassignedGuests, c.Tables[i].Guests...)
		c.Tables = append(c.Tables[:i], c.Tables[i+1:]...)
		return true
	})
}

// UpdateTable merges patch into the table.  Seats is taken as given even
// when it drops below the number of seated guests.
func (s *Store) UpdateTable(tableID string, patch TablePatch) bool {
	return s.mutate(OpUpdateTable, "", tableID, func(c *model.SeatingChart) bool {
		i := c.FindTable(tableID)
		if i < 0 {
			return false
		}
		t := &c.Tables[i]
		if patch.Name != nil {
			t.Name = *patch.Name
		}
		if patch.Seats != nil {
			t.Seats = *patch.Seats
		}
		if patch.X != nil {
			t.X = *patch.X
		}
		if patch.Y != nil {
			t.Y = *patch.Y
		}
		return true
	})
}

// MoveGuest relocates a guest.  An empty targetTableID unassigns the
// guest.  When the target table is unknown or already full the guest
// lands in the unassigned list instead; this is not an error.  The guest
// is removed from its old place before the capacity check, so moving a
// guest onto the table they already occupy always succeeds.
func (s *Store) MoveGuest(guestID, targetTableID string) bool {
	return s.mutate(OpMoveGuest, guestID, targetTableID, func(c *model.SeatingChart) bool {
		ti, gi, ok := c.FindGuest(guestID)
		if !ok {
			return false
		}
		var guest model.Guest
		if ti >= 0 {
			guest = c.Tables[ti].Guests[gi]
			c.Tables[ti].Guests = append(c.Tables[ti].Guests[:gi], c.Tables[ti].Guests[gi+1:]...)
		} else {
			guest = c.UnassignedGuests[gi]
			c.UnassignedGuests = append(c.UnassignedGuests[:gi], c.UnassignedGuests[gi+1:]...)
		}

		if targetTableID != "" {
			if i := c.FindTable(targetTableID); i >= 0 && !c.Tables[i].IsFull() {
				c.Tables[i].Guests = append(c.Tables[i].Guests, guest)
				return true
			}
			s.log.Info("move guest: target full or missing, guest unassigned",
				zap.String("guest_id", guestID), zap.String("table_id", targetTableID))
		}
		c.UnassignedGuests = append(c.UnassignedGuests, guest)
		return true
	})
}

// UpdateGuest merges patch into the one guest record with the given id.
func (s *Store) UpdateGuest(guestID string, patch GuestPatch) bool {
	return s.mutate(OpUpdateGuest, guestID, "", func(c *model.SeatingChart) bool {
		ti, gi, ok := c.FindGuest(guestID)
		if !ok {
			return false
		}
		g := &c.UnassignedGuests
		if ti >= 0 {
			g = &c.Tables[ti].Guests
		}
		guest := &(*g)[gi]
		if patch.Name != nil {
			guest.Name = *patch.Name
		}
		if patch.MealChoice != nil {
			guest.MealChoice = *patch.MealChoice
		}
		if patch.Notes != nil {
			guest.Notes = *patch.Notes
		}
		return true
	})
}

// mutate runs fn on a private clone and commits the clone when fn reports
// a change.  Without a chart, or when fn declines, nothing is committed
// and nobody is notified.
func (s *Store) mutate(op Op, guestID, tableID string, fn func(*model.SeatingChart) bool) bool {
	s.mu.Lock()
	if s.chart == nil {
		s.mu.Unlock()
		s.log.Debug("mutation without chart ignored", zap.String("op", string(op)))
		return false
	}
	next := s.chart.Clone()
	if !fn(next) {
		s.mu.Unlock()
		s.log.Debug("mutation was a no-op", zap.String("op", string(op)),
			zap.String("guest_id", guestID), zap.String("table_id", tableID))
		return false
	}
	next.UpdatedAt = s.now()
	s.chart = next
	s.version++
	if tableID == "" && op == OpAddTable {
		tableID = next.Tables[len(next.Tables)-1].ID
	}
	s.commitLocked(Change{Op: op, Version: s.version, Chart: next, GuestID: guestID, TableID: tableID, At: next.UpdatedAt})
	return true
}

// commitLocked releases mu and notifies subscribers of ch.  The caller
// holds mu.
func (s *Store) commitLocked(ch Change) {
	subs := append([]Subscriber(nil), s.subs...)
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()
	for _, fn := range subs {
		fn(ch)
	}
}
