// Package queue defines the change events exchanged over the message broker
// and the consumer that records them.
package queue

import (
	"time"

	"github.com/iliyamo/seating-chart/internal/seating"
)

// ChangedQueueName is the durable queue chart change events go to.
const ChangedQueueName = "seating.changed"

// ChartChangedEvent is published after every committed chart mutation.  It
// carries identifiers and counts only; consumers that need the chart read
// it from the service.
type ChartChangedEvent struct {
	ChartID    string `json:"chart_id,omitempty"`
	Op         string `json:"op"`
	Version    uint64 `json:"version"`
	GuestID    string `json:"guest_id,omitempty"`
	TableID    string `json:"table_id,omitempty"`
	Tables     int    `json:"tables"`
	Guests     int    `json:"guests"`
	Unassigned int    `json:"unassigned"`
	ChangedAt  string `json:"changed_at"`
}

// EventFromChange summarizes a store change.  A clear yields zero counts
// and no chart id.
func EventFromChange(ch seating.Change) ChartChangedEvent {
	ev := ChartChangedEvent{
		Op:        string(ch.Op),
		Version:   ch.Version,
		GuestID:   ch.GuestID,
		TableID:   ch.TableID,
		ChangedAt: ch.At.UTC().Format(time.RFC3339),
	}
	if c := ch.Chart; c != nil {
		ev.ChartID = c.ID
		ev.Tables = len(c.Tables)
		ev.Guests = c.GuestCount()
		ev.Unassigned = len(c.UnassignedGuests)
	}
	return ev
}
