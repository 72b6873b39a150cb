package queue_publisher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	q "github.com/iliyamo/seating-chart/internal/queue"
	"github.com/iliyamo/seating-chart/internal/seating"
)

type recorder struct {
	mu  sync.Mutex
	ops []string
	err error
}

func (r *recorder) publish(_ context.Context, ev q.ChartChangedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, ev.Op)
	return r.err
}

func TestNewNotifier_DisabledWithoutURL(t *testing.T) {
	n := NewNotifier("", nil)
	assert.Nil(t, n)
	n.Observe(seating.Change{Op: seating.OpSet})
	n.Close()
}

func TestNotifier_PublishesInCommitOrder(t *testing.T) {
	rec := &recorder{}
	n := newNotifier(rec.publish, nil)

	store := seating.New(nil, seating.WithClock(func() time.Time { return time.Unix(0, 0) }))
	store.Subscribe(n.Observe)
	store.StartEmpty("Test")
	table := store.NewTable("Head", 4)
	store.AddTable(table)
	store.RemoveTable(table.ID)
	store.Clear()
	n.Close()

	assert.Equal(t, []string{"set", "add_table", "remove_table", "clear"}, rec.ops)
}

func TestNotifier_LogsPublishErrors(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	rec := &recorder{err: errors.New("broker down")}
	n := newNotifier(rec.publish, zap.New(core))

	n.Observe(seating.Change{Op: seating.OpSet, Version: 1})
	n.Close()
	n.Observe(seating.Change{Op: seating.OpSet, Version: 2})

	assert.Equal(t, []string{"set"}, rec.ops)
	assert.Equal(t, 1, logs.FilterMessage("publish change event failed").Len())
}
