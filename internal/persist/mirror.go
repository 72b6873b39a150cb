package persist

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/seating-chart/internal/seating"
)

const saveTimeout = 5 * time.Second

// Mirror writes committed charts to a Sink in the background.  Only the
// newest pending change is kept: when the sink is slow, intermediate
// snapshots are skipped and a change with an older version than the last
// written one is dropped.
type Mirror struct {
	sink Sink
	log  *zap.Logger

	mu      sync.Mutex
	closed  bool
	pending chan seating.Change
	done    chan struct{}

	last uint64 // owned by run
}

// NewMirror starts the background writer.  Register Observe with the
// store and call Close on shutdown.
func NewMirror(sink Sink, log *zap.Logger) *Mirror {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Mirror{
		sink:    sink,
		log:     log,
		pending: make(chan seating.Change, 1),
		done:    make(chan struct{}),
	}
	go m.run()
	return m
}

// Observe is a seating.Subscriber.  It never blocks on the sink.
func (m *Mirror) Observe(ch seating.Change) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	select {
	case m.pending <- ch:
		return
	default:
	}
	// Slot taken: keep whichever change is newer.
	select {
	case old := <-m.pending:
		if old.Version > ch.Version {
			ch = old
		}
	default:
	}
	m.pending <- ch
}

// Close stops accepting changes and waits for the pending write.
func (m *Mirror) Close() {
	m.mu.Lock()
	if !m.closed {
		m.closed = true
		close(m.pending)
	}
	m.mu.Unlock()
	<-m.done
}

func (m *Mirror) run() {
	defer close(m.done)
	for ch := range m.pending {
		if ch.Version <= m.last {
			continue
		}
		m.last = ch.Version
		m.write(ch)
	}
}

func (m *Mirror) write(ch seating.Change) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	var err error
	if ch.Chart == nil {
		err = m.sink.Delete(ctx)
	} else {
		err = m.sink.Save(ctx, ch.Chart)
	}
	if err != nil {
		m.log.Error("persist chart failed",
			zap.String("op", string(ch.Op)),
			zap.Uint64("version", ch.Version),
			zap.Error(err))
		return
	}
	m.log.Debug("chart persisted", zap.String("op", string(ch.Op)), zap.Uint64("version", ch.Version))
}

// Restore loads the stored chart into store.  It reports false when
// nothing was stored.  Call it before subscribing a Mirror so the restored
// chart is not written straight back.
func Restore(ctx context.Context, sink Sink, store *seating.Store) (bool, error) {
	c, err := sink.Load(ctx)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	store.SetChart(c)
	return true, nil
}
