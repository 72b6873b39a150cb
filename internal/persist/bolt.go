package persist

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
	"go.opentelemetry.io/otel/trace"

	"github.com/iliyamo/seating-chart/internal/model"
)

const bucketChart = "seating_chart"

// BoltSink keeps the chart in a local bbolt file.
type BoltSink struct {
	db  *bolt.DB
	key []byte
}

// OpenBolt opens (creating when needed) the database file at path.
func OpenBolt(path, key string) (*BoltSink, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt db: %w", err)
	}
	s, err := NewBoltSink(db, key)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewBoltSink uses an already opened database.
func NewBoltSink(db *bolt.DB, key string) (*BoltSink, error) {
	if key == "" {
		key = DefaultKey
	}
	return &BoltSink{db: db, key: []byte(key)}, db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketChart))
		return err
	})
}

// Close releases the database file.
func (s *BoltSink) Close() error { return s.db.Close() }

func (s *BoltSink) Save(ctx context.Context, c *model.SeatingChart) error {
	var span trace.Span
	ctx, span = tracer().Start(ctx, "BoltSink.Save")
	defer span.End()

	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		return err
	}
	b, err := encode(c)
	if err != nil {
		span.RecordError(err)
		return err
	}
	span.AddEvent("Update bucket")
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketChart)).Put(s.key, b)
	})
	if err != nil {
		span.RecordError(err)
	}
	return err
}

func (s *BoltSink) Load(ctx context.Context) (*model.SeatingChart, error) {
	var span trace.Span
	ctx, span = tracer().Start(ctx, "BoltSink.Load")
	defer span.End()

	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		return nil, err
	}
	var raw []byte
	span.AddEvent("View bucket")
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket([]byte(bucketChart)).Get(s.key); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if raw == nil {
		return nil, ErrNotFound
	}
	c, err := decode(raw)
	if err != nil {
		span.RecordError(err)
	}
	return c, err
}

func (s *BoltSink) Delete(ctx context.Context) error {
	var span trace.Span
	ctx, span = tracer().Start(ctx, "BoltSink.Delete")
	defer span.End()

	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		return err
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketChart)).Delete(s.key)
	})
	if err != nil {
		span.RecordError(err)
	}
	return err
}
