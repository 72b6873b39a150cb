package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"

	"github.com/iliyamo/seating-chart/internal/model"
)

// RedisSink keeps the chart as a string value in Redis.  The key never
// expires.
type RedisSink struct {
	rdb *redis.Client
	key string
}

func NewRedisSink(rdb *redis.Client, key string) *RedisSink {
	if key == "" {
		key = DefaultKey
	}
	return &RedisSink{rdb: rdb, key: key}
}

func (s *RedisSink) Save(ctx context.Context, c *model.SeatingChart) error {
	var span trace.Span
	ctx, span = tracer().Start(ctx, "RedisSink.Save")
	defer span.End()

	b, err := encode(c)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if err := s.rdb.Set(ctx, s.key, b, 0).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}

func (s *RedisSink) Load(ctx context.Context) (*model.SeatingChart, error) {
	var span trace.Span
	ctx, span = tracer().Start(ctx, "RedisSink.Load")
	defer span.End()

	b, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	return decode(b)
}

func (s *RedisSink) Delete(ctx context.Context) error {
	var span trace.Span
	ctx, span = tracer().Start(ctx, "RedisSink.Delete")
	defer span.End()

	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("redis del %s: %w", s.key, err)
	}
	return nil
}
