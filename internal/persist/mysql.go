package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/trace"

	"github.com/iliyamo/seating-chart/internal/model"
)

// MySQLSink keeps the chart document in the seating_charts table, one row
// per storage key.
type MySQLSink struct {
	db  *sql.DB
	key string
}

func NewMySQLSink(db *sql.DB, key string) *MySQLSink {
	if key == "" {
		key = DefaultKey
	}
	return &MySQLSink{db: db, key: key}
}

// Migrate creates the seating_charts table when it does not exist yet.
func (s *MySQLSink) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS seating_charts (
    storage_key VARCHAR(191) NOT NULL PRIMARY KEY,
    document    JSON         NOT NULL,
    updated_at  DATETIME     NOT NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`)
	if err != nil {
		return fmt.Errorf("create seating_charts: %w", err)
	}
	return nil
}

func (s *MySQLSink) Save(ctx context.Context, c *model.SeatingChart) error {
	var span trace.Span
	ctx, span = tracer().Start(ctx, "MySQLSink.Save")
	defer span.End()

	b, err := encode(c)
	if err != nil {
		span.RecordError(err)
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO seating_charts (storage_key, document, updated_at) VALUES (?, ?, UTC_TIMESTAMP())
         ON DUPLICATE KEY UPDATE document = VALUES(document), updated_at = VALUES(updated_at)`,
		s.key, b)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("upsert chart: %w", err)
	}
	return nil
}

func (s *MySQLSink) Load(ctx context.Context) (*model.SeatingChart, error) {
	var span trace.Span
	ctx, span = tracer().Start(ctx, "MySQLSink.Load")
	defer span.End()

	var doc []byte
	err := s.db.QueryRowContext(ctx, `SELECT document FROM seating_charts WHERE storage_key = ?`, s.key).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("select chart: %w", err)
	}
	return decode(doc)
}

func (s *MySQLSink) Delete(ctx context.Context) error {
	var span trace.Span
	ctx, span = tracer().Start(ctx, "MySQLSink.Delete")
	defer span.End()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM seating_charts WHERE storage_key = ?`, s.key); err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete chart: %w", err)
	}
	return nil
}
