// Package persist mirrors the seating chart to durable storage.  The chart
// is kept as one JSON document under a fixed key, whichever backend holds
// it.
package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iliyamo/seating-chart/internal/importer"
	"github.com/iliyamo/seating-chart/internal/model"
)

// DefaultKey is the storage key of the chart document.
const DefaultKey = "weddingSeatingChart"

// ErrNotFound means nothing is stored under the key yet.
var ErrNotFound = errors.New("no persisted chart")

// Sink stores and retrieves the chart document.
type Sink interface {
	Save(ctx context.Context, c *model.SeatingChart) error
	Load(ctx context.Context) (*model.SeatingChart, error)
	Delete(ctx context.Context) error
}

func encode(c *model.SeatingChart) ([]byte, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}
	return b, nil
}

// decode parses a stored document.  Documents that fail to parse or break
// the roster invariants are reported as errors rather than loaded.
func decode(b []byte) (*model.SeatingChart, error) {
	c, err := importer.LoadJSON(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decode stored chart: %w", err)
	}
	return c, nil
}
