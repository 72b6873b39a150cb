package importer

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iliyamo/seating-chart/internal/model"
	"github.com/iliyamo/seating-chart/internal/seating"
)

// LoadJSON decodes a chart document as written by the JSON export or the
// persistence layer.  Documents that break the roster invariants are
// rejected.  A legacy per-guest "table" field is ignored.
func LoadJSON(r io.Reader) (*model.SeatingChart, error) {
	var c model.SeatingChart
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("%w: json: %v", ErrMalformed, err)
	}
	if err := seating.CheckRoster(&c); err != nil {
		return nil, fmt.Errorf("%w: json: %v", ErrMalformed, err)
	}
	return c.Clone(), nil
}
