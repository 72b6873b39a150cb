package importer

import (
	"encoding/csv"
	"fmt"
	"io"
)

// ParseCSV reads a guest list with the header Name,Table,Meal choice,Notes.
// Blank lines and rows without a name are skipped.
func ParseCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: csv: %v", ErrMalformed, err)
	}
	recs, err := recordsFromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: csv: %v", ErrMalformed, err)
	}
	return recs, nil
}
