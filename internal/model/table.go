package model

// DefaultSeats is the capacity given to a table when none is specified
// and the minimum capacity assigned to tables created by an import.
const DefaultSeats = 8

const (
    gridOrigin  = 100 // canvas offset of the first table
    gridSpacing = 250 // distance between neighbouring tables
    gridColumns = 4   // tables per row
)

// Table is a round table placed on the planning canvas.  Seats is the
// capacity checked whenever a guest is moved onto the table; it is not
// re-validated when edited, so a table may temporarily hold more guests
// than seats after its capacity was lowered.
//
// Fields:
//  ID     – opaque unique identifier.
//  Name   – label shown on the canvas (e.g. "Table 3").
//  Seats  – capacity.
//  X, Y   – canvas position of the table's top-left corner.
//  Guests – seated guests in seating order.
type Table struct {
    ID     string  `json:"id"`
    Name   string  `json:"name"`
    Seats  int     `json:"seats"`
    X      float64 `json:"x"`
    Y      float64 `json:"y"`
    Guests []Guest `json:"guests"`
}

// IsFull reports whether another guest can be seated at the table.
func (t *Table) IsFull() bool { return len(t.Guests) >= t.Seats }

// GridPosition returns the default canvas position of the index-th table
// so that new tables tile four per row.
func GridPosition(index int) (x, y float64) {
    x = float64(gridOrigin + (index%gridColumns)*gridSpacing)
    y = float64(gridOrigin + (index/gridColumns)*gridSpacing)
    return x, y
}
