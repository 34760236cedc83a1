package value

import "fmt"

// Row is an ordered vector of Values conforming to an enclosing signature
// (spec §3). Invariant: len(Cells) == len(columns) and each cell's type
// structurally equals the matching column's type.
type Row struct {
	Cells []Value
}

func NewRow(cells ...Value) Row { return Row{Cells: append([]Value(nil), cells...)} }

// CheckTypes validates the pipeline-typing invariant of spec §8: every row
// sent on a table stream must match the stream's column types exactly.
func (r Row) CheckTypes(cols []ColumnType) error {
	if len(r.Cells) != len(cols) {
		return fmt.Errorf("row has %d cells, signature has %d columns", len(r.Cells), len(cols))
	}
	for i, c := range cols {
		if !r.Cells[i].Type().Equal(c.Type) {
			return fmt.Errorf("column %q: expected %s, got %s", c.Name, c.Type, r.Cells[i].Type())
		}
	}
	return nil
}

// Get returns the cell for a named column given the row's signature, or
// false if no such column exists.
func (r Row) Get(cols []ColumnType, name string) (Value, bool) {
	for i, c := range cols {
		if c.Name == name {
			return r.Cells[i], true
		}
	}
	return Value{}, false
}
