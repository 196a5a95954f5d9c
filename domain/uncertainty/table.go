package uncertainty

import (
	"encoding/json"

	"riskuq/domain/core"
)

// ColumnKind tags the value type of a table column. Identifier-like columns
// (event ids) keep their integer kind through persistence round trips.
type ColumnKind string

const (
	KindFloat  ColumnKind = "float"
	KindInt    ColumnKind = "int"
	KindString ColumnKind = "string"
)

// Column is one named, typed column of a metric table. Exactly one of the
// value slices is populated, matching Kind.
type Column struct {
	Name    string     `json:"name"`
	Kind    ColumnKind `json:"kind"`
	Floats  []float64  `json:"floats,omitempty"`
	Ints    []int64    `json:"ints,omitempty"`
	Strings []string   `json:"strings,omitempty"`
}

// FloatColumn builds a float column.
func FloatColumn(name string, values []float64) *Column {
	return &Column{Name: name, Kind: KindFloat, Floats: values}
}

// IntColumn builds an integer column.
func IntColumn(name string, values []int64) *Column {
	return &Column{Name: name, Kind: KindInt, Ints: values}
}

// StringColumn builds a string column.
func StringColumn(name string, values []string) *Column {
	return &Column{Name: name, Kind: KindString, Strings: values}
}

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	switch c.Kind {
	case KindInt:
		return len(c.Ints)
	case KindString:
		return len(c.Strings)
	default:
		return len(c.Floats)
	}
}

// Numeric reports whether the column holds numbers.
func (c *Column) Numeric() bool {
	return c.Kind == KindFloat || c.Kind == KindInt
}

// AsFloats returns the column values as float64, converting integer columns.
// String columns return nil.
func (c *Column) AsFloats() []float64 {
	switch c.Kind {
	case KindFloat:
		out := make([]float64, len(c.Floats))
		copy(out, c.Floats)
		return out
	case KindInt:
		out := make([]float64, len(c.Ints))
		for i, v := range c.Ints {
			out[i] = float64(v)
		}
		return out
	default:
		return nil
	}
}

func (c *Column) slice(idx []int) *Column {
	out := &Column{Name: c.Name, Kind: c.Kind}
	switch c.Kind {
	case KindFloat:
		out.Floats = make([]float64, len(idx))
		for i, j := range idx {
			out.Floats[i] = c.Floats[j]
		}
	case KindInt:
		out.Ints = make([]int64, len(idx))
		for i, j := range idx {
			out.Ints[i] = c.Ints[j]
		}
	case KindString:
		out.Strings = make([]string, len(idx))
		for i, j := range idx {
			out.Strings[i] = c.Strings[j]
		}
	}
	return out
}

// Table is a column-aligned result table. Row i of every column belongs to
// the same draw (or the same parameter, for sensitivity tables); row order
// is fixed at construction and never changed.
type Table struct {
	cols []*Column
}

// NewTable builds a table from columns of identical length. No columns
// yields the empty table.
func NewTable(cols ...*Column) (*Table, error) {
	if len(cols) == 0 {
		return &Table{}, nil
	}
	for _, c := range cols[1:] {
		if c.Len() != cols[0].Len() {
			return nil, core.NewShapeError("column "+c.Name, c.Len(), cols[0].Len())
		}
	}
	return &Table{cols: cols}, nil
}

// EmptyTable returns a table with no columns and no rows.
func EmptyTable() *Table { return &Table{} }

// NumRows returns the row count; the empty table has zero rows.
func (t *Table) NumRows() int {
	if t == nil || len(t.cols) == 0 {
		return 0
	}
	return t.cols[0].Len()
}

// NumCols returns the column count.
func (t *Table) NumCols() int {
	if t == nil {
		return 0
	}
	return len(t.cols)
}

// Empty reports whether the table has no data.
func (t *Table) Empty() bool { return t.NumRows() == 0 }

// ColumnNames returns all column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// Columns returns the columns in order.
func (t *Table) Columns() []*Column {
	if t == nil {
		return nil
	}
	out := make([]*Column, len(t.cols))
	copy(out, t.cols)
	return out
}

// Column returns the first column with the given name.
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.cols {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// NumericColumns returns the float and integer columns, in order.
func (t *Table) NumericColumns() []*Column {
	var out []*Column
	for _, c := range t.cols {
		if c.Numeric() {
			out = append(out, c)
		}
	}
	return out
}

// DescriptorColumns returns the non-numeric columns, in order.
func (t *Table) DescriptorColumns() []*Column {
	var out []*Column
	for _, c := range t.cols {
		if !c.Numeric() {
			out = append(out, c)
		}
	}
	return out
}

// FilterString returns the rows where the named string column equals value,
// keeping all columns. A missing or non-string column yields the empty
// table.
func (t *Table) FilterString(name, value string) *Table {
	col, ok := t.Column(name)
	if !ok || col.Kind != KindString {
		return EmptyTable()
	}
	var idx []int
	for i, v := range col.Strings {
		if v == value {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return EmptyTable()
	}
	cols := make([]*Column, len(t.cols))
	for i, c := range t.cols {
		cols[i] = c.slice(idx)
	}
	return &Table{cols: cols}
}

// HConcat concatenates tables horizontally, aligned by shared row index.
// Nil and empty tables are skipped; remaining tables must agree on row
// count.
func HConcat(tables ...*Table) (*Table, error) {
	var cols []*Column
	rows := -1
	for _, t := range tables {
		if t == nil || t.Empty() {
			continue
		}
		if rows == -1 {
			rows = t.NumRows()
		} else if t.NumRows() != rows {
			return nil, core.NewShapeError("concatenated table", t.NumRows(), rows)
		}
		cols = append(cols, t.cols...)
	}
	return &Table{cols: cols}, nil
}

// Equal reports deep equality of column names, kinds and values.
func (t *Table) Equal(o *Table) bool {
	if t.NumCols() != o.NumCols() {
		return false
	}
	for i, a := range t.cols {
		b := o.cols[i]
		if a.Name != b.Name || a.Kind != b.Kind || a.Len() != b.Len() {
			return false
		}
		switch a.Kind {
		case KindFloat:
			for j := range a.Floats {
				if a.Floats[j] != b.Floats[j] {
					return false
				}
			}
		case KindInt:
			for j := range a.Ints {
				if a.Ints[j] != b.Ints[j] {
					return false
				}
			}
		case KindString:
			for j := range a.Strings {
				if a.Strings[j] != b.Strings[j] {
					return false
				}
			}
		}
	}
	return true
}

type tableJSON struct {
	Columns []*Column `json:"columns"`
}

func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(tableJSON{Columns: t.cols})
}

func (t *Table) UnmarshalJSON(data []byte) error {
	var raw tableJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	nt, err := NewTable(raw.Columns...)
	if err != nil {
		return err
	}
	*t = *nt
	return nil
}
