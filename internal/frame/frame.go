// Package frame holds the small in-memory tables the demo panels display:
// labelled columns of strings and numbers, random sample generators and a
// CSV reader for uploaded files.
package frame

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrNoColumn is returned when a column name is not part of a frame.
var ErrNoColumn = errors.New("no such column")

// Kind is the type of a single cell.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
)

// Value is one cell.
type Value struct {
	text string
	num  float64
	kind Kind
}

// String creates a text cell.
func String(s string) Value {
	return Value{text: s, kind: KindString}
}

// Int creates an integer cell.
func Int(n int) Value {
	return Value{text: strconv.Itoa(n), num: float64(n), kind: KindInt}
}

// Float creates a float cell. It prints with four decimals.
func Float(f float64) Value {
	return Value{text: strconv.FormatFloat(f, 'f', 4, 64), num: f, kind: KindFloat}
}

// Parse infers the kind of s. The original text is kept for display.
func Parse(s string) Value {
	trimmed := strings.TrimSpace(s)
	if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return Value{text: s, num: float64(n), kind: KindInt}
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return Value{text: s, num: f, kind: KindFloat}
	}
	return String(s)
}

// Kind returns the cell type.
func (v Value) Kind() Kind { return v.kind }

// Float returns the numeric value and whether the cell is numeric.
func (v Value) Float() (float64, bool) {
	return v.num, v.kind != KindString
}

func (v Value) String() string { return v.text }

// Less orders numbers before text, numbers by value and text lexically.
func (v Value) Less(o Value) bool {
	vn, vok := v.Float()
	on, ook := o.Float()
	switch {
	case vok && ook:
		return vn < on
	case vok != ook:
		return vok
	}
	return v.text < o.text
}

// Frame is a table with named columns and an optional row index.
type Frame struct {
	columns   []string
	rows      [][]Value
	index     []string
	indexName string
}

// New creates an empty frame with the given columns.
func New(columns ...string) *Frame {
	return &Frame{columns: append([]string(nil), columns...)}
}

// FromColumns builds a frame from equally long columns, in order.
func FromColumns(names []string, cols ...[]Value) (*Frame, error) {
	if len(names) != len(cols) {
		return nil, fmt.Errorf("frame: %d names for %d columns", len(names), len(cols))
	}
	f := New(names...)
	if len(cols) == 0 {
		return f, nil
	}
	n := len(cols[0])
	for i, c := range cols {
		if len(c) != n {
			return nil, fmt.Errorf("frame: column %q has %d rows, want %d", names[i], len(c), n)
		}
	}
	for r := 0; r < n; r++ {
		row := make([]Value, len(cols))
		for c := range cols {
			row[c] = cols[c][r]
		}
		f.rows = append(f.rows, row)
	}
	return f, nil
}

// AddRow appends a row. It must have one value per column.
func (f *Frame) AddRow(values ...Value) error {
	if len(values) != len(f.columns) {
		return fmt.Errorf("frame: row has %d values, want %d", len(values), len(f.columns))
	}
	f.rows = append(f.rows, append([]Value(nil), values...))
	if f.index != nil {
		f.index = append(f.index, strconv.Itoa(len(f.rows)-1))
	}
	return nil
}

// Columns returns the column names.
func (f *Frame) Columns() []string { return f.columns }

// Rows returns the cells row by row.
func (f *Frame) Rows() [][]Value { return f.rows }

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.rows) }

// IndexName returns the name of the index column, empty for a positional index.
func (f *Frame) IndexName() string { return f.indexName }

// Labels returns the row labels: the index values if one was set, row
// positions otherwise.
func (f *Frame) Labels() []string {
	if f.index != nil {
		return f.index
	}
	labels := make([]string, len(f.rows))
	for i := range labels {
		labels[i] = strconv.Itoa(i)
	}
	return labels
}

func (f *Frame) columnIndex(name string) (int, error) {
	for i, c := range f.columns {
		if c == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrNoColumn, name)
}

// Column returns the cells of one column.
func (f *Frame) Column(name string) ([]Value, error) {
	idx, err := f.columnIndex(name)
	if err != nil {
		return nil, err
	}
	out := make([]Value, len(f.rows))
	for i, row := range f.rows {
		out[i] = row[idx]
	}
	return out, nil
}

// Floats returns a numeric column. Text cells are an error.
func (f *Frame) Floats(name string) ([]float64, error) {
	col, err := f.Column(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(col))
	for i, v := range col {
		n, ok := v.Float()
		if !ok {
			return nil, fmt.Errorf("frame: column %q row %d is not numeric: %q", name, i, v.String())
		}
		out[i] = n
	}
	return out, nil
}

// Head returns a frame with at most the first n rows.
func (f *Frame) Head(n int) *Frame {
	if n < 0 {
		n = 0
	}
	if n > len(f.rows) {
		n = len(f.rows)
	}
	out := &Frame{
		columns:   f.columns,
		rows:      f.rows[:n:n],
		indexName: f.indexName,
	}
	if f.index != nil {
		out.index = f.index[:n:n]
	}
	return out
}

// SetIndex moves a column into the row index.
func (f *Frame) SetIndex(name string) (*Frame, error) {
	idx, err := f.columnIndex(name)
	if err != nil {
		return nil, err
	}
	out := &Frame{indexName: name}
	for i, c := range f.columns {
		if i != idx {
			out.columns = append(out.columns, c)
		}
	}
	for _, row := range f.rows {
		out.index = append(out.index, row[idx].String())
		rest := make([]Value, 0, len(row)-1)
		rest = append(rest, row[:idx]...)
		rest = append(rest, row[idx+1:]...)
		out.rows = append(out.rows, rest)
	}
	return out, nil
}

// SortBy returns a copy sorted by one column. The sort is stable.
func (f *Frame) SortBy(name string, descending bool) (*Frame, error) {
	idx, err := f.columnIndex(name)
	if err != nil {
		return nil, err
	}
	order := make([]int, len(f.rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		va, vb := f.rows[order[a]][idx], f.rows[order[b]][idx]
		if descending {
			return vb.Less(va)
		}
		return va.Less(vb)
	})

	out := &Frame{columns: f.columns, indexName: f.indexName}
	for _, i := range order {
		out.rows = append(out.rows, f.rows[i])
		if f.index != nil {
			out.index = append(out.index, f.index[i])
		}
	}
	return out, nil
}

// Cut replaces a numeric column by the label of the equal-width bin each
// value falls into. bins must equal len(labels).
func (f *Frame) Cut(name string, bins int, labels []string) (*Frame, error) {
	if bins < 1 || bins != len(labels) {
		return nil, fmt.Errorf("frame: %d bins with %d labels", bins, len(labels))
	}
	values, err := f.Floats(name)
	if err != nil {
		return nil, err
	}
	idx, _ := f.columnIndex(name)
	if len(values) == 0 {
		return &Frame{columns: f.columns, indexName: f.indexName}, nil
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	width := (hi - lo) / float64(bins)

	out := &Frame{columns: f.columns, index: f.index, indexName: f.indexName}
	for r, row := range f.rows {
		bin := 0
		if width > 0 {
			bin = int((values[r] - lo) / width)
		}
		if bin >= bins {
			bin = bins - 1
		}
		cp := append([]Value(nil), row...)
		cp[idx] = String(labels[bin])
		out.rows = append(out.rows, cp)
	}
	return out, nil
}
