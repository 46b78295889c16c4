// Package frame joins series on their dates into wide tables and reshapes them
// into long (tidy) tables for plotting.
package frame

import (
	"fmt"
	"sort"
	"time"

	"github.com/sartorproj/macrolens/timeseries"
)

// Column is one named value column of a Table, aligned with Table.Dates.
type Column struct {
	Name   string
	Values []float64
}

// Table is a wide table keyed by date: one row per date, one column per
// series. Cells with no observation hold the absent marker.
type Table struct {
	Dates   []time.Time
	Columns []Column
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Dates)
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

func (t *Table) columnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Series returns the named column as a series over every row of the table,
// absent cells included.
func (t *Table) Series(name string) (*timeseries.Series, bool) {
	i := t.columnIndex(name)
	if i < 0 {
		return nil, false
	}
	s := &timeseries.Series{
		Name:   name,
		Dates:  make([]time.Time, len(t.Dates)),
		Values: make([]float64, len(t.Dates)),
	}
	copy(s.Dates, t.Dates)
	copy(s.Values, t.Columns[i].Values)
	return s, true
}

// Value returns the cell at row for the named column.
func (t *Table) Value(row int, name string) (float64, bool) {
	i := t.columnIndex(name)
	if i < 0 || row < 0 || row >= len(t.Dates) {
		return 0, false
	}
	return t.Columns[i].Values[row], true
}

// Copy returns a deep copy of the table.
func (t *Table) Copy() *Table {
	return t.slice(0, len(t.Dates))
}

func (t *Table) slice(start, end int) *Table {
	out := &Table{
		Dates:   make([]time.Time, end-start),
		Columns: make([]Column, len(t.Columns)),
	}
	copy(out.Dates, t.Dates[start:end])
	for i, c := range t.Columns {
		values := make([]float64, end-start)
		copy(values, c.Values[start:end])
		out.Columns[i] = Column{Name: c.Name, Values: values}
	}
	return out
}

// Rename returns a copy with columns renamed through names. Columns missing
// from names keep their name. Renaming onto an existing name or onto DATE is
// a join key error.
func (t *Table) Rename(names map[string]string) (*Table, error) {
	out := t.Copy()
	seen := make(map[string]bool, len(out.Columns))
	for i := range out.Columns {
		if n, ok := names[out.Columns[i].Name]; ok {
			out.Columns[i].Name = n
		}
		if seen[out.Columns[i].Name] || out.Columns[i].Name == DateColumn {
			return nil, &timeseries.JoinKeyError{Column: out.Columns[i].Name}
		}
		seen[out.Columns[i].Name] = true
	}
	return out, nil
}

// Between returns the rows dated within [from, to]. A zero bound is open.
func (t *Table) Between(from, to time.Time) *Table {
	start := 0
	if !from.IsZero() {
		start = sort.Search(len(t.Dates), func(i int) bool {
			return !t.Dates[i].Before(from)
		})
	}
	end := len(t.Dates)
	if !to.IsZero() {
		end = sort.Search(len(t.Dates), func(i int) bool {
			return t.Dates[i].After(to)
		})
	}
	if start > end {
		start = end
	}
	return t.slice(start, end)
}

// WithSeries returns a copy of the table outer-joined with more series.
func (t *Table) WithSeries(series ...*timeseries.Series) (*Table, error) {
	all := make([]*timeseries.Series, 0, len(t.Columns)+len(series))
	for _, c := range t.Columns {
		s, _ := t.Series(c.Name)
		all = append(all, s)
	}
	all = append(all, series...)
	return join(all)
}

// Select returns a copy holding only the named columns, in the given order.
func (t *Table) Select(names ...string) (*Table, error) {
	out := &Table{
		Dates:   make([]time.Time, len(t.Dates)),
		Columns: make([]Column, 0, len(names)),
	}
	copy(out.Dates, t.Dates)
	for _, n := range names {
		i := t.columnIndex(n)
		if i < 0 {
			return nil, fmt.Errorf("column %q not found", n)
		}
		values := make([]float64, len(t.Dates))
		copy(values, t.Columns[i].Values)
		out.Columns = append(out.Columns, Column{Name: n, Values: values})
	}
	return out, nil
}
