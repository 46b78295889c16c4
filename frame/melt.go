package frame

import (
	"time"
)

// DefaultLabelColumn names the label column of a melted table when the caller
// does not choose one.
const DefaultLabelColumn = "INDEX"

// LongRow is one (date, label, value) observation.
type LongRow struct {
	Date  time.Time
	Label string
	Value float64
}

// Long is a long (tidy) table. LabelColumn is the name the label field is
// published under.
type Long struct {
	LabelColumn string
	Rows        []LongRow
}

// Melt converts a wide table into a long one with a row per (date, column).
// Rows are ordered by date, then by column order. Absent cells are kept as
// absent rows.
func Melt(t *Table, labelColumn string) *Long {
	if labelColumn == "" {
		labelColumn = DefaultLabelColumn
	}
	l := &Long{
		LabelColumn: labelColumn,
		Rows:        make([]LongRow, 0, len(t.Dates)*len(t.Columns)),
	}
	for i, d := range t.Dates {
		for _, c := range t.Columns {
			l.Rows = append(l.Rows, LongRow{Date: d, Label: c.Name, Value: c.Values[i]})
		}
	}
	return l
}

// Len returns the number of rows.
func (l *Long) Len() int {
	return len(l.Rows)
}

// Labels returns the distinct labels in first-seen order.
func (l *Long) Labels() []string {
	seen := make(map[string]bool)
	var labels []string
	for _, r := range l.Rows {
		if !seen[r.Label] {
			seen[r.Label] = true
			labels = append(labels, r.Label)
		}
	}
	return labels
}
