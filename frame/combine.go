package frame

import (
	"sort"
	"time"

	"github.com/sartorproj/macrolens/timeseries"
)

// Combine windows every series to its most recent window observations and
// outer-joins the results on date. window <= 0 keeps full histories.
//
// The result has one row per date present in any input, ascending, and one
// column per input in input order. A repeated date within a series or a
// repeated series name, or a series named DATE, fails the whole combine with
// a JoinKeyError.
func Combine(series []*timeseries.Series, window int) (*Table, error) {
	windowed := make([]*timeseries.Series, len(series))
	for i, s := range series {
		windowed[i] = s.Tail(window)
	}
	return join(windowed)
}

// CombineNormalized is Combine with each windowed series normalized over its
// own window before the join.
func CombineNormalized(series []*timeseries.Series, window int) (*Table, error) {
	normalized := make([]*timeseries.Series, len(series))
	for i, s := range series {
		z, err := s.Tail(window).Normalize()
		if err != nil {
			return nil, err
		}
		normalized[i] = z
	}
	return join(normalized)
}

func join(series []*timeseries.Series) (*Table, error) {
	names := make(map[string]bool, len(series))
	checked := make([]*timeseries.Series, len(series))
	for i, s := range series {
		if names[s.Name] || s.Name == DateColumn {
			return nil, &timeseries.JoinKeyError{Column: s.Name}
		}
		names[s.Name] = true

		// Re-establish ordering and uniqueness for series assembled by hand.
		c, err := timeseries.New(s.Name, s.Dates, s.Values)
		if err != nil {
			return nil, err
		}
		checked[i] = c
	}

	dates := unionDates(checked)
	rows := make(map[int64]int, len(dates))
	for i, d := range dates {
		rows[d.UnixNano()] = i
	}

	t := &Table{
		Dates:   dates,
		Columns: make([]Column, len(checked)),
	}
	for i, s := range checked {
		values := make([]float64, len(dates))
		for j := range values {
			values[j] = timeseries.Absent()
		}
		for j, d := range s.Dates {
			values[rows[d.UnixNano()]] = s.Values[j]
		}
		t.Columns[i] = Column{Name: s.Name, Values: values}
	}
	return t, nil
}

func unionDates(series []*timeseries.Series) []time.Time {
	seen := make(map[int64]bool)
	var dates []time.Time
	for _, s := range series {
		for _, d := range s.Dates {
			if !seen[d.UnixNano()] {
				seen[d.UnixNano()] = true
				dates = append(dates, d)
			}
		}
	}
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})
	if dates == nil {
		dates = []time.Time{}
	}
	return dates
}
