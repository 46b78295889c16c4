package timeseries

import (
	"fmt"
	"time"
)

// MonthStart truncates t to midnight UTC on the first day of its month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, &ParseError{Field: "date", Value: value, Err: err}
	}
	return t, nil
}

// MonthlyMethod selects how observations within one month are collapsed.
type MonthlyMethod string

const (
	MonthlyFirst MonthlyMethod = "first"
	MonthlyLast  MonthlyMethod = "last"
	MonthlyMean  MonthlyMethod = "mean"
)

// Monthly aligns the series onto month starts. Absent observations are
// ignored; a month with no present observation is dropped. A series that is
// already monthly comes back with its dates moved to the first of the month.
func (s *Series) Monthly(method MonthlyMethod) (*Series, error) {
	switch method {
	case MonthlyFirst, MonthlyLast, MonthlyMean:
	case "":
		method = MonthlyLast
	default:
		return nil, fmt.Errorf("unknown monthly method %q", method)
	}

	out := &Series{Name: s.Name, Dates: []time.Time{}, Values: []float64{}}

	var (
		bucket time.Time
		sum    float64
		n      int
		first  float64
		last   float64
	)
	flush := func() {
		if n == 0 {
			return
		}
		var v float64
		switch method {
		case MonthlyFirst:
			v = first
		case MonthlyLast:
			v = last
		case MonthlyMean:
			v = sum / float64(n)
		}
		out.Dates = append(out.Dates, bucket)
		out.Values = append(out.Values, v)
	}

	for i, d := range s.Dates {
		m := MonthStart(d)
		if !m.Equal(bucket) {
			flush()
			bucket, sum, n = m, 0, 0
		}
		v := s.Values[i]
		if IsAbsent(v) {
			continue
		}
		if n == 0 {
			first = v
		}
		last = v
		sum += v
		n++
	}
	flush()

	return out, nil
}
