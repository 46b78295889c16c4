package timeseries

import (
	"fmt"
	"math"
	"time"
)

// Lagged holds an N-period differencing of a series. Every slice is aligned
// with Dates; the first N entries of Lag, Diff and PctChange are absent.
//
// PctChange divides by the magnitude of the prior value:
//
//	PctChange[t] = 100 * (v[t] - v[t-N]) / |v[t-N]|
//
// A zero prior value leaves PctChange absent.
type Lagged struct {
	Name      string
	N         int
	Dates     []time.Time
	Values    []float64
	Lag       []float64
	Diff      []float64
	PctChange []float64
}

// Lagged differences the series at lag n.
func (s *Series) Lagged(n int) (*Lagged, error) {
	if n < 1 {
		return nil, fmt.Errorf("lag must be at least 1, got %d", n)
	}
	return s.lagged(n), nil
}

// lagged differences the series at a lag n >= 1.
func (s *Series) lagged(n int) *Lagged {
	size := len(s.Values)
	l := &Lagged{
		Name:      s.Name,
		N:         n,
		Dates:     make([]time.Time, size),
		Values:    make([]float64, size),
		Lag:       make([]float64, size),
		Diff:      make([]float64, size),
		PctChange: make([]float64, size),
	}
	copy(l.Dates, s.Dates)
	copy(l.Values, s.Values)

	for t := 0; t < size; t++ {
		l.Lag[t], l.Diff[t], l.PctChange[t] = Absent(), Absent(), Absent()
		if t < n {
			continue
		}

		cur, prior := s.Values[t], s.Values[t-n]
		if IsAbsent(cur) || IsAbsent(prior) {
			if !IsAbsent(prior) {
				l.Lag[t] = prior
			}
			continue
		}

		l.Lag[t] = prior
		l.Diff[t] = cur - prior
		if prior != 0 {
			l.PctChange[t] = 100 * l.Diff[t] / math.Abs(prior)
		}
	}
	return l
}

func (l *Lagged) column(name string, values []float64) *Series {
	out := &Series{
		Name:   name,
		Dates:  make([]time.Time, len(l.Dates)),
		Values: make([]float64, len(values)),
	}
	copy(out.Dates, l.Dates)
	copy(out.Values, values)
	return out
}

// LagSeries returns the prior values as a series named lag_<n>.
func (l *Lagged) LagSeries() *Series {
	return l.column(fmt.Sprintf("lag_%d", l.N), l.Lag)
}

// DiffSeries returns the differences as a series named lag_<n>_diff.
func (l *Lagged) DiffSeries() *Series {
	return l.column(fmt.Sprintf("lag_%d_diff", l.N), l.Diff)
}

// PctSeries returns the percentage changes as a series named <name>_pct_<n>.
func (l *Lagged) PctSeries() *Series {
	return l.column(fmt.Sprintf("%s_pct_%d", l.Name, l.N), l.PctChange)
}

// MoM returns the month-over-month percentage change.
func (s *Series) MoM() *Series {
	return s.lagged(1).PctSeries()
}

// YoY returns the year-over-year (12-period) percentage change.
func (s *Series) YoY() *Series {
	return s.lagged(12).PctSeries()
}
