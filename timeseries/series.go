package timeseries

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/montanaflynn/stats"
)

// DateLayout is the calendar date format used by every input and output.
const DateLayout = "2006-01-02"

// Absent returns the marker used for a missing observation. It is NaN, so it
// never compares equal to zero or to itself.
func Absent() float64 {
	return math.NaN()
}

// IsAbsent reports whether v is the absent marker.
func IsAbsent(v float64) bool {
	return math.IsNaN(v)
}

// Series is a named sequence of dated observations, ascending by date with no
// duplicate dates. Transformations never modify the receiver.
type Series struct {
	Name   string
	Dates  []time.Time
	Values []float64
}

// New creates a series from parallel date and value slices. The inputs are
// copied and sorted by date; a repeated date is rejected with a JoinKeyError.
func New(name string, dates []time.Time, values []float64) (*Series, error) {
	if len(dates) != len(values) {
		return nil, errors.New("dates and values must have the same length")
	}

	idx := make([]int, len(dates))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return dates[idx[a]].Before(dates[idx[b]])
	})

	s := &Series{
		Name:   name,
		Dates:  make([]time.Time, len(dates)),
		Values: make([]float64, len(values)),
	}
	for i, j := range idx {
		s.Dates[i] = dates[j]
		s.Values[i] = values[j]
		if i > 0 && s.Dates[i].Equal(s.Dates[i-1]) {
			return nil, &JoinKeyError{Series: name, Date: s.Dates[i]}
		}
	}
	return s, nil
}

// FromValues creates a monthly series whose first observation falls on the
// month containing start.
func FromValues(name string, start time.Time, values []float64) *Series {
	first := MonthStart(start)
	dates := make([]time.Time, len(values))
	for i := range dates {
		dates[i] = first.AddDate(0, i, 0)
	}
	v := make([]float64, len(values))
	copy(v, values)
	return &Series{Name: name, Dates: dates, Values: v}
}

// Len returns the number of observations.
func (s *Series) Len() int {
	return len(s.Values)
}

// Present returns the values that are not absent, in order.
func (s *Series) Present() []float64 {
	out := make([]float64, 0, len(s.Values))
	for _, v := range s.Values {
		if !IsAbsent(v) {
			out = append(out, v)
		}
	}
	return out
}

// Flat reports whether every value equals the first. A flat input has no
// spread even when rounding leaves its computed standard deviation above zero.
func Flat(values []float64) bool {
	for _, v := range values {
		if v != values[0] {
			return false
		}
	}
	return true
}

// Mean returns the arithmetic mean of the present values, or NaN when there
// are none.
func (s *Series) Mean() float64 {
	m, err := stats.Mean(s.Present())
	if err != nil {
		return math.NaN()
	}
	return m
}

// Std returns the sample standard deviation (n-1 denominator) of the present
// values, or NaN when fewer than two are present.
func (s *Series) Std() float64 {
	present := s.Present()
	if len(present) < 2 {
		return math.NaN()
	}
	sd, err := stats.StandardDeviationSample(present)
	if err != nil {
		return math.NaN()
	}
	return sd
}

// Index returns the position of date in the series, or -1.
func (s *Series) Index(date time.Time) int {
	i := sort.Search(len(s.Dates), func(i int) bool {
		return !s.Dates[i].Before(date)
	})
	if i < len(s.Dates) && s.Dates[i].Equal(date) {
		return i
	}
	return -1
}

// Slice returns a copy of the observations from start to end (exclusive).
func (s *Series) Slice(start, end int) *Series {
	if start < 0 {
		start = 0
	}
	if end > len(s.Values) {
		end = len(s.Values)
	}
	if start >= end {
		return &Series{Name: s.Name, Dates: []time.Time{}, Values: []float64{}}
	}

	out := &Series{
		Name:   s.Name,
		Dates:  make([]time.Time, end-start),
		Values: make([]float64, end-start),
	}
	copy(out.Dates, s.Dates[start:end])
	copy(out.Values, s.Values[start:end])
	return out
}

// Copy creates a deep copy of the series.
func (s *Series) Copy() *Series {
	return s.Slice(0, len(s.Values))
}

// Tail returns the most recent k observations. A series shorter than k is
// returned whole; it is never padded. k <= 0 keeps the full history.
func (s *Series) Tail(k int) *Series {
	if k <= 0 || k >= len(s.Values) {
		return s.Copy()
	}
	return s.Slice(len(s.Values)-k, len(s.Values))
}

// Between returns the observations dated within [from, to]. A zero bound is
// open.
func (s *Series) Between(from, to time.Time) *Series {
	start := 0
	if !from.IsZero() {
		start = sort.Search(len(s.Dates), func(i int) bool {
			return !s.Dates[i].Before(from)
		})
	}
	end := len(s.Dates)
	if !to.IsZero() {
		end = sort.Search(len(s.Dates), func(i int) bool {
			return s.Dates[i].After(to)
		})
	}
	return s.Slice(start, end)
}

// Rename returns a copy of the series under a new name.
func (s *Series) Rename(name string) *Series {
	out := s.Copy()
	out.Name = name
	return out
}

// Scale multiplies every present value by f.
func (s *Series) Scale(f float64) *Series {
	out := s.Copy()
	for i, v := range out.Values {
		if !IsAbsent(v) {
			out.Values[i] = v * f
		}
	}
	return out
}

// First returns the earliest date, or the zero time for an empty series.
func (s *Series) First() time.Time {
	if len(s.Dates) == 0 {
		return time.Time{}
	}
	return s.Dates[0]
}

// Last returns the latest date, or the zero time for an empty series.
func (s *Series) Last() time.Time {
	if len(s.Dates) == 0 {
		return time.Time{}
	}
	return s.Dates[len(s.Dates)-1]
}
