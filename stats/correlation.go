package stats

import (
	"fmt"
	"math"

	mstats "github.com/montanaflynn/stats"

	"github.com/sartorproj/macrolens/frame"
	"github.com/sartorproj/macrolens/timeseries"
)

// pairs returns the values of a and b on the dates where both are present.
// b's dates are shifted forward by shift months before matching.
func pairs(a, b *timeseries.Series, shift int) (x, y []float64) {
	for j, d := range b.Dates {
		vb := b.Values[j]
		if timeseries.IsAbsent(vb) {
			continue
		}
		i := a.Index(d.AddDate(0, shift, 0))
		if i < 0 || timeseries.IsAbsent(a.Values[i]) {
			continue
		}
		x = append(x, a.Values[i])
		y = append(y, vb)
	}
	return x, y
}

// Pearson returns the Pearson correlation of a and b over the dates on which
// both have a present value.
func Pearson(a, b *timeseries.Series) (float64, error) {
	x, y := pairs(a, b, 0)
	return pearson(a.Name+"~"+b.Name, x, y)
}

func pearson(name string, x, y []float64) (float64, error) {
	if len(x) < 2 {
		return math.NaN(), &timeseries.DegenerateInputError{
			Series: name,
			Reason: fmt.Sprintf("need at least 2 overlapping observations, have %d", len(x)),
		}
	}
	for _, data := range [][]float64{x, y} {
		if timeseries.Flat(data) {
			return math.NaN(), &timeseries.DegenerateInputError{Series: name, Reason: "zero standard deviation"}
		}
	}
	r, err := mstats.Pearson(x, y)
	if err != nil {
		return math.NaN(), err
	}
	return r, nil
}

// Matrix is a symmetric correlation matrix over named columns.
type Matrix struct {
	Names  []string
	Values [][]float64
}

// At returns the correlation between two named columns, or NaN.
func (m *Matrix) At(a, b string) float64 {
	i, j := -1, -1
	for k, n := range m.Names {
		if n == a {
			i = k
		}
		if n == b {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return math.NaN()
	}
	return m.Values[i][j]
}

// CorrelationMatrix correlates every pair of columns in t. Pairs without
// enough overlap, or with a constant column, are NaN.
func CorrelationMatrix(t *frame.Table) *Matrix {
	names := t.Names()
	m := &Matrix{
		Names:  names,
		Values: make([][]float64, len(names)),
	}
	cols := make([]*timeseries.Series, len(names))
	for i, n := range names {
		cols[i], _ = t.Series(n)
		m.Values[i] = make([]float64, len(names))
	}

	for i := range names {
		for j := i; j < len(names); j++ {
			r, err := Pearson(cols[i], cols[j])
			if err != nil {
				r = math.NaN()
			}
			if i == j && err == nil {
				r = 1
			}
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m
}
