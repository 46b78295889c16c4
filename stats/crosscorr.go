package stats

import (
	"math"

	"github.com/sartorproj/macrolens/timeseries"
)

// CrossCorrelation returns the correlation of follow[t] with lead[t-k] for
// k = 0..maxLag months. Values[k] is NaN when the shifted series overlap on
// fewer than two dates or one side is constant.
func CrossCorrelation(lead, follow *timeseries.Series, maxLag int) *CCFResult {
	if maxLag < 0 {
		return nil
	}

	result := &CCFResult{
		Lags:   make([]int, maxLag+1),
		Values: make([]float64, maxLag+1),
	}

	minOverlap := math.MaxInt
	for k := 0; k <= maxLag; k++ {
		result.Lags[k] = k

		// Matching follow's date d against lead's date d-k.
		x, y := pairs(follow, lead, k)
		if len(x) < minOverlap {
			minOverlap = len(x)
		}
		r, err := pearson(lead.Name+"->"+follow.Name, x, y)
		if err != nil {
			r = math.NaN()
		}
		result.Values[k] = r
	}

	if minOverlap > 0 {
		result.ConfBounds = 1.96 / math.Sqrt(float64(minOverlap))
	} else {
		result.ConfBounds = math.NaN()
	}
	return result
}

// CCFResult holds a cross-correlation by lag.
type CCFResult struct {
	Lags       []int
	Values     []float64
	ConfBounds float64 // 95% bound, 1.96/sqrt(n) over the smallest overlap
}

// Peak returns the lag with the largest absolute correlation, skipping NaN.
// ok is false when every lag is NaN.
func (c *CCFResult) Peak() (lag int, r float64, ok bool) {
	best := -1.0
	for i, v := range c.Values {
		if math.IsNaN(v) {
			continue
		}
		if math.Abs(v) > best {
			best = math.Abs(v)
			lag, r, ok = c.Lags[i], v, true
		}
	}
	return lag, r, ok
}

// SignificantLags returns the lags whose correlation exceeds the confidence
// bound in magnitude.
func (c *CCFResult) SignificantLags() []int {
	var significant []int
	for i, v := range c.Values {
		if !math.IsNaN(v) && math.Abs(v) > c.ConfBounds {
			significant = append(significant, c.Lags[i])
		}
	}
	return significant
}
