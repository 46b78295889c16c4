package stats

import (
	"fmt"
	"math"

	"github.com/sartorproj/macrolens/timeseries"
)

// ACFResult holds a sample autocorrelation function.
type ACFResult struct {
	Lags       []int
	Values     []float64
	ConfBounds float64 // 95% bound, 1.96/sqrt(n)
}

// SignificantLags returns the lags above zero whose autocorrelation exceeds
// the confidence bound in magnitude.
func (a *ACFResult) SignificantLags() []int {
	var significant []int
	for i := 1; i < len(a.Values); i++ {
		if math.Abs(a.Values[i]) > a.ConfBounds {
			significant = append(significant, a.Lags[i])
		}
	}
	return significant
}

// contiguous returns the values of s with leading and trailing absent
// observations trimmed. An absent value between present ones breaks the lag
// structure and is rejected.
func contiguous(s *timeseries.Series) ([]float64, error) {
	start, end := 0, s.Len()
	for start < end && timeseries.IsAbsent(s.Values[start]) {
		start++
	}
	for end > start && timeseries.IsAbsent(s.Values[end-1]) {
		end--
	}
	for i := start; i < end; i++ {
		if timeseries.IsAbsent(s.Values[i]) {
			return nil, &timeseries.DegenerateInputError{
				Series: s.Name,
				Reason: fmt.Sprintf("absent observation at %s", s.Dates[i].Format(timeseries.DateLayout)),
			}
		}
	}
	return s.Values[start:end], nil
}

// Autocorrelation returns the sample autocorrelation of s for lags 0..maxLag,
// capped at n-1. Leading and trailing absent values are ignored.
func Autocorrelation(s *timeseries.Series, maxLag int) (*ACFResult, error) {
	values, err := contiguous(s)
	if err != nil {
		return nil, err
	}
	n := len(values)
	if n < 2 {
		return nil, &timeseries.DegenerateInputError{Series: s.Name, Reason: "need at least 2 observations"}
	}
	if maxLag < 0 {
		return nil, fmt.Errorf("max lag must be non-negative, got %d", maxLag)
	}
	if maxLag > n-1 {
		maxLag = n - 1
	}
	if timeseries.Flat(values) {
		return nil, &timeseries.DegenerateInputError{Series: s.Name, Reason: "zero variance"}
	}

	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	var denom float64
	for _, v := range values {
		denom += (v - mean) * (v - mean)
	}

	res := &ACFResult{
		Lags:       make([]int, maxLag+1),
		Values:     make([]float64, maxLag+1),
		ConfBounds: 1.96 / math.Sqrt(float64(n)),
	}
	for k := 0; k <= maxLag; k++ {
		var num float64
		for t := k; t < n; t++ {
			num += (values[t] - mean) * (values[t-k] - mean)
		}
		res.Lags[k] = k
		res.Values[k] = num / denom
	}
	return res, nil
}

// LjungBoxResult is the outcome of a Ljung-Box portmanteau test. A small
// PValue rejects the hypothesis of no autocorrelation up to Lags.
type LjungBoxResult struct {
	Statistic float64
	PValue    float64
	Lags      int
}

// LjungBox tests s for autocorrelation up to the given number of lags.
func LjungBox(s *timeseries.Series, lags int) (*LjungBoxResult, error) {
	if lags < 1 {
		return nil, fmt.Errorf("lags must be at least 1, got %d", lags)
	}
	acf, err := Autocorrelation(s, lags)
	if err != nil {
		return nil, err
	}
	lags = len(acf.Values) - 1
	if lags < 1 {
		return nil, &timeseries.DegenerateInputError{Series: s.Name, Reason: "too few observations for a lag"}
	}
	values, _ := contiguous(s)
	n := float64(len(values))

	var q float64
	for k := 1; k <= lags; k++ {
		q += acf.Values[k] * acf.Values[k] / (n - float64(k))
	}
	q *= n * (n + 2)

	return &LjungBoxResult{
		Statistic: q,
		PValue:    1 - chiSquaredCDF(q, float64(lags)),
		Lags:      lags,
	}, nil
}

// chiSquaredCDF is the regularized lower incomplete gamma P(k/2, x/2).
func chiSquaredCDF(x, k float64) float64 {
	if x <= 0 {
		return 0
	}
	a, z := k/2, x/2
	lg, _ := math.Lgamma(a)
	prefix := math.Exp(-z + a*math.Log(z) - lg)

	const (
		maxIter = 300
		eps     = 1e-12
		tiny    = 1e-300
	)

	if z < a+1 {
		// Series expansion.
		term := 1 / a
		sum := term
		for n := 1; n < maxIter; n++ {
			term *= z / (a + float64(n))
			sum += term
			if math.Abs(term) < math.Abs(sum)*eps {
				break
			}
		}
		return prefix * sum
	}

	// Lentz continued fraction for the upper tail.
	b := z + 1 - a
	c := 1 / tiny
	d := 1 / b
	h := d
	for i := 1; i < maxIter; i++ {
		an := -float64(i) * (float64(i) - a)
		b += 2
		d = an*d + b
		if math.Abs(d) < tiny {
			d = tiny
		}
		c = b + an/c
		if math.Abs(c) < tiny {
			c = tiny
		}
		d = 1 / d
		delta := d * c
		h *= delta
		if math.Abs(delta-1) < eps {
			break
		}
	}
	return 1 - prefix*h
}
