package stats

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/sartorproj/macrolens/frame"
	"github.com/sartorproj/macrolens/timeseries"
)

var jan2020 = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

func TestPearson(t *testing.T) {
	a := timeseries.FromValues("CPI", jan2020, []float64{1, 2, 3, 4, 5})
	b := timeseries.FromValues("PCE", jan2020, []float64{2, 4, 6, 8, 10})
	c := timeseries.FromValues("SAV", jan2020, []float64{5, 4, 3, 2, 1})

	r, err := Pearson(a, b)
	if err != nil {
		t.Fatalf("Pearson failed: %v", err)
	}
	if math.Abs(r-1) > 1e-10 {
		t.Errorf("Expected r=1, got %f", r)
	}

	r, err = Pearson(a, c)
	if err != nil {
		t.Fatalf("Pearson failed: %v", err)
	}
	if math.Abs(r+1) > 1e-10 {
		t.Errorf("Expected r=-1, got %f", r)
	}
}

func TestPearsonAlignsOnDates(t *testing.T) {
	// b starts two months later; only the three overlapping months count.
	a := timeseries.FromValues("A", jan2020, []float64{100, -100, 1, 2, 3})
	b := timeseries.FromValues("B", jan2020.AddDate(0, 2, 0), []float64{10, 20, 30, math.NaN()})

	r, err := Pearson(a, b)
	if err != nil {
		t.Fatalf("Pearson failed: %v", err)
	}
	if math.Abs(r-1) > 1e-10 {
		t.Errorf("Expected r=1 over the overlap, got %f", r)
	}
}

func TestPearsonDegenerate(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
	}{
		{"constant", []float64{1, 1, 1}, []float64{1, 2, 3}},
		{"constant inexact", []float64{1, 2, 3}, []float64{0.1, 0.1, 0.1}},
		{"single overlap", []float64{1}, []float64{1}},
		{"no overlap", []float64{}, []float64{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Pearson(
				timeseries.FromValues("a", jan2020, tt.a),
				timeseries.FromValues("b", jan2020, tt.b),
			)
			if !errors.Is(err, timeseries.ErrDegenerate) {
				t.Errorf("Expected degenerate input error, got %v", err)
			}
			if !math.IsNaN(r) {
				t.Errorf("Expected NaN, got %f", r)
			}
		})
	}
}

func TestCorrelationMatrix(t *testing.T) {
	table, err := frame.Combine([]*timeseries.Series{
		timeseries.FromValues("CPI", jan2020, []float64{1, 2, 3, 4}),
		timeseries.FromValues("PCE", jan2020, []float64{1, 3, 5, 7}),
		timeseries.FromValues("FLAT", jan2020, []float64{2, 2, 2, 2}),
	}, 0)
	if err != nil {
		t.Fatalf("Combine failed: %v", err)
	}

	m := CorrelationMatrix(table)
	if len(m.Names) != 3 {
		t.Fatalf("Expected 3 names, got %d", len(m.Names))
	}
	if m.At("CPI", "CPI") != 1 {
		t.Errorf("Expected unit diagonal, got %f", m.At("CPI", "CPI"))
	}
	if math.Abs(m.At("CPI", "PCE")-1) > 1e-10 || m.At("CPI", "PCE") != m.At("PCE", "CPI") {
		t.Errorf("Expected symmetric r=1, got %f / %f", m.At("CPI", "PCE"), m.At("PCE", "CPI"))
	}
	if !math.IsNaN(m.At("CPI", "FLAT")) || !math.IsNaN(m.At("FLAT", "FLAT")) {
		t.Error("Expected NaN for a constant column")
	}
	if !math.IsNaN(m.At("CPI", "GDP")) {
		t.Error("Expected NaN for an unknown column")
	}
}

func TestCrossCorrelation(t *testing.T) {
	// follow repeats lead three months later.
	raw := []float64{1, 5, 2, 8, 3, 9, 4, 7, 6, 10, 2, 5, 8, 1, 9}
	lead := timeseries.FromValues("QE", jan2020, raw)
	follow := timeseries.FromValues("CPI", jan2020.AddDate(0, 3, 0), raw)

	ccf := CrossCorrelation(lead, follow, 6)
	if ccf == nil {
		t.Fatal("CrossCorrelation returned nil")
	}
	if len(ccf.Values) != 7 || ccf.Lags[6] != 6 {
		t.Fatalf("Expected lags 0..6, got %v", ccf.Lags)
	}
	if math.Abs(ccf.Values[3]-1) > 1e-10 {
		t.Errorf("Expected r=1 at lag 3, got %f", ccf.Values[3])
	}

	lag, r, ok := ccf.Peak()
	if !ok || lag != 3 || math.Abs(r-1) > 1e-10 {
		t.Errorf("Expected peak at lag 3, got lag=%d r=%f ok=%v", lag, r, ok)
	}

	significant := ccf.SignificantLags()
	found := false
	for _, l := range significant {
		if l == 3 {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected lag 3 among significant lags %v", significant)
	}
}

func TestCrossCorrelationNoOverlap(t *testing.T) {
	lead := timeseries.FromValues("a", jan2020, []float64{1, 2})
	follow := timeseries.FromValues("b", jan2020.AddDate(1, 0, 0), []float64{1, 2})

	ccf := CrossCorrelation(lead, follow, 2)
	if _, _, ok := ccf.Peak(); ok {
		t.Error("Expected no peak without overlap")
	}
	if CrossCorrelation(lead, follow, -1) != nil {
		t.Error("Expected nil for negative max lag")
	}
}
