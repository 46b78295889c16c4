package timeseries

import (
	"errors"
	"math"
	"testing"
	"time"
)

var jan2020 = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

func month(i int) time.Time {
	return jan2020.AddDate(0, i, 0)
}

func TestNewSortsByDate(t *testing.T) {
	dates := []time.Time{month(2), month(0), month(1)}
	s, err := New("CPI", dates, []float64{3, 1, 2})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	for i, want := range []float64{1, 2, 3} {
		if s.Values[i] != want {
			t.Errorf("Expected value %f at index %d, got %f", want, i, s.Values[i])
		}
		if !s.Dates[i].Equal(month(i)) {
			t.Errorf("Expected date %s at index %d, got %s", month(i), i, s.Dates[i])
		}
	}

	// Inputs are copied.
	dates[0] = month(10)
	if !s.Dates[2].Equal(month(2)) {
		t.Error("New aliased the caller's date slice")
	}
}

func TestNewDuplicateDate(t *testing.T) {
	_, err := New("CPI", []time.Time{month(0), month(1), month(1)}, []float64{1, 2, 3})

	var jke *JoinKeyError
	if !errors.As(err, &jke) {
		t.Fatalf("Expected JoinKeyError, got %v", err)
	}
	if !jke.Date.Equal(month(1)) {
		t.Errorf("Expected duplicate date %s, got %s", month(1), jke.Date)
	}
	if !errors.Is(err, ErrJoinKey) {
		t.Error("Expected errors.Is(err, ErrJoinKey)")
	}
}

func TestNewLengthMismatch(t *testing.T) {
	if _, err := New("CPI", []time.Time{month(0)}, []float64{1, 2}); err == nil {
		t.Error("Expected error for mismatched lengths")
	}
}

func TestFlat(t *testing.T) {
	tests := []struct {
		values []float64
		want   bool
	}{
		{[]float64{0.1, 0.1, 0.1}, true},
		{[]float64{5}, true},
		{[]float64{}, true},
		{[]float64{0.1, 0.1, 0.1000000001}, false},
	}
	for _, tt := range tests {
		if got := Flat(tt.values); got != tt.want {
			t.Errorf("Flat(%v) = %v, want %v", tt.values, got, tt.want)
		}
	}
}

func TestMeanStd(t *testing.T) {
	s := FromValues("x", jan2020, []float64{2, 4, 4, 4, 5, 5, 7, 9})

	if math.Abs(s.Mean()-5) > 1e-10 {
		t.Errorf("Expected mean 5, got %f", s.Mean())
	}
	// Sample variance: 32 / 7.
	if math.Abs(s.Std()-math.Sqrt(32.0/7.0)) > 1e-10 {
		t.Errorf("Expected sample std %f, got %f", math.Sqrt(32.0/7.0), s.Std())
	}
}

func TestMeanStdIgnoreAbsent(t *testing.T) {
	s := FromValues("x", jan2020, []float64{Absent(), 1, 3, Absent()})

	if math.Abs(s.Mean()-2) > 1e-10 {
		t.Errorf("Expected mean 2, got %f", s.Mean())
	}
	if !math.IsNaN(FromValues("x", jan2020, nil).Mean()) {
		t.Error("Expected NaN mean for empty series")
	}
	if !math.IsNaN(FromValues("x", jan2020, []float64{1}).Std()) {
		t.Error("Expected NaN std for a single observation")
	}
}

func TestTail(t *testing.T) {
	s := FromValues("x", jan2020, []float64{1, 2, 3, 4, 5})

	tests := []struct {
		name     string
		k        int
		expected []float64
	}{
		{"shorter", 3, []float64{3, 4, 5}},
		{"exact", 5, []float64{1, 2, 3, 4, 5}},
		{"longer", 60, []float64{1, 2, 3, 4, 5}},
		{"one", 1, []float64{5}},
		{"zero keeps all", 0, []float64{1, 2, 3, 4, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tail := s.Tail(tt.k)
			if tail.Len() != len(tt.expected) {
				t.Fatalf("Expected length %d, got %d", len(tt.expected), tail.Len())
			}
			offset := s.Len() - tail.Len()
			for i, v := range tail.Values {
				if v != tt.expected[i] {
					t.Errorf("Expected %f at index %d, got %f", tt.expected[i], i, v)
				}
				if !tail.Dates[i].Equal(s.Dates[offset+i]) {
					t.Errorf("Date at index %d is not the tail of the input", i)
				}
			}
		})
	}
}

func TestTailIsACopy(t *testing.T) {
	s := FromValues("x", jan2020, []float64{1, 2, 3})
	tail := s.Tail(2)
	tail.Values[0] = 100

	if s.Values[1] != 2 {
		t.Errorf("Tail aliased the input, got %f", s.Values[1])
	}
}

func TestBetween(t *testing.T) {
	s := FromValues("x", jan2020, []float64{1, 2, 3, 4, 5, 6})

	tests := []struct {
		name     string
		from, to time.Time
		expected []float64
	}{
		{"closed", month(1), month(3), []float64{2, 3, 4}},
		{"open end", month(4), time.Time{}, []float64{5, 6}},
		{"open start", time.Time{}, month(0), []float64{1}},
		{"mid-month bounds", month(1).AddDate(0, 0, 10), month(3).AddDate(0, 0, 10), []float64{3, 4}},
		{"empty", month(10), time.Time{}, []float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Between(tt.from, tt.to)
			if got.Len() != len(tt.expected) {
				t.Fatalf("Expected length %d, got %d", len(tt.expected), got.Len())
			}
			for i, v := range got.Values {
				if v != tt.expected[i] {
					t.Errorf("Expected %f at index %d, got %f", tt.expected[i], i, v)
				}
			}
		})
	}
}

func TestIndex(t *testing.T) {
	s := FromValues("x", jan2020, []float64{1, 2, 3})

	if i := s.Index(month(2)); i != 2 {
		t.Errorf("Expected index 2, got %d", i)
	}
	if i := s.Index(month(5)); i != -1 {
		t.Errorf("Expected -1 for missing date, got %d", i)
	}
}

func TestScaleAndRename(t *testing.T) {
	s := FromValues("PSAVERT", jan2020, []float64{10, Absent(), 25})
	scaled := s.Scale(0.01).Rename("Savings")

	if scaled.Name != "Savings" || s.Name != "PSAVERT" {
		t.Errorf("Unexpected names %q and %q", scaled.Name, s.Name)
	}
	if math.Abs(scaled.Values[0]-0.1) > 1e-10 || math.Abs(scaled.Values[2]-0.25) > 1e-10 {
		t.Errorf("Unexpected scaled values %v", scaled.Values)
	}
	if !IsAbsent(scaled.Values[1]) {
		t.Error("Scale should keep absent values absent")
	}
	if s.Values[0] != 10 {
		t.Error("Scale modified its receiver")
	}
}

func TestMonthly(t *testing.T) {
	day := func(m, d int) time.Time { return time.Date(2020, time.Month(m), d, 0, 0, 0, 0, time.UTC) }
	daily, err := New("DFEDTARU",
		[]time.Time{day(1, 1), day(1, 15), day(1, 31), day(2, 1), day(2, 2), day(4, 9)},
		[]float64{1.75, 1.75, 1.5, 1.5, Absent(), 0.25})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	tests := []struct {
		method   MonthlyMethod
		expected []float64
	}{
		{MonthlyFirst, []float64{1.75, 1.5, 0.25}},
		{MonthlyLast, []float64{1.5, 1.5, 0.25}},
		{MonthlyMean, []float64{5.0 / 3.0, 1.5, 0.25}},
	}

	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			m, err := daily.Monthly(tt.method)
			if err != nil {
				t.Fatalf("Monthly failed: %v", err)
			}
			wantDates := []time.Time{day(1, 1), day(2, 1), day(4, 1)}
			if m.Len() != len(tt.expected) {
				t.Fatalf("Expected %d months, got %d", len(tt.expected), m.Len())
			}
			for i := range tt.expected {
				if math.Abs(m.Values[i]-tt.expected[i]) > 1e-10 {
					t.Errorf("Expected %f at index %d, got %f", tt.expected[i], i, m.Values[i])
				}
				if !m.Dates[i].Equal(wantDates[i]) {
					t.Errorf("Expected date %s at index %d, got %s", wantDates[i], i, m.Dates[i])
				}
			}
		})
	}

	if _, err := daily.Monthly("median"); err == nil {
		t.Error("Expected error for unknown method")
	}
}
