// Package timeseries provides the dated series type used throughout macrolens,
// along with loading, windowing and derived-metric transforms.
//
// # Creating a Series
//
// Build a monthly series from values:
//
//	cpi := timeseries.FromValues("CPIAUCSL", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
//	    []float64{258.7, 259.0, 258.1})
//
// Or from explicit dates, which are sorted and checked for duplicates:
//
//	s, err := timeseries.New("UNRATE", dates, values)
//
// # Loading from CSV
//
// Inputs have a header row, a date column and one value column:
//
//	series, err := timeseries.LoadCSV("data/CPIAUCSL.csv", nil)
//
//	loader := timeseries.DirLoader{Dir: "data"}
//	pce, err := loader.Load("PCE")
//
// A missing file yields a *NotFoundError, a malformed cell a *ParseError and a
// repeated date a *JoinKeyError. FRED's "." marker is skipped as missing.
//
// # Absent Values
//
// Missing observations are NaN. Use IsAbsent rather than comparing to zero:
//
//	if timeseries.IsAbsent(v) { ... }
//
// # Transformations
//
// Every transform returns a new series and leaves the receiver untouched:
//
//	recent := series.Tail(48)              // most recent 48 observations
//	z, err := recent.Normalize()           // sample z-score over the window
//	l, err := recent.Lagged(12)            // lag, diff and pct change
//	yoy := recent.YoY()                    // 100 * (v[t]-v[t-12]) / |v[t-12]|
//	avg, err := recent.Rolling(12)         // trailing 12-month mean
//	monthly, err := daily.Monthly(timeseries.MonthlyLast)
//	since := series.Between(from, time.Time{})
package timeseries
