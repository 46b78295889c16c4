// Package stats provides the correlation and persistence measures reported
// alongside the dashboard charts.
//
// # Correlation
//
// Pearson correlation of two series over the dates where both are present:
//
//	r, err := stats.Pearson(cpi, pce)
//
// Pairwise correlation of every column of a table:
//
//	m := stats.CorrelationMatrix(table)
//	fmt.Printf("CPI/PCE: %.3f\n", m.At("CPI", "PCE"))
//
// # Cross-Correlation
//
// Correlation of a leading series against a following one at monthly lags.
// A positive lag means lead moves that many months before follow:
//
//	ccf := stats.CrossCorrelation(pce, cpi, 18)
//	if lag, r, ok := ccf.Peak(); ok {
//	    fmt.Printf("PCE leads CPI by %d months (r=%.3f)\n", lag, r)
//	}
//
// # Persistence
//
// Sample autocorrelation and the Ljung-Box test, used to judge how persistent
// an inflation rate is. Absent values at either end are ignored:
//
//	acf, err := stats.Autocorrelation(yoy, 12)
//	lb, err := stats.LjungBox(yoy, 12)
//	if lb.PValue < 0.05 {
//	    // inflation is autocorrelated up to a year
//	}
//
// Inputs too short or too flat to measure yield a
// *timeseries.DegenerateInputError.
package stats
