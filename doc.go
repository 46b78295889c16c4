// Package macrolens prepares U.S. macroeconomic indicator data for an
// inflation dashboard.
//
// Monthly series such as CPI, PCE, the personal saving rate, revolving credit
// and unemployment are loaded from FRED-style CSV files or a SQLite store,
// windowed, normalized and combined into chart-ready tables with derived
// inflation metrics and annotated with historical events.
//
// # Quick Start
//
// Export every chart as JSON:
//
//	macrolens export --config configs/config.yaml --out charts.json
//
// Serve the charts over HTTP:
//
//	macrolens serve --config configs/config.yaml
//
// Or use the library directly:
//
//	cpi, _ := timeseries.LoadCSV("data/CPIAUCSL.csv", nil)
//	pce, _ := timeseries.LoadCSV("data/PCE.csv", nil)
//	table, _ := frame.CombineNormalized([]*timeseries.Series{cpi, pce}, 48)
//	r, _ := stats.Pearson(cpi, pce)
//
// # Packages
//
//   - timeseries: Dated series, CSV loading, windowing and derived metrics
//   - frame: Outer-joined wide tables and long-form reshaping
//   - stats: Correlation, cross-correlation and persistence measures
//   - events: Historical event annotations and catalogs
//   - cmd/macrolens: Command-line export, import and HTTP server
package macrolens
