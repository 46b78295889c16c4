package dashboard

import (
	"fmt"
	"math"

	"github.com/sartorproj/macrolens/events"
	"github.com/sartorproj/macrolens/frame"
	"github.com/sartorproj/macrolens/internal/config"
	"github.com/sartorproj/macrolens/stats"
	"github.com/sartorproj/macrolens/timeseries"
)

func (c *Context) load(ids ...string) ([]*timeseries.Series, error) {
	out := make([]*timeseries.Series, len(ids))
	for i, id := range ids {
		s, err := c.Series(id)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func (c *Context) eventSet(names ...string) ([]events.Event, error) {
	tables := make([]*events.Table, 0, len(names))
	for _, n := range names {
		t, err := c.events.Get(n)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return events.Merge("chart", tables...).Events, nil
}

// setStat records v rounded to places. Non-finite values are left out since
// JSON cannot carry them.
func setStat(m map[string]float64, key string, v float64, places int32) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	m[key] = round(v, places)
}

// labels annotates every present value of column with its formatted text.
func labels(t *frame.Table, column string, format func(float64) string) []Label {
	out := []Label{}
	for i, d := range t.Dates {
		v, ok := t.Value(i, column)
		if !ok || timeseries.IsAbsent(v) {
			continue
		}
		out = append(out, Label{Date: d.Format(timeseries.DateLayout), Text: format(v)})
	}
	return out
}

// Overview is the normalized five-indicator comparison over the overview
// window, with the policy rate as a monthly overlay on the same dates.
func (c *Context) Overview() (*Chart, error) {
	ind := c.cfg.Indicators
	series, err := c.load(ind.CPI, ind.PCE, ind.Savings, ind.Credit, ind.Unemployment)
	if err != nil {
		return nil, err
	}
	combined, err := frame.CombineNormalized(series, c.cfg.Charts.OverviewWindow)
	if err != nil {
		return nil, err
	}

	rate, err := c.Series(ind.Interest)
	if err != nil {
		return nil, err
	}
	monthly, err := rate.Monthly(timeseries.MonthlyLast)
	if err != nil {
		return nil, err
	}
	var overlay *frame.Table
	if combined.Len() > 0 {
		overlay, err = frame.Combine([]*timeseries.Series{
			monthly.Between(combined.Dates[0], combined.Dates[combined.Len()-1]),
		}, 0)
		if err != nil {
			return nil, err
		}
	}

	return &Chart{
		ID:       "overview",
		Title:    "Macroeconomic Indicators",
		Subtitle: fmt.Sprintf("Normalized, trailing %d months", c.cfg.Charts.OverviewWindow),
		Wide:     overlay,
		Long:     frame.Melt(combined, frame.DefaultLabelColumn),
	}, nil
}

// PriceComparison compares normalized CPI and PCE and reports their Pearson
// correlation and the lag at which PCE best leads CPI.
func (c *Context) PriceComparison() (*Chart, error) {
	ind := c.cfg.Indicators
	series, err := c.load(ind.CPI, ind.PCE)
	if err != nil {
		return nil, err
	}
	combined, err := frame.CombineNormalized(series, c.cfg.Charts.ComparisonWindow)
	if err != nil {
		return nil, err
	}
	combined, err = combined.Rename(map[string]string{ind.CPI: "CPI"})
	if err != nil {
		return nil, err
	}
	shown := combined.Between(config.Date(c.cfg.Charts.ComparisonFrom), config.Date(""))

	cpi, _ := shown.Series("CPI")
	pce, _ := shown.Series(ind.PCE)
	r, err := stats.Pearson(cpi, pce)
	if err != nil {
		return nil, err
	}
	chartStats := map[string]float64{}
	setStat(chartStats, "r", r, 3)

	if ccf := stats.CrossCorrelation(pce, cpi, c.cfg.Charts.MaxLag); ccf != nil {
		if lag, peak, ok := ccf.Peak(); ok {
			chartStats["lead_lag"] = float64(lag)
			setStat(chartStats, "lead_r", peak, 3)
		}
	}

	return &Chart{
		ID:       "price-comparison",
		Title:    "Consumer Price Index vs Personal Consumption Expenditure",
		Subtitle: "A 2-Year Metric Comparison",
		Wide:     shown,
		Long:     frame.Melt(shown, frame.DefaultLabelColumn),
		Labels:   []Label{{Text: "r: " + fixed(r, 3)}},
		Stats:    chartStats,
	}, nil
}

// Headline is all-up CPI inflation year over year across the components
// window, with the pandemic events as reference lines.
func (c *Context) Headline() (*Chart, error) {
	cpi, err := c.Series(c.cfg.Indicators.CPI)
	if err != nil {
		return nil, err
	}
	table, err := frame.Combine([]*timeseries.Series{cpi.YoY().Rename("YoY")}, c.cfg.Charts.ComponentsWindow)
	if err != nil {
		return nil, err
	}
	evs, err := c.eventSet("pandemic")
	if err != nil {
		return nil, err
	}

	// Persistence of inflation: lag-1 autocorrelation and a Ljung-Box test
	// over one year of lags.
	chartStats := map[string]float64{}
	yoy, _ := table.Series("YoY")
	if acf, err := stats.Autocorrelation(yoy, 1); err == nil && len(acf.Values) > 1 {
		setStat(chartStats, "acf_1", acf.Values[1], 3)
	}
	if lb, err := stats.LjungBox(yoy, 12); err == nil {
		setStat(chartStats, "ljung_box_q", lb.Statistic, 2)
		setStat(chartStats, "ljung_box_p", lb.PValue, 4)
	}

	return &Chart{
		ID:     "headline",
		Title:  "All Up Inflation (CPI)",
		Wide:   table,
		Events: evs,
		Stats:  chartStats,
	}, nil
}

// Inflation is CPI with month-over-month and year-over-year inflation over
// the inflation window, shown from the configured date, annotated with YoY
// text and the pandemic and war events.
func (c *Context) Inflation() (*Chart, error) {
	cpi, err := c.Series(c.cfg.Indicators.CPI)
	if err != nil {
		return nil, err
	}
	windowed := cpi.Tail(c.cfg.Charts.InflationWindow).Rename("CPI")
	table, err := frame.Combine([]*timeseries.Series{
		windowed,
		windowed.MoM().Rename("MoM"),
		windowed.YoY().Rename("YoY"),
	}, 0)
	if err != nil {
		return nil, err
	}
	shown := table.Between(config.Date(c.cfg.Charts.InflationFrom), config.Date(""))

	evs, err := c.eventSet("pandemic", "war")
	if err != nil {
		return nil, err
	}
	return &Chart{
		ID:     "inflation",
		Title:  "Inflation Causal Relationship Analysis",
		Wide:   shown,
		Events: evs,
		Labels: labels(shown, "YoY", func(v float64) string { return fixed(v, 1) }),
	}, nil
}

// Savings is the personal saving rate with its trailing rolling mean, both as
// fractions, shaded with the pandemic spans.
func (c *Context) Savings() (*Chart, error) {
	s, err := c.Series(c.cfg.Indicators.Savings)
	if err != nil {
		return nil, err
	}
	windowed := s.Tail(c.cfg.Charts.SavingsWindow).Rename("Savings")
	rolling, err := windowed.Rolling(c.cfg.Charts.SavingsRolling)
	if err != nil {
		return nil, err
	}
	table, err := frame.Combine([]*timeseries.Series{
		windowed.Scale(0.01),
		rolling.Scale(0.01),
	}, 0)
	if err != nil {
		return nil, err
	}
	shown := table.Between(config.Date(c.cfg.Charts.SavingsFrom), config.Date(""))

	evs, err := c.eventSet("pandemic")
	if err != nil {
		return nil, err
	}
	return &Chart{
		ID:     "savings",
		Title:  "U.S. Personal Savings Rate & 12-Month Average",
		Wide:   shown,
		Events: evs,
		Labels: labels(shown, "Savings", percent),
	}, nil
}

// Interest is the policy rate between the configured dates in long form.
func (c *Context) Interest() (*Chart, error) {
	rate, err := c.Series(c.cfg.Indicators.Interest)
	if err != nil {
		return nil, err
	}
	table, err := frame.Combine([]*timeseries.Series{
		rate.Between(config.Date(c.cfg.Charts.InterestFrom), config.Date(c.cfg.Charts.InterestTo)),
	}, 0)
	if err != nil {
		return nil, err
	}
	return &Chart{
		ID:    "interest",
		Title: "Federal Funds Target Rate",
		Wide:  table,
		Long:  frame.Melt(table, frame.DefaultLabelColumn),
	}, nil
}

// Components is year-over-year inflation of each CPI sub-component across the
// components window, labelled for display.
func (c *Context) Components() (*Chart, error) {
	comps := c.cfg.Indicators.Components
	yoy := make([]*timeseries.Series, 0, len(comps))
	for _, comp := range comps {
		s, err := c.Series(comp.ID)
		if err != nil {
			return nil, err
		}
		yoy = append(yoy, s.YoY().Rename(comp.Label))
	}
	table, err := frame.Combine(yoy, c.cfg.Charts.ComponentsWindow)
	if err != nil {
		return nil, err
	}
	return &Chart{
		ID:    "components",
		Title: "CPI Components YoY Inflation %",
		Wide:  table,
		Long:  frame.Melt(table, "Component"),
	}, nil
}
