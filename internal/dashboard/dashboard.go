// Package dashboard loads the configured indicators once and derives every
// chart dataset from them.
package dashboard

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/sartorproj/macrolens/events"
	"github.com/sartorproj/macrolens/frame"
	"github.com/sartorproj/macrolens/internal/config"
	"github.com/sartorproj/macrolens/timeseries"
)

// Loader resolves a series ID to its observations. timeseries.DirLoader and
// store.Store both satisfy it.
type Loader interface {
	Load(id string) (*timeseries.Series, error)
}

// Label is a text annotation attached to one date of a chart, or to the
// whole chart when Date is empty.
type Label struct {
	Date string `json:"DATE,omitempty"`
	Text string `json:"text"`
}

// Chart is the dataset behind one chart: a wide table for overlays, a long
// table for multi-series lines, event annotations and summary statistics.
type Chart struct {
	ID       string             `json:"id"`
	Title    string             `json:"title"`
	Subtitle string             `json:"subtitle,omitempty"`
	Wide     *frame.Table       `json:"wide,omitempty"`
	Long     *frame.Long        `json:"long,omitempty"`
	Events   []events.Event     `json:"events,omitempty"`
	Labels   []Label            `json:"labels,omitempty"`
	Stats    map[string]float64 `json:"stats,omitempty"`
}

// Context holds every loaded series and event set. It is immutable after New.
type Context struct {
	cfg    config.Config
	log    logrus.FieldLogger
	series map[string]*timeseries.Series
	events events.Catalog
}

// New loads every indicator named in cfg through loader. A missing or
// malformed series fails the whole context.
func New(cfg *config.Config, loader Loader, log logrus.FieldLogger) (*Context, error) {
	c := &Context{
		cfg:    *cfg,
		log:    log,
		series: make(map[string]*timeseries.Series),
		events: events.Builtin(),
	}

	ind := cfg.Indicators
	ids := []string{ind.CPI, ind.PCE, ind.Savings, ind.Credit, ind.Unemployment, ind.Interest}
	for _, comp := range ind.Components {
		ids = append(ids, comp.ID)
	}
	for _, id := range ids {
		if _, ok := c.series[id]; ok {
			continue
		}
		s, err := loader.Load(id)
		if err != nil {
			return nil, fmt.Errorf("failed to load series %s: %w", id, err)
		}
		c.series[id] = s
		log.WithFields(logrus.Fields{
			"series":       id,
			"observations": s.Len(),
		}).Debug("Loaded series")
	}

	if cfg.Data.EventsFile != "" {
		extra, err := events.LoadCatalog(cfg.Data.EventsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load events: %w", err)
		}
		c.events = c.events.Merge(extra)
	}

	return c, nil
}

// Series returns a loaded series by ID.
func (c *Context) Series(id string) (*timeseries.Series, error) {
	s, ok := c.series[id]
	if !ok {
		return nil, &timeseries.NotFoundError{Source: id}
	}
	return s, nil
}

// Events returns the event catalog, built-in sets included.
func (c *Context) Events() events.Catalog {
	return c.events
}

type builder struct {
	id    string
	build func() (*Chart, error)
}

func (c *Context) builders() []builder {
	return []builder{
		{"overview", c.Overview},
		{"price-comparison", c.PriceComparison},
		{"headline", c.Headline},
		{"inflation", c.Inflation},
		{"savings", c.Savings},
		{"interest", c.Interest},
		{"components", c.Components},
	}
}

// IDs lists the chart IDs in dashboard order.
func (c *Context) IDs() []string {
	bs := c.builders()
	ids := make([]string, len(bs))
	for i, b := range bs {
		ids[i] = b.id
	}
	return ids
}

// Chart builds one chart by ID. An unknown ID is a *timeseries.NotFoundError.
func (c *Context) Chart(id string) (*Chart, error) {
	for _, b := range c.builders() {
		if b.id == id {
			chart, err := b.build()
			if err != nil {
				return nil, fmt.Errorf("chart %s: %w", id, err)
			}
			c.log.WithField("chart", id).Debug("Built chart")
			return chart, nil
		}
	}
	return nil, &timeseries.NotFoundError{Source: "chart:" + id}
}

// Charts builds every chart in dashboard order. The first failure aborts.
func (c *Context) Charts() ([]*Chart, error) {
	ids := c.IDs()
	charts := make([]*Chart, 0, len(ids))
	for _, id := range ids {
		chart, err := c.Chart(id)
		if err != nil {
			return nil, err
		}
		charts = append(charts, chart)
	}
	return charts, nil
}

// round rounds v half away from zero to the given decimal places.
func round(v float64, places int32) float64 {
	if timeseries.IsAbsent(v) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

// fixed formats v with exactly the given decimal places.
func fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

// percent formats a fraction as a percentage with one decimal place.
func percent(v float64) string {
	return decimal.NewFromFloat(v).Shift(2).StringFixed(1) + "%"
}
