// Package events builds the event-annotation tables drawn over charts as
// vertical reference lines or shaded spans.
package events

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/sartorproj/macrolens/timeseries"
)

// Pair is a literal event definition. End is optional and marks the end of a
// shaded span starting at Date.
type Pair struct {
	Label string `yaml:"label"`
	Date  string `yaml:"date"`
	End   string `yaml:"end,omitempty"`
}

// Event is a parsed annotation. End is the zero time for a point event.
type Event struct {
	Label string
	Date  time.Time
	End   time.Time
}

// MarshalJSON encodes the event with its dates as YYYY-MM-DD.
func (e Event) MarshalJSON() ([]byte, error) {
	out := struct {
		Event string `json:"Event"`
		Date  string `json:"Date"`
		End   string `json:"End,omitempty"`
	}{
		Event: e.Label,
		Date:  e.Date.Format(timeseries.DateLayout),
	}
	if !e.End.IsZero() {
		out.End = e.End.Format(timeseries.DateLayout)
	}
	return json.Marshal(out)
}

// Table is a named set of events.
type Table struct {
	Name   string
	Events []Event
}

// Build parses pairs in the order given.
func Build(name string, pairs []Pair) (*Table, error) {
	t := &Table{Name: name, Events: make([]Event, 0, len(pairs))}
	for _, p := range pairs {
		e, err := parse(name, p)
		if err != nil {
			return nil, err
		}
		t.Events = append(t.Events, e)
	}
	return t, nil
}

// FromMap builds a table from a label -> date mapping, ordered by date and
// then label.
func FromMap(name string, m map[string]string) (*Table, error) {
	pairs := make([]Pair, 0, len(m))
	for label, date := range m {
		pairs = append(pairs, Pair{Label: label, Date: date})
	}
	t, err := Build(name, pairs)
	if err != nil {
		return nil, err
	}
	t.sort()
	return t, nil
}

func parse(source string, p Pair) (Event, error) {
	d, err := timeseries.ParseDate(p.Date)
	if err != nil {
		return Event{}, withSource(err, source, p.Label)
	}
	e := Event{Label: p.Label, Date: d}
	if p.End != "" {
		end, err := timeseries.ParseDate(p.End)
		if err != nil {
			return Event{}, withSource(err, source, p.Label)
		}
		e.End = end
	}
	return e, nil
}

func withSource(err error, source, label string) error {
	if pe, ok := err.(*timeseries.ParseError); ok {
		pe.Source = source
		pe.Field = label + " date"
	}
	return err
}

func (t *Table) sort() {
	sort.SliceStable(t.Events, func(i, j int) bool {
		a, b := t.Events[i], t.Events[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.Label < b.Label
	})
}

// Len returns the number of events.
func (t *Table) Len() int {
	return len(t.Events)
}

// Merge returns a new table holding the events of every table, ordered by
// date.
func Merge(name string, tables ...*Table) *Table {
	out := &Table{Name: name}
	for _, t := range tables {
		out.Events = append(out.Events, t.Events...)
	}
	out.sort()
	return out
}

// Between returns the events whose date falls within [from, to]. A zero bound
// is open.
func (t *Table) Between(from, to time.Time) *Table {
	out := &Table{Name: t.Name, Events: []Event{}}
	for _, e := range t.Events {
		if !from.IsZero() && e.Date.Before(from) {
			continue
		}
		if !to.IsZero() && e.Date.After(to) {
			continue
		}
		out.Events = append(out.Events, e)
	}
	return out
}

// Pandemic returns the COVID-19 emergency, stimulus and quantitative easing
// events ordered by date. Each event is shaded until the next one starts and
// the last runs to August 2022.
func Pandemic() *Table {
	t, _ := Build("pandemic", []Pair{
		{Label: "US COVID Emergency Declaration", Date: "2020-02-03", End: "2020-03-01"},
		{Label: "US Quantitative Easing 4", Date: "2020-03-01", End: "2020-04-01"},
		{Label: "Stimulus Round 1", Date: "2020-04-01", End: "2020-12-01"},
		{Label: "Stimulus Round 2", Date: "2020-12-01", End: "2021-03-01"},
		{Label: "Stimulus Round 3", Date: "2021-03-01", End: "2022-08-01"},
	})
	return t
}

// War returns the start of the Russia-Ukraine war.
func War() *Table {
	t, _ := Build("war", []Pair{
		{Label: "Russia Ukraine War", Date: "2022-02-24"},
	})
	return t
}
