package events

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/sartorproj/macrolens/timeseries"
)

// Catalog holds named event tables.
type Catalog map[string]*Table

// Builtin returns the catalog of events shipped with macrolens.
func Builtin() Catalog {
	return Catalog{
		"pandemic": Pandemic(),
		"war":      War(),
	}
}

// Names returns the catalog's table names, sorted.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for n := range c {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Get returns the named table.
func (c Catalog) Get(name string) (*Table, error) {
	t, ok := c[name]
	if !ok {
		return nil, &timeseries.NotFoundError{Source: "events:" + name}
	}
	return t, nil
}

// ReadCatalog decodes a YAML document mapping set names to lists of
// {label, date, end} entries.
func ReadCatalog(r io.Reader, source string) (Catalog, error) {
	var raw map[string][]Pair
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return Catalog{}, nil
		}
		return nil, &timeseries.ParseError{Source: source, Field: "catalog", Err: err}
	}

	c := make(Catalog, len(raw))
	for name, pairs := range raw {
		t, err := Build(name, pairs)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", source, err)
		}
		c[name] = t
	}
	return c, nil
}

// LoadCatalog reads a YAML catalog file.
func LoadCatalog(path string) (Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &timeseries.NotFoundError{Source: path, Err: err}
		}
		return nil, err
	}
	defer f.Close()

	return ReadCatalog(f, path)
}

// Merge returns a catalog with the tables of other layered over c.
func (c Catalog) Merge(other Catalog) Catalog {
	out := make(Catalog, len(c)+len(other))
	for n, t := range c {
		out[n] = t
	}
	for n, t := range other {
		out[n] = t
	}
	return out
}
