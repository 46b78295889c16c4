package timeseries

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

var errNotFinite = errors.New("not a finite number")

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	DateColumn     string   // Column name for dates (default: first column)
	ValueColumn    string   // Column name for values (default: the only other column)
	DateFormat     string   // Date format (default: "2006-01-02")
	Delimiter      rune     // Field delimiter (default: ',')
	MissingMarkers []string // Cells treated as a missing observation and skipped
}

// DefaultCSVOptions returns default options for CSV loading. FRED publishes
// "." for a missing observation.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		DateFormat:     DateLayout,
		Delimiter:      ',',
		MissingMarkers: []string{"", "."},
	}
}

// LoadCSV loads a series from a CSV file with a header row.
func LoadCSV(filename string, opts *CSVOptions) (*Series, error) {
	file, err := os.Open(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Source: filename, Err: err}
		}
		return nil, err
	}
	defer file.Close()

	return readCSV(file, filename, opts)
}

// LoadCSVFromReader loads a series from an io.Reader.
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) (*Series, error) {
	return readCSV(r, "", opts)
}

func readCSV(r io.Reader, source string, opts *CSVOptions) (*Series, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}
	layout := opts.DateFormat
	if layout == "" {
		layout = DateLayout
	}

	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &ParseError{Source: source, Line: 1, Field: "header", Err: errors.New("empty input")}
	}
	if err != nil {
		return nil, &ParseError{Source: source, Line: 1, Field: "header", Err: err}
	}

	dateIdx, valueIdx, err := locateColumns(header, opts)
	if err != nil {
		return nil, &ParseError{Source: source, Line: 1, Field: "header", Value: strings.Join(header, ","), Err: err}
	}
	name := cleanCell(header[valueIdx])

	missing := make(map[string]bool, len(opts.MissingMarkers))
	for _, m := range opts.MissingMarkers {
		missing[m] = true
	}

	var (
		dates  []time.Time
		values []float64
	)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Source: source, Line: line, Field: "row", Err: err}
		}
		if len(record) <= dateIdx || len(record) <= valueIdx {
			return nil, &ParseError{Source: source, Line: line, Field: "row", Value: strings.Join(record, ","),
				Err: fmt.Errorf("expected at least %d fields", max(dateIdx, valueIdx)+1)}
		}

		dateStr := cleanCell(record[dateIdx])
		ts, err := time.Parse(layout, dateStr)
		if err != nil {
			return nil, &ParseError{Source: source, Line: line, Field: "date", Value: dateStr, Err: err}
		}

		valStr := cleanCell(record[valueIdx])
		if missing[valStr] {
			continue
		}
		val, err := strconv.ParseFloat(valStr, 64)
		if err != nil {
			return nil, &ParseError{Source: source, Line: line, Field: name, Value: valStr, Err: err}
		}
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil, &ParseError{Source: source, Line: line, Field: name, Value: valStr, Err: errNotFinite}
		}

		dates = append(dates, ts)
		values = append(values, val)
	}

	return New(name, dates, values)
}

func locateColumns(header []string, opts *CSVOptions) (dateIdx, valueIdx int, err error) {
	if len(header) < 2 {
		return -1, -1, fmt.Errorf("need a date and a value column, found %d column(s)", len(header))
	}

	dateIdx, valueIdx = -1, -1
	if opts.DateColumn == "" {
		dateIdx = 0
	}
	for i, h := range header {
		h = cleanCell(h)
		if opts.DateColumn != "" && h == opts.DateColumn {
			dateIdx = i
		}
		if opts.ValueColumn != "" && h == opts.ValueColumn {
			valueIdx = i
		}
	}
	if dateIdx == -1 {
		return -1, -1, fmt.Errorf("date column %q not found", opts.DateColumn)
	}

	if opts.ValueColumn != "" {
		if valueIdx == -1 {
			return -1, -1, fmt.Errorf("value column %q not found", opts.ValueColumn)
		}
		return dateIdx, valueIdx, nil
	}

	if len(header) != 2 {
		return -1, -1, fmt.Errorf("%d candidate value columns, set a value column", len(header)-1)
	}
	return dateIdx, 1 - dateIdx, nil
}

func cleanCell(s string) string {
	return strings.TrimSpace(strings.Trim(s, "\""))
}

// DirLoader loads series stored one per file as <Dir>/<id>.csv.
type DirLoader struct {
	Dir     string
	Options *CSVOptions
}

// Load reads the series with the given identifier. The series is named id
// whatever its value column header says.
func (d DirLoader) Load(id string) (*Series, error) {
	s, err := LoadCSV(filepath.Join(d.Dir, id+".csv"), d.Options)
	if err != nil {
		return nil, err
	}
	return s.Rename(id), nil
}
