package frame

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/sartorproj/macrolens/timeseries"
)

var errInfinite = errors.New("infinite value cannot be encoded")

// DateColumn is the name the date key is published under.
const DateColumn = "DATE"

// MarshalJSON encodes the table as an array of row records keyed by column
// name, in column order. Absent cells encode as null.
func (t *Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, d := range t.Dates {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(`{"` + DateColumn + `":"` + d.Format(timeseries.DateLayout) + `"`)
		for _, c := range t.Columns {
			buf.WriteByte(',')
			if err := writeKey(&buf, c.Name); err != nil {
				return nil, err
			}
			if err := writeNumber(&buf, c.Values[i]); err != nil {
				return nil, fmt.Errorf("column %s at %s: %w", c.Name, d.Format(timeseries.DateLayout), err)
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// MarshalJSON encodes the long table as an array of
// {"DATE", <LabelColumn>, "value"} records.
func (l *Long) MarshalJSON() ([]byte, error) {
	label := l.LabelColumn
	if label == "" {
		label = DefaultLabelColumn
	}

	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, r := range l.Rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(`{"` + DateColumn + `":"` + r.Date.Format(timeseries.DateLayout) + `",`)
		if err := writeKey(&buf, label); err != nil {
			return nil, err
		}
		name, err := json.Marshal(r.Label)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteString(`,"value":`)
		if err := writeNumber(&buf, r.Value); err != nil {
			return nil, fmt.Errorf("%s at %s: %w", r.Label, r.Date.Format(timeseries.DateLayout), err)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	return nil
}

func writeNumber(buf *bytes.Buffer, v float64) error {
	if timeseries.IsAbsent(v) {
		buf.WriteString("null")
		return nil
	}
	if math.IsInf(v, 0) {
		return errInfinite
	}
	buf.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
	return nil
}

// WriteCSV writes the table with a DATE header column. Absent cells are
// written empty.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := append([]string{DateColumn}, t.Names()...)
	if err := cw.Write(header); err != nil {
		return err
	}
	record := make([]string, len(header))
	for i, d := range t.Dates {
		record[0] = d.Format(timeseries.DateLayout)
		for j, c := range t.Columns {
			v := c.Values[i]
			switch {
			case timeseries.IsAbsent(v):
				record[j+1] = ""
			case math.IsInf(v, 0):
				return fmt.Errorf("column %s at %s: %w", c.Name, record[0], errInfinite)
			default:
				record[j+1] = strconv.FormatFloat(v, 'f', -1, 64)
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
