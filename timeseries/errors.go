package timeseries

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel kinds. Each typed error below reports its kind through Is, so callers
// can write errors.Is(err, timeseries.ErrNotFound) without knowing the concrete type.
var (
	ErrNotFound   = errors.New("source not found")
	ErrParse      = errors.New("parse error")
	ErrDegenerate = errors.New("degenerate input")
	ErrJoinKey    = errors.New("join key error")
)

// NotFoundError reports a missing input source.
type NotFoundError struct {
	Source string
	Err    error
}

func (e *NotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("source %q not found: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("source %q not found", e.Source)
}

func (e *NotFoundError) Unwrap() error        { return e.Err }
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ParseError reports a malformed date or numeric cell. Line is 1-based and
// counts the header; it is zero when the value did not come from a file.
type ParseError struct {
	Source string
	Line   int
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("cannot parse %s %q", e.Field, e.Value)
	if e.Source != "" {
		if e.Line > 0 {
			msg = fmt.Sprintf("%s:%d: %s", e.Source, e.Line, msg)
		} else {
			msg = e.Source + ": " + msg
		}
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error        { return e.Err }
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// DegenerateInputError reports input that cannot support the requested
// statistic, such as normalizing a constant series.
type DegenerateInputError struct {
	Series string
	Reason string
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("series %q: degenerate input: %s", e.Series, e.Reason)
}

func (e *DegenerateInputError) Is(target error) bool { return target == ErrDegenerate }

// JoinKeyError reports a key that would be silently merged: a date repeated
// within one series, or a column name repeated across joined series.
type JoinKeyError struct {
	Series string
	Date   time.Time
	Column string
}

func (e *JoinKeyError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("duplicate column %q in join", e.Column)
	}
	return fmt.Sprintf("series %q: duplicate date %s", e.Series, e.Date.Format(DateLayout))
}

func (e *JoinKeyError) Is(target error) bool { return target == ErrJoinKey }
