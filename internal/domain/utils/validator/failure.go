package validator

import (
	"fmt"
	"strings"
)

// Kind classifies why a raw value was rejected.
type Kind string

const (
	NotANumber          Kind = "not_a_number"
	BelowMinimum        Kind = "below_minimum"
	AboveMaximum        Kind = "above_maximum"
	EmptyInput          Kind = "empty_input"
	PatternMismatch     Kind = "pattern_mismatch"
	InvalidCalendarDate Kind = "invalid_calendar_date"
	InvalidHexLength    Kind = "invalid_hex_length"
	InvalidHexDigits    Kind = "invalid_hex_digits"
	UnknownColorName    Kind = "unknown_color_name"
	NotAllowed          Kind = "not_allowed"
)

// Failure is a field-level validation failure with a human-readable reason.
type Failure struct {
	Field  string
	Kind   Kind
	Reason string
}

func (f *Failure) Error() string {
	return f.Reason
}

func fail(field string, kind Kind, format string, args ...interface{}) *Failure {
	return &Failure{Field: field, Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// Failures is the report of every failed field of a form.
type Failures []*Failure

func (f Failures) Error() string {
	msgs := make([]string, 0, len(f))
	for _, failure := range f {
		msgs = append(msgs, fmt.Sprintf("%s: %s", failure.Field, failure.Reason))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Collector accumulates failures so a whole form can be reported at once.
type Collector struct {
	failures Failures
}

// Check records err when it is a *Failure and reports whether the value was valid.
// Errors that are not failures are recorded as well, under the given field.
func (c *Collector) Check(field string, err error) bool {
	if err == nil {
		return true
	}
	if f, ok := err.(*Failure); ok {
		c.failures = append(c.failures, f)
	} else {
		c.failures = append(c.failures, &Failure{Field: field, Kind: NotAllowed, Reason: err.Error()})
	}
	return false
}

// Err returns nil when nothing failed.
func (c *Collector) Err() error {
	if len(c.failures) == 0 {
		return nil
	}
	return c.failures
}
