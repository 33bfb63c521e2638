// Package booking holds the in-memory booking engines: input normalization,
// filtering, sorting, pagination, slot generation and statistics. Every
// function here works on plain slices of model.Booking and performs no I/O,
// so storage backends and handlers can share the same semantics.
package booking

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	// DefaultTime replaces an unparseable booking time in lenient mode.
	DefaultTime = "18:00"
)

// ValidationError reports a booking input that could not be normalized.
type ValidationError struct {
	Field string
	Value string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	return fmt.Sprintf("%s %q: %s", e.Field, e.Value, e.Msg)
}

// Invalid builds a ValidationError without a value.
func Invalid(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Msg: msg}
}

var dateLayouts = []string{
	DateLayout,
	"2006/01/02",
	"01/02/2006",
	"02.01.2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// time layouts are tried against the upper-cased input
var timeLayouts = []string{
	TimeLayout,
	"15:04:05",
	"3:04 PM",
	"3:04PM",
	"3 PM",
	"3PM",
}

// ParseDate returns the calendar date of raw in canonical form.
func ParseDate(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(DateLayout), true
		}
	}
	return "", false
}

// ParseTime returns the time of day of raw in canonical HH:MM form.
func ParseTime(raw string) (string, bool) {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if raw == "" {
		return "", false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(TimeLayout), true
		}
	}
	return "", false
}

// Normalizer turns raw date and time input into canonical strings. In
// lenient mode unparseable input silently becomes today's date or
// DefaultTime; in strict mode a *ValidationError is returned instead.
type Normalizer struct {
	Strict      bool
	DefaultTime string
	Now         func() time.Time
}

func (n Normalizer) now() time.Time {
	if n.Now != nil {
		return n.Now()
	}
	return time.Now()
}

// Date normalizes raw to YYYY-MM-DD.
func (n Normalizer) Date(raw string) (string, error) {
	if d, ok := ParseDate(raw); ok {
		return d, nil
	}
	if n.Strict {
		return "", &ValidationError{Field: "date", Value: raw, Msg: "unrecognized date"}
	}
	return n.now().Format(DateLayout), nil
}

// Time normalizes raw to HH:MM.
func (n Normalizer) Time(raw string) (string, error) {
	if t, ok := ParseTime(raw); ok {
		return t, nil
	}
	if n.Strict {
		return "", &ValidationError{Field: "time", Value: raw, Msg: "unrecognized time"}
	}
	if n.DefaultTime != "" {
		return n.DefaultTime, nil
	}
	return DefaultTime, nil
}

// minutes converts a canonical HH:MM to minutes past midnight.
func minutes(hhmm string) (int, bool) {
	t, err := time.Parse(TimeLayout, hhmm)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

func clock(mins int) string {
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}
