package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// RosterLayout is the roster date convention: two-digit day, abbreviated
// month, four-digit year. Month matching is case-insensitive, so both
// 05-JAN-2025 and 05-Jan-2025 parse.
const RosterLayout = "02-Jan-2006"

var (
	// ErrInvalidDate is returned when a date string does not match RosterLayout.
	ErrInvalidDate = errors.New("invalid date")

	// ErrEmptyDate is returned when a date string is blank.
	ErrEmptyDate = errors.New("empty date")
)

// DateError carries the rejected input.
type DateError struct {
	Value string
	Err   error
}

func (e *DateError) Error() string {
	return fmt.Sprintf("%v: %q (expected DD-MON-YYYY)", e.Err, e.Value)
}

func (e *DateError) Unwrap() error { return e.Err }

// ParseDate parses a roster date such as "05-JAN-2025".
func ParseDate(s string) (TimePoint, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return TimePoint{}, &DateError{Value: s, Err: ErrEmptyDate}
	}
	t, err := time.Parse(RosterLayout, v)
	if err != nil {
		return TimePoint{}, &DateError{Value: s, Err: ErrInvalidDate}
	}
	return NewDate(t.Year(), t.Month(), t.Day()), nil
}

// MustParseDate is ParseDate for constants and tests; it panics on bad input.
func MustParseDate(s string) TimePoint {
	tp, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return tp
}

// FormatDate renders a point as DD-MON-YYYY with an upper-case month.
func FormatDate(tp TimePoint) string {
	return strings.ToUpper(tp.Time.Format(RosterLayout))
}
