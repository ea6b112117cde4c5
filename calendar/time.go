/*
Package calendar provides the date primitives used by the eligibility rules.

PURPOSE:
  Every eligibility check is a comparison between two calendar dates built
  from roster fields and per-grade policy constants. This package owns the
  date representation, the roster date format, and month/year arithmetic.

KEY CONCEPTS:
  - TimePoint: a UTC instant with a comparison granularity (day or second)
  - AnnualDate: a month/day that recurs every year (closeout, selection)
  - Period: an inclusive or exclusive date window (HYT exception window)

MONTH ARITHMETIC:
  AddMonths and AddYears clamp to the last day of the target month:

    31-JAN-2025 + 1 month  = 28-FEB-2025  (not 03-MAR-2025)
    29-FEB-2024 + 1 year   = 28-FEB-2025

  time.Time.AddDate normalizes overflow into the next month instead, which
  would shift eligibility deadlines by up to three days.

SEE ALSO:
  - parse.go: Roster date format (DD-MON-YYYY)
  - period.go: Date windows
  - policy/ruleset.go: Closeout, accounting and selection dates
*/
package calendar

import (
	"time"
)

// =============================================================================
// TIME POINT
// =============================================================================

type TimePoint struct {
	Time        time.Time
	Granularity Granularity
}

type Granularity int

const (
	GranularityDay Granularity = iota
	GranularitySecond
)

// NewDate returns a day-granularity TimePoint at midnight UTC.
func NewDate(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), Granularity: GranularityDay}
}

// NewInstant returns a second-granularity TimePoint.
func NewInstant(year int, month time.Month, day, hour, min, sec int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, hour, min, sec, 0, time.UTC), Granularity: GranularitySecond}
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool        { return tp.normalize().Before(other.normalize()) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.normalize().Equal(other.normalize()) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.normalize().After(other.normalize()) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return !tp.After(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return !tp.Before(other) }

func (tp TimePoint) normalize() time.Time {
	switch tp.Granularity {
	case GranularityDay:
		return time.Date(tp.Time.Year(), tp.Time.Month(), tp.Time.Day(), 0, 0, 0, 0, time.UTC)
	default:
		return tp.Time.UTC().Truncate(time.Second)
	}
}

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint { return tp.with(tp.Time.AddDate(0, 0, n)) }

// AddMonths adds n whole months, clamping the day to the target month's length.
func (tp TimePoint) AddMonths(n int) TimePoint {
	t := tp.Time
	first := time.Date(t.Year(), t.Month(), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	first = first.AddDate(0, n, 0)
	day := t.Day()
	if last := daysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return tp.with(first.AddDate(0, 0, day-1))
}

// AddYears adds n whole years; 29 February lands on 28 February in common years.
func (tp TimePoint) AddYears(n int) TimePoint { return tp.AddMonths(12 * n) }

// WithDay moves the point to the given day of its month, clamped to the month length.
func (tp TimePoint) WithDay(day int) TimePoint {
	t := tp.Time
	if last := daysIn(t.Year(), t.Month()); day > last {
		day = last
	}
	return tp.with(time.Date(t.Year(), t.Month(), day, t.Hour(), t.Minute(), t.Second(), 0, time.UTC))
}

// EndOfDay returns the last second of the point's day as a second-granularity instant.
func (tp TimePoint) EndOfDay() TimePoint {
	t := tp.Time
	return NewInstant(t.Year(), t.Month(), t.Day(), 23, 59, 59)
}

func (tp TimePoint) with(t time.Time) TimePoint {
	return TimePoint{Time: t, Granularity: tp.Granularity}
}

// Properties
func (tp TimePoint) Year() int         { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month { return tp.Time.Month() }
func (tp TimePoint) Day() int          { return tp.Time.Day() }
func (tp TimePoint) IsZero() bool      { return tp.Time.IsZero() }

// String renders the point in the roster convention (05-JAN-2025).
func (tp TimePoint) String() string {
	switch tp.Granularity {
	case GranularityDay:
		return FormatDate(tp)
	default:
		return FormatDate(tp) + " " + tp.Time.Format("15:04:05")
	}
}

// =============================================================================
// ANNUAL DATE - month/day recurring every year
// =============================================================================

// AnnualDate is a calendar day that recurs every year, e.g. a closeout of 31-MAR.
type AnnualDate struct {
	Month time.Month
	Day   int
}

// In returns the annual date in the given year.
func (a AnnualDate) In(year int) TimePoint {
	return NewDate(year, a.Month, 1).WithDay(a.Day)
}

// Valid reports whether the month/day pair exists in a leap year.
func (a AnnualDate) Valid() bool {
	return a.Month >= time.January && a.Month <= time.December && a.Day >= 1 && a.Day <= daysIn(2024, a.Month)
}

func (a AnnualDate) String() string {
	return time.Date(2000, a.Month, a.Day, 0, 0, 0, 0, time.UTC).Format("02-Jan")
}

// =============================================================================
// TIME UTILITIES
// =============================================================================

// ProjectedDate adds a whole-month offset to a base date (date of rank, arrival).
func ProjectedDate(base TimePoint, months int) TimePoint { return base.AddMonths(months) }

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
