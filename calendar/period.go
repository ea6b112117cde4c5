package calendar

// =============================================================================
// PERIOD - A window between two dates
// =============================================================================

// Period is a date window. Whether the bounds themselves are inside the
// window depends on the caller: Contains is inclusive, Within is exclusive.
//
// Examples:
//   - HYT exception window: 08-DEC-2023 .. 30-SEP-2025, exclusive bounds
//   - Junior track window: cutoff (01-FEB) .. closeout, inclusive bounds
type Period struct {
	Start TimePoint
	End   TimePoint
}

// Contains returns true if t is within [Start, End].
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// Within returns true if t is strictly inside (Start, End).
func (p Period) Within(t TimePoint) bool {
	return t.After(p.Start) && t.Before(p.End)
}

// IsZero reports whether the period was never set.
func (p Period) IsZero() bool { return p.Start.IsZero() && p.End.IsZero() }

// Valid reports whether End is after Start.
func (p Period) Valid() bool { return p.End.After(p.Start) }

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}
