/*
errors.go - Per-member data errors

PURPOSE:
  The engine fails only on bad input data. Every failure is scoped to one
  member; the batch classifier excludes that member and keeps going.

ERROR CATEGORIES:
  1. ErrMissingRequiredField - grade, date of rank or TAFMSD is blank
  2. ErrInvalidDate - a date field is not DD-MON-YYYY
  3. ErrUnknownGrade - the cycle grade (or a member grade row) is not in
     the ruleset

USAGE:
  result, err := engine.Evaluate(member, cycle)
  var fieldErr *eligibility.FieldError
  if errors.As(err, &fieldErr) {
      log.Printf("excluding %s: bad %s %q", member.FullName, fieldErr.Field, fieldErr.Value)
  }
*/
package eligibility

import (
	"errors"
	"fmt"

	"github.com/ywgi/AirForceMELGenerator/calendar"
	"github.com/ywgi/AirForceMELGenerator/policy"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrMissingRequiredField is returned when a field needed for
	// classification is blank.
	ErrMissingRequiredField = errors.New("missing required field")

	// ErrInvalidDate is returned when a date field is malformed.
	ErrInvalidDate = calendar.ErrInvalidDate

	// ErrUnknownGrade is returned when a grade has no ruleset row.
	ErrUnknownGrade = policy.ErrUnknownGrade
)

// Member fields named in FieldError.
const (
	FieldGrade              = "grade"
	FieldDateOfRank         = "date_of_rank"
	FieldTAFMSD             = "tafmsd"
	FieldDateArrivedStation = "date_arrived_station"
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// FieldError names the member field that could not be used.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsDataError reports whether err is a per-member data-quality error.
func IsDataError(err error) bool {
	return errors.Is(err, ErrMissingRequiredField) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, calendar.ErrEmptyDate) ||
		errors.Is(err, ErrUnknownGrade)
}

// ParseRequiredDate parses a required roster date field. Blank values are
// ErrMissingRequiredField, malformed ones ErrInvalidDate.
func ParseRequiredDate(field, value string) (calendar.TimePoint, error) {
	tp, err := calendar.ParseDate(value)
	if errors.Is(err, calendar.ErrEmptyDate) {
		return calendar.TimePoint{}, &FieldError{Field: field, Value: value, Err: ErrMissingRequiredField}
	}
	if err != nil {
		return calendar.TimePoint{}, &FieldError{Field: field, Value: value, Err: err}
	}
	return tp, nil
}
