package policy

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrUnknownGrade is returned when a grade code has no row in the ruleset.
	ErrUnknownGrade = errors.New("unknown grade")

	// ErrRulesetNotFound is returned when a registry has no such version.
	ErrRulesetNotFound = errors.New("ruleset not found")

	// ErrDuplicateRuleset is returned when registering a version twice.
	ErrDuplicateRuleset = errors.New("ruleset version already registered")

	// ErrInvalidRuleset is returned when a ruleset fails validation.
	ErrInvalidRuleset = errors.New("invalid ruleset")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// GradeError names the grade that could not be resolved.
type GradeError struct {
	Grade   Grade
	Version string
}

func (e *GradeError) Error() string {
	return fmt.Sprintf("unknown grade %q in ruleset %s", e.Grade, e.Version)
}

func (e *GradeError) Unwrap() error { return ErrUnknownGrade }

// ValidationError lists every problem found in a ruleset.
type ValidationError struct {
	Version  string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid ruleset %s: %v", e.Version, e.Problems)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidRuleset }
