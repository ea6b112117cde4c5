package eligibility

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/ywgi/AirForceMELGenerator/policy"
)

// =============================================================================
// RESULT - Tagged classification of one member
// =============================================================================

// Kind is the classification case. Exactly one holds per Result.
type Kind string

const (
	KindEligible      Kind = "eligible"
	KindBelowTheZone  Kind = "below_the_zone"
	KindIneligible    Kind = "ineligible"
	KindNotApplicable Kind = "not_applicable"
)

// ReasonCode is the machine-checkable cause of an Ineligible or NotApplicable result.
type ReasonCode string

// Ineligible reasons.
const (
	ReasonTIG            ReasonCode = "TIG"
	ReasonTIS            ReasonCode = "TIS"
	ReasonServiceCeiling ReasonCode = "SERVICE_CEILING"
	ReasonHYT            ReasonCode = "HYT"
	ReasonUIF            ReasonCode = "UIF"
	ReasonReenlistment   ReasonCode = "RE"
	ReasonSkillLevel     ReasonCode = "SKILL"
)

// NotApplicable reasons.
const (
	ReasonOutOfScope    ReasonCode = "SCOPE"
	ReasonProjected     ReasonCode = "PROJECTED"
	ReasonOutsideWindow ReasonCode = "WINDOW"
)

// Reason pairs a code with the text shown on the roster.
type Reason struct {
	Code ReasonCode `json:"code"`
	Text string     `json:"text"`
}

// Result is the engine's decision for one member in one cycle.
type Result struct {
	Kind   Kind   `json:"kind"`
	Reason Reason `json:"reason"`
}

// MarshalJSON leaves out the reason of a result that has none.
func (r Result) MarshalJSON() ([]byte, error) {
	out := struct {
		Kind   Kind    `json:"kind"`
		Reason *Reason `json:"reason,omitempty"`
	}{Kind: r.Kind}
	if r.Reason != (Reason{}) {
		out.Reason = &r.Reason
	}
	return json.Marshal(out)
}

func Eligible() Result     { return Result{Kind: KindEligible} }
func BelowTheZone() Result { return Result{Kind: KindBelowTheZone} }

func Ineligible(code ReasonCode, format string, args ...any) Result {
	return Result{Kind: KindIneligible, Reason: Reason{Code: code, Text: fmt.Sprintf(format, args...)}}
}

func NotApplicable(code ReasonCode, format string, args ...any) Result {
	return Result{Kind: KindNotApplicable, Reason: Reason{Code: code, Text: fmt.Sprintf(format, args...)}}
}

func (r Result) IsEligible() bool { return r.Kind == KindEligible }

func (r Result) String() string {
	if r.Reason.Text == "" {
		return string(r.Kind)
	}
	return fmt.Sprintf("%s (%s)", r.Kind, r.Reason.Text)
}

// =============================================================================
// CYCLE & TRACE
// =============================================================================

// Cycle is the promotion cycle under evaluation: members holding Grade in
// Year, competing for the grade above it.
type Cycle struct {
	Grade policy.Grade `json:"grade"`
	Year  int          `json:"year"`
}

func (c Cycle) String() string { return fmt.Sprintf("%s %d", c.Grade, c.Year) }

// Check records one evaluated step of the decision chain.
type Check struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}
