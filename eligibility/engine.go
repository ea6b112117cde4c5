/*
Package eligibility decides whether one member meets a promotion cycle.

PURPOSE:
  Evaluate applies an ordered chain of checks to one member against a
  Ruleset. The first failing check decides the result; later checks are
  not evaluated. A member failing several checks is reported with the
  first one only, so the order below is policy, not implementation detail.

CHECK ORDER:
  1. Scope            member grade is the cycle grade, or a junior grade
                      feeding it                          -> NotApplicable
  2. Pending action   projected grade is the cycle grade or the grade
                      above                               -> NotApplicable
  3. Service ceiling  junior only: TAFMSD + 36 months after closeout
  4. Junior track     junior only: DOR + 28 months on/before 01-FEB is the
                      standard track; otherwise DOR + 22 months on/before
                      closeout is below-the-zone, else   -> NotApplicable
  5. TIG              DOR after selection - TIG months
  6. TIS              TAFMSD after selection - (TIS years - 1)
  7. HYT              TAFMSD + HYT (+2y inside the exception window)
                      before selection + 1 month
  8. UIF              code > 1 with disposition before closeout
  9. Reenlistment     RE code in the disqualifying table
  10. Skill level     skill digit below the grade's requirement
  11. Pass            Eligible, or BelowTheZone when flagged at step 4

  Screen runs steps 1 and 2 alone, so a caller can set members aside
  before checking anything else on their record.

BOUNDARIES:
  TIG and TIS fail strictly after the deadline; a date equal to it passes.
  HYT fails strictly before MDOS. UIF fails strictly before closeout. The
  HYT exception window is exclusive at both ends and never moves MDOS.

OPTIONAL FIELDS:
  UIF code/date, RE code, projected grade and skill codes are optional. A
  missing or unreadable optional field means its check does not apply.

CONCURRENCY:
  An Engine is immutable after NewEngine and safe for concurrent use.

SEE ALSO:
  - result.go: Result, Reason, Cycle
  - errors.go: Per-member data errors
  - policy/ruleset.go: The tables this engine evaluates against
*/
package eligibility

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ywgi/AirForceMELGenerator/calendar"
	"github.com/ywgi/AirForceMELGenerator/policy"
	"github.com/ywgi/AirForceMELGenerator/roster"
)

// Check names, in evaluation order.
const (
	CheckScope          = "scope"
	CheckPendingAction  = "pending_action"
	CheckServiceCeiling = "service_ceiling"
	CheckJuniorTrack    = "junior_track"
	CheckTIG            = "tig"
	CheckTIS            = "tis"
	CheckHYT            = "hyt"
	CheckUIF            = "uif"
	CheckReenlistment   = "reenlistment"
	CheckSkillLevel     = "skill_level"
)

// The skill level is the fourth character of an AFSC: 3D072 is a 7-level.
// Codes shorter than skillCodeMinLength carry no usable level.
const (
	skillLevelPosition = 3
	skillCodeMinLength = 5
)

// =============================================================================
// ENGINE
// =============================================================================

// Engine evaluates members against one Ruleset.
type Engine struct {
	rules *policy.Ruleset
}

// NewEngine creates an engine for rs.
func NewEngine(rs *policy.Ruleset) *Engine {
	return &Engine{rules: rs}
}

// Rules returns the ruleset the engine evaluates against.
func (e *Engine) Rules() *policy.Ruleset { return e.rules }

// Evaluate classifies m for cycle c.
func (e *Engine) Evaluate(m roster.Member, c Cycle) (Result, error) {
	ev := &evaluation{rules: e.rules, member: m, cycle: c}
	return ev.run()
}

// Screen runs only the scope and pending-action checks. It returns the
// NotApplicable result for a member the cycle does not consider, or nil
// when the member goes on to a full evaluation.
func (e *Engine) Screen(m roster.Member, c Cycle) (*Result, error) {
	ev := &evaluation{rules: e.rules, member: m, cycle: c}
	if err := ev.prepare(); err != nil {
		return nil, err
	}
	return ev.first(ev.checkScope, ev.checkPendingAction)
}

// Trace classifies m for cycle c and returns every check that was evaluated.
func (e *Engine) Trace(m roster.Member, c Cycle) (Result, []Check, error) {
	ev := &evaluation{rules: e.rules, member: m, cycle: c, tracing: true}
	result, err := ev.run()
	return result, ev.checks, err
}

// =============================================================================
// EVALUATION - One pass of the decision chain
// =============================================================================

type evaluation struct {
	rules  *policy.Ruleset
	member roster.Member
	cycle  Cycle

	cyclePolicy policy.GradePolicy
	gradePolicy policy.GradePolicy

	closeout  calendar.TimePoint // cycle grade closeout in the cycle year
	selection calendar.TimePoint // member grade selection month in the cycle year
	dor       calendar.TimePoint
	tafmsd    calendar.TimePoint

	belowTheZone bool

	tracing bool
	checks  []Check
}

// step returns a decided result, or nil to continue with the next check.
type step func() (*Result, error)

func (ev *evaluation) run() (Result, error) {
	if err := ev.prepare(); err != nil {
		return Result{}, err
	}

	result, err := ev.first(
		ev.checkScope,
		ev.checkPendingAction,
		ev.loadRecord,
		ev.checkServiceCeiling,
		ev.checkJuniorTrack,
		ev.checkTIG,
		ev.checkTIS,
		ev.checkHYT,
		ev.checkUIF,
		ev.checkReenlistment,
		ev.checkSkillLevel,
	)
	if err != nil {
		return Result{}, err
	}
	if result != nil {
		return *result, nil
	}

	if ev.belowTheZone {
		return BelowTheZone(), nil
	}
	return Eligible(), nil
}

// prepare resolves the cycle grade's policy row and closeout.
func (ev *evaluation) prepare() error {
	cyclePolicy, err := ev.rules.Cycle(ev.cycle.Grade)
	if err != nil {
		return fmt.Errorf("cycle %s: %w", ev.cycle, err)
	}
	ev.cyclePolicy = cyclePolicy
	ev.closeout = cyclePolicy.Closeout.In(ev.cycle.Year)
	return nil
}

// first runs steps in order and returns the first decided result.
func (ev *evaluation) first(steps ...step) (*Result, error) {
	for _, s := range steps {
		result, err := s()
		if err != nil || result != nil {
			return result, err
		}
	}
	return nil, nil
}

func (ev *evaluation) record(name string, passed bool, format string, args ...any) {
	if !ev.tracing {
		return
	}
	ev.checks = append(ev.checks, Check{Name: name, Passed: passed, Detail: fmt.Sprintf(format, args...)})
}

func decided(r Result) (*Result, error) { return &r, nil }

// =============================================================================
// CHECKS
// =============================================================================

func (ev *evaluation) checkScope() (*Result, error) {
	grade := ev.member.GradeCode()
	if grade == "" {
		return nil, &FieldError{Field: FieldGrade, Value: ev.member.Grade, Err: ErrMissingRequiredField}
	}
	if !ev.rules.InScope(grade, ev.cycle.Grade) {
		ev.record(CheckScope, false, "grade %s is not considered in the %s cycle", grade, ev.cycle.Grade)
		return decided(NotApplicable(ReasonOutOfScope, "Grade %s not in %s cycle", grade, ev.cycle.Grade))
	}
	ev.record(CheckScope, true, "grade %s", grade)
	return nil, nil
}

func (ev *evaluation) checkPendingAction() (*Result, error) {
	projected := ev.member.ProjectedGradeCode()
	if projected != "" && (projected == ev.cycle.Grade || projected == ev.cyclePolicy.NextGrade) {
		ev.record(CheckPendingAction, false, "already projected for %s", projected)
		return decided(NotApplicable(ReasonProjected, "Projected for %s.", projected))
	}
	ev.record(CheckPendingAction, true, "no pending action")
	return nil, nil
}

// loadRecord resolves the member's policy row and required dates. It runs
// after scope so out-of-scope records are never required to be complete.
func (ev *evaluation) loadRecord() (*Result, error) {
	gp, err := ev.rules.Grade(ev.member.GradeCode())
	if err != nil {
		return nil, &FieldError{Field: FieldGrade, Value: ev.member.Grade, Err: err}
	}
	ev.gradePolicy = gp
	ev.selection = gp.Selection.In(ev.cycle.Year)

	if ev.dor, err = ParseRequiredDate(FieldDateOfRank, ev.member.DateOfRank); err != nil {
		return nil, err
	}
	if ev.tafmsd, err = ParseRequiredDate(FieldTAFMSD, ev.member.TAFMSD); err != nil {
		return nil, err
	}
	return nil, nil
}

func (ev *evaluation) checkServiceCeiling() (*Result, error) {
	if !ev.gradePolicy.Junior {
		return nil, nil
	}
	ceiling := ev.tafmsd.AddMonths(ev.rules.Junior.ServiceCeilingMonths)
	if ceiling.After(ev.closeout) {
		ev.record(CheckServiceCeiling, false, "TAFMSD + %d months = %s, after closeout %s",
			ev.rules.Junior.ServiceCeilingMonths, ceiling, ev.closeout)
		return decided(Ineligible(ReasonServiceCeiling, "TIS: over service ceiling"))
	}
	ev.record(CheckServiceCeiling, true, "TAFMSD + %d months = %s", ev.rules.Junior.ServiceCeilingMonths, ceiling)
	return nil, nil
}

func (ev *evaluation) checkJuniorTrack() (*Result, error) {
	if !ev.gradePolicy.Junior {
		return nil, nil
	}
	track := ev.rules.Junior
	cutoff := ev.rules.JuniorCutoff(ev.cycle.Year)

	standard := calendar.ProjectedDate(ev.dor, track.StandardMonths)
	if standard.BeforeOrEqual(cutoff) {
		ev.record(CheckJuniorTrack, true, "standard track: projected %s on/before %s", standard, cutoff)
		return nil, nil
	}

	btz := calendar.ProjectedDate(ev.dor, track.BelowTheZoneMonths)
	if btz.BeforeOrEqual(ev.closeout) {
		ev.belowTheZone = true
		ev.record(CheckJuniorTrack, true, "below the zone: projected %s on/before closeout %s", btz, ev.closeout)
		return nil, nil
	}

	ev.record(CheckJuniorTrack, false, "standard %s and below-the-zone %s both miss closeout %s", standard, btz, ev.closeout)
	return decided(NotApplicable(ReasonOutsideWindow, "Not within the %s cycle window", ev.cycle))
}

func (ev *evaluation) checkTIG() (*Result, error) {
	if ev.gradePolicy.Junior {
		return nil, nil
	}
	months := ev.gradePolicy.TIGMonths
	deadline := ev.selection.AddMonths(-months)
	if ev.dor.After(deadline) {
		ev.record(CheckTIG, false, "DOR %s after %s", ev.dor, deadline)
		return decided(Ineligible(ReasonTIG, "TIG: <%d months", months))
	}
	ev.record(CheckTIG, true, "DOR %s on/before %s", ev.dor, deadline)
	return nil, nil
}

func (ev *evaluation) checkTIS() (*Result, error) {
	years := ev.gradePolicy.TISYears
	if ev.gradePolicy.Junior || years <= 0 {
		return nil, nil
	}
	deadline := ev.selection.AddYears(-(years - 1))
	if ev.tafmsd.After(deadline) {
		ev.record(CheckTIS, false, "TAFMSD %s after %s", ev.tafmsd, deadline)
		return decided(Ineligible(ReasonTIS, "TIS: <%d years", years))
	}
	ev.record(CheckTIS, true, "TAFMSD %s on/before %s", ev.tafmsd, deadline)
	return nil, nil
}

func (ev *evaluation) checkHYT() (*Result, error) {
	if ev.gradePolicy.HYTYears <= 0 {
		return nil, nil
	}
	hyt := HYTDate(ev.rules, ev.gradePolicy, ev.tafmsd)
	mdos := ev.selection.AddMonths(ev.gradePolicy.MDOSOffsetMonths)
	if hyt.Before(mdos) {
		ev.record(CheckHYT, false, "HYT %s before MDOS %s", hyt, mdos)
		return decided(Ineligible(ReasonHYT, "HYT: Mandatory DOS"))
	}
	ev.record(CheckHYT, true, "HYT %s on/after MDOS %s", hyt, mdos)
	return nil, nil
}

func (ev *evaluation) checkUIF() (*Result, error) {
	code, ok := uifCode(ev.member.UIFCode)
	if !ok || code <= 1 {
		return nil, nil
	}
	disposition, err := calendar.ParseDate(ev.member.UIFDispositionDate)
	if err != nil {
		ev.record(CheckUIF, true, "UIF code %d without a usable disposition date", code)
		return nil, nil
	}
	if disposition.Before(ev.closeout) {
		ev.record(CheckUIF, false, "UIF code %d disposed %s before closeout %s", code, disposition, ev.closeout)
		return decided(Ineligible(ReasonUIF, "UIF: Code %d", code))
	}
	ev.record(CheckUIF, true, "UIF code %d disposed %s", code, disposition)
	return nil, nil
}

// uifCode reads a UIF code cell. Spreadsheet exports write whole numbers
// as "2.0", so fractional forms are truncated.
func uifCode(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if code, err := strconv.Atoi(s); err == nil {
		return code, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

func (ev *evaluation) checkReenlistment() (*Result, error) {
	code := strings.ToUpper(strings.TrimSpace(ev.member.ReenlistmentCode))
	if code == "" {
		return nil, nil
	}
	description, disqualifying := ev.rules.ReenlistmentCodes[code]
	if !disqualifying {
		ev.record(CheckReenlistment, true, "RE %s", code)
		return nil, nil
	}
	ev.record(CheckReenlistment, false, "RE %s: %s", code, description)
	return decided(Ineligible(ReasonReenlistment, "RE %s: %s", code, shorten(description, ev.rules.ReasonDescriptionLimit)))
}

func (ev *evaluation) checkSkillLevel() (*Result, error) {
	required := ev.gradePolicy.RequiredSkillLevel
	if required <= 0 {
		return nil, nil
	}
	code, ok := SkillCode(ev.member)
	if !ok {
		return nil, nil
	}
	if ev.rules.IsSkillExempt(code) {
		ev.record(CheckSkillLevel, true, "%s is exempt", code)
		return nil, nil
	}
	level, ok := SkillLevel(code)
	if !ok {
		return nil, nil
	}
	if level < required {
		ev.record(CheckSkillLevel, false, "%s is a %d-level, needs %d", code, level, required)
		return decided(Ineligible(ReasonSkillLevel, "AFSC: Requires %d-skill level", required))
	}
	ev.record(CheckSkillLevel, true, "%s is a %d-level", code, level)
	return nil, nil
}

// =============================================================================
// RULE HELPERS
// =============================================================================

// HYTDate returns TAFMSD + the grade's HYT years, extended when the result
// falls strictly inside the ruleset's exception window.
func HYTDate(rs *policy.Ruleset, gp policy.GradePolicy, tafmsd calendar.TimePoint) calendar.TimePoint {
	hyt := tafmsd.AddYears(gp.HYTYears)
	if !rs.HYTException.IsZero() && rs.HYTException.Within(hyt) {
		hyt = hyt.AddYears(rs.HYTExceptionYears)
	}
	return hyt
}

// SkillCode returns the first skill code long enough to carry a skill
// level, trying the primary code and then the secondaries in order.
func SkillCode(m roster.Member) (string, bool) {
	for _, code := range m.SkillCodes() {
		if len(code) >= skillCodeMinLength {
			return strings.ToUpper(code), true
		}
	}
	return "", false
}

// SkillLevel returns the skill-level digit of an AFSC as a number.
func SkillLevel(code string) (int, bool) {
	if len(code) <= skillLevelPosition {
		return 0, false
	}
	c := code[skillLevelPosition]
	if c < '0' || c > '9' {
		return 0, false
	}
	return int(c - '0'), true
}

func shorten(s string, limit int) string {
	r := []rune(s)
	if limit <= 0 || len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
