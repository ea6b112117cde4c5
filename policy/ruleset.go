/*
Package policy holds the per-grade promotion policy tables.

PURPOSE:
  A Ruleset is the complete, versioned set of constants the eligibility
  engine evaluates against: per-grade closeout and selection dates, minimum
  time in grade and service, high year of tenure, the HYT exception window,
  the disqualifying reenlistment codes and the skill-level gates.

KEY CONCEPTS:
  - GradePolicy: one row of the table, keyed by the grade being considered
  - Ruleset: all rows plus cross-grade constants, identified by Version
  - Registry: rulesets by version; callers pick the version explicitly
  - Junior grades: ranks below the first promotable grade (A1C) that are
    considered under another grade's cycle (SRA) with their own
    service-ceiling and below-the-zone rules instead of TIG/TIS

VERSIONING:
  Published exception windows and reenlistment code tables change between
  fiscal years. They are data on the Ruleset, never constants in the
  engine, so a new year is a new ruleset (preset or JSON via factory).

EXAMPLE:
  rs, err := policy.DefaultRegistry().Lookup("FY2025")
  closeout, err := rs.ClosureDate(policy.GradeSSG, 2025)   // 31-JAN-2025
  cutoff, err := rs.AccountingDate(policy.GradeSSG, 2025)  // 03-OCT-2024 23:59:59

SEE ALSO:
  - presets.go: FY2025 / FY2026 tables
  - registry.go: Version lookup
  - factory/ruleset.go: JSON ruleset definitions
*/
package policy

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/ywgi/AirForceMELGenerator/calendar"
)

// =============================================================================
// GRADE POLICY - One row of the table
// =============================================================================

// GradePolicy holds the constants for members currently in Grade.
type GradePolicy struct {
	Grade     Grade
	NextGrade Grade

	// Closeout is the static closeout date; the eligibility snapshot is taken here.
	Closeout calendar.AnnualDate

	// Selection is the time-in-grade selection month (promotion effective month).
	Selection calendar.AnnualDate

	TIGMonths int // minimum months in grade before Selection
	TISYears  int // minimum years of TAFMSD before Selection
	HYTYears  int // high year of tenure for the grade

	// MDOSOffsetMonths places the mandatory date of separation after Selection.
	MDOSOffsetMonths int

	// RequiredSkillLevel is the skill-level digit needed to test; 0 means none.
	RequiredSkillLevel int

	// Junior grades are considered under FeedsCycle's board.
	Junior     bool
	FeedsCycle Grade
}

// =============================================================================
// RULESET - Versioned policy tables
// =============================================================================

// JuniorTrack holds the projection offsets for junior grades.
type JuniorTrack struct {
	StandardMonths       int // date of rank + N months for the standard track
	BelowTheZoneMonths   int // date of rank + N months for below-the-zone
	ServiceCeilingMonths int // TAFMSD + N months must not pass the closeout
	Cutoff               calendar.AnnualDate
}

// AccountingRule derives the unit-arrival cutoff from the closeout date.
type AccountingRule struct {
	OffsetDays int // days before closeout
	Day        int // day of month the result is normalized to
}

// Ruleset is the complete policy configuration for a run.
type Ruleset struct {
	Version string
	Name    string

	Grades map[Grade]GradePolicy

	// HYTException extends HYT dates strictly inside the window.
	HYTException      calendar.Period
	HYTExceptionYears int

	// ReenlistmentCodes maps disqualifying RE codes to their description.
	ReenlistmentCodes map[string]string

	// SkillExemptPrefixes are career-field prefixes exempt from skill gates.
	SkillExemptPrefixes []string

	Junior     JuniorTrack
	Accounting AccountingRule

	SmallUnitThreshold     int
	ReasonDescriptionLimit int
}

// Clone returns a deep copy that can be modified without touching rs.
func (rs *Ruleset) Clone() *Ruleset {
	c := *rs
	c.Grades = make(map[Grade]GradePolicy, len(rs.Grades))
	for g, gp := range rs.Grades {
		c.Grades[g] = gp
	}
	c.ReenlistmentCodes = make(map[string]string, len(rs.ReenlistmentCodes))
	for code, desc := range rs.ReenlistmentCodes {
		c.ReenlistmentCodes[code] = desc
	}
	c.SkillExemptPrefixes = append([]string(nil), rs.SkillExemptPrefixes...)
	return &c
}

// SortedGrades lists every row, junior grades included, in pay-grade order.
func (rs *Ruleset) SortedGrades() []GradePolicy {
	rows := make([]GradePolicy, 0, len(rs.Grades))
	for _, gp := range rs.Grades {
		rows = append(rows, gp)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Grade.PayGrade() < rows[j].Grade.PayGrade()
	})
	return rows
}

// Grade returns the policy row for g.
func (rs *Ruleset) Grade(g Grade) (GradePolicy, error) {
	gp, ok := rs.Grades[g]
	if !ok {
		return GradePolicy{}, &GradeError{Grade: g, Version: rs.Version}
	}
	return gp, nil
}

// Cycle returns the policy row for a cycle grade. Junior grades are not cycles.
func (rs *Ruleset) Cycle(g Grade) (GradePolicy, error) {
	gp, err := rs.Grade(g)
	if err != nil {
		return GradePolicy{}, err
	}
	if gp.Junior {
		return GradePolicy{}, fmt.Errorf("%s is a junior grade considered under %s: %w", g, gp.FeedsCycle, ErrUnknownGrade)
	}
	return gp, nil
}

// CycleGrades lists the promotable cycle grades in pay-grade order.
func (rs *Ruleset) CycleGrades() []Grade {
	var grades []Grade
	for g, gp := range rs.Grades {
		if !gp.Junior {
			grades = append(grades, g)
		}
	}
	sort.Slice(grades, func(i, j int) bool {
		return grades[i].PayGrade() < grades[j].PayGrade()
	})
	return grades
}

// InScope reports whether a member in memberGrade is considered in cycleGrade's cycle.
func (rs *Ruleset) InScope(memberGrade, cycleGrade Grade) bool {
	if memberGrade == cycleGrade {
		return true
	}
	gp, ok := rs.Grades[memberGrade]
	return ok && gp.Junior && gp.FeedsCycle == cycleGrade
}

// IsSkillExempt reports whether a skill code belongs to an exempt career field.
func (rs *Ruleset) IsSkillExempt(code string) bool {
	for _, prefix := range rs.SkillExemptPrefixes {
		if prefix != "" && len(code) >= len(prefix) && code[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}

// =============================================================================
// DATE RULES
// =============================================================================

// ClosureDate returns the closeout date for grade in year.
func (rs *Ruleset) ClosureDate(g Grade, year int) (calendar.TimePoint, error) {
	gp, err := rs.Grade(g)
	if err != nil {
		return calendar.TimePoint{}, err
	}
	return gp.Closeout.In(year), nil
}

// SelectionDate returns the TIG selection date for grade in year.
func (rs *Ruleset) SelectionDate(g Grade, year int) (calendar.TimePoint, error) {
	gp, err := rs.Grade(g)
	if err != nil {
		return calendar.TimePoint{}, err
	}
	return gp.Selection.In(year), nil
}

// AccountingDate is the last instant a member may arrive on station and
// still be counted by the unit: closeout minus OffsetDays, moved to Day of
// that month, at 23:59:59. The day normalization is an administrative
// reporting convention and applies regardless of where the subtraction lands.
func (rs *Ruleset) AccountingDate(g Grade, year int) (calendar.TimePoint, error) {
	closeout, err := rs.ClosureDate(g, year)
	if err != nil {
		return calendar.TimePoint{}, err
	}
	return closeout.AddDays(-rs.Accounting.OffsetDays).WithDay(rs.Accounting.Day).EndOfDay(), nil
}

// JuniorCutoff is the standard-track cutoff for junior grades in year.
func (rs *Ruleset) JuniorCutoff(year int) calendar.TimePoint {
	return rs.Junior.Cutoff.In(year)
}

// BoardID names a cycle's board the way the roster headers do: "25E6" for
// the 2025 SSG cycle (SSGs competing for E6).
func (rs *Ruleset) BoardID(cycle Grade, year int) (string, error) {
	gp, err := rs.Cycle(cycle)
	if err != nil {
		return "", err
	}
	yy := strconv.Itoa(year % 100)
	if len(yy) == 1 {
		yy = "0" + yy
	}
	return yy + gp.NextGrade.PayGrade(), nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks that the ruleset is internally consistent.
func (rs *Ruleset) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if rs.Version == "" {
		add("version is required")
	}
	if len(rs.Grades) == 0 {
		add("at least one grade is required")
	}

	cycles := 0
	for g, gp := range rs.Grades {
		if gp.Grade != g {
			add("%s: row is keyed under %s", gp.Grade, g)
		}
		if !gp.Closeout.Valid() {
			add("%s: invalid closeout %d/%d", g, gp.Closeout.Month, gp.Closeout.Day)
		}
		if !gp.Selection.Valid() {
			add("%s: invalid selection %d/%d", g, gp.Selection.Month, gp.Selection.Day)
		}
		if gp.TIGMonths < 0 || gp.TISYears < 0 || gp.HYTYears < 0 || gp.MDOSOffsetMonths < 0 {
			add("%s: negative duration", g)
		}
		if gp.RequiredSkillLevel < 0 || gp.RequiredSkillLevel > 9 {
			add("%s: skill level must be a single digit", g)
		}
		if !gp.Junior {
			cycles++
			continue
		}
		feeds, ok := rs.Grades[gp.FeedsCycle]
		if !ok || feeds.Junior {
			add("%s: junior grade must feed a cycle grade, got %q", g, gp.FeedsCycle)
		}
	}
	if len(rs.Grades) > 0 && cycles == 0 {
		add("at least one cycle grade is required")
	}

	if !rs.HYTException.IsZero() && !rs.HYTException.Valid() {
		add("HYT exception window ends before it starts")
	}
	if rs.HYTExceptionYears < 0 {
		add("HYT exception years must not be negative")
	}
	if rs.Junior.StandardMonths <= 0 || rs.Junior.BelowTheZoneMonths <= 0 || rs.Junior.ServiceCeilingMonths <= 0 {
		add("junior track offsets must be positive")
	}
	if rs.Junior.BelowTheZoneMonths >= rs.Junior.StandardMonths {
		add("below-the-zone offset must be shorter than the standard offset")
	}
	if !rs.Junior.Cutoff.Valid() {
		add("invalid junior cutoff")
	}
	if rs.Accounting.OffsetDays < 0 || rs.Accounting.Day < 1 || rs.Accounting.Day > 28 {
		add("accounting rule must use a non-negative offset and a day between 1 and 28")
	}
	if rs.SmallUnitThreshold < 0 || rs.ReasonDescriptionLimit < 0 {
		add("thresholds must not be negative")
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return &ValidationError{Version: rs.Version, Problems: problems}
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func annual(month time.Month, day int) calendar.AnnualDate {
	return calendar.AnnualDate{Month: month, Day: day}
}
