/*
Package factory provides JSON to Go ruleset conversion.

PURPOSE:
  Converts JSON ruleset definitions into policy.Ruleset values. A new fiscal
  year's exception window or reenlistment table can be published as a JSON
  document and registered at runtime without a code change.

JSON SCHEMA:
  {
    "version": "FY2027",
    "name": "Enlisted promotion tables FY2027",
    "extends": "FY2026",
    "hyt_exception": {"start": "08-DEC-2023", "end": "30-SEP-2027"},
    "reenlistment_codes": {"2X": "Not selected for reenlistment."},
    "grades": [
      {
        "grade": "SSG", "next_grade": "TSG",
        "closeout": "31-JAN", "selection": "01-JUL",
        "tig_months": 23, "tis_years": 5, "hyt_years": 20,
        "mdos_offset_months": 1, "required_skill_level": 7
      }
    ]
  }

EXTENDS:
  With "extends", the named registered ruleset is copied and every field
  present in the document replaces the copied value. Grade rows replace
  rows for the same grade; other rows are kept. reenlistment_codes
  replaces the whole table. Without "extends", the document must be
  complete.

DATES:
  Full dates use the roster format DD-MON-YYYY. Annual dates (closeout,
  selection, junior cutoff) are DD-MON.

USAGE:
  f := factory.NewRulesetFactory(policy.DefaultRegistry())
  rs, err := f.ParseRuleset(data)
  registry.Register(rs)

SEE ALSO:
  - policy/ruleset.go: Ruleset type definition
  - policy/presets.go: Go-based rulesets
*/
package factory

import (
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/ywgi/AirForceMELGenerator/calendar"
	"github.com/ywgi/AirForceMELGenerator/policy"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// RulesetJSON is the JSON representation of a ruleset.
type RulesetJSON struct {
	Version                string            `json:"version"`
	Name                   string            `json:"name,omitempty"`
	Extends                string            `json:"extends,omitempty"`
	Grades                 []GradeJSON       `json:"grades,omitempty"`
	HYTException           *WindowJSON       `json:"hyt_exception,omitempty"`
	HYTExceptionYears      *int              `json:"hyt_exception_years,omitempty"`
	ReenlistmentCodes      map[string]string `json:"reenlistment_codes,omitempty"`
	SkillExemptPrefixes    []string          `json:"skill_exempt_prefixes,omitempty"`
	Junior                 *JuniorJSON       `json:"junior,omitempty"`
	Accounting             *AccountingJSON   `json:"accounting,omitempty"`
	SmallUnitThreshold     *int              `json:"small_unit_threshold,omitempty"`
	ReasonDescriptionLimit *int              `json:"reason_description_limit,omitempty"`
}

// GradeJSON is one row of the grade table.
type GradeJSON struct {
	Grade              string `json:"grade"`
	NextGrade          string `json:"next_grade"`
	Closeout           string `json:"closeout"`  // DD-MON
	Selection          string `json:"selection"` // DD-MON
	TIGMonths          int    `json:"tig_months,omitempty"`
	TISYears           int    `json:"tis_years,omitempty"`
	HYTYears           int    `json:"hyt_years,omitempty"`
	MDOSOffsetMonths   int    `json:"mdos_offset_months,omitempty"`
	RequiredSkillLevel int    `json:"required_skill_level,omitempty"`
	Junior             bool   `json:"junior,omitempty"`
	FeedsCycle         string `json:"feeds_cycle,omitempty"`
}

// WindowJSON is an exclusive date window.
type WindowJSON struct {
	Start string `json:"start"` // DD-MON-YYYY
	End   string `json:"end"`   // DD-MON-YYYY
}

// JuniorJSON holds the junior-grade projection offsets.
type JuniorJSON struct {
	StandardMonths       int    `json:"standard_months"`
	BelowTheZoneMonths   int    `json:"below_the_zone_months"`
	ServiceCeilingMonths int    `json:"service_ceiling_months"`
	Cutoff               string `json:"cutoff"` // DD-MON
}

// AccountingJSON holds the accounting-date rule.
type AccountingJSON struct {
	OffsetDays int `json:"offset_days"`
	Day        int `json:"day"`
}

// =============================================================================
// RULESET FACTORY
// =============================================================================

// RulesetFactory converts JSON rulesets to policy.Ruleset.
type RulesetFactory struct {
	base *policy.Registry
}

// NewRulesetFactory creates a factory resolving "extends" against base.
// base may be nil, in which case documents must be complete.
func NewRulesetFactory(base *policy.Registry) *RulesetFactory {
	return &RulesetFactory{base: base}
}

// ParseRuleset parses and validates a JSON ruleset document.
func (f *RulesetFactory) ParseRuleset(data []byte) (*policy.Ruleset, error) {
	var rj RulesetJSON
	if err := json.Unmarshal(data, &rj); err != nil {
		return nil, fmt.Errorf("failed to parse ruleset JSON: %w: %v", policy.ErrInvalidRuleset, err)
	}
	return f.FromJSON(rj)
}

// FromJSON converts RulesetJSON to a validated policy.Ruleset.
func (f *RulesetFactory) FromJSON(rj RulesetJSON) (*policy.Ruleset, error) {
	rs := &policy.Ruleset{
		Grades:            make(map[policy.Grade]policy.GradePolicy),
		ReenlistmentCodes: make(map[string]string),
	}
	if rj.Extends != "" {
		if f.base == nil {
			return nil, fmt.Errorf("extends %q: %w", rj.Extends, policy.ErrRulesetNotFound)
		}
		base, err := f.base.Lookup(rj.Extends)
		if err != nil {
			return nil, fmt.Errorf("extends %q: %w", rj.Extends, err)
		}
		rs = base.Clone()
	}

	rs.Version = strings.TrimSpace(rj.Version)
	if rj.Name != "" {
		rs.Name = rj.Name
	}

	for _, gj := range rj.Grades {
		gp, err := parseGrade(gj)
		if err != nil {
			return nil, invalid(rs.Version, err)
		}
		rs.Grades[gp.Grade] = gp
	}

	if rj.HYTException != nil {
		window, err := parseWindow(*rj.HYTException)
		if err != nil {
			return nil, invalid(rs.Version, err)
		}
		rs.HYTException = window
	}
	if rj.HYTExceptionYears != nil {
		rs.HYTExceptionYears = *rj.HYTExceptionYears
	}
	if rj.ReenlistmentCodes != nil {
		rs.ReenlistmentCodes = make(map[string]string, len(rj.ReenlistmentCodes))
		for code, desc := range rj.ReenlistmentCodes {
			rs.ReenlistmentCodes[strings.ToUpper(strings.TrimSpace(code))] = desc
		}
	}
	if rj.SkillExemptPrefixes != nil {
		rs.SkillExemptPrefixes = append([]string(nil), rj.SkillExemptPrefixes...)
	}
	if rj.Junior != nil {
		cutoff, err := parseAnnualDate(rj.Junior.Cutoff)
		if err != nil {
			return nil, invalid(rs.Version, fmt.Errorf("junior cutoff: %w", err))
		}
		rs.Junior = policy.JuniorTrack{
			StandardMonths:       rj.Junior.StandardMonths,
			BelowTheZoneMonths:   rj.Junior.BelowTheZoneMonths,
			ServiceCeilingMonths: rj.Junior.ServiceCeilingMonths,
			Cutoff:               cutoff,
		}
	}
	if rj.Accounting != nil {
		rs.Accounting = policy.AccountingRule{OffsetDays: rj.Accounting.OffsetDays, Day: rj.Accounting.Day}
	}
	if rj.SmallUnitThreshold != nil {
		rs.SmallUnitThreshold = *rj.SmallUnitThreshold
	}
	if rj.ReasonDescriptionLimit != nil {
		rs.ReasonDescriptionLimit = *rj.ReasonDescriptionLimit
	}

	if err := rs.Validate(); err != nil {
		return nil, err
	}
	return rs, nil
}

// ToJSON converts a Ruleset to a complete RulesetJSON.
func (f *RulesetFactory) ToJSON(rs *policy.Ruleset) RulesetJSON {
	hytYears := rs.HYTExceptionYears
	smallUnit := rs.SmallUnitThreshold
	reasonLimit := rs.ReasonDescriptionLimit

	rj := RulesetJSON{
		Version:             rs.Version,
		Name:                rs.Name,
		HYTExceptionYears:   &hytYears,
		ReenlistmentCodes:   rs.ReenlistmentCodes,
		SkillExemptPrefixes: rs.SkillExemptPrefixes,
		Junior: &JuniorJSON{
			StandardMonths:       rs.Junior.StandardMonths,
			BelowTheZoneMonths:   rs.Junior.BelowTheZoneMonths,
			ServiceCeilingMonths: rs.Junior.ServiceCeilingMonths,
			Cutoff:               formatAnnualDate(rs.Junior.Cutoff),
		},
		Accounting: &AccountingJSON{
			OffsetDays: rs.Accounting.OffsetDays,
			Day:        rs.Accounting.Day,
		},
		SmallUnitThreshold:     &smallUnit,
		ReasonDescriptionLimit: &reasonLimit,
	}

	if !rs.HYTException.IsZero() {
		rj.HYTException = &WindowJSON{
			Start: calendar.FormatDate(rs.HYTException.Start),
			End:   calendar.FormatDate(rs.HYTException.End),
		}
	}

	for _, gp := range rs.SortedGrades() {
		rj.Grades = append(rj.Grades, GradeJSON{
			Grade:              string(gp.Grade),
			NextGrade:          string(gp.NextGrade),
			Closeout:           formatAnnualDate(gp.Closeout),
			Selection:          formatAnnualDate(gp.Selection),
			TIGMonths:          gp.TIGMonths,
			TISYears:           gp.TISYears,
			HYTYears:           gp.HYTYears,
			MDOSOffsetMonths:   gp.MDOSOffsetMonths,
			RequiredSkillLevel: gp.RequiredSkillLevel,
			Junior:             gp.Junior,
			FeedsCycle:         string(gp.FeedsCycle),
		})
	}
	return rj
}

// MarshalRuleset renders rs as an indented JSON document.
func (f *RulesetFactory) MarshalRuleset(rs *policy.Ruleset) ([]byte, error) {
	return json.MarshalIndent(f.ToJSON(rs), "", "  ")
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

const annualLayout = "02-Jan"

func parseGrade(gj GradeJSON) (policy.GradePolicy, error) {
	grade := policy.ParseGrade(gj.Grade)
	if grade == "" {
		return policy.GradePolicy{}, fmt.Errorf("grade row without a grade")
	}
	closeout, err := parseAnnualDate(gj.Closeout)
	if err != nil {
		return policy.GradePolicy{}, fmt.Errorf("%s closeout: %w", grade, err)
	}
	selection, err := parseAnnualDate(gj.Selection)
	if err != nil {
		return policy.GradePolicy{}, fmt.Errorf("%s selection: %w", grade, err)
	}
	return policy.GradePolicy{
		Grade:              grade,
		NextGrade:          policy.ParseGrade(gj.NextGrade),
		Closeout:           closeout,
		Selection:          selection,
		TIGMonths:          gj.TIGMonths,
		TISYears:           gj.TISYears,
		HYTYears:           gj.HYTYears,
		MDOSOffsetMonths:   gj.MDOSOffsetMonths,
		RequiredSkillLevel: gj.RequiredSkillLevel,
		Junior:             gj.Junior,
		FeedsCycle:         policy.ParseGrade(gj.FeedsCycle),
	}, nil
}

func parseWindow(wj WindowJSON) (calendar.Period, error) {
	start, err := calendar.ParseDate(wj.Start)
	if err != nil {
		return calendar.Period{}, fmt.Errorf("HYT exception start: %w", err)
	}
	end, err := calendar.ParseDate(wj.End)
	if err != nil {
		return calendar.Period{}, fmt.Errorf("HYT exception end: %w", err)
	}
	return calendar.Period{Start: start, End: end}, nil
}

// parseAnnualDate reads DD-MON. time.Parse defaults the year to 0, a leap
// year, so 29-FEB is accepted.
func parseAnnualDate(s string) (calendar.AnnualDate, error) {
	t, err := time.Parse(annualLayout, strings.TrimSpace(s))
	if err != nil {
		return calendar.AnnualDate{}, fmt.Errorf("invalid annual date %q, want DD-MON", s)
	}
	return calendar.AnnualDate{Month: t.Month(), Day: t.Day()}, nil
}

func formatAnnualDate(a calendar.AnnualDate) string {
	return strings.ToUpper(a.String())
}

func invalid(version string, err error) error {
	return &policy.ValidationError{Version: version, Problems: []string{err.Error()}}
}
