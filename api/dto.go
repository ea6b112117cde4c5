/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Reports are flattened
  into display rows so a client can render the eligibility list without
  knowing the engine's types.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Rulesets:
    RulesetSummaryDTO (detail wraps factory.RulesetJSON)

  Classification:
    ClassifyRequest, ReportDTO, MemberResultDTO, ExclusionDTO, UnitDTO,
    PoolDTO

  Single member:
    EvaluateRequest, EvaluationDTO

  Dates:
    CycleDatesDTO

  Samples:
    SampleDTO

DATES:
  Dates are rendered in the roster convention, 05-JAN-2025. The accounting
  date carries its time of day.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/ruleset.go: RulesetJSON type
*/
package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/ywgi/AirForceMELGenerator/batch"
	"github.com/ywgi/AirForceMELGenerator/eligibility"
	"github.com/ywgi/AirForceMELGenerator/policy"
	"github.com/ywgi/AirForceMELGenerator/quota"
	"github.com/ywgi/AirForceMELGenerator/roster"
)

// =============================================================================
// RULESETS
// =============================================================================

// RulesetSummaryDTO lists a registered ruleset.
type RulesetSummaryDTO struct {
	Version      string   `json:"version"`
	Name         string   `json:"name"`
	Cycles       []string `json:"cycles"`
	HYTException string   `json:"hyt_exception,omitempty"`
	Default      bool     `json:"default"`
}

// =============================================================================
// CLASSIFICATION
// =============================================================================

// ClassifyRequest is the JSON body of a classify call. CSV bodies are read
// as an alpha roster instead.
type ClassifyRequest struct {
	Members []roster.Member `json:"members"`
}

// ReportDTO is a classification report.
type ReportDTO struct {
	RunID          string       `json:"run_id"`
	GeneratedAt    string       `json:"generated_at"`
	Ruleset        string       `json:"ruleset"`
	Cycle          string       `json:"cycle"`
	Year           int          `json:"year"`
	BoardID        string       `json:"board_id"`
	Closeout       string       `json:"closeout"`
	AccountingDate string       `json:"accounting_date"`
	Counts         batch.Counts `json:"counts"`

	Eligible      []MemberResultDTO `json:"eligible"`
	BelowTheZone  []MemberResultDTO `json:"below_the_zone"`
	Ineligible    []MemberResultDTO `json:"ineligible"`
	NotApplicable []MemberResultDTO `json:"not_applicable"`
	Excluded      []ExclusionDTO    `json:"excluded"`
	LateArrivals  []MemberRowDTO    `json:"late_arrivals"`

	Units         []UnitDTO `json:"units"`
	SmallUnitPool PoolDTO   `json:"small_unit_pool"`
}

// MemberRowDTO is a member as shown on a report row.
type MemberRowDTO struct {
	Name      string `json:"name"`
	Grade     string `json:"grade"`
	UnitCode  string `json:"unit_code"`
	Unit      string `json:"unit"`
	DutySkill string `json:"duty_skill,omitempty"`
	Arrived   string `json:"date_arrived_station,omitempty"`
}

// MemberResultDTO is a classified member.
type MemberResultDTO struct {
	MemberRowDTO
	Kind       string `json:"kind"`
	ReasonCode string `json:"reason_code,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// ExclusionDTO is a member that could not be evaluated.
type ExclusionDTO struct {
	MemberRowDTO
	Field string `json:"field,omitempty"`
	Error string `json:"error"`
}

// UnitDTO is one unit's summary.
type UnitDTO struct {
	Code         string           `json:"code"`
	Name         string           `json:"name"`
	Eligible     int              `json:"eligible"`
	BelowTheZone int              `json:"below_the_zone"`
	Considered   int              `json:"considered"`
	SmallUnit    bool             `json:"small_unit"`
	Quota        quota.Allocation `json:"quota"`
}

// PoolDTO is the pooled small units.
type PoolDTO struct {
	Units    []string         `json:"units"`
	Eligible int              `json:"eligible"`
	Quota    quota.Allocation `json:"quota"`
}

// =============================================================================
// SINGLE MEMBER
// =============================================================================

// EvaluateRequest evaluates one member.
type EvaluateRequest struct {
	Member roster.Member `json:"member"`
}

// EvaluationDTO is one member's result and the checks that produced it.
type EvaluationDTO struct {
	Kind       string              `json:"kind"`
	ReasonCode string              `json:"reason_code,omitempty"`
	Reason     string              `json:"reason,omitempty"`
	Checks     []eligibility.Check `json:"checks"`
}

// =============================================================================
// DATES
// =============================================================================

// CycleDatesDTO lists the dates governing a cycle.
type CycleDatesDTO struct {
	Ruleset        string `json:"ruleset"`
	Cycle          string `json:"cycle"`
	Year           int    `json:"year"`
	BoardID        string `json:"board_id"`
	Closeout       string `json:"closeout"`
	AccountingDate string `json:"accounting_date"`
	Selection      string `json:"selection"`
	JuniorCutoff   string `json:"junior_cutoff,omitempty"`
}

// =============================================================================
// SAMPLES
// =============================================================================

// SampleDTO describes a built-in sample roster.
type SampleDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Cycle       string `json:"cycle"`
	Year        int    `json:"year"`
	Members     int    `json:"members"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

// NewReportDTO flattens a report into display rows.
func NewReportDTO(r *batch.Report) ReportDTO {
	dto := ReportDTO{
		RunID:          r.RunID.String(),
		GeneratedAt:    r.GeneratedAt.Format(time.RFC3339),
		Ruleset:        r.Ruleset,
		Cycle:          string(r.Cycle.Grade),
		Year:           r.Cycle.Year,
		BoardID:        r.BoardID,
		Closeout:       r.Closeout.String(),
		AccountingDate: r.AccountingDate.String(),
		Counts:         r.Counts(),
		Eligible:       toResultDTOs(r.Eligible),
		BelowTheZone:   toResultDTOs(r.BelowTheZone),
		Ineligible:     toResultDTOs(r.Ineligible),
		NotApplicable:  toResultDTOs(r.NotApplicable),
		Excluded:       make([]ExclusionDTO, 0, len(r.Excluded)),
		LateArrivals:   make([]MemberRowDTO, 0, len(r.LateArrivals)),
		Units:          make([]UnitDTO, 0, len(r.Units)),
		SmallUnitPool: PoolDTO{
			Units:    append([]string{}, r.SmallUnitPool.Units...),
			Eligible: r.SmallUnitPool.Eligible,
			Quota:    r.SmallUnitPool.Quota,
		},
	}

	for _, x := range r.Excluded {
		ex := ExclusionDTO{MemberRowDTO: toMemberRow(x.Member), Error: x.Err.Error()}
		var fieldErr *eligibility.FieldError
		if errors.As(x.Err, &fieldErr) {
			ex.Field = fieldErr.Field
		}
		dto.Excluded = append(dto.Excluded, ex)
	}
	for _, m := range r.LateArrivals {
		dto.LateArrivals = append(dto.LateArrivals, toMemberRow(m))
	}
	for _, u := range r.Units {
		dto.Units = append(dto.Units, UnitDTO{
			Code:         u.Code,
			Name:         u.Name,
			Eligible:     u.Eligible,
			BelowTheZone: u.BelowTheZone,
			Considered:   u.Considered,
			SmallUnit:    u.SmallUnit,
			Quota:        u.Quota,
		})
	}
	return dto
}

// NewCycleDatesDTO lists the dates governing a cycle under rs.
func NewCycleDatesDTO(rs *policy.Ruleset, cycle eligibility.Cycle) (CycleDatesDTO, error) {
	if _, err := rs.Cycle(cycle.Grade); err != nil {
		return CycleDatesDTO{}, fmt.Errorf("%w: %w", batch.ErrInvalidCycle, err)
	}
	board, err := rs.BoardID(cycle.Grade, cycle.Year)
	if err != nil {
		return CycleDatesDTO{}, err
	}
	closeout, err := rs.ClosureDate(cycle.Grade, cycle.Year)
	if err != nil {
		return CycleDatesDTO{}, err
	}
	accounting, err := rs.AccountingDate(cycle.Grade, cycle.Year)
	if err != nil {
		return CycleDatesDTO{}, err
	}
	selection, err := rs.SelectionDate(cycle.Grade, cycle.Year)
	if err != nil {
		return CycleDatesDTO{}, err
	}

	dto := CycleDatesDTO{
		Ruleset:        rs.Version,
		Cycle:          string(cycle.Grade),
		Year:           cycle.Year,
		BoardID:        board,
		Closeout:       closeout.String(),
		AccountingDate: accounting.String(),
		Selection:      selection.String(),
	}
	for _, gp := range rs.Grades {
		if gp.Junior && gp.FeedsCycle == cycle.Grade {
			dto.JuniorCutoff = rs.JuniorCutoff(cycle.Year).String()
			break
		}
	}
	return dto, nil
}

func toResultDTOs(entries []batch.Entry) []MemberResultDTO {
	dtos := make([]MemberResultDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, MemberResultDTO{
			MemberRowDTO: toMemberRow(e.Member),
			Kind:         string(e.Result.Kind),
			ReasonCode:   string(e.Result.Reason.Code),
			Reason:       e.Result.Reason.Text,
		})
	}
	return dtos
}

func toMemberRow(m roster.Member) MemberRowDTO {
	return MemberRowDTO{
		Name:      m.DisplayName(),
		Grade:     string(m.GradeCode()),
		UnitCode:  m.UnitCode,
		Unit:      m.DisplayUnit(),
		DutySkill: m.DutySkill,
		Arrived:   m.DateArrivedStation,
	}
}

func toRulesetSummary(rs *policy.Ruleset, defaultVersion string) RulesetSummaryDTO {
	dto := RulesetSummaryDTO{
		Version: rs.Version,
		Name:    rs.Name,
		Cycles:  []string{},
		Default: rs.Version == defaultVersion,
	}
	for _, g := range rs.CycleGrades() {
		dto.Cycles = append(dto.Cycles, string(g))
	}
	if !rs.HYTException.IsZero() {
		dto.HYTException = rs.HYTException.String()
	}
	return dto
}
