// Package roster defines the service-member record and reads alpha rosters.
//
// Dates are kept as the raw roster strings. Parsing happens during
// evaluation so a malformed field excludes one member instead of the file.
package roster

import (
	"strings"

	"github.com/ywgi/AirForceMELGenerator/policy"
)

// DisplayWidth is the width names and unit names are cut to on report rows.
const DisplayWidth = 25

// Member is one service member's record for a cycle.
type Member struct {
	FullName string `json:"full_name"`
	Grade    string `json:"grade"`

	UnitCode string `json:"unit_code"` // ASSIGNED_PAS
	UnitName string `json:"unit_name"` // ASSIGNED_PAS_CLEARTEXT

	// PrimarySkill is the control AFSC (CAFSC); SecondarySkills hold 2AFSC..4AFSC.
	PrimarySkill    string    `json:"primary_skill"`
	SecondarySkills [3]string `json:"secondary_skills"`
	DutySkill       string    `json:"duty_skill,omitempty"` // DAFSC, display only

	DateArrivedStation string `json:"date_arrived_station"`
	DateOfRank         string `json:"date_of_rank"`
	TAFMSD             string `json:"tafmsd"`

	ReenlistmentCode string `json:"reenlistment_code,omitempty"`

	UIFCode            string `json:"uif_code,omitempty"`
	UIFDispositionDate string `json:"uif_disposition_date,omitempty"`

	// ProjectedGrade is set when a separate promotion action is pending.
	ProjectedGrade string `json:"projected_grade,omitempty"`
}

// GradeCode returns the normalized grade.
func (m Member) GradeCode() policy.Grade { return policy.ParseGrade(m.Grade) }

// ProjectedGradeCode returns the normalized projected grade, or "" when unset.
func (m Member) ProjectedGradeCode() policy.Grade { return policy.ParseGrade(m.ProjectedGrade) }

// SkillCodes returns the primary code followed by the secondary codes, trimmed.
func (m Member) SkillCodes() []string {
	codes := make([]string, 0, 1+len(m.SecondarySkills))
	codes = append(codes, strings.TrimSpace(m.PrimarySkill))
	for _, c := range m.SecondarySkills {
		codes = append(codes, strings.TrimSpace(c))
	}
	return codes
}

// DisplayName is the name cut to DisplayWidth for report rows.
func (m Member) DisplayName() string { return truncate(m.FullName, DisplayWidth) }

// DisplayUnit is the unit name cut to DisplayWidth for report rows.
func (m Member) DisplayUnit() string { return truncate(m.UnitName, DisplayWidth) }

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
