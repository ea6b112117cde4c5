package policy

import "strings"

// =============================================================================
// GRADE - Enlisted rank codes
// =============================================================================

// Grade is an enlisted rank code as it appears on the roster.
type Grade string

const (
	GradeAB  Grade = "AB"
	GradeAMN Grade = "AMN"
	GradeA1C Grade = "A1C"
	GradeSRA Grade = "SRA"
	GradeSSG Grade = "SSG"
	GradeTSG Grade = "TSG"
	GradeMSG Grade = "MSG"
	GradeSMS Grade = "SMS"
	GradeCMS Grade = "CMS"
)

var payGrades = map[Grade]string{
	GradeAB:  "E1",
	GradeAMN: "E2",
	GradeA1C: "E3",
	GradeSRA: "E4",
	GradeSSG: "E5",
	GradeTSG: "E6",
	GradeMSG: "E7",
	GradeSMS: "E8",
	GradeCMS: "E9",
}

// ParseGrade normalizes a roster grade code ("ssg " -> SSG).
// Unknown codes are returned as-is; ruleset lookups decide what they mean.
func ParseGrade(s string) Grade {
	return Grade(strings.ToUpper(strings.TrimSpace(s)))
}

// PayGrade returns the E-scale pay grade, or "" for codes outside the table.
func (g Grade) PayGrade() string { return payGrades[g] }

// Known reports whether g is an enlisted grade code.
func (g Grade) Known() bool {
	_, ok := payGrades[g]
	return ok
}

func (g Grade) String() string { return string(g) }
