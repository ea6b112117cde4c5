package policy

import (
	"time"

	"github.com/ywgi/AirForceMELGenerator/calendar"
)

// =============================================================================
// PRESET RULESETS
// =============================================================================

const (
	VersionFY2025 = "FY2025"
	VersionFY2026 = "FY2026"
)

// FY2025 returns the tables in effect for the 2025 cycles. The HYT
// exception window closes 30-SEP-2025.
func FY2025() *Ruleset {
	return enlistedRuleset(VersionFY2025, "Enlisted promotion tables FY2025",
		calendar.Period{
			Start: calendar.NewDate(2023, time.December, 8),
			End:   calendar.NewDate(2025, time.September, 30),
		})
}

// FY2026 returns the tables with the HYT exception window extended to
// 30-SEP-2026.
func FY2026() *Ruleset {
	return enlistedRuleset(VersionFY2026, "Enlisted promotion tables FY2026",
		calendar.Period{
			Start: calendar.NewDate(2023, time.December, 8),
			End:   calendar.NewDate(2026, time.September, 30),
		})
}

// DefaultRegistry returns a registry holding every preset.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(FY2025())
	r.MustRegister(FY2026())
	return r
}

func enlistedRuleset(version, name string, window calendar.Period) *Ruleset {
	return &Ruleset{
		Version:             version,
		Name:                name,
		Grades:              enlistedGrades(),
		HYTException:        window,
		HYTExceptionYears:   2,
		ReenlistmentCodes:   reenlistmentCodes(),
		SkillExemptPrefixes: []string{"8"},
		Junior: JuniorTrack{
			StandardMonths:       28,
			BelowTheZoneMonths:   22,
			ServiceCeilingMonths: 36,
			Cutoff:               annual(time.February, 1),
		},
		Accounting: AccountingRule{
			OffsetDays: 119,
			Day:        3,
		},
		SmallUnitThreshold:     10,
		ReasonDescriptionLimit: 30,
	}
}

func enlistedGrades() map[Grade]GradePolicy {
	rows := []GradePolicy{
		{
			Grade: GradeA1C, NextGrade: GradeSRA,
			Closeout: annual(time.March, 31), Selection: annual(time.August, 1),
			HYTYears: 8, MDOSOffsetMonths: 1,
			RequiredSkillLevel: 5,
			Junior:             true, FeedsCycle: GradeSRA,
		},
		{
			Grade: GradeSRA, NextGrade: GradeSSG,
			Closeout: annual(time.March, 31), Selection: annual(time.August, 1),
			TIGMonths: 6, TISYears: 3, HYTYears: 10, MDOSOffsetMonths: 1,
		},
		{
			Grade: GradeSSG, NextGrade: GradeTSG,
			Closeout: annual(time.January, 31), Selection: annual(time.July, 1),
			TIGMonths: 23, TISYears: 5, HYTYears: 20, MDOSOffsetMonths: 1,
			RequiredSkillLevel: 7,
		},
		{
			Grade: GradeTSG, NextGrade: GradeMSG,
			Closeout: annual(time.November, 30), Selection: annual(time.May, 1),
			TIGMonths: 24, TISYears: 8, HYTYears: 22, MDOSOffsetMonths: 1,
		},
		{
			Grade: GradeMSG, NextGrade: GradeSMS,
			Closeout: annual(time.September, 30), Selection: annual(time.March, 1),
			TIGMonths: 20, TISYears: 11, HYTYears: 24, MDOSOffsetMonths: 1,
			RequiredSkillLevel: 9,
		},
		{
			Grade: GradeSMS, NextGrade: GradeCMS,
			Closeout: annual(time.July, 31), Selection: annual(time.December, 1),
			TIGMonths: 21, TISYears: 14, HYTYears: 26, MDOSOffsetMonths: 1,
		},
	}

	grades := make(map[Grade]GradePolicy, len(rows))
	for _, row := range rows {
		grades[row.Grade] = row
	}
	return grades
}

func reenlistmentCodes() map[string]string {
	return map[string]string{
		"2A": "HQ AFPC denied reenlistment for quality reasons.",
		"2B": "Discharged under general conditions.",
		"2C": "Involuntary separation with honorable discharge.",
		"2F": "Undergoing rehabilitation in a DOD facility.",
		"2G": "Failed Substance Abuse Treatment for drugs.",
		"2H": "Failed Substance Abuse Treatment for alcohol.",
		"2J": "Under investigation, may result in discharge.",
		"2K": "Notified of involuntary separation.",
		"2M": "Serving or separated while under sentence.",
		"2P": "AWOL; deserter.",
		"2W": "Retired and recalled to active duty.",
		"2X": "Not selected for reenlistment.",
		"4H": "Ineligible due to Article 15.",
		"4I": "Ineligible due to Control Roster.",
		"4J": "Ineligible due to AF Weight Management Program.",
		"4K": "Medically disqualified or pending evaluation.",
		"4L": "Separated from a commissioning program.",
		"4M": "Breach of enlistment agreement.",
		"4N": "Convicted by civil authority.",
	}
}
