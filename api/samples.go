/*
samples.go - Built-in sample rosters for demonstrations

PURPOSE:

	Provides small rosters that exercise every outcome of the engine, so a
	client can be tried without uploading personal data.

AVAILABLE SAMPLES:

	ssg-2025:  SSG cycle with TIG, UIF, RE and skill-level failures,
	           a late arrival and an unreadable record
	sra-2025:  SRA cycle with standard-track and below-the-zone A1Cs

USAGE VIA API:

	GET  /api/samples
	POST /api/samples/ssg-2025/classify?ruleset=FY2025

ADDING NEW SAMPLES:
 1. Add to 'samples' with ID, name, description and cycle
 2. Create a roster function returning []roster.Member
*/
package api

import (
	"github.com/ywgi/AirForceMELGenerator/eligibility"
	"github.com/ywgi/AirForceMELGenerator/policy"
	"github.com/ywgi/AirForceMELGenerator/roster"
)

// Sample is a named roster with the cycle it was built for.
type Sample struct {
	ID          string
	Name        string
	Description string
	Cycle       eligibility.Cycle
	Members     func() []roster.Member
}

var samples = []Sample{
	{
		ID:          "ssg-2025",
		Name:        "SSG cycle 2025",
		Description: "Staff sergeants across two squadrons with one of each disqualifier",
		Cycle:       eligibility.Cycle{Grade: policy.GradeSSG, Year: 2025},
		Members:     staffSergeantRoster,
	},
	{
		ID:          "sra-2025",
		Name:        "SRA cycle 2025",
		Description: "Senior airmen and airmen first class including below-the-zone candidates",
		Cycle:       eligibility.Cycle{Grade: policy.GradeSRA, Year: 2025},
		Members:     seniorAirmanRoster,
	},
}

func findSample(id string) (Sample, bool) {
	for _, s := range samples {
		if s.ID == id {
			return s, true
		}
	}
	return Sample{}, false
}

// =============================================================================
// SAMPLE ROSTERS
// =============================================================================

const (
	commSquadron  = "0099 COMMUNICATIONS SQUADRON"
	maintSquadron = "0099 MAINTENANCE SQUADRON"
)

func member(name, grade, unit, unitName, skill, arrived, dor, tafmsd string) roster.Member {
	return roster.Member{
		FullName:           name,
		Grade:              grade,
		UnitCode:           unit,
		UnitName:           unitName,
		PrimarySkill:       skill,
		DutySkill:          skill,
		DateArrivedStation: arrived,
		DateOfRank:         dor,
		TAFMSD:             tafmsd,
	}
}

func staffSergeantRoster() []roster.Member {
	uif := member("CARTER, ALEX", "SSG", "FF1AB1CD", commSquadron, "3D072", "01-FEB-2022", "01-JUN-2022", "10-JAN-2015")
	uif.UIFCode = "3"
	uif.UIFDispositionDate = "15-JAN-2025"

	re := member("DIAZ, SAM", "SSG", "FF1AB1CD", commSquadron, "3D072", "01-FEB-2022", "01-MAR-2021", "05-MAY-2014")
	re.ReenlistmentCode = "2X"

	unreadable := member("EVANS, PAT", "SSG", "FF2XY9ZZ", maintSquadron, "2A672", "01-JAN-2023", "", "10-JAN-2016")

	projected := member("FOSTER, LEE", "SSG", "FF2XY9ZZ", maintSquadron, "2A672", "01-JAN-2023", "01-JAN-2022", "01-JAN-2013")
	projected.ProjectedGrade = "TSG"

	return []roster.Member{
		member("ADAMS, JORDAN", "SSG", "FF1AB1CD", commSquadron, "3D072", "15-MAR-2023", "01-JUN-2022", "10-JAN-2015"),
		member("BAKER, TAYLOR", "SSG", "FF1AB1CD", commSquadron, "3D072", "20-JUN-2021", "01-FEB-2024", "10-JAN-2015"),
		uif,
		re,
		member("GRANT, RILEY", "SSG", "FF2XY9ZZ", maintSquadron, "2A652", "01-JAN-2023", "01-JAN-2022", "01-JAN-2016"),
		member("HAYES, CASEY", "SSG", "FF2XY9ZZ", maintSquadron, "2A672", "15-NOV-2024", "01-JAN-2022", "01-JAN-2016"),
		member("IBARRA, DREW", "SSG", "FF2XY9ZZ", maintSquadron, "8F000", "01-JAN-2023", "01-JAN-2022", "01-JAN-2016"),
		unreadable,
		projected,
		member("JONES, QUINN", "TSG", "FF2XY9ZZ", maintSquadron, "2A672", "01-JAN-2023", "01-JAN-2022", "01-JAN-2010"),
	}
}

func seniorAirmanRoster() []roster.Member {
	return []roster.Member{
		member("KIM, AVERY", "SRA", "FF1AB1CD", commSquadron, "3D052", "01-JAN-2023", "01-JUN-2024", "01-JUN-2021"),
		member("LOPEZ, BLAKE", "SRA", "FF1AB1CD", commSquadron, "3D052", "01-JAN-2023", "01-MAR-2025", "01-JUN-2021"),
		member("MORGAN, REESE", "A1C", "FF1AB1CD", commSquadron, "3D052", "01-JAN-2024", "01-SEP-2022", "01-SEP-2021"),
		member("NGUYEN, SKYLER", "A1C", "FF1AB1CD", commSquadron, "3D052", "01-JAN-2024", "01-JAN-2023", "15-MAR-2022"),
		member("OWENS, JAMIE", "A1C", "FF2XY9ZZ", maintSquadron, "2A632", "01-JAN-2024", "01-SEP-2022", "01-SEP-2021"),
		member("PARK, ROWAN", "A1C", "FF2XY9ZZ", maintSquadron, "2A652", "01-JAN-2024", "01-JUN-2023", "01-MAR-2022"),
		member("QUINN, MORGAN", "AMN", "FF2XY9ZZ", maintSquadron, "2A631", "01-JAN-2024", "01-JUN-2024", "01-JUN-2023"),
	}
}
