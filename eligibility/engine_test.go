package eligibility_test

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ywgi/AirForceMELGenerator/calendar"
	"github.com/ywgi/AirForceMELGenerator/eligibility"
	"github.com/ywgi/AirForceMELGenerator/policy"
	"github.com/ywgi/AirForceMELGenerator/roster"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func fy2025() *eligibility.Engine { return eligibility.NewEngine(policy.FY2025()) }

var ssgCycle = eligibility.Cycle{Grade: policy.GradeSSG, Year: 2025}
var sraCycle = eligibility.Cycle{Grade: policy.GradeSRA, Year: 2025}

// staffSergeant passes every check of the 2025 SSG cycle.
// Closeout 31-JAN-2025, selection 01-JUL-2025, MDOS 01-AUG-2025.
func staffSergeant() roster.Member {
	return roster.Member{
		FullName:           "DOE, JANE A",
		Grade:              "SSG",
		UnitCode:           "FF1AB1CD",
		UnitName:           "0099 COMMUNICATIONS SQ",
		PrimarySkill:       "3D072",
		DateArrivedStation: "15-MAR-2023",
		DateOfRank:         "01-JUN-2022",
		TAFMSD:             "10-JAN-2015",
		ReenlistmentCode:   "3A",
	}
}

// airmanFirstClass is an A1C in the 2025 SRA cycle.
// Closeout 31-MAR-2025, standard cutoff 01-FEB-2025.
func airmanFirstClass(dor, tafmsd string) roster.Member {
	return roster.Member{
		FullName:     "ROE, RICHARD",
		Grade:        "A1C",
		UnitCode:     "FF1AB1CD",
		PrimarySkill: "3D052",
		DateOfRank:   dor,
		TAFMSD:       tafmsd,
	}
}

func mustDate(t *testing.T, s string) calendar.TimePoint {
	t.Helper()
	tp, err := calendar.ParseDate(s)
	require.NoError(t, err)
	return tp
}

func evaluate(t *testing.T, e *eligibility.Engine, m roster.Member, c eligibility.Cycle) eligibility.Result {
	t.Helper()
	result, err := e.Evaluate(m, c)
	require.NoError(t, err)
	return result
}

// =============================================================================
// BASELINE
// =============================================================================

func TestEvaluate_Eligible(t *testing.T) {
	result := evaluate(t, fy2025(), staffSergeant(), ssgCycle)
	assert.Equal(t, eligibility.KindEligible, result.Kind)
	assert.True(t, result.IsEligible())
	assert.Empty(t, result.Reason.Text)
}

func TestEvaluate_Deterministic(t *testing.T) {
	e := fy2025()
	m := staffSergeant()
	m.UIFCode = "4"
	m.UIFDispositionDate = "01-JAN-2025"

	first := evaluate(t, e, m, ssgCycle)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, evaluate(t, e, m, ssgCycle))
	}
}

// =============================================================================
// TIME IN GRADE / TIME IN SERVICE
// =============================================================================

func TestEvaluate_TIGBoundary(t *testing.T) {
	e := fy2025()

	// GIVEN: selection 01-JUL-2025 - 23 months = 01-AUG-2023
	m := staffSergeant()

	// WHEN/THEN: a DOR on the deadline passes
	m.DateOfRank = "01-AUG-2023"
	assert.Equal(t, eligibility.KindEligible, evaluate(t, e, m, ssgCycle).Kind)

	// WHEN/THEN: one day later fails
	m.DateOfRank = "02-AUG-2023"
	result := evaluate(t, e, m, ssgCycle)
	assert.Equal(t, eligibility.KindIneligible, result.Kind)
	assert.Equal(t, eligibility.ReasonTIG, result.Reason.Code)
	assert.Equal(t, "TIG: <23 months", result.Reason.Text)
}

func TestEvaluate_TISBoundary(t *testing.T) {
	e := fy2025()

	// GIVEN: selection 01-JUL-2025 - (5 - 1) years = 01-JUL-2021
	m := staffSergeant()

	m.TAFMSD = "01-JUL-2021"
	assert.Equal(t, eligibility.KindEligible, evaluate(t, e, m, ssgCycle).Kind)

	m.TAFMSD = "02-JUL-2021"
	result := evaluate(t, e, m, ssgCycle)
	assert.Equal(t, eligibility.ReasonTIS, result.Reason.Code)
	assert.Equal(t, "TIS: <5 years", result.Reason.Text)
}

func TestEvaluate_FirstFailureWins(t *testing.T) {
	// GIVEN: a member failing TIG, UIF, RE and skill level
	m := staffSergeant()
	m.DateOfRank = "01-JAN-2025"
	m.UIFCode = "3"
	m.UIFDispositionDate = "01-JAN-2025"
	m.ReenlistmentCode = "2X"
	m.PrimarySkill = "3D052"

	// THEN: only the first failure in chain order is reported
	result := evaluate(t, fy2025(), m, ssgCycle)
	assert.Equal(t, eligibility.ReasonTIG, result.Reason.Code)
}

// =============================================================================
// HIGH YEAR OF TENURE
// =============================================================================

func TestEvaluate_HYTExceptionWindow(t *testing.T) {
	e := fy2025()
	tests := []struct {
		name   string
		tafmsd string
		kind   eligibility.Kind
	}{
		// HYT 01-DEC-2023 is before the window and before MDOS
		{"before window", "01-DEC-2003", eligibility.KindIneligible},
		// HYT on the window start is not inside it
		{"on window start", "08-DEC-2003", eligibility.KindIneligible},
		// HYT 09-DEC-2023 + 2 years = 09-DEC-2025, after MDOS
		{"inside window", "09-DEC-2003", eligibility.KindEligible},
		// HYT 01-JUN-2025 + 2 years
		{"deep inside window", "01-JUN-2005", eligibility.KindEligible},
		// HYT 30-SEP-2025 is on the window end: not adjusted, still after MDOS
		{"on window end", "30-SEP-2005", eligibility.KindEligible},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := staffSergeant()
			m.TAFMSD = tt.tafmsd
			result := evaluate(t, e, m, ssgCycle)
			assert.Equal(t, tt.kind, result.Kind)
			if tt.kind == eligibility.KindIneligible {
				assert.Equal(t, "HYT: Mandatory DOS", result.Reason.Text)
			}
		})
	}
}

func TestEvaluate_HYTWindowIsVersioned(t *testing.T) {
	// GIVEN: HYT 01-JUN-2026, MDOS 01-AUG-2026
	m := staffSergeant()
	m.TAFMSD = "01-JUN-2006"
	cycle := eligibility.Cycle{Grade: policy.GradeSSG, Year: 2026}

	// THEN: FY2025's window has closed, FY2026's still covers it
	assert.Equal(t, eligibility.ReasonHYT, evaluate(t, fy2025(), m, cycle).Reason.Code)
	assert.Equal(t, eligibility.KindEligible, evaluate(t, eligibility.NewEngine(policy.FY2026()), m, cycle).Kind)
}

func TestHYTDate(t *testing.T) {
	rs := policy.FY2025()
	gp, err := rs.Grade(policy.GradeSSG)
	require.NoError(t, err)

	inside := eligibility.HYTDate(rs, gp, mustDate(t, "01-JUN-2005"))
	assert.Equal(t, "01-JUN-2027", inside.String())

	outside := eligibility.HYTDate(rs, gp, mustDate(t, "01-JUN-2010"))
	assert.Equal(t, "01-JUN-2030", outside.String())
}

// =============================================================================
// UIF / REENLISTMENT
// =============================================================================

func TestEvaluate_UIF(t *testing.T) {
	e := fy2025()
	tests := []struct {
		name        string
		code        string
		disposition string
		want        string
	}{
		{"disposition before closeout", "3", "01-JAN-2025", "UIF: Code 3"},
		{"disposition on closeout", "3", "31-JAN-2025", ""},
		{"code 1 never disqualifies", "1", "01-JAN-2025", ""},
		{"spreadsheet number", "2.0", "01-JAN-2025", "UIF: Code 2"},
		{"padded spreadsheet number", " 4.0 ", "01-JAN-2025", "UIF: Code 4"},
		{"spreadsheet code 1", "1.0", "01-JAN-2025", ""},
		{"unreadable code", "X", "01-JAN-2025", ""},
		{"not a number", "NaN", "01-JAN-2025", ""},
		{"unreadable date", "5", "JAN 2025", ""},
		{"missing date", "5", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := staffSergeant()
			m.UIFCode = tt.code
			m.UIFDispositionDate = tt.disposition
			result := evaluate(t, e, m, ssgCycle)
			assert.Equal(t, tt.want, result.Reason.Text)
			if tt.want != "" {
				assert.Equal(t, eligibility.ReasonUIF, result.Reason.Code)
			}
		})
	}
}

func TestEvaluate_UIFFlipsWithClearedDate(t *testing.T) {
	e := fy2025()
	m := staffSergeant()
	m.UIFCode = "2"
	m.UIFDispositionDate = "30-JAN-2025"
	assert.Equal(t, eligibility.KindIneligible, evaluate(t, e, m, ssgCycle).Kind)

	m.UIFDispositionDate = "01-FEB-2025"
	assert.Equal(t, eligibility.KindEligible, evaluate(t, e, m, ssgCycle).Kind)
}

func TestEvaluate_ReenlistmentCodes(t *testing.T) {
	e := fy2025()
	tests := []struct {
		code string
		want string
	}{
		{"2X", "RE 2X: Not selected for reenlistment."},
		{"2a", "RE 2A: HQ AFPC denied reenlistment fo..."},
		{" 4H ", "RE 4H: Ineligible due to Article 15."},
		{"3A", ""},
		{"", ""},
	}
	for _, tt := range tests {
		m := staffSergeant()
		m.ReenlistmentCode = tt.code
		result := evaluate(t, e, m, ssgCycle)
		assert.Equal(t, tt.want, result.Reason.Text, "code %q", tt.code)
	}
}

// =============================================================================
// SKILL LEVEL
// =============================================================================

func TestEvaluate_SkillLevel(t *testing.T) {
	e := fy2025()
	tests := []struct {
		name      string
		primary   string
		secondary string
		want      string
	}{
		{"seven level", "3D072", "", ""},
		{"nine level", "3D092", "", ""},
		{"five level", "3D052", "", "AFSC: Requires 7-skill level"},
		{"exempt career field", "8A200", "", ""},
		{"secondary when primary missing", "", "3D072", ""},
		{"secondary when primary too short", "3D0", "3D052", "AFSC: Requires 7-skill level"},
		{"non-numeric level skips", "3D0X2", "", ""},
		{"no usable code skips", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := staffSergeant()
			m.PrimarySkill = tt.primary
			m.SecondarySkills[0] = tt.secondary
			result := evaluate(t, e, m, ssgCycle)
			assert.Equal(t, tt.want, result.Reason.Text)
		})
	}
}

func TestSkillLevel(t *testing.T) {
	tests := []struct {
		code  string
		level int
		ok    bool
	}{
		{"1N371", 7, true},
		{"3D072", 7, true},
		{"3D052", 5, true},
		{"2A631", 3, true},
		{"3D0X2", 0, false},
		{"1N3", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			level, ok := eligibility.SkillLevel(tt.code)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.level, level)
		})
	}
}

func TestSkillCode_NeedsFiveCharacters(t *testing.T) {
	// GIVEN a primary code too short to be an AFSC and a full secondary
	m := staffSergeant()
	m.PrimarySkill = "3D07"
	m.SecondarySkills[0] = "3D052"

	// WHEN selecting the code carrying the skill level
	code, ok := eligibility.SkillCode(m)

	// THEN the secondary is used
	require.True(t, ok)
	assert.Equal(t, "3D052", code)
}

func TestEvaluate_SevenLevelStaffSergeantPassesSkillCheck(t *testing.T) {
	// GIVEN a 7-level SSG that passes every other check
	e := fy2025()

	// WHEN tracing the evaluation
	result, checks, err := e.Trace(staffSergeant(), ssgCycle)

	// THEN the skill check passes on digit 7
	require.NoError(t, err)
	assert.Equal(t, eligibility.KindEligible, result.Kind)
	last := checks[len(checks)-1]
	assert.Equal(t, eligibility.CheckSkillLevel, last.Name)
	assert.True(t, last.Passed)
	assert.Contains(t, last.Detail, "7-level")
}

// =============================================================================
// SCOPE / PENDING ACTION
// =============================================================================

func TestEvaluate_OutOfScope(t *testing.T) {
	e := fy2025()
	for _, grade := range []string{"TSG", "SRA", "A1C", "AB"} {
		m := staffSergeant()
		m.Grade = grade
		result := evaluate(t, e, m, ssgCycle)
		assert.Equal(t, eligibility.KindNotApplicable, result.Kind, grade)
		assert.Equal(t, eligibility.ReasonOutOfScope, result.Reason.Code, grade)
	}
}

func TestEvaluate_OutOfScopeSkipsRecordChecks(t *testing.T) {
	// GIVEN: a TSG with no dates at all
	m := roster.Member{FullName: "TSG ONLY", Grade: "TSG"}

	// THEN: scope decides before the missing dates matter
	result := evaluate(t, fy2025(), m, ssgCycle)
	assert.Equal(t, eligibility.KindNotApplicable, result.Kind)
}

func TestEvaluate_ProjectedGrade(t *testing.T) {
	e := fy2025()
	for _, projected := range []string{"TSG", "SSG", "tsg"} {
		m := staffSergeant()
		m.ProjectedGrade = projected
		result := evaluate(t, e, m, ssgCycle)
		assert.Equal(t, eligibility.KindNotApplicable, result.Kind)
		assert.Equal(t, eligibility.ReasonProjected, result.Reason.Code)
	}

	m := staffSergeant()
	m.ProjectedGrade = "TSG"
	assert.Equal(t, "Projected for TSG.", evaluate(t, e, m, ssgCycle).Reason.Text)

	// A projection to an unrelated grade does not block
	m.ProjectedGrade = "MSG"
	assert.Equal(t, eligibility.KindEligible, evaluate(t, e, m, ssgCycle).Kind)
}

// =============================================================================
// JUNIOR GRADES
// =============================================================================

func TestEvaluate_JuniorStandardTrack(t *testing.T) {
	// GIVEN: DOR 01-SEP-2022 + 28 months = 01-JAN-2025, on/before 01-FEB-2025
	m := airmanFirstClass("01-SEP-2022", "01-SEP-2021")

	result := evaluate(t, fy2025(), m, sraCycle)
	assert.Equal(t, eligibility.KindEligible, result.Kind)
}

func TestEvaluate_JuniorBelowTheZone(t *testing.T) {
	// GIVEN: DOR 01-JAN-2023. Standard 01-MAY-2025 misses the cutoff,
	// below-the-zone 01-NOV-2024 is on/before closeout 31-MAR-2025.
	m := airmanFirstClass("01-JAN-2023", "15-MAR-2022")

	result := evaluate(t, fy2025(), m, sraCycle)
	assert.Equal(t, eligibility.KindBelowTheZone, result.Kind)
	assert.False(t, result.IsEligible())
}

func TestEvaluate_JuniorBelowTheZoneStillChecked(t *testing.T) {
	// GIVEN: a below-the-zone candidate with a 3-level skill
	m := airmanFirstClass("01-JAN-2023", "15-MAR-2022")
	m.PrimarySkill = "3D032"

	result := evaluate(t, fy2025(), m, sraCycle)
	assert.Equal(t, eligibility.KindIneligible, result.Kind)
	assert.Equal(t, "AFSC: Requires 5-skill level", result.Reason.Text)
}

func TestEvaluate_JuniorOutsideWindow(t *testing.T) {
	// GIVEN: DOR 01-JUN-2023 + 22 months = 01-APR-2025, after closeout
	m := airmanFirstClass("01-JUN-2023", "01-MAR-2022")

	result := evaluate(t, fy2025(), m, sraCycle)
	assert.Equal(t, eligibility.KindNotApplicable, result.Kind)
	assert.Equal(t, eligibility.ReasonOutsideWindow, result.Reason.Code)
}

func TestEvaluate_JuniorServiceCeiling(t *testing.T) {
	// GIVEN: TAFMSD 01-JUN-2022 + 36 months = 01-JUN-2025, after closeout
	m := airmanFirstClass("01-SEP-2022", "01-JUN-2022")

	result := evaluate(t, fy2025(), m, sraCycle)
	assert.Equal(t, eligibility.KindIneligible, result.Kind)
	assert.Equal(t, eligibility.ReasonServiceCeiling, result.Reason.Code)
	assert.Equal(t, "TIS: over service ceiling", result.Reason.Text)
}

func TestEvaluate_SeniorAirmanUsesOwnRow(t *testing.T) {
	// GIVEN: SRA selection 01-AUG-2025 - 6 months = 01-FEB-2025
	m := staffSergeant()
	m.Grade = "SRA"
	m.PrimarySkill = "3D052"
	m.TAFMSD = "01-JUN-2021"

	m.DateOfRank = "01-FEB-2025"
	assert.Equal(t, eligibility.KindEligible, evaluate(t, fy2025(), m, sraCycle).Kind)

	m.DateOfRank = "02-FEB-2025"
	assert.Equal(t, "TIG: <6 months", evaluate(t, fy2025(), m, sraCycle).Reason.Text)
}

// =============================================================================
// ERRORS
// =============================================================================

func TestEvaluate_MissingRequiredFields(t *testing.T) {
	e := fy2025()
	tests := []struct {
		name  string
		edit  func(*roster.Member)
		field string
	}{
		{"grade", func(m *roster.Member) { m.Grade = " " }, eligibility.FieldGrade},
		{"date of rank", func(m *roster.Member) { m.DateOfRank = "" }, eligibility.FieldDateOfRank},
		{"tafmsd", func(m *roster.Member) { m.TAFMSD = "" }, eligibility.FieldTAFMSD},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := staffSergeant()
			tt.edit(&m)

			_, err := e.Evaluate(m, ssgCycle)
			require.Error(t, err)
			assert.ErrorIs(t, err, eligibility.ErrMissingRequiredField)
			assert.True(t, eligibility.IsDataError(err))

			var fieldErr *eligibility.FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tt.field, fieldErr.Field)
		})
	}
}

func TestEvaluate_InvalidDate(t *testing.T) {
	m := staffSergeant()
	m.DateOfRank = "2022-06-01"

	_, err := fy2025().Evaluate(m, ssgCycle)
	assert.ErrorIs(t, err, eligibility.ErrInvalidDate)
	assert.NotErrorIs(t, err, eligibility.ErrMissingRequiredField)
}

func TestEvaluate_UnknownCycle(t *testing.T) {
	e := fy2025()
	for _, grade := range []policy.Grade{"XYZ", policy.GradeA1C, policy.GradeCMS} {
		_, err := e.Evaluate(staffSergeant(), eligibility.Cycle{Grade: grade, Year: 2025})
		assert.ErrorIs(t, err, eligibility.ErrUnknownGrade, grade)
	}
}

// =============================================================================
// TRACE
// =============================================================================

func TestTrace_RecordsEvaluatedChecks(t *testing.T) {
	result, checks, err := fy2025().Trace(staffSergeant(), ssgCycle)
	require.NoError(t, err)
	assert.Equal(t, eligibility.KindEligible, result.Kind)

	var names []string
	for _, c := range checks {
		names = append(names, c.Name)
		assert.True(t, c.Passed, c.Name)
	}
	assert.Equal(t, []string{
		eligibility.CheckScope,
		eligibility.CheckPendingAction,
		eligibility.CheckTIG,
		eligibility.CheckTIS,
		eligibility.CheckHYT,
		eligibility.CheckReenlistment,
		eligibility.CheckSkillLevel,
	}, names)
}

func TestTrace_StopsAtFirstFailure(t *testing.T) {
	m := staffSergeant()
	m.DateOfRank = "01-JAN-2025"

	_, checks, err := fy2025().Trace(m, ssgCycle)
	require.NoError(t, err)
	require.NotEmpty(t, checks)

	last := checks[len(checks)-1]
	assert.Equal(t, eligibility.CheckTIG, last.Name)
	assert.False(t, last.Passed)
	assert.Contains(t, last.Detail, "01-AUG-2023")
}

func TestEvaluate_DoesNotTrace(t *testing.T) {
	// Evaluate and Trace agree on the result
	e := fy2025()
	m := staffSergeant()
	m.ReenlistmentCode = "4N"

	want := evaluate(t, e, m, ssgCycle)
	got, _, err := e.Trace(m, ssgCycle)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

// =============================================================================
// JSON
// =============================================================================

func TestResult_JSONOmitsEmptyReason(t *testing.T) {
	// GIVEN an eligible result and an ineligible one
	eligible := eligibility.Eligible()
	ineligible := eligibility.Ineligible(eligibility.ReasonTIG, "TIG: <%d months", 24)

	// WHEN encoding them
	eligibleJSON, err := json.Marshal(eligible)
	require.NoError(t, err)
	ineligibleJSON, err := json.Marshal(ineligible)
	require.NoError(t, err)

	// THEN only the ineligible result carries a reason
	assert.JSONEq(t, `{"kind":"eligible"}`, string(eligibleJSON))
	assert.JSONEq(t, `{"kind":"ineligible","reason":{"code":"TIG","text":"TIG: <24 months"}}`, string(ineligibleJSON))

	var decoded eligibility.Result
	require.NoError(t, json.Unmarshal(ineligibleJSON, &decoded))
	assert.Equal(t, ineligible, decoded)
}

// =============================================================================
// SCREEN
// =============================================================================

func TestScreen(t *testing.T) {
	e := fy2025()

	t.Run("considered member continues", func(t *testing.T) {
		m := staffSergeant()
		m.DateOfRank = ""
		result, err := e.Screen(m, ssgCycle)
		require.NoError(t, err)
		assert.Nil(t, result, "record completeness is not screened")
	})

	t.Run("out of scope", func(t *testing.T) {
		m := staffSergeant()
		m.Grade = "TSG"
		result, err := e.Screen(m, ssgCycle)
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, eligibility.ReasonOutOfScope, result.Reason.Code)
	})

	t.Run("projected", func(t *testing.T) {
		m := staffSergeant()
		m.ProjectedGrade = "TSG"
		result, err := e.Screen(m, ssgCycle)
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, eligibility.KindNotApplicable, result.Kind)
		assert.Equal(t, eligibility.ReasonProjected, result.Reason.Code)
	})

	t.Run("blank grade", func(t *testing.T) {
		m := staffSergeant()
		m.Grade = ""
		_, err := e.Screen(m, ssgCycle)
		assert.ErrorIs(t, err, eligibility.ErrMissingRequiredField)
	})

	t.Run("unknown cycle", func(t *testing.T) {
		_, err := e.Screen(staffSergeant(), eligibility.Cycle{Grade: "XYZ", Year: 2025})
		assert.ErrorIs(t, err, eligibility.ErrUnknownGrade)
	})
}
