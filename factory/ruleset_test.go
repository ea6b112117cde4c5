package factory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ywgi/AirForceMELGenerator/calendar"
	"github.com/ywgi/AirForceMELGenerator/factory"
	"github.com/ywgi/AirForceMELGenerator/policy"
)

func TestParseRuleset_Extends(t *testing.T) {
	// GIVEN: a FY2027 document overriding only the window and one row
	f := factory.NewRulesetFactory(policy.DefaultRegistry())
	doc := `{
		"version": "FY2027",
		"name": "Enlisted promotion tables FY2027",
		"extends": "FY2026",
		"hyt_exception": {"start": "08-DEC-2023", "end": "30-SEP-2027"},
		"grades": [
			{"grade": "ssg", "next_grade": "TSG", "closeout": "28-feb", "selection": "01-JUL",
			 "tig_months": 24, "tis_years": 5, "hyt_years": 20, "mdos_offset_months": 1,
			 "required_skill_level": 7}
		]
	}`

	// WHEN
	rs, err := f.ParseRuleset([]byte(doc))

	// THEN
	require.NoError(t, err)
	assert.Equal(t, "FY2027", rs.Version)
	assert.True(t, rs.HYTException.End.Equal(calendar.NewDate(2027, time.September, 30)))

	ssg, err := rs.Grade(policy.GradeSSG)
	require.NoError(t, err)
	assert.Equal(t, 24, ssg.TIGMonths)
	assert.Equal(t, calendar.AnnualDate{Month: time.February, Day: 28}, ssg.Closeout)

	// Rows not in the document come from the base
	tsg, err := rs.Grade(policy.GradeTSG)
	require.NoError(t, err)
	assert.Equal(t, 24, tsg.TIGMonths)
	assert.Len(t, rs.ReenlistmentCodes, 19)

	// The base is untouched
	base, err := policy.DefaultRegistry().Lookup(policy.VersionFY2026)
	require.NoError(t, err)
	baseSSG, _ := base.Grade(policy.GradeSSG)
	assert.Equal(t, 23, baseSSG.TIGMonths)
}

func TestParseRuleset_RoundTripsPreset(t *testing.T) {
	f := factory.NewRulesetFactory(nil)
	preset := policy.FY2025()

	data, err := f.MarshalRuleset(preset)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"closeout": "31-JAN"`)
	assert.Contains(t, string(data), `"start": "08-DEC-2023"`)

	parsed, err := f.ParseRuleset(data)
	require.NoError(t, err)
	assert.Equal(t, preset.Grades, parsed.Grades)
	assert.Equal(t, preset.ReenlistmentCodes, parsed.ReenlistmentCodes)
	assert.Equal(t, preset.Junior, parsed.Junior)
	assert.Equal(t, preset.Accounting, parsed.Accounting)
	assert.True(t, preset.HYTException.Start.Equal(parsed.HYTException.Start))
}

func TestParseRuleset_ReenlistmentTableReplaced(t *testing.T) {
	f := factory.NewRulesetFactory(policy.DefaultRegistry())
	rs, err := f.ParseRuleset([]byte(`{"version": "LOCAL", "extends": "FY2025", "reenlistment_codes": {" 2x ": "Not selected."}}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"2X": "Not selected."}, rs.ReenlistmentCodes)
}

func TestParseRuleset_Errors(t *testing.T) {
	f := factory.NewRulesetFactory(policy.DefaultRegistry())
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"malformed", `{"version":`, policy.ErrInvalidRuleset},
		{"unknown base", `{"version": "X", "extends": "FY1999"}`, policy.ErrRulesetNotFound},
		{"incomplete without base", `{"version": "X"}`, policy.ErrInvalidRuleset},
		{"bad annual date", `{"version": "X", "extends": "FY2025", "grades": [{"grade": "SSG", "closeout": "31-FOO", "selection": "01-JUL"}]}`, policy.ErrInvalidRuleset},
		{"bad window", `{"version": "X", "extends": "FY2025", "hyt_exception": {"start": "2023-12-08", "end": "30-SEP-2027"}}`, policy.ErrInvalidRuleset},
		{"junior without cycle", `{"version": "X", "extends": "FY2025", "grades": [{"grade": "AMN", "closeout": "31-MAR", "selection": "01-AUG", "junior": true, "feeds_cycle": "A1C"}]}`, policy.ErrInvalidRuleset},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.ParseRuleset([]byte(tt.doc))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseRuleset_ExtendsWithoutRegistry(t *testing.T) {
	_, err := factory.NewRulesetFactory(nil).ParseRuleset([]byte(`{"version": "X", "extends": "FY2025"}`))
	assert.ErrorIs(t, err, policy.ErrRulesetNotFound)
}
