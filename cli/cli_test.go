package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ywgi/AirForceMELGenerator/api"
	"github.com/ywgi/AirForceMELGenerator/batch"
	"github.com/ywgi/AirForceMELGenerator/config"
)

const alphaRoster = `FULL_NAME,GRADE,ASSIGNED_PAS_CLEARTEXT,DAFSC,DOR,DATE_ARRIVED_STATION,TAFMSD,REENL_ELIG_STATUS,ASSIGNED_PAS,CAFSC
"ADAMS, JORDAN",SSG,0099 COMMUNICATIONS SQUADRON,3D072,01-JUN-2022,15-MAR-2023,10-JAN-2015,3A,FF1AB1CD,3D072
"BAKER, TAYLOR",SSG,0099 COMMUNICATIONS SQUADRON,3D072,01-FEB-2024,20-JUN-2021,10-JAN-2015,3A,FF1AB1CD,3D072
"JONES, QUINN",TSG,0099 MAINTENANCE SQUADRON,2A672,01-JAN-2022,01-JAN-2023,01-JAN-2010,,FF2XY9ZZ,2A672
`

func writeRoster(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "alpha.csv")
	require.NoError(t, os.WriteFile(path, []byte(alphaRoster), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := &App{Config: config.Config{Ruleset: "FY2025", LogLevel: "error"}}
	root := NewRootCmd(app)

	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestClassify_Text(t *testing.T) {
	// GIVEN a roster with one eligible and one TIG failure
	path := writeRoster(t)

	// WHEN classifying for the SSG 2025 cycle
	out, err := run(t, "classify", "--roster", path, "--cycle", "SSG", "--year", "2025")

	// THEN the list is printed by section
	require.NoError(t, err)
	assert.Contains(t, out, "MASTER ELIGIBILITY LIST 25E6")
	assert.Contains(t, out, "\nELIGIBLE (1)")
	assert.Contains(t, out, "ADAMS, JORDAN")
	assert.Contains(t, out, "INELIGIBLE (1)")
	assert.Contains(t, out, "TIG: <")
	assert.Contains(t, out, "FF1AB1CD")
	assert.Contains(t, out, "Not applicable to this cycle: 1")
}

func TestClassify_JSON(t *testing.T) {
	// GIVEN the same roster
	path := writeRoster(t)

	// WHEN asking for JSON
	out, err := run(t, "classify", "--roster", path, "--cycle", "SSG", "--year", "2025", "--format", "json")
	require.NoError(t, err)

	// THEN the report decodes with the expected counts
	var report api.ReportDTO
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "25E6", report.BoardID)
	assert.Equal(t, "FY2025", report.Ruleset)
	assert.Equal(t, batch.Counts{Eligible: 1, Ineligible: 1, NotApplicable: 1}, report.Counts)
	require.Len(t, report.Units, 1)
	assert.Equal(t, "FF1AB1CD", report.Units[0].Code)
	assert.True(t, report.Units[0].SmallUnit)
}

func TestClassify_Errors(t *testing.T) {
	path := writeRoster(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad format", []string{"classify", "--roster", path, "--cycle", "SSG", "--year", "2025", "--format", "xml"}, "invalid --format"},
		{"bad year", []string{"classify", "--roster", path, "--cycle", "SSG", "--year", "25"}, "invalid --year"},
		{"missing file", []string{"classify", "--roster", filepath.Join(t.TempDir(), "none.csv"), "--cycle", "SSG", "--year", "2025"}, "open roster"},
		{"unknown ruleset", []string{"classify", "--roster", path, "--cycle", "SSG", "--year", "2025", "--ruleset", "FY1999"}, "FY1999"},
		{"missing roster flag", []string{"classify", "--cycle", "SSG", "--year", "2025"}, "roster"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestClassify_UnknownCycle(t *testing.T) {
	path := writeRoster(t)

	_, err := run(t, "classify", "--roster", path, "--cycle", "A1C", "--year", "2025")

	require.Error(t, err)
	assert.ErrorIs(t, err, batch.ErrInvalidCycle)
}

func TestDates(t *testing.T) {
	// WHEN printing the SRA cycle dates
	out, err := run(t, "dates", "--cycle", "SRA", "--year", "2025")

	// THEN the junior cutoff is included
	require.NoError(t, err)
	assert.Contains(t, out, "FY2025")
	assert.Contains(t, out, "Junior cutoff:")
	assert.Contains(t, out, "01-FEB-2025")
}

func TestDates_NoJuniorTrack(t *testing.T) {
	out, err := run(t, "dates", "--cycle", "MSG", "--year", "2025")

	require.NoError(t, err)
	assert.Contains(t, out, "Closeout:")
	assert.NotContains(t, out, "Junior cutoff")
}

func TestRulesets(t *testing.T) {
	out, err := run(t, "rulesets")

	require.NoError(t, err)
	assert.Contains(t, out, "FY2025")
	assert.Contains(t, out, "FY2026")
	assert.Contains(t, out, "*")
}
