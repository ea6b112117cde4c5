package cli

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/ywgi/AirForceMELGenerator/api"
	"github.com/ywgi/AirForceMELGenerator/batch"
	"github.com/ywgi/AirForceMELGenerator/quota"
	"github.com/ywgi/AirForceMELGenerator/roster"
)

const (
	formatText = "text"
	formatJSON = "json"
)

func newClassifyCmd(app *App) *cobra.Command {
	var (
		flags      cycleFlags
		rosterPath string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify an alpha roster CSV for a promotion cycle",
		Example: `  melctl classify --roster alpha.csv --cycle SSG --year 2025
  melctl classify --roster alpha.csv --cycle SRA --year 2025 --ruleset FY2026 --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatText && format != formatJSON {
				return fmt.Errorf("invalid --format %q (use text or json)", format)
			}
			cycle, err := flags.cycle()
			if err != nil {
				return err
			}
			_, rs, err := app.ruleset()
			if err != nil {
				return err
			}
			logger, err := app.Config.Logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			f, err := os.Open(rosterPath)
			if err != nil {
				return fmt.Errorf("open roster: %w", err)
			}
			defer f.Close()

			members, err := roster.ReadCSV(f)
			if err != nil {
				return fmt.Errorf("read roster %s: %w", rosterPath, err)
			}

			classifier := batch.NewClassifier(rs, batch.WithQuota(quota.DefaultRates()), batch.WithLogger(logger))
			report, err := classifier.Classify(cmd.Context(), members, cycle)
			if err != nil {
				return err
			}

			if format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), api.NewReportDTO(report))
			}
			return writeReport(cmd.OutOrStdout(), report)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&rosterPath, "roster", "", "alpha roster CSV file")
	cmd.Flags().StringVar(&format, "format", formatText, "output format (text, json)")
	_ = cmd.MarkFlagRequired("roster")

	return cmd
}

// =============================================================================
// OUTPUT
// =============================================================================

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeReport(w io.Writer, r *batch.Report) error {
	fmt.Fprintf(w, "MASTER ELIGIBILITY LIST %s  (%s cycle %d, ruleset %s)\n", r.BoardID, r.Cycle.Grade, r.Cycle.Year, r.Ruleset)
	fmt.Fprintf(w, "Run %s\n", r.RunID)
	fmt.Fprintf(w, "Closeout %s, accounting date %s\n", r.Closeout, r.AccountingDate)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	section(tw, "ELIGIBLE", len(r.Eligible))
	fmt.Fprintln(tw, "NAME\tGRADE\tPASCODE\tDAFSC\tUNIT")
	for _, e := range r.Eligible {
		m := e.Member
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", m.DisplayName(), m.GradeCode(), m.UnitCode, m.DutySkill, m.DisplayUnit())
	}

	if len(r.BelowTheZone) > 0 {
		section(tw, "BELOW THE ZONE", len(r.BelowTheZone))
		fmt.Fprintln(tw, "NAME\tGRADE\tPASCODE\tDAFSC\tUNIT")
		for _, e := range r.BelowTheZone {
			m := e.Member
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", m.DisplayName(), m.GradeCode(), m.UnitCode, m.DutySkill, m.DisplayUnit())
		}
	}

	section(tw, "INELIGIBLE", len(r.Ineligible))
	fmt.Fprintln(tw, "NAME\tGRADE\tPASCODE\tUNIT\tREASON")
	for _, e := range r.Ineligible {
		m := e.Member
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", m.DisplayName(), m.GradeCode(), m.UnitCode, m.DisplayUnit(), e.Result.Reason.Text)
	}

	if len(r.Excluded) > 0 {
		section(tw, "EXCLUDED", len(r.Excluded))
		fmt.Fprintln(tw, "NAME\tPASCODE\tERROR")
		for _, x := range r.Excluded {
			fmt.Fprintf(tw, "%s\t%s\t%v\n", x.Member.DisplayName(), x.Member.UnitCode, x.Err)
		}
	}

	if len(r.LateArrivals) > 0 {
		section(tw, "ARRIVED AFTER ACCOUNTING DATE", len(r.LateArrivals))
		fmt.Fprintln(tw, "NAME\tPASCODE\tARRIVED")
		for _, m := range r.LateArrivals {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", m.DisplayName(), m.UnitCode, m.DateArrivedStation)
		}
	}

	section(tw, "UNITS", len(r.Units))
	fmt.Fprintln(tw, "PASCODE\tUNIT\tELIGIBLE\tBTZ\tSMALL\tQUOTA")
	for _, u := range r.Units {
		alloc := u.Quota.String()
		if u.SmallUnit {
			alloc = "pooled"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%t\t%s\n", u.Code, roster.Member{UnitName: u.Name}.DisplayUnit(), u.Eligible, u.BelowTheZone, u.SmallUnit, alloc)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if pool := r.SmallUnitPool; len(pool.Units) > 0 {
		fmt.Fprintf(w, "\nSmall unit pool: %d units, %d eligible, %s\n", len(pool.Units), pool.Eligible, pool.Quota)
	}
	fmt.Fprintf(w, "\nNot applicable to this cycle: %d\n", len(r.NotApplicable))
	return nil
}

func section(w io.Writer, title string, n int) {
	fmt.Fprintf(w, "\n%s (%d)\n", title, n)
}
