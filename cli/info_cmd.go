package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ywgi/AirForceMELGenerator/api"
)

func newDatesCmd(app *App) *cobra.Command {
	var flags cycleFlags

	cmd := &cobra.Command{
		Use:   "dates",
		Short: "Show the closeout, accounting and selection dates for a cycle",
		RunE: func(cmd *cobra.Command, args []string) error {
			cycle, err := flags.cycle()
			if err != nil {
				return err
			}
			_, rs, err := app.ruleset()
			if err != nil {
				return err
			}
			dates, err := api.NewCycleDatesDTO(rs, cycle)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "Board:\t%s (%s)\n", dates.BoardID, dates.Ruleset)
			fmt.Fprintf(tw, "Closeout:\t%s\n", dates.Closeout)
			fmt.Fprintf(tw, "Accounting date:\t%s\n", dates.AccountingDate)
			fmt.Fprintf(tw, "Selection:\t%s\n", dates.Selection)
			if dates.JuniorCutoff != "" {
				fmt.Fprintf(tw, "Junior cutoff:\t%s\n", dates.JuniorCutoff)
			}
			return tw.Flush()
		},
	}

	flags.register(cmd)
	return cmd
}

func newRulesetsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rulesets",
		Short: "List available rulesets",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, _, err := app.ruleset()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "VERSION\tNAME\tHYT EXCEPTION\tDEFAULT")
			for _, v := range registry.Versions() {
				rs, err := registry.Lookup(v)
				if err != nil {
					return err
				}
				hyt := "-"
				if !rs.HYTException.IsZero() {
					hyt = rs.HYTException.String()
				}
				def := ""
				if v == app.Config.Ruleset {
					def = "*"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", rs.Version, rs.Name, hyt, def)
			}
			return tw.Flush()
		},
	}
}
