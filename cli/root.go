// Package cli implements the melctl command line: classify a roster file,
// print cycle dates and list rulesets.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ywgi/AirForceMELGenerator/config"
	"github.com/ywgi/AirForceMELGenerator/eligibility"
	"github.com/ywgi/AirForceMELGenerator/policy"
)

// App holds the settings shared by every command.
type App struct {
	Config config.Config
}

// NewRootCmd builds the melctl command tree.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "melctl",
		Short:         "Build promotion eligibility lists from alpha rosters",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&app.Config.Ruleset, "ruleset", app.Config.Ruleset, "ruleset version")
	root.PersistentFlags().StringVar(&app.Config.RulesFile, "rules", app.Config.RulesFile, "JSON ruleset file to register")
	root.PersistentFlags().StringVar(&app.Config.LogLevel, "log-level", app.Config.LogLevel, "log level for exclusions (debug, info, warn, error)")

	root.AddCommand(
		newClassifyCmd(app),
		newDatesCmd(app),
		newRulesetsCmd(app),
	)

	return root
}

// ruleset resolves the selected ruleset, registering the rules file first.
func (a *App) ruleset() (*policy.Registry, *policy.Ruleset, error) {
	registry, err := a.Config.Registry()
	if err != nil {
		return nil, nil, err
	}
	rs, err := registry.Lookup(a.Config.Ruleset)
	if err != nil {
		return nil, nil, err
	}
	return registry, rs, nil
}

// cycleFlags are the --cycle and --year flags shared by cycle commands.
type cycleFlags struct {
	grade string
	year  int
}

func (f *cycleFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.grade, "cycle", "", "cycle grade (SRA, SSG, TSG, MSG, SMS)")
	cmd.Flags().IntVar(&f.year, "year", 0, "cycle year")
	_ = cmd.MarkFlagRequired("cycle")
	_ = cmd.MarkFlagRequired("year")
}

func (f *cycleFlags) cycle() (eligibility.Cycle, error) {
	if f.year < 1900 || f.year > 9999 {
		return eligibility.Cycle{}, fmt.Errorf("invalid --year %d", f.year)
	}
	return eligibility.Cycle{Grade: policy.ParseGrade(f.grade), Year: f.year}, nil
}

// Execute runs melctl with configuration from the environment.
func Execute() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	root := NewRootCmd(&App{Config: cfg})
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	return root.Execute()
}
