/*
Package batch classifies a whole roster for one promotion cycle.

PURPOSE:
  The Classifier runs the eligibility engine over every member and sorts
  the results into a Report: per-result buckets, members excluded for bad
  data, late arrivals, and per-unit eligible counts with quota figures.

PIPELINE (per member, in roster order):
  1. Out of scope, or already
     projected for the cycle       -> NotApplicable, no unit registered
  2. Arrival date missing or bad   -> Excluded
  3. Arrived after accounting date -> LateArrivals, not counted
  4. Register the member's unit
  5. Evaluate                      -> Eligible | BelowTheZone | Ineligible |
                                      NotApplicable, or Excluded on error

  Only an invalid cycle aborts the run. Per-member data errors are logged
  at warn level and collected in Report.Excluded.

UNIT COUNTS:
  A unit's eligible count is the number of Eligible members only. Units
  with an eligible count at or under the ruleset's small-unit threshold
  are flagged and pooled; the pool gets one combined allocation.

USAGE:
  c := batch.NewClassifier(rs, batch.WithQuota(quota.DefaultRates()), batch.WithLogger(logger))
  report, err := c.Classify(ctx, members, eligibility.Cycle{Grade: policy.GradeSSG, Year: 2025})

SEE ALSO:
  - eligibility/engine.go: Per-member decision chain
  - quota/quota.go: Allocation rates
*/
package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ywgi/AirForceMELGenerator/eligibility"
	"github.com/ywgi/AirForceMELGenerator/policy"
	"github.com/ywgi/AirForceMELGenerator/quota"
	"github.com/ywgi/AirForceMELGenerator/roster"
)

// =============================================================================
// CLASSIFIER
// =============================================================================

// Classifier runs one ruleset over rosters. Safe for concurrent use.
type Classifier struct {
	rules  *policy.Ruleset
	engine *eligibility.Engine
	quota  quota.Calculator
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithQuota sets the allocation calculator. Without one, reports carry no
// quota figures.
func WithQuota(calc quota.Calculator) Option {
	return func(c *Classifier) { c.quota = calc }
}

// WithLogger sets the logger exclusions are reported to.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Classifier) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock sets the clock used for Report.GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(c *Classifier) { c.now = now }
}

// NewClassifier creates a classifier for rs.
func NewClassifier(rs *policy.Ruleset, opts ...Option) *Classifier {
	c := &Classifier{
		rules:  rs,
		engine: eligibility.NewEngine(rs),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Engine returns the engine the classifier evaluates with.
func (c *Classifier) Engine() *eligibility.Engine { return c.engine }

// Classify evaluates members for cycle.
func (c *Classifier) Classify(ctx context.Context, members []roster.Member, cycle eligibility.Cycle) (*Report, error) {
	report, err := c.newReport(cycle)
	if err != nil {
		return nil, err
	}
	log := c.logger.With("run_id", report.RunID.String(), "cycle", cycle.String(), "ruleset", c.rules.Version)

	units := newUnitTally()
	for _, m := range members {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		screened, err := c.engine.Screen(m, cycle)
		if err != nil {
			c.exclude(log, report, m, err)
			continue
		}
		if screened != nil {
			report.NotApplicable = append(report.NotApplicable, Entry{Member: m, Result: *screened})
			continue
		}

		arrived, err := eligibility.ParseRequiredDate(eligibility.FieldDateArrivedStation, m.DateArrivedStation)
		if err != nil {
			c.exclude(log, report, m, err)
			continue
		}
		if arrived.After(report.AccountingDate) {
			log.Info("late arrival", "member", m.FullName, "unit", m.UnitCode, "arrived", arrived.String())
			report.LateArrivals = append(report.LateArrivals, m)
			continue
		}

		unit := units.register(m)
		c.evaluate(log, report, unit, m, cycle)
	}

	report.Units = units.sorted()
	if err := c.summarizeUnits(report); err != nil {
		return nil, err
	}

	counts := report.Counts()
	log.Info("classification complete",
		"eligible", counts.Eligible,
		"below_the_zone", counts.BelowTheZone,
		"ineligible", counts.Ineligible,
		"not_applicable", counts.NotApplicable,
		"excluded", counts.Excluded,
		"late_arrivals", counts.LateArrivals,
		"units", len(report.Units),
	)
	return report, nil
}

func (c *Classifier) newReport(cycle eligibility.Cycle) (*Report, error) {
	if _, err := c.rules.Cycle(cycle.Grade); err != nil {
		return nil, fmt.Errorf("classify %s: %w: %w", cycle, ErrInvalidCycle, err)
	}
	closeout, err := c.rules.ClosureDate(cycle.Grade, cycle.Year)
	if err != nil {
		return nil, fmt.Errorf("classify %s: %w: %w", cycle, ErrInvalidCycle, err)
	}
	accounting, err := c.rules.AccountingDate(cycle.Grade, cycle.Year)
	if err != nil {
		return nil, fmt.Errorf("classify %s: %w: %w", cycle, ErrInvalidCycle, err)
	}
	board, err := c.rules.BoardID(cycle.Grade, cycle.Year)
	if err != nil {
		return nil, fmt.Errorf("classify %s: %w: %w", cycle, ErrInvalidCycle, err)
	}
	return &Report{
		RunID:          uuid.New(),
		GeneratedAt:    c.now().UTC(),
		Ruleset:        c.rules.Version,
		Cycle:          cycle,
		BoardID:        board,
		Closeout:       closeout,
		AccountingDate: accounting,
	}, nil
}

// evaluate runs the engine and files the result under unit.
func (c *Classifier) evaluate(log *slog.Logger, report *Report, unit *UnitSummary, m roster.Member, cycle eligibility.Cycle) {
	result, err := c.engine.Evaluate(m, cycle)
	if err != nil {
		c.exclude(log, report, m, err)
		return
	}

	entry := Entry{Member: m, Result: result}
	switch result.Kind {
	case eligibility.KindEligible:
		report.Eligible = append(report.Eligible, entry)
		unit.Eligible++
	case eligibility.KindBelowTheZone:
		report.BelowTheZone = append(report.BelowTheZone, entry)
		unit.BelowTheZone++
	case eligibility.KindIneligible:
		report.Ineligible = append(report.Ineligible, entry)
	case eligibility.KindNotApplicable:
		report.NotApplicable = append(report.NotApplicable, entry)
	}
}

func (c *Classifier) exclude(log *slog.Logger, report *Report, m roster.Member, err error) {
	log.Warn("member excluded", "member", m.FullName, "unit", m.UnitCode, "error", err.Error())
	report.Excluded = append(report.Excluded, Exclusion{Member: m, Err: err})
}

func (c *Classifier) summarizeUnits(report *Report) error {
	grade := report.Cycle.Grade
	for i := range report.Units {
		u := &report.Units[i]
		u.SmallUnit = u.Eligible <= c.rules.SmallUnitThreshold
		if u.SmallUnit {
			report.SmallUnitPool.Units = append(report.SmallUnitPool.Units, u.Code)
			report.SmallUnitPool.Eligible += u.Eligible
			continue
		}
		if c.quota == nil {
			continue
		}
		alloc, err := c.quota.Allocate(grade, u.Eligible)
		if err != nil {
			return fmt.Errorf("quota for unit %s: %w", u.Code, err)
		}
		u.Quota = alloc
	}

	if c.quota == nil || len(report.SmallUnitPool.Units) == 0 {
		return nil
	}
	alloc, err := c.quota.Allocate(grade, report.SmallUnitPool.Eligible)
	if err != nil {
		return fmt.Errorf("quota for small unit pool: %w", err)
	}
	report.SmallUnitPool.Quota = alloc
	return nil
}
