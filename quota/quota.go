/*
Package quota computes promotion-statement allocations for a unit.

PURPOSE:
  A unit's count of eligible members sets how many Must Promote and Promote
  Now statements its commander may award. The batch classifier asks a
  Calculator for each unit and for the pooled small units; it never
  computes allocations itself.

RATES:
  RateTable holds one decimal rate pair per cycle grade. The allocation is
  floor(eligible * rate), computed in decimal so 0.15 * 20 is exactly 3.
  A cycle with no rates reports a non-applicable allocation (shown as NA).

USAGE:
  calc := quota.DefaultRates()
  alloc, err := calc.Allocate(policy.GradeSSG, 24)  // MP 3, PN 1
*/
package quota

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ywgi/AirForceMELGenerator/policy"
)

// ErrInvalidRate is returned for a rate outside [0, 1].
var ErrInvalidRate = errors.New("invalid quota rate")

// Calculator allocates promotion statements for a count of eligible members.
type Calculator interface {
	Allocate(cycle policy.Grade, eligible int) (Allocation, error)
}

// Allocation is the statement count for one unit or pool.
type Allocation struct {
	Applicable  bool `json:"applicable"`
	MustPromote int  `json:"must_promote"`
	PromoteNow  int  `json:"promote_now"`
}

func (a Allocation) String() string {
	if !a.Applicable {
		return "MP NA / PN NA"
	}
	return fmt.Sprintf("MP %d / PN %d", a.MustPromote, a.PromoteNow)
}

// =============================================================================
// RATE TABLE
// =============================================================================

// Rates is the fraction of eligible members receiving each statement.
type Rates struct {
	MustPromote decimal.Decimal
	PromoteNow  decimal.Decimal
}

// RateTable is a Calculator driven by per-cycle rates.
type RateTable struct {
	rates map[policy.Grade]Rates
}

// NewRateTable creates an empty table.
func NewRateTable() *RateTable {
	return &RateTable{rates: make(map[policy.Grade]Rates)}
}

// DefaultRates returns the table used when no other is configured. Senior
// NCO boards award no unit statements and report NA.
func DefaultRates() *RateTable {
	t := NewRateTable()
	t.mustSet(policy.GradeSRA, "0.15", "0.05")
	t.mustSet(policy.GradeSSG, "0.15", "0.05")
	t.mustSet(policy.GradeTSG, "0.10", "0.05")
	return t
}

// Set parses and stores the rates for cycle.
func (t *RateTable) Set(cycle policy.Grade, mustPromote, promoteNow string) error {
	mp, err := parseRate(mustPromote)
	if err != nil {
		return fmt.Errorf("%s must promote: %w", cycle, err)
	}
	pn, err := parseRate(promoteNow)
	if err != nil {
		return fmt.Errorf("%s promote now: %w", cycle, err)
	}
	t.rates[cycle] = Rates{MustPromote: mp, PromoteNow: pn}
	return nil
}

func (t *RateTable) mustSet(cycle policy.Grade, mustPromote, promoteNow string) {
	if err := t.Set(cycle, mustPromote, promoteNow); err != nil {
		panic(err)
	}
}

// Rates returns the configured rates for cycle.
func (t *RateTable) Rates(cycle policy.Grade) (Rates, bool) {
	r, ok := t.rates[cycle]
	return r, ok
}

// Allocate implements Calculator.
func (t *RateTable) Allocate(cycle policy.Grade, eligible int) (Allocation, error) {
	if eligible < 0 {
		return Allocation{}, fmt.Errorf("allocate %s: negative eligible count %d", cycle, eligible)
	}
	r, ok := t.rates[cycle]
	if !ok {
		return Allocation{}, nil
	}
	n := decimal.NewFromInt(int64(eligible))
	return Allocation{
		Applicable:  true,
		MustPromote: int(n.Mul(r.MustPromote).Floor().IntPart()),
		PromoteNow:  int(n.Mul(r.PromoteNow).Floor().IntPart()),
	}, nil
}

func parseRate(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidRate, s)
	}
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.Zero, fmt.Errorf("%w: %s is outside [0, 1]", ErrInvalidRate, d)
	}
	return d, nil
}
