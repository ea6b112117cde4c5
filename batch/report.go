package batch

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ywgi/AirForceMELGenerator/calendar"
	"github.com/ywgi/AirForceMELGenerator/eligibility"
	"github.com/ywgi/AirForceMELGenerator/quota"
	"github.com/ywgi/AirForceMELGenerator/roster"
)

// =============================================================================
// REPORT
// =============================================================================

// Report is the outcome of one classification run. Members keep roster
// order within each bucket.
type Report struct {
	RunID       uuid.UUID
	GeneratedAt time.Time

	Ruleset        string
	Cycle          eligibility.Cycle
	BoardID        string
	Closeout       calendar.TimePoint
	AccountingDate calendar.TimePoint

	Eligible      []Entry
	BelowTheZone  []Entry
	Ineligible    []Entry
	NotApplicable []Entry

	// Excluded members had data that could not be evaluated.
	Excluded []Exclusion

	// LateArrivals arrived on station after the accounting date. They are
	// neither classified nor counted by their unit.
	LateArrivals []roster.Member

	Units []UnitSummary

	// SmallUnitPool combines the units at or under the small-unit threshold.
	SmallUnitPool Pool
}

// Entry is one classified member.
type Entry struct {
	Member roster.Member
	Result eligibility.Result
}

// Exclusion is one member whose record could not be evaluated.
type Exclusion struct {
	Member roster.Member
	Err    error
}

// UnitSummary counts one unit's members for the cycle.
type UnitSummary struct {
	Code string
	Name string

	// Eligible counts Eligible members only; below-the-zone candidates are
	// reported separately and never count toward the unit total.
	Eligible     int
	BelowTheZone int
	Considered   int

	SmallUnit bool
	Quota     quota.Allocation
}

// Pool is the combined count of small units.
type Pool struct {
	Units    []string
	Eligible int
	Quota    quota.Allocation
}

// Counts is a bucket-size summary.
type Counts struct {
	Eligible      int `json:"eligible"`
	BelowTheZone  int `json:"below_the_zone"`
	Ineligible    int `json:"ineligible"`
	NotApplicable int `json:"not_applicable"`
	Excluded      int `json:"excluded"`
	LateArrivals  int `json:"late_arrivals"`
}

// Counts returns the size of every bucket.
func (r *Report) Counts() Counts {
	return Counts{
		Eligible:      len(r.Eligible),
		BelowTheZone:  len(r.BelowTheZone),
		Ineligible:    len(r.Ineligible),
		NotApplicable: len(r.NotApplicable),
		Excluded:      len(r.Excluded),
		LateArrivals:  len(r.LateArrivals),
	}
}

// SmallUnits lists the units at or under the small-unit threshold.
func (r *Report) SmallUnits() []UnitSummary {
	var small []UnitSummary
	for _, u := range r.Units {
		if u.SmallUnit {
			small = append(small, u)
		}
	}
	return small
}

// Unit returns the summary for a unit code.
func (r *Report) Unit(code string) (UnitSummary, bool) {
	i := sort.Search(len(r.Units), func(i int) bool { return r.Units[i].Code >= code })
	if i < len(r.Units) && r.Units[i].Code == code {
		return r.Units[i], true
	}
	return UnitSummary{}, false
}

// EligibleByUnit groups Eligible entries by unit code in roster order.
func (r *Report) EligibleByUnit() map[string][]Entry {
	byUnit := make(map[string][]Entry)
	for _, e := range r.Eligible {
		byUnit[e.Member.UnitCode] = append(byUnit[e.Member.UnitCode], e)
	}
	return byUnit
}

// =============================================================================
// UNIT REGISTRY
// =============================================================================

// unitTally accumulates unit counts during a run.
type unitTally struct {
	units map[string]*UnitSummary
}

func newUnitTally() *unitTally {
	return &unitTally{units: make(map[string]*UnitSummary)}
}

// register records the unit the first time it is seen; the first non-empty
// name wins.
func (t *unitTally) register(m roster.Member) *UnitSummary {
	u, ok := t.units[m.UnitCode]
	if !ok {
		u = &UnitSummary{Code: m.UnitCode}
		t.units[m.UnitCode] = u
	}
	if u.Name == "" {
		u.Name = m.UnitName
	}
	u.Considered++
	return u
}

func (t *unitTally) sorted() []UnitSummary {
	units := make([]UnitSummary, 0, len(t.units))
	for _, u := range t.units {
		units = append(units, *u)
	}
	sort.Slice(units, func(i, j int) bool { return units[i].Code < units[j].Code })
	return units
}
