package policy

import (
	"fmt"
	"sort"
	"sync"
)

// =============================================================================
// REGISTRY - Rulesets by version
// =============================================================================

// Registry holds validated rulesets keyed by version. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	rulesets map[string]*Ruleset
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{rulesets: make(map[string]*Ruleset)}
}

// Register validates rs and stores it under its version.
func (r *Registry) Register(rs *Ruleset) error {
	if rs == nil {
		return fmt.Errorf("register: nil ruleset: %w", ErrInvalidRuleset)
	}
	if err := rs.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.rulesets[rs.Version]; exists {
		return fmt.Errorf("register %s: %w", rs.Version, ErrDuplicateRuleset)
	}
	r.rulesets[rs.Version] = rs
	return nil
}

// MustRegister is Register for presets; it panics on error.
func (r *Registry) MustRegister(rs *Ruleset) {
	if err := r.Register(rs); err != nil {
		panic(err)
	}
}

// Lookup returns the ruleset for version.
func (r *Registry) Lookup(version string) (*Ruleset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rs, ok := r.rulesets[version]
	if !ok {
		return nil, fmt.Errorf("lookup %q: %w", version, ErrRulesetNotFound)
	}
	return rs, nil
}

// Versions lists registered versions in sorted order.
func (r *Registry) Versions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	versions := make([]string, 0, len(r.rulesets))
	for v := range r.rulesets {
		versions = append(versions, v)
	}
	sort.Strings(versions)
	return versions
}
