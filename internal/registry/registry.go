// Package registry holds the table of generator variants and picks one per
// request. The table is immutable once published; hot reloads swap the
// whole table atomically so in-flight readers never observe a partial
// update.
package registry

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"

	"memeforge/internal/models"
)

// Registry is safe for concurrent use. Reads go through an atomic pointer;
// only the random source needs a lock (math/rand.Rand is not goroutine
// safe).
type Registry struct {
	table atomic.Pointer[[]models.GeneratorSpec]

	mu  sync.Mutex
	rng *rand.Rand
}

// New validates the specs and publishes the initial table. The random
// source is injected so weighted selection is reproducible under a fixed
// seed; pass rand.New(rand.NewSource(time.Now().UnixNano())) in production.
func New(specs []models.GeneratorSpec, rng *rand.Rand) (*Registry, error) {
	if rng == nil {
		return nil, fmt.Errorf("registry requires a random source")
	}
	if err := validate(specs); err != nil {
		return nil, err
	}
	r := &Registry{rng: rng}
	r.publish(specs)
	return r, nil
}

// Reload replaces the whole generator table. Malformed specs leave the
// current table untouched.
func (r *Registry) Reload(specs []models.GeneratorSpec) error {
	if err := validate(specs); err != nil {
		return err
	}
	r.publish(specs)
	return nil
}

// All returns a copy of the current table.
func (r *Registry) All() []models.GeneratorSpec {
	table := *r.table.Load()
	out := make([]models.GeneratorSpec, len(table))
	copy(out, table)
	return out
}

// Eligible returns the enabled generators that may serve the category,
// highest weight first. The order is the orchestrator's fallback order.
func (r *Registry) Eligible(category string) []models.GeneratorSpec {
	var out []models.GeneratorSpec
	for _, g := range *r.table.Load() {
		if g.Enabled && g.EligibleFor(category) {
			out = append(out, g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Weight > out[j].Weight })
	return out
}

// Pick chooses a generator for the category. A hint naming an enabled,
// eligible generator wins outright regardless of weight; otherwise the
// draw is weighted over all eligible generators. Returns
// models.ErrNoEligibleGenerator when the category has none.
func (r *Registry) Pick(category, hint string) (models.GeneratorSpec, error) {
	table := *r.table.Load()

	if hint != "" {
		for _, g := range table {
			if g.Name == hint && g.Enabled && g.EligibleFor(category) {
				return g, nil
			}
		}
		// Unknown, disabled, or ineligible hints fall through to the
		// weighted draw rather than failing the request.
	}

	var eligible []models.GeneratorSpec
	total := 0.0
	for _, g := range table {
		if g.Enabled && g.EligibleFor(category) {
			eligible = append(eligible, g)
			total += g.Weight
		}
	}
	if len(eligible) == 0 {
		return models.GeneratorSpec{}, fmt.Errorf("category %q: %w", category, models.ErrNoEligibleGenerator)
	}

	r.mu.Lock()
	draw := r.rng.Float64()
	r.mu.Unlock()

	// Cumulative distribution over normalized weights; the first generator
	// whose cumulative share exceeds the draw wins.
	cumulative := 0.0
	for _, g := range eligible {
		cumulative += g.Weight / total
		if draw < cumulative {
			return g, nil
		}
	}
	// Floating point residue on the last boundary.
	return eligible[len(eligible)-1], nil
}

func (r *Registry) publish(specs []models.GeneratorSpec) {
	table := make([]models.GeneratorSpec, len(specs))
	copy(table, specs)
	r.table.Store(&table)
}

func validate(specs []models.GeneratorSpec) error {
	if len(specs) == 0 {
		return fmt.Errorf("generator table cannot be empty")
	}
	seen := make(map[string]struct{}, len(specs))
	for _, g := range specs {
		if g.Name == "" {
			return fmt.Errorf("generator with empty name")
		}
		if _, dup := seen[g.Name]; dup {
			return fmt.Errorf("duplicate generator name %q", g.Name)
		}
		seen[g.Name] = struct{}{}
		if g.Weight <= 0 {
			return fmt.Errorf("generator %q: weight must be positive, got %v", g.Name, g.Weight)
		}
		if g.Enabled && len(g.Categories) == 0 {
			return fmt.Errorf("generator %q: enabled but has no eligible categories", g.Name)
		}
	}
	return nil
}
