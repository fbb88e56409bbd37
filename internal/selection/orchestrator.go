// Package selection implements the orchestrator that turns a generation
// request into a single ranked, non-repeating content item.
package selection

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"memeforge/internal/fingerprint"
	"memeforge/internal/models"
	"memeforge/internal/registry"
	"memeforge/internal/scoring"
	"memeforge/internal/store"
	"memeforge/internal/tracker"
)

// fetchLimit is the page size for one store read. A generator attempt keeps
// fetching pages, excluding fingerprints it has already rejected, until the
// store runs dry, so exhaustion is only ever reported against the whole pool.
const fetchLimit = 512

// Deps carries the orchestrator's collaborators. Everything is injected so
// the core is instantiable per test (or per deployment shard) without any
// process-wide state.
type Deps struct {
	Registry *registry.Registry
	Store    store.ContentStore
	Scorer   *scoring.Scorer
	Tracker  *tracker.Tracker
	Counter  *ServedCounter // optional

	// DefaultMinScore applies when a request does not raise the threshold.
	DefaultMinScore float64
}

// Orchestrator coordinates generator choice, candidate fetching, duplicate
// filtering and scoring. It performs no blocking I/O beyond store reads and
// holds no mutable state of its own; the tracker is the only shared
// resource it writes to.
type Orchestrator struct {
	deps Deps
}

func NewOrchestrator(deps Deps) (*Orchestrator, error) {
	if deps.Registry == nil || deps.Store == nil || deps.Scorer == nil || deps.Tracker == nil {
		return nil, fmt.Errorf("orchestrator requires registry, store, scorer and tracker")
	}
	if deps.DefaultMinScore == 0 {
		deps.DefaultMinScore = scoring.MinScore
	}
	return &Orchestrator{deps: deps}, nil
}

// Select serves one request. It tries the picked generator first, then
// falls back through the remaining eligible generators in descending
// weight order, each at most once, so the loop is bounded by the registry
// size. Exhaustion returns models.ErrExhausted; it is a normal outcome of
// finite datasets, not a server fault.
func (o *Orchestrator) Select(ctx context.Context, req models.SelectionRequest) (*models.Selection, error) {
	if req.Category == "" {
		return nil, fmt.Errorf("category is required: %w", models.ErrValidation)
	}
	// Requests may only raise the acceptance bar, never lower it below the
	// validated default.
	minScore := o.deps.DefaultMinScore
	if req.MinScore > minScore {
		minScore = req.MinScore
	}

	first, err := o.deps.Registry.Pick(req.Category, req.Hint)
	if err != nil {
		return nil, err
	}

	tried := map[string]bool{}
	order := []models.GeneratorSpec{first}
	for _, g := range o.deps.Registry.Eligible(req.Category) {
		if g.Name != first.Name {
			order = append(order, g)
		}
	}

	for _, gen := range order {
		if tried[gen.Name] {
			continue
		}
		tried[gen.Name] = true

		sel, err := o.tryGenerator(ctx, gen, req.Category, minScore)
		if err != nil {
			return nil, err
		}
		if sel != nil {
			if o.deps.Counter != nil {
				o.deps.Counter.Increment(req.Category)
			}
			return sel, nil
		}
		log.WithFields(log.Fields{
			"generator": gen.Name,
			"category":  req.Category,
		}).Info("generator exhausted, falling back")
	}

	log.WithField("category", req.Category).Info("all eligible generators exhausted")
	return nil, fmt.Errorf("category %q: %w", req.Category, models.ErrExhausted)
}

// tryGenerator walks one generator's candidates in stored order, a page at
// a time, and returns the first non-duplicate item whose raw score clears
// the threshold, or nil when the generator's whole pool is spent. Rejected
// fingerprints are excluded from subsequent pages so a pool deeper than one
// page is still fully searched.
func (o *Orchestrator) tryGenerator(ctx context.Context, gen models.GeneratorSpec, category string, minScore float64) (*models.Selection, error) {
	var exclude []string
	for {
		items, err := o.deps.Store.Fetch(ctx, store.FetchParams{
			Source:   gen.Source,
			Category: category,
			Exclude:  exclude,
			Limit:    fetchLimit,
		})
		if err != nil {
			return nil, fmt.Errorf("fetch candidates for generator %q: %w", gen.Name, err)
		}
		if len(items) == 0 {
			return nil, nil
		}

		excludable := 0
		for _, item := range items {
			fp := item.Fingerprint
			if fp == "" {
				// Ingestion normally precomputes fingerprints; tolerate rows
				// that predate that. These rows cannot be excluded from the
				// next page, so they do not count toward pagination progress.
				fp = fingerprint.Compute(item.Body)
			} else {
				exclude = append(exclude, fp)
				excludable++
			}

			if o.deps.Tracker.IsDuplicate(fp) {
				continue
			}

			score := o.deps.Scorer.Score(item)
			if score.Raw < minScore {
				continue
			}

			// Atomic claim: a concurrent request may have served the same
			// fingerprint between the duplicate check and here.
			if !o.deps.Tracker.CheckAndRecord(fp) {
				continue
			}

			return &models.Selection{
				RequestID:  uuid.NewString(),
				Generator:  gen.Name,
				Item:       item,
				Score:      score,
				SelectedAt: time.Now().UTC(),
			}, nil
		}

		// A short page means the filtered pool is spent. A page with no
		// excludable rows would repeat forever; stop rather than spin.
		if len(items) < fetchLimit || excludable == 0 {
			return nil, nil
		}
	}
}
