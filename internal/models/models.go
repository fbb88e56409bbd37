package models

import (
	"time"
)

// ContentItem is a single candidate unit of content loaded from a dataset.
// Items are immutable once loaded from the store.
type ContentItem struct {
	ID          int64     `db:"id" json:"id"`
	Source      string    `db:"source" json:"source"`
	Category    string    `db:"category" json:"category"`
	Body        string    `db:"body" json:"body"`
	Fingerprint string    `db:"fingerprint" json:"fingerprint"`
	Origin      string    `db:"origin" json:"origin,omitempty"`
	ScrapedAt   time.Time `db:"scraped_at" json:"scraped_at"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Adjustment records a single heuristic's contribution to a score, kept for
// explainability in API responses and debugging.
type Adjustment struct {
	Heuristic string  `json:"heuristic"`
	Delta     float64 `json:"delta"`
}

// ScoreResult is the outcome of scoring one content item. Value is clamped
// to [5.0, 10.0]; Raw is the unclamped sum of the base score and all
// adjustments. Threshold comparisons use Raw so that a strong penalty can
// reject an item even though Value never drops below the floor.
type ScoreResult struct {
	Value       float64      `json:"value"`
	Raw         float64      `json:"raw"`
	Adjustments []Adjustment `json:"adjustments"`
}

// GeneratorSpec describes one content-producing variant: which dataset
// source it draws from, which categories it may serve, and its relative
// selection weight. Specs are configuration; a loaded registry table is
// never mutated in place.
type GeneratorSpec struct {
	Name       string   `json:"name"`
	Source     string   `json:"source"`
	Weight     float64  `json:"weight"`
	Categories []string `json:"categories"`
	Enabled    bool     `json:"enabled"`
}

// EligibleFor reports whether the generator may serve the given category.
func (g GeneratorSpec) EligibleFor(category string) bool {
	for _, c := range g.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// SelectionRequest is one user-facing generation request.
type SelectionRequest struct {
	Category string  `json:"category"`
	Hint     string  `json:"generator,omitempty"`
	MinScore float64 `json:"min_score,omitempty"` // 0 means use the configured default
}

// Selection is a successful selection outcome.
type Selection struct {
	RequestID  string      `json:"request_id"`
	Generator  string      `json:"generator"`
	Item       ContentItem `json:"item"`
	Score      ScoreResult `json:"score"`
	SelectedAt time.Time   `json:"selected_at"`
}

// TrackerStats is a snapshot of the repetition tracker, for observability.
type TrackerStats struct {
	Size     int           `json:"size"`
	Capacity int           `json:"capacity"`
	Window   time.Duration `json:"window"`
}
