package store

import (
	"context"

	"memeforge/internal/models"
)

// FetchParams narrows a candidate fetch. Source is the generator's dataset
// name; an empty Source matches every dataset. Exclude lists fingerprints
// the caller has already ruled out.
type FetchParams struct {
	Source   string
	Category string
	Exclude  []string
	Limit    int // 0 means no limit
}

// ContentStore is the read contract the selection core depends on, plus the
// write entry point ingestion uses. Fetch returns items in stored order so
// repeated calls with the same exclusion set are deterministic; an unknown
// category yields an empty slice, never an error.
type ContentStore interface {
	Fetch(ctx context.Context, params FetchParams) ([]models.ContentItem, error)
	InsertItems(ctx context.Context, items []models.ContentItem) (int, error)
	Categories(ctx context.Context) ([]string, error)
	CountByCategory(ctx context.Context, category string) (int, error)

	Ping(ctx context.Context) error
	Close() error
}

// JobClient enqueues background work. Kept as an interface so commands and
// handlers can run without a broker in tests.
type JobClient interface {
	EnqueueDatasetIngest(ctx context.Context, path, source, category string) (string, error)
	Close() error
}
