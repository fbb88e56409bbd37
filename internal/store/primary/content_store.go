// Package primary implements the content store on an embedded SQLite
// database. Datasets are ingested locally; the selection core only ever
// reads from here, so the working set stays in the page cache and Fetch is
// effectively in-memory.
package primary

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"memeforge/internal/models"
	"memeforge/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS content_items (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	source      TEXT NOT NULL,
	category    TEXT NOT NULL,
	body        TEXT NOT NULL,
	fingerprint TEXT NOT NULL UNIQUE,
	origin      TEXT NOT NULL DEFAULT '',
	scraped_at  TIMESTAMP NOT NULL,
	created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_content_items_category ON content_items(category);
CREATE INDEX IF NOT EXISTS idx_content_items_source_category ON content_items(source, category);
`

// StoreImpl implements store.ContentStore using SQLite.
type StoreImpl struct {
	db *sql.DB
}

var _ store.ContentStore = (*StoreImpl)(nil)

// NewContentStore opens (and migrates) the database at dsn.
func NewContentStore(ctx context.Context, dsn string) (*StoreImpl, error) {
	if dsn == "" {
		return nil, errors.New("database DSN cannot be empty")
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &StoreImpl{db: db}, nil
}

func (s *StoreImpl) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *StoreImpl) Close() error {
	return s.db.Close()
}

// Fetch returns candidates for a category in stored (insertion) order.
// Unknown categories produce an empty slice, not an error.
func (s *StoreImpl) Fetch(ctx context.Context, params store.FetchParams) ([]models.ContentItem, error) {
	var (
		query strings.Builder
		args  []any
	)
	query.WriteString(`SELECT id, source, category, body, fingerprint, origin, scraped_at, created_at
FROM content_items WHERE category = ?`)
	args = append(args, params.Category)

	if params.Source != "" {
		query.WriteString(" AND source = ?")
		args = append(args, params.Source)
	}
	if len(params.Exclude) > 0 {
		query.WriteString(" AND fingerprint NOT IN (?" + strings.Repeat(",?", len(params.Exclude)-1) + ")")
		for _, fp := range params.Exclude {
			args = append(args, fp)
		}
	}
	query.WriteString(" ORDER BY id")
	if params.Limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, params.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("fetch content: %w", err)
	}
	defer rows.Close()

	var items []models.ContentItem
	for rows.Next() {
		var item models.ContentItem
		if err := scanContentItem(rows, &item); err != nil {
			return nil, fmt.Errorf("scan content item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate content rows: %w", err)
	}
	return items, nil
}

// InsertItems bulk-inserts ingested items, silently skipping fingerprints
// that already exist. Returns the number of rows actually inserted.
func (s *StoreImpl) InsertItems(ctx context.Context, items []models.ContentItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin insert transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO content_items
(source, category, body, fingerprint, origin, scraped_at) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, item := range items {
		scrapedAt := item.ScrapedAt
		if scrapedAt.IsZero() {
			scrapedAt = time.Now().UTC()
		}
		res, err := stmt.ExecContext(ctx, item.Source, item.Category, item.Body, item.Fingerprint, item.Origin, scrapedAt)
		if err != nil {
			return inserted, fmt.Errorf("insert content item (source=%s): %w", item.Source, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit insert transaction: %w", err)
	}
	return inserted, nil
}

// Categories lists the distinct categories present in the store.
func (s *StoreImpl) Categories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT category FROM content_items ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *StoreImpl) CountByCategory(ctx context.Context, category string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM content_items WHERE category = ?`, category).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count category %q: %w", category, err)
	}
	return n, nil
}

func scanContentItem(rows *sql.Rows, dest *models.ContentItem) error {
	return rows.Scan(
		&dest.ID,
		&dest.Source,
		&dest.Category,
		&dest.Body,
		&dest.Fingerprint,
		&dest.Origin,
		&dest.ScrapedAt,
		&dest.CreatedAt,
	)
}
