// Package ingest loads pre-scraped CSV datasets into the content store.
// Rows are cleaned, stripped of residual markup, fingerprinted and
// bulk-inserted; re-ingesting a file is idempotent because the store
// rejects known fingerprints.
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/net/html"

	"memeforge/internal/fingerprint"
	"memeforge/internal/models"
	"memeforge/internal/store"
	"memeforge/internal/util"
)

// minBodyRunes drops rows too short to ever be worth scoring.
const minBodyRunes = 5

// insertBatchSize bounds memory per insert transaction.
const insertBatchSize = 500

// Params describes one ingestion run. Source names the dataset (and ties
// rows to generator specs); DefaultCategory applies when the CSV has no
// category column.
type Params struct {
	Path            string
	Source          string
	DefaultCategory string
}

// Stats summarizes an ingestion run.
type Stats struct {
	Rows     int `json:"rows"`
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}

// Ingestor parses dataset files into the content store.
type Ingestor struct {
	contents store.ContentStore
}

func New(contents store.ContentStore) *Ingestor {
	return &Ingestor{contents: contents}
}

// Run ingests a single CSV file. The header row is required; recognized
// columns are content/text/body, category, board/origin and scraped_at
// (RFC 3339). Unknown columns are ignored.
func (in *Ingestor) Run(ctx context.Context, params Params) (Stats, error) {
	var stats Stats

	if params.Source == "" {
		return stats, fmt.Errorf("ingest: source name is required: %w", models.ErrValidation)
	}
	if binary, err := util.IsLikelyBinary(params.Path); err != nil {
		return stats, fmt.Errorf("ingest: inspect %s: %w", params.Path, err)
	} else if binary {
		return stats, fmt.Errorf("ingest: %s looks like a binary file: %w", params.Path, models.ErrValidation)
	}

	raw, err := os.ReadFile(params.Path)
	if err != nil {
		return stats, fmt.Errorf("ingest: read %s: %w", params.Path, err)
	}
	cleaned, err := util.CleanDatasetText(raw, params.Path)
	if err != nil {
		return stats, fmt.Errorf("ingest: clean %s: %w", params.Path, err)
	}

	reader := csv.NewReader(strings.NewReader(cleaned))
	reader.FieldsPerRecord = -1 // ragged rows happen in scraped exports

	header, err := reader.Read()
	if err != nil {
		return stats, fmt.Errorf("ingest: read header of %s: %w", params.Path, err)
	}
	cols := mapColumns(header)
	if cols.body < 0 {
		return stats, fmt.Errorf("ingest: %s has no content column: %w", params.Path, models.ErrValidation)
	}

	var batch []models.ContentItem
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("ingest: read row of %s: %w", params.Path, err)
		}
		stats.Rows++

		item, ok := rowToItem(record, cols, params)
		if !ok {
			stats.Skipped++
			continue
		}
		batch = append(batch, item)

		if len(batch) >= insertBatchSize {
			n, err := in.contents.InsertItems(ctx, batch)
			if err != nil {
				return stats, fmt.Errorf("ingest: insert batch: %w", err)
			}
			stats.Inserted += n
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		n, err := in.contents.InsertItems(ctx, batch)
		if err != nil {
			return stats, fmt.Errorf("ingest: insert batch: %w", err)
		}
		stats.Inserted += n
	}

	log.WithFields(log.Fields{
		"path":     params.Path,
		"source":   params.Source,
		"rows":     stats.Rows,
		"inserted": stats.Inserted,
		"skipped":  stats.Skipped,
	}).Info("dataset ingested")
	return stats, nil
}

type columnIndex struct {
	body      int
	category  int
	origin    int
	scrapedAt int
}

func mapColumns(header []string) columnIndex {
	cols := columnIndex{body: -1, category: -1, origin: -1, scrapedAt: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "content", "text", "body":
			cols.body = i
		case "category":
			cols.category = i
		case "board", "origin":
			cols.origin = i
		case "scraped_at":
			cols.scrapedAt = i
		}
	}
	return cols
}

func rowToItem(record []string, cols columnIndex, params Params) (models.ContentItem, bool) {
	field := func(idx int) string {
		if idx < 0 || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	body := strings.TrimSpace(StripMarkup(field(cols.body)))
	if len([]rune(body)) < minBodyRunes {
		return models.ContentItem{}, false
	}

	category := field(cols.category)
	if category == "" {
		category = params.DefaultCategory
	}
	if category == "" {
		return models.ContentItem{}, false
	}

	scrapedAt := time.Now().UTC()
	if raw := field(cols.scrapedAt); raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			scrapedAt = ts
		}
	}

	return models.ContentItem{
		Source:      params.Source,
		Category:    category,
		Body:        body,
		Fingerprint: fingerprint.Compute(body),
		Origin:      field(cols.origin),
		ScrapedAt:   scrapedAt,
	}, true
}

// StripMarkup removes HTML tags and resolves entities, keeping only text
// content. Scraped datasets regularly leak <br> runs, quote spans and
// escaped entities into the text payload.
func StripMarkup(text string) string {
	if !strings.ContainsAny(text, "<&") {
		return text
	}

	tokenizer := html.NewTokenizer(strings.NewReader(text))
	var b strings.Builder
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			chunk := strings.TrimSpace(tokenizer.Token().Data)
			if chunk == "" {
				continue
			}
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(chunk)
		}
	}
	return b.String()
}
