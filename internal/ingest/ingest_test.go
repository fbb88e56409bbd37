package ingest_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memeforge/internal/ingest"
	"memeforge/internal/store"
	"memeforge/internal/store/primary"
)

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newIngestFixture(t *testing.T) (*ingest.Ingestor, *primary.StoreImpl) {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "ingest_test.db")
	cs, err := primary.NewContentStore(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { cs.Close() })
	return ingest.New(cs), cs
}

func TestStripMarkup(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain text stays plain", "plain text stays plain"},
		{"<span class=\"quote\">&gt;greentext line</span><br>next line", ">greentext line next line"},
		{"before<br><br>after", "before after"},
		{"entities &amp; escapes &quot;here&quot;", "entities & escapes \"here\""},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ingest.StripMarkup(tc.in), "input %q", tc.in)
	}
}

func TestRunIngestsRows(t *testing.T) {
	ing, cs := newIngestFixture(t)
	path := writeDataset(t, `content,category,board,scraped_at
"The first quote with plenty of substance to it.",quotes,x,2026-08-01T10:00:00Z
"A meme line that also carries enough text to keep.",memes,b,
"<b>markup gets stripped</b> but the text survives intact.",quotes,pol,
`)

	stats, err := ing.Run(context.Background(), ingest.Params{Path: path, Source: "transcendent"})
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Rows)
	assert.Equal(t, 3, stats.Inserted)
	assert.Equal(t, 0, stats.Skipped)

	items, err := cs.Fetch(context.Background(), store.FetchParams{Source: "transcendent", Category: "quotes"})
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.NotEmpty(t, item.Fingerprint)
		assert.NotContains(t, item.Body, "<b>")
	}
}

func TestRunIsIdempotent(t *testing.T) {
	ing, _ := newIngestFixture(t)
	path := writeDataset(t, `content,category
"One stable row that should only ever be stored a single time.",quotes
`)

	first, err := ing.Run(context.Background(), ingest.Params{Path: path, Source: "src"})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Inserted)

	second, err := ing.Run(context.Background(), ingest.Params{Path: path, Source: "src"})
	require.NoError(t, err)
	assert.Equal(t, 0, second.Inserted, "re-ingesting the same file inserts nothing")
}

func TestRunSkipsShortAndUncategorizedRows(t *testing.T) {
	ing, _ := newIngestFixture(t)
	path := writeDataset(t, `content,category
"ok",quotes
"long enough to keep but there is no category for it",
`)

	stats, err := ing.Run(context.Background(), ingest.Params{Path: path, Source: "src"})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Rows)
	assert.Equal(t, 0, stats.Inserted)
	assert.Equal(t, 2, stats.Skipped)
}

func TestRunDefaultCategory(t *testing.T) {
	ing, cs := newIngestFixture(t)
	path := writeDataset(t, `content
"A row from a dataset without any category column at all."
`)

	stats, err := ing.Run(context.Background(), ingest.Params{Path: path, Source: "src", DefaultCategory: "quotes"})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Inserted)

	n, err := cs.CountByCategory(context.Background(), "quotes")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRunRejectsMissingContentColumn(t *testing.T) {
	ing, _ := newIngestFixture(t)
	path := writeDataset(t, "id,label\n1,x\n")

	_, err := ing.Run(context.Background(), ingest.Params{Path: path, Source: "src"})
	assert.Error(t, err)
}

func TestRunRequiresSource(t *testing.T) {
	ing, _ := newIngestFixture(t)
	_, err := ing.Run(context.Background(), ingest.Params{Path: "whatever.csv"})
	assert.Error(t, err)
}
