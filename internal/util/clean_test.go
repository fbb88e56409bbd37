package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanDatasetTextStripsBOM(t *testing.T) {
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("hello")...)
	got, err := CleanDatasetText(raw, "test.csv")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestCleanDatasetTextReplacesMojibake(t *testing.T) {
	got, err := CleanDatasetText([]byte("“quoted” – dash…"), "test.csv")
	require.NoError(t, err)
	assert.Equal(t, `"quoted" - dash...`, got)
}

func TestCleanDatasetTextRepairsInvalidUTF8(t *testing.T) {
	got, err := CleanDatasetText([]byte{'o', 'k', 0xFF, '!'}, "test.csv")
	require.NoError(t, err)
	assert.Contains(t, got, "ok")
	assert.Contains(t, got, "!")
}

func TestIsLikelyBinary(t *testing.T) {
	dir := t.TempDir()

	textPath := filepath.Join(dir, "text.csv")
	require.NoError(t, os.WriteFile(textPath, []byte("content,category\nhi,humor\n"), 0o644))
	binary, err := IsLikelyBinary(textPath)
	require.NoError(t, err)
	assert.False(t, binary)

	binPath := filepath.Join(dir, "blob.bin")
	require.NoError(t, os.WriteFile(binPath, []byte{0x00, 0x01, 0x02}, 0o644))
	binary, err = IsLikelyBinary(binPath)
	require.NoError(t, err)
	assert.True(t, binary)
}
