// Package fingerprint derives stable identities for content text. Two items
// with different database IDs but the same normalized text share a
// fingerprint, which is what the repetition tracker keys on.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
)

// Normalize lower-cases the text, strips punctuation and symbols, and
// collapses all whitespace runs to single spaces. The result is what gets
// hashed, so cosmetic differences (casing, quoting, trailing newlines) do
// not defeat duplicate detection.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	lastSpace := true // swallow leading whitespace
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		default:
			// punctuation and symbols are dropped entirely
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// Compute returns the hex-encoded SHA-256 of the normalized text.
func Compute(text string) string {
	sum := sha256.Sum256([]byte(Normalize(text)))
	return hex.EncodeToString(sum[:])
}
