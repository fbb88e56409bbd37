package fingerprint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memeforge/internal/fingerprint"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "The Pattern Is CLEAR", "the pattern is clear"},
		{"strips punctuation", "wake up, sheeple!!!", "wake up sheeple"},
		{"collapses whitespace", "too   many\t\tspaces\n\nhere", "too many spaces here"},
		{"trims edges", "  padded  ", "padded"},
		{"keeps digits", "Phase 2 begins in 2026", "phase 2 begins in 2026"},
		{"empty", "", ""},
		{"only punctuation", "?!...", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, fingerprint.Normalize(tc.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	texts := []string{
		"The Pattern Is CLEAR...",
		"  multiple   spaces\tand\nnewlines ",
		"plain text",
	}
	for _, text := range texts {
		once := fingerprint.Normalize(text)
		twice := fingerprint.Normalize(once)
		assert.Equal(t, once, twice, "normalizing twice must be a no-op for %q", text)
	}
}

func TestComputeStable(t *testing.T) {
	text := "Has anyone else noticed the frequency shifts since the rollout?"
	first := fingerprint.Compute(text)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, fingerprint.Compute(text))
	}
}

func TestComputeIgnoresCosmeticDifferences(t *testing.T) {
	// Same normalized text behind different identifiers/formatting must
	// collide; that collision is the whole point.
	a := fingerprint.Compute("The FED knows.   Everyone knows!")
	b := fingerprint.Compute("the fed knows everyone knows")
	assert.Equal(t, a, b)

	c := fingerprint.Compute("a completely different payload")
	assert.NotEqual(t, a, c)
}
