package registry_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memeforge/internal/models"
	"memeforge/internal/registry"
)

func testSpecs() []models.GeneratorSpec {
	return []models.GeneratorSpec{
		{Name: "UltraEnhanced", Source: "ultra_enhanced", Weight: 3, Categories: []string{"memes", "quotes"}, Enabled: true},
		{Name: "Transcendent", Source: "transcendent", Weight: 1, Categories: []string{"quotes"}, Enabled: true},
		{Name: "LongForm", Source: "long_form", Weight: 2, Categories: []string{"essays"}, Enabled: true},
		{Name: "Retired", Source: "retired", Weight: 5, Categories: []string{"quotes"}, Enabled: false},
	}
}

func newRegistry(t *testing.T, seed int64) *registry.Registry {
	t.Helper()
	r, err := registry.New(testSpecs(), rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	return r
}

func TestNewRejectsMalformedSpecs(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	_, err := registry.New(nil, rng)
	assert.Error(t, err, "empty table")

	_, err = registry.New([]models.GeneratorSpec{
		{Name: "A", Weight: -1, Categories: []string{"x"}, Enabled: true},
	}, rng)
	assert.Error(t, err, "negative weight")

	_, err = registry.New([]models.GeneratorSpec{
		{Name: "A", Weight: 1, Categories: []string{"x"}, Enabled: true},
		{Name: "A", Weight: 2, Categories: []string{"y"}, Enabled: true},
	}, rng)
	assert.Error(t, err, "duplicate name")

	_, err = registry.New([]models.GeneratorSpec{
		{Name: "A", Weight: 1, Enabled: true},
	}, rng)
	assert.Error(t, err, "enabled generator without categories")
}

func TestHintHonoredRegardlessOfWeight(t *testing.T) {
	r := newRegistry(t, 42)

	// Transcendent carries a quarter of UltraEnhanced's weight; the hint
	// must still win every time.
	for i := 0; i < 50; i++ {
		g, err := r.Pick("quotes", "Transcendent")
		require.NoError(t, err)
		assert.Equal(t, "Transcendent", g.Name)
	}
}

func TestDisabledOrIneligibleHintFallsThrough(t *testing.T) {
	r := newRegistry(t, 7)

	g, err := r.Pick("quotes", "Retired") // disabled
	require.NoError(t, err)
	assert.NotEqual(t, "Retired", g.Name)

	g, err = r.Pick("quotes", "LongForm") // not eligible for quotes
	require.NoError(t, err)
	assert.NotEqual(t, "LongForm", g.Name)

	g, err = r.Pick("quotes", "NoSuchGenerator")
	require.NoError(t, err)
	assert.Contains(t, []string{"UltraEnhanced", "Transcendent"}, g.Name)
}

func TestNoEligibleGenerator(t *testing.T) {
	r := newRegistry(t, 7)
	_, err := r.Pick("podcasts", "")
	assert.True(t, errors.Is(err, models.ErrNoEligibleGenerator))
}

func TestWeightedDistribution(t *testing.T) {
	specs := []models.GeneratorSpec{
		{Name: "A", Source: "a", Weight: 3, Categories: []string{"quotes"}, Enabled: true},
		{Name: "B", Source: "b", Weight: 1, Categories: []string{"quotes"}, Enabled: true},
	}
	r, err := registry.New(specs, rand.New(rand.NewSource(1234)))
	require.NoError(t, err)

	const draws = 4000
	counts := map[string]int{}
	for i := 0; i < draws; i++ {
		g, err := r.Pick("quotes", "")
		require.NoError(t, err)
		counts[g.Name]++
	}

	// Weight 3:1 over 4000 draws; allow 5% slack around the expectation.
	assert.InDelta(t, 3000, counts["A"], 150)
	assert.InDelta(t, 1000, counts["B"], 150)
}

func TestEligibleOrderedByWeightDescending(t *testing.T) {
	r := newRegistry(t, 7)

	eligible := r.Eligible("quotes")
	require.Len(t, eligible, 2)
	assert.Equal(t, "UltraEnhanced", eligible[0].Name)
	assert.Equal(t, "Transcendent", eligible[1].Name)
}

func TestReloadSwapsWholeTable(t *testing.T) {
	r := newRegistry(t, 7)

	err := r.Reload([]models.GeneratorSpec{
		{Name: "Fresh", Source: "fresh", Weight: 1, Categories: []string{"quotes"}, Enabled: true},
	})
	require.NoError(t, err)

	g, err := r.Pick("quotes", "")
	require.NoError(t, err)
	assert.Equal(t, "Fresh", g.Name)
	assert.Len(t, r.All(), 1)
}

func TestReloadRejectsBadTableAndKeepsOld(t *testing.T) {
	r := newRegistry(t, 7)

	err := r.Reload([]models.GeneratorSpec{
		{Name: "Broken", Source: "broken", Weight: 0, Categories: []string{"quotes"}, Enabled: true},
	})
	require.Error(t, err)

	// Old table still serves.
	g, err := r.Pick("quotes", "UltraEnhanced")
	require.NoError(t, err)
	assert.Equal(t, "UltraEnhanced", g.Name)
}
