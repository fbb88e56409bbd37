package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	c := &Config{}
	c.Database.Primary.DSN = "test.db"
	c.Selection.MinScore = 5.0
	c.Selection.TrackerCapacity = 100
	c.Selection.TrackerWindowSeconds = 3600
	c.Scorer.TargetLength = 240
	c.Worker.Concurrency = 2
	c.Worker.Queues = map[string]int{"default": 1}
	c.Generators = []GeneratorConfig{
		{Name: "UltraEnhanced", Weight: 3, Categories: []string{"memes"}, Enabled: true},
	}
	return c
}

func TestValidateAcceptsValidConfig(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty dsn", func(c *Config) { c.Database.Primary.DSN = "" }},
		{"min score below floor", func(c *Config) { c.Selection.MinScore = 4.0 }},
		{"min score above ceiling", func(c *Config) { c.Selection.MinScore = 11.0 }},
		{"zero tracker capacity", func(c *Config) { c.Selection.TrackerCapacity = 0 }},
		{"negative tracker window", func(c *Config) { c.Selection.TrackerWindowSeconds = -1 }},
		{"zero target length", func(c *Config) { c.Scorer.TargetLength = 0 }},
		{"no generators", func(c *Config) { c.Generators = nil }},
		{"negative weight", func(c *Config) { c.Generators[0].Weight = -2 }},
		{"duplicate generator", func(c *Config) {
			c.Generators = append(c.Generators, c.Generators[0])
		}},
		{"enabled without categories", func(c *Config) { c.Generators[0].Categories = nil }},
		{"zero worker concurrency", func(c *Config) { c.Worker.Concurrency = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := validConfig()
			tc.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestGeneratorSpecsDefaultsSourceToName(t *testing.T) {
	c := validConfig()
	c.Generators = append(c.Generators, GeneratorConfig{
		Name: "LongForm", Source: "long_form", Weight: 1, Categories: []string{"essays"}, Enabled: true,
	})

	specs := c.GeneratorSpecs()
	require.Len(t, specs, 2)
	assert.Equal(t, "UltraEnhanced", specs[0].Source, "missing source falls back to the generator name")
	assert.Equal(t, "long_form", specs[1].Source)
}
