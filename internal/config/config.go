package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"memeforge/internal/models"
)

// GeneratorConfig is one generator variant as declared in config.yaml.
type GeneratorConfig struct {
	Name       string   `mapstructure:"name"`
	Source     string   `mapstructure:"source"`
	Weight     float64  `mapstructure:"weight"`
	Categories []string `mapstructure:"categories"`
	Enabled    bool     `mapstructure:"enabled"`
}

type Config struct {
	Database struct {
		Primary struct {
			DSN string `mapstructure:"dsn"`
		} `mapstructure:"primary"`
	} `mapstructure:"database"`

	Redis struct {
		Address  string `mapstructure:"address"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	Selection struct {
		MinScore             float64 `mapstructure:"min_score"`
		TrackerCapacity      int     `mapstructure:"tracker_capacity"`
		TrackerWindowSeconds int     `mapstructure:"tracker_window_seconds"`
	} `mapstructure:"selection"`

	Scorer struct {
		TargetLength int  `mapstructure:"target_length"`
		NoveltyBonus bool `mapstructure:"novelty_bonus"`
	} `mapstructure:"scorer"`

	Worker struct {
		Concurrency int            `mapstructure:"concurrency"`
		Queues      map[string]int `mapstructure:"queues"`
	} `mapstructure:"worker"`

	Generators []GeneratorConfig `mapstructure:"generators"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetDefault("database.primary.dsn", "memeforge.db")
	viper.SetDefault("redis.address", "localhost:6379")
	viper.SetDefault("selection.min_score", 5.0)
	viper.SetDefault("selection.tracker_capacity", 4096)
	viper.SetDefault("selection.tracker_window_seconds", 86400)
	viper.SetDefault("scorer.target_length", 240)
	viper.SetDefault("scorer.novelty_bonus", false)
	viper.SetDefault("worker.concurrency", 4)
	viper.SetDefault("worker.queues", map[string]int{"default": 1})

	viper.AutomaticEnv()
	viper.BindEnv("redis.address", "REDIS_ADDR")
	viper.BindEnv("database.primary.dsn", "MEMEFORGE_DB")

	if err := viper.ReadInConfig(); err != nil {
		// Running purely on defaults and env vars is fine; any other read
		// failure is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// TrackerWindow returns the tracker window as a duration.
func (c *Config) TrackerWindow() time.Duration {
	return time.Duration(c.Selection.TrackerWindowSeconds) * time.Second
}

// GeneratorSpecs converts the configured generators into registry specs.
// A generator without an explicit source draws from the dataset named
// after it.
func (c *Config) GeneratorSpecs() []models.GeneratorSpec {
	specs := make([]models.GeneratorSpec, 0, len(c.Generators))
	for _, g := range c.Generators {
		source := g.Source
		if source == "" {
			source = g.Name
		}
		specs = append(specs, models.GeneratorSpec{
			Name:       g.Name,
			Source:     source,
			Weight:     g.Weight,
			Categories: g.Categories,
			Enabled:    g.Enabled,
		})
	}
	return specs
}
