package config

import (
	"errors"
	"fmt"
)

// Validate rejects configurations the selection core cannot run safely on.
// Malformed weighting or an unbounded tracker is a startup failure, never
// something to limp along with per request.
func (c *Config) Validate() error {
	if c.Database.Primary.DSN == "" {
		return errors.New("database.primary.dsn is required")
	}

	if c.Selection.MinScore < 5.0 || c.Selection.MinScore > 10.0 {
		return fmt.Errorf("selection.min_score (%v) must be within [5.0, 10.0]", c.Selection.MinScore)
	}
	if c.Selection.TrackerCapacity <= 0 {
		return errors.New("selection.tracker_capacity must be a positive integer")
	}
	if c.Selection.TrackerWindowSeconds <= 0 {
		return errors.New("selection.tracker_window_seconds must be a positive integer")
	}

	if c.Scorer.TargetLength <= 0 {
		return errors.New("scorer.target_length must be positive")
	}

	if len(c.Generators) == 0 {
		return errors.New("generators must declare at least one generator")
	}
	seen := make(map[string]struct{}, len(c.Generators))
	for _, g := range c.Generators {
		if g.Name == "" {
			return errors.New("generators contains an entry with an empty name")
		}
		if _, dup := seen[g.Name]; dup {
			return fmt.Errorf("generators contains duplicate name %q", g.Name)
		}
		seen[g.Name] = struct{}{}
		if g.Weight <= 0 {
			return fmt.Errorf("generator %q: weight must be positive, got %v", g.Name, g.Weight)
		}
		if g.Enabled && len(g.Categories) == 0 {
			return fmt.Errorf("generator %q: enabled but lists no categories", g.Name)
		}
	}

	if c.Worker.Concurrency <= 0 {
		return errors.New("worker.concurrency must be a positive integer")
	}
	for name, priority := range c.Worker.Queues {
		if name == "" {
			return errors.New("worker.queues contains an empty queue name")
		}
		if priority <= 0 {
			return fmt.Errorf("worker.queues priority for queue %q must be positive", name)
		}
	}

	return nil
}
