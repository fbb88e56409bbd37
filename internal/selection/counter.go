package selection

import (
	"sync"
)

// ServedCounter counts successful selections per category. It feeds the
// scorer's optional novelty bonus; balancing stays a layered signal on top
// of weight-based generator selection rather than part of the core
// algorithm.
type ServedCounter struct {
	mu     sync.RWMutex
	counts map[string]int
}

func NewServedCounter() *ServedCounter {
	return &ServedCounter{counts: make(map[string]int)}
}

// ServedCount implements scoring.CategoryCounter.
func (c *ServedCounter) ServedCount(category string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.counts[category]
}

func (c *ServedCounter) Increment(category string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[category]++
}
