// Package tracker keeps a bounded record of recently served content
// fingerprints. It is the one mutable resource shared by concurrent
// selection requests, so every operation takes the exclusive lock.
package tracker

import (
	"container/list"
	"fmt"
	"sync"
	"time"

	"memeforge/internal/models"
)

type entry struct {
	fingerprint string
	insertedAt  time.Time
}

// Tracker is a capacity- and age-bounded fingerprint set. Eviction is lazy:
// every Record first purges entries older than the window, then removes the
// oldest-inserted entries until the count is back within capacity. Insertion
// order, not access order, decides eviction (FIFO, not LRU), which keeps
// memory bounds deterministic.
type Tracker struct {
	mu       sync.Mutex
	capacity int
	window   time.Duration
	index    map[string]*list.Element
	order    *list.List // front = oldest inserted

	now func() time.Time
}

// New creates a tracker bounded to capacity entries and a window duration.
// Both bounds must be positive; refusing to run with an unbounded tracker is
// a startup-time decision, not something to paper over per request.
func New(capacity int, window time.Duration) (*Tracker, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("tracker capacity must be positive, got %d", capacity)
	}
	if window <= 0 {
		return nil, fmt.Errorf("tracker window must be positive, got %s", window)
	}
	return &Tracker{
		capacity: capacity,
		window:   window,
		index:    make(map[string]*list.Element, capacity),
		order:    list.New(),
		now:      time.Now,
	}, nil
}

// IsDuplicate reports whether the fingerprint was served within the window.
// Entries past the window are treated as absent even before a Record call
// purges them; reads never mutate.
func (t *Tracker) IsDuplicate(fp string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	el, ok := t.index[fp]
	if !ok {
		return false
	}
	return t.now().Sub(el.Value.(entry).insertedAt) <= t.window
}

// Record inserts or refreshes the fingerprint at the given timestamp and
// then enforces both bounds. A refreshed entry counts as re-inserted and
// moves to the back of the eviction order.
func (t *Tracker) Record(fp string, ts time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.record(fp, ts)
}

// CheckAndRecord atomically checks for a duplicate and, if absent, records
// the fingerprint. It returns true when the caller won the fingerprint and
// may serve the item. This closes the check-then-act race between two
// requests holding the same candidate.
func (t *Tracker) CheckAndRecord(fp string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if el, ok := t.index[fp]; ok && now.Sub(el.Value.(entry).insertedAt) <= t.window {
		return false
	}
	t.record(fp, now)
	return true
}

// Size returns the current entry count.
func (t *Tracker) Size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.order.Len()
}

// Stats returns a snapshot for the observability endpoints.
func (t *Tracker) Stats() models.TrackerStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return models.TrackerStats{
		Size:     t.order.Len(),
		Capacity: t.capacity,
		Window:   t.window,
	}
}

// record assumes the lock is held.
func (t *Tracker) record(fp string, ts time.Time) {
	if el, ok := t.index[fp]; ok {
		t.order.Remove(el)
		delete(t.index, fp)
	}
	t.index[fp] = t.order.PushBack(entry{fingerprint: fp, insertedAt: ts})
	t.evict()
}

// evict purges window-expired entries first, then trims oldest-inserted
// entries down to capacity. Assumes the lock is held.
func (t *Tracker) evict() {
	cutoff := t.now().Add(-t.window)
	for el := t.order.Front(); el != nil; {
		e := el.Value.(entry)
		if e.insertedAt.After(cutoff) {
			break
		}
		next := el.Next()
		t.order.Remove(el)
		delete(t.index, e.fingerprint)
		el = next
	}
	for t.order.Len() > t.capacity {
		el := t.order.Front()
		e := el.Value.(entry)
		t.order.Remove(el)
		delete(t.index, e.fingerprint)
	}
}
