package category

import (
	"maps"
	"sync"
)

// CapCounter tracks how many films each category has received this run.
// It is safe for concurrent use; Classify is its only heuristic writer.
type CapCounter struct {
	mu     sync.Mutex
	caps   map[string]int
	counts map[string]int
}

// NewCapCounter creates counters for the given caps. A cap <= 0 is unlimited.
func NewCapCounter(caps map[string]int) *CapCounter {
	return &CapCounter{caps: maps.Clone(caps), counts: make(map[string]int, len(caps))}
}

// Count returns the current population of a category.
func (c *CapCounter) Count(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[name]
}

// Cap returns the configured cap, 0 when unlimited or unknown.
func (c *CapCounter) Cap(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return max(c.caps[name], 0)
}

// TryIncrement admits one heuristic placement unless the category is full.
func (c *CapCounter) TryIncrement(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if atCap(c.caps[name], c.counts[name]) {
		return false
	}
	c.counts[name]++
	return true
}

// Increment records a placement that bypasses the cap, such as an explicit
// lookup or a recovered user tag.
func (c *CapCounter) Increment(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[name]++
}

// Snapshot copies the current counts.
func (c *CapCounter) Snapshot() Counts {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Counts{caps: maps.Clone(c.caps), counts: maps.Clone(c.counts)}
}

// Counts is an immutable view of the counters used for pure evaluation.
type Counts struct {
	caps   map[string]int
	counts map[string]int
}

// AtCap reports whether the category has no room for a heuristic placement.
func (s Counts) AtCap(name string) bool {
	return atCap(s.caps[name], s.counts[name])
}

// Count returns the population of a category at snapshot time.
func (s Counts) Count(name string) int {
	return s.counts[name]
}

// Map returns a copy of the counts keyed by category name.
func (s Counts) Map() map[string]int {
	return maps.Clone(s.counts)
}

func atCap(limit, count int) bool {
	return limit > 0 && count >= limit
}
