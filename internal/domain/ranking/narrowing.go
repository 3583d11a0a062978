package ranking

import (
	"strings"

	"github.com/bnema/recall/internal/domain/entity"
)

// CandidateStore keeps matched-entry subsets keyed by lowercase query.
// The LRU in internal/infrastructure/cache satisfies it.
type CandidateStore interface {
	Get(key string) ([]*entity.HistoryEntry, bool)
	Set(key string, value []*entity.HistoryEntry)
	Keys() []string
	Len() int
	Clear()
	Capacity() int
	Resize(capacity int)
}

// NarrowingCache remembers which entries matched recent queries so a query that
// extends one of them only rescans that subset.
//
// A query matching an entry implies every prefix of it matches too, so the subset
// is complete as long as the store has not changed. Cached subsets are tagged with
// the store generation and dropped as soon as it moves.
type NarrowingCache struct {
	store      CandidateStore
	generation uint64
	hits       uint64
	misses     uint64
}

// NewNarrowingCache wraps store.
func NewNarrowingCache(store CandidateStore) *NarrowingCache {
	return &NarrowingCache{store: store}
}

// Lookup returns the subset for the longest remembered query that prefixes queryLower.
func (c *NarrowingCache) Lookup(queryLower string, generation uint64) ([]*entity.HistoryEntry, bool) {
	if c == nil {
		return nil, false
	}
	c.sync(generation)

	bestKey := ""
	found := false
	for _, key := range c.store.Keys() {
		if key == "" || !strings.HasPrefix(queryLower, key) {
			continue
		}
		if !found || len(key) > len(bestKey) {
			bestKey, found = key, true
		}
	}
	if !found {
		c.misses++
		return nil, false
	}

	subset, ok := c.store.Get(bestKey)
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	return subset, true
}

// Remember stores the entries that matched queryLower.
func (c *NarrowingCache) Remember(queryLower string, matched []*entity.HistoryEntry, generation uint64) {
	if c == nil || queryLower == "" {
		return
	}
	c.sync(generation)
	c.store.Set(queryLower, matched)
}

// Reset forgets every remembered query.
func (c *NarrowingCache) Reset() {
	if c == nil {
		return
	}
	c.store.Clear()
}

// Len returns the number of remembered queries.
func (c *NarrowingCache) Len() int {
	if c == nil {
		return 0
	}
	return c.store.Len()
}

// Capacity returns how many queries can be remembered.
func (c *NarrowingCache) Capacity() int {
	if c == nil {
		return 0
	}
	return c.store.Capacity()
}

// Resize changes how many queries are remembered, dropping the oldest beyond it.
func (c *NarrowingCache) Resize(capacity int) {
	if c == nil {
		return
	}
	c.store.Resize(capacity)
}

// Stats returns lookup hit and miss counters.
func (c *NarrowingCache) Stats() (hits, misses uint64) {
	if c == nil {
		return 0, 0
	}
	return c.hits, c.misses
}

func (c *NarrowingCache) sync(generation uint64) {
	if generation != c.generation {
		c.store.Clear()
		c.generation = generation
	}
}
