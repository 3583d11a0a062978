// Package cache holds the in-memory history store searched on every keystroke.
package cache

import (
	"cmp"
	"slices"
	"time"

	"github.com/bnema/recall/internal/domain/entity"
)

const (
	// DefaultCapacity bounds the number of entries kept in memory.
	DefaultCapacity = 6000
	// DefaultRecentSize is the size of the incrementally maintained most-recent list.
	DefaultRecentSize = 6
)

// HistoryStore owns the bounded set of normalized entries, a URL index and a
// small most-recent list. It performs no I/O and no locking; callers serialize access.
type HistoryStore struct {
	entries    []*entity.HistoryEntry
	index      map[string]*entity.HistoryEntry
	recent     []*entity.HistoryEntry
	capacity   int
	recentSize int
	generation uint64
}

// NewHistoryStore creates an empty store. Non-positive sizes use the defaults.
func NewHistoryStore(capacity, recentSize int) *HistoryStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if recentSize <= 0 {
		recentSize = DefaultRecentSize
	}
	return &HistoryStore{
		index:      make(map[string]*entity.HistoryEntry),
		capacity:   capacity,
		recentSize: recentSize,
	}
}

// Load replaces the whole store with visits.
// Later records for an already seen URL overwrite the earlier one in place.
// When there are more distinct URLs than capacity, the most recently visited are kept.
func (s *HistoryStore) Load(visits []entity.Visit) {
	s.entries = make([]*entity.HistoryEntry, 0, min(len(visits), s.capacity))
	s.index = make(map[string]*entity.HistoryEntry, len(visits))

	for _, v := range visits {
		entry := entity.NormalizeEntry(v, nil)
		if existing, ok := s.index[entry.URL]; ok {
			existing.Overwrite(entry)
			continue
		}
		s.entries = append(s.entries, entry)
		s.index[entry.URL] = entry
	}

	if len(s.entries) > s.capacity {
		s.keepMostRecent(s.capacity)
	}
	s.rebuildRecent()
	s.generation++
}

// Reset empties the store.
func (s *HistoryStore) Reset() {
	s.Load(nil)
}

// ApplyVisit records a single visit and returns the touched entry.
//
// Without an explicit visit count an existing entry's count is incremented.
// Without an explicit visit time the visit is stamped with now.
func (s *HistoryStore) ApplyVisit(v entity.Visit, now time.Time) *entity.HistoryEntry {
	existing := s.index[v.URL]
	entry := entity.NormalizeEntry(v, existing)

	if existing != nil && v.VisitCount == nil {
		entry.SetVisitCount(existing.VisitCount + 1)
	}
	entry.LastVisitTime = now.UnixMilli()
	if v.LastVisitTime != nil {
		entry.LastVisitTime = *v.LastVisitTime
	}

	s.generation++

	if existing != nil {
		existing.Overwrite(entry)
		s.touchRecent(existing)
		return existing
	}

	s.entries = append(s.entries, entry)
	s.index[entry.URL] = entry
	if evicted := s.pruneOldest(); evicted == entry {
		return entry
	}
	s.touchRecent(entry)
	return entry
}

// RecentEntries returns up to limit entries by last visit time, newest first.
// Small limits are served from the incremental list; larger ones sort the whole store.
func (s *HistoryStore) RecentEntries(limit int) []*entity.HistoryEntry {
	if limit <= 0 {
		return nil
	}
	if limit <= s.recentSize {
		return slices.Clone(s.recent[:min(limit, len(s.recent))])
	}
	sorted := s.sortedByRecency()
	return sorted[:min(limit, len(sorted))]
}

// ActiveEntry normalizes the current-context visit against the stored entry for
// the same URL, so title and visit history survive, and marks it active.
// The stored entry itself is never modified.
func (s *HistoryStore) ActiveEntry(v *entity.Visit) *entity.HistoryEntry {
	if v == nil || v.URL == "" {
		return nil
	}
	entry := entity.NormalizeEntry(*v, s.index[v.URL])
	entry.IsActive = true
	return entry
}

// Entries returns the backing slice in insertion order. Callers must not modify it.
func (s *HistoryStore) Entries() []*entity.HistoryEntry {
	return s.entries
}

// Lookup returns the entry for url.
func (s *HistoryStore) Lookup(url string) (*entity.HistoryEntry, bool) {
	e, ok := s.index[url]
	return e, ok
}

// Len returns the number of entries.
func (s *HistoryStore) Len() int {
	return len(s.entries)
}

// RecentLen returns the size of the incremental most-recent list.
func (s *HistoryStore) RecentLen() int {
	return len(s.recent)
}

// Capacity returns the maximum number of entries.
func (s *HistoryStore) Capacity() int {
	return s.capacity
}

// Generation increases on every mutation. Caches derived from the store compare it
// to detect staleness.
func (s *HistoryStore) Generation() uint64 {
	return s.generation
}

// touchRecent moves entry to the front of the most-recent list.
func (s *HistoryStore) touchRecent(entry *entity.HistoryEntry) {
	next := make([]*entity.HistoryEntry, 0, s.recentSize)
	next = append(next, entry)
	for _, e := range s.recent {
		if len(next) >= s.recentSize {
			break
		}
		if e.URL != entry.URL {
			next = append(next, e)
		}
	}
	s.recent = next
}

// pruneOldest evicts the entry with the smallest last visit time when over
// capacity. Ties go to the first one in insertion order.
func (s *HistoryStore) pruneOldest() *entity.HistoryEntry {
	if len(s.entries) <= s.capacity {
		return nil
	}

	oldest := 0
	for i := 1; i < len(s.entries); i++ {
		if s.entries[i].LastVisitTime < s.entries[oldest].LastVisitTime {
			oldest = i
		}
	}

	removed := s.entries[oldest]
	s.entries = slices.Delete(s.entries, oldest, oldest+1)
	delete(s.index, removed.URL)
	s.recent = slices.DeleteFunc(s.recent, func(e *entity.HistoryEntry) bool {
		return e == removed
	})
	return removed
}

// keepMostRecent trims the store to n entries, keeping insertion order.
func (s *HistoryStore) keepMostRecent(n int) {
	keep := make(map[*entity.HistoryEntry]struct{}, n)
	for _, e := range s.sortedByRecency()[:n] {
		keep[e] = struct{}{}
	}

	kept := s.entries[:0]
	for _, e := range s.entries {
		if _, ok := keep[e]; ok {
			kept = append(kept, e)
			continue
		}
		delete(s.index, e.URL)
	}
	clear(s.entries[len(kept):])
	s.entries = kept
}

func (s *HistoryStore) rebuildRecent() {
	sorted := s.sortedByRecency()
	s.recent = sorted[:min(s.recentSize, len(sorted))]
}

// sortedByRecency returns a stable, newest-first copy of the entries.
func (s *HistoryStore) sortedByRecency() []*entity.HistoryEntry {
	sorted := slices.Clone(s.entries)
	slices.SortStableFunc(sorted, func(a, b *entity.HistoryEntry) int {
		return cmp.Compare(b.LastVisitTime, a.LastVisitTime)
	})
	return sorted
}
