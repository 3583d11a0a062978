package ranking

import (
	"cmp"
	"slices"

	"github.com/bnema/recall/internal/domain/entity"
)

// IsBetterCandidate orders by score, then visit count, then last visit time, all descending.
func IsBetterCandidate(score float64, e *entity.HistoryEntry, other entity.ScoredEntry) bool {
	if score != other.Score {
		return score > other.Score
	}
	if e.VisitCount != other.Entry.VisitCount {
		return e.VisitCount > other.Entry.VisitCount
	}
	return e.LastVisitTime > other.Entry.LastVisitTime
}

// CompareCandidates is the sort form of IsBetterCandidate: better candidates sort first.
func CompareCandidates(a, b entity.ScoredEntry) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Entry.VisitCount, a.Entry.VisitCount); c != 0 {
		return c
	}
	return cmp.Compare(b.Entry.LastVisitTime, a.Entry.LastVisitTime)
}

// insertTop places a candidate into the best-first list, keeping at most limit items.
// Equal candidates keep scan order.
func insertTop(top []entity.ScoredEntry, e *entity.HistoryEntry, score float64, limit int) []entity.ScoredEntry {
	if len(top) >= limit && !IsBetterCandidate(score, e, top[len(top)-1]) {
		return top
	}

	at := len(top)
	for at > 0 && IsBetterCandidate(score, e, top[at-1]) {
		at--
	}
	top = slices.Insert(top, at, entity.ScoredEntry{Entry: e, Score: score})
	if len(top) > limit {
		top = top[:limit]
	}
	return top
}

// MergeActive folds a separately scored active entry into top.
// item.Score must already carry the active bonus; callers skip entries whose raw score is 0.
// A positively scoring active entry is always present in the result.
func MergeActive(top []entity.ScoredEntry, item entity.ScoredEntry, limit int) []entity.ScoredEntry {
	if item.Entry == nil || item.Score <= 0 || limit <= 0 {
		return top
	}
	active := item.Entry

	merged := make([]entity.ScoredEntry, 0, len(top)+1)
	for _, it := range top {
		if it.Entry.URL != active.URL {
			merged = append(merged, it)
		}
	}
	merged = append(merged, item)
	slices.SortStableFunc(merged, CompareCandidates)

	if len(merged) <= limit {
		return merged
	}

	activeIdx := slices.IndexFunc(merged, func(it entity.ScoredEntry) bool {
		return it.Entry.URL == active.URL
	})
	if activeIdx < limit {
		return merged[:limit]
	}

	trimmed := make([]entity.ScoredEntry, 0, limit)
	for _, it := range merged {
		if len(trimmed) == limit-1 {
			break
		}
		if it.Entry.URL != active.URL {
			trimmed = append(trimmed, it)
		}
	}
	trimmed = append(trimmed, item)
	slices.SortStableFunc(trimmed, CompareCandidates)
	return trimmed
}

// BuildRecentList puts the active entry (if any) first, followed by recent
// entries with the active URL removed, truncated to limit.
func BuildRecentList(active *entity.HistoryEntry, recent []*entity.HistoryEntry, limit int) []*entity.HistoryEntry {
	if active == nil {
		return slices.Clone(recent[:min(len(recent), max(limit, 0))])
	}
	if limit <= 0 {
		return nil
	}

	list := make([]*entity.HistoryEntry, 0, limit)
	list = append(list, active)
	for _, e := range recent {
		if len(list) >= limit {
			break
		}
		if e.URL != active.URL {
			list = append(list, e)
		}
	}
	return list
}
