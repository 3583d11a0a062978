package ranking

import (
	"time"

	"github.com/bnema/recall/internal/domain/entity"
	"github.com/bnema/recall/internal/domain/fuzzy"
)

// Engine ranks candidates for one query at a time.
// It owns the matcher scratch buffers, so it must not be shared between goroutines.
type Engine struct {
	scratch     *fuzzy.Scratch
	activeBonus float64
}

// NewEngine creates an engine with the default active-match bonus.
func NewEngine() *Engine {
	return &Engine{
		scratch:     fuzzy.NewScratch(),
		activeBonus: ActiveMatchBonus,
	}
}

// SetActiveBonus overrides the bonus added to a matching active entry.
func (e *Engine) SetActiveBonus(bonus float64) {
	if bonus < 0 {
		bonus = 0
	}
	e.activeBonus = bonus
}

// ActiveBonus returns the bonus currently applied to active entries.
func (e *Engine) ActiveBonus() float64 {
	return e.activeBonus
}

// Score scores a single entry.
func (e *Engine) Score(entry *entity.HistoryEntry, tokens []Token, now time.Time) float64 {
	return ScoreEntry(e.scratch, entry, tokens, now)
}

// TopEntries scans candidates and keeps the best limit entries, best first.
// matched holds every positively scoring candidate in scan order, for narrowing.
func (e *Engine) TopEntries(
	candidates []*entity.HistoryEntry,
	tokens []Token,
	limit int,
	now time.Time,
) (top []entity.ScoredEntry, matched []*entity.HistoryEntry) {
	if limit <= 0 || len(tokens) == 0 {
		return nil, nil
	}

	top = make([]entity.ScoredEntry, 0, limit+1)
	for _, entry := range candidates {
		score := ScoreEntry(e.scratch, entry, tokens, now)
		if score <= 0 {
			continue
		}
		matched = append(matched, entry)
		top = insertTop(top, entry, score, limit)
	}
	return top, matched
}

// MergeActive scores active against tokens and merges it into top with the active bonus.
func (e *Engine) MergeActive(
	top []entity.ScoredEntry,
	active *entity.HistoryEntry,
	tokens []Token,
	limit int,
	now time.Time,
) []entity.ScoredEntry {
	if active == nil {
		return top
	}
	score := ScoreEntry(e.scratch, active, tokens, now)
	if score <= 0 {
		return top
	}
	return MergeActive(top, entity.ScoredEntry{Entry: active, Score: score + e.activeBonus}, limit)
}
