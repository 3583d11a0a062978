package ranking

import (
	"math"
	"strings"
	"time"

	"github.com/bnema/recall/internal/domain/entity"
	"github.com/bnema/recall/internal/domain/fuzzy"
)

const (
	HostExactBonus  = 20
	HostPrefixBonus = 10
	HostMatchBonus  = 6
	// SameFieldBonus rewards multi-token queries whose tokens all hit the title or all hit the URL.
	SameFieldBonus = 8
	// ActiveMatchBonus is added to a positively scoring active entry.
	ActiveMatchBonus = 15

	maxRecencyBonus = 14
	recencyDecay    = 1.8
)

// ScoreEntry combines per-token field scores with host, visit and recency signals.
// Every token must match the title or the URL, otherwise the entry scores 0.
func ScoreEntry(s *fuzzy.Scratch, e *entity.HistoryEntry, tokens []Token, now time.Time) float64 {
	if len(tokens) == 0 {
		return 0
	}

	total := 0
	allTitle, allURL := true, true
	hostKey := e.HostKey()

	for _, tok := range tokens {
		titleScore := fuzzy.Score(s, e.TitleTarget, tok.Runes, fuzzy.TitleBoundaries)
		urlScore := fuzzy.Score(s, e.URLTarget, tok.Runes, fuzzy.URLBoundaries)
		if titleScore == 0 && urlScore == 0 {
			return 0
		}
		if titleScore == 0 {
			allTitle = false
		}
		if urlScore == 0 {
			allURL = false
		}
		total += max(titleScore, urlScore)
		total += hostBonus(hostKey, tok.Text)
	}

	if total == 0 {
		return 0
	}

	score := float64(total)
	if len(tokens) > 1 && (allTitle || allURL) {
		score += SameFieldBonus
	}
	score += e.VisitBonus
	score += RecencyBonus(now.UnixMilli() - e.LastVisitTime)
	return score
}

func hostBonus(hostKey, token string) int {
	switch {
	case hostKey == "":
		return 0
	case hostKey == token:
		return HostExactBonus
	case strings.HasPrefix(hostKey, token):
		return HostPrefixBonus
	case strings.Contains(hostKey, token):
		return HostMatchBonus
	}
	return 0
}

// RecencyBonus decays from 14 at age 0 as max(0, 14 - 1.8*log2(ageHours+1)).
// Negative ages (clock skew) count as 0.
func RecencyBonus(ageMs int64) float64 {
	ageHours := float64(max(ageMs, 0)) / float64(time.Hour/time.Millisecond)
	return math.Max(0, maxRecencyBonus-recencyDecay*math.Log2(ageHours+1))
}
