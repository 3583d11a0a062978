package fuzzy

import "unicode"

// Score returns how well query aligns against t under the given boundary policy.
// query must already be lowercase. The result is 0 when query is not a subsequence of t.
//
// s may be nil, in which case a Scratch is allocated for the call.
func Score(s *Scratch, t Target, query []rune, set *BoundarySet) int {
	tLen := len(t.Lower)
	qLen := len(query)
	if tLen == 0 || qLen == 0 || qLen > tLen {
		return 0
	}

	if qLen == tLen && hasPrefix(t.Lower, query) {
		return ScoreExact
	}

	if hasPrefix(t.Lower, query) {
		score := scorePrefixBase + qLen
		for i := 0; i < qLen; i++ {
			score += charBonus(t, i, set)
		}
		return score
	}

	if idx := indexFrom(t.Lower, query, 0); idx != -1 {
		return substringScore(t, query, idx, set)
	}

	if !isSubsequence(t.Lower, query) {
		return 0
	}

	if tLen > MaxDPLength {
		return greedyScore(t, query, set)
	}

	if s == nil {
		s = NewScratch()
	}
	return s.align(t, query, set)
}

// ScoreString scores a raw target string. Intended for one-off calls and tests;
// hot paths should keep Targets and a Scratch around.
func ScoreString(target, query string, set *BoundarySet) int {
	return Score(nil, NewTarget(target), Query(query), set)
}

// CharBonus returns the positional bonus for a match at idx.
func CharBonus(t Target, idx int, set *BoundarySet) int {
	if idx < 0 || idx >= len(t.Lower) {
		return 0
	}
	return charBonus(t, idx, set)
}

func charBonus(t Target, idx int, set *BoundarySet) int {
	if idx == 0 {
		return BonusFirstChar
	}
	prev := t.Lower[idx-1]
	if set.Contains(prev) {
		return BonusBoundary
	}
	if unicode.IsLower(t.Orig[idx-1]) && unicode.IsUpper(t.Orig[idx]) {
		return BonusCamel
	}
	if isDigit(prev) != isDigit(t.Lower[idx]) {
		return BonusDigitTransition
	}
	return 0
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// substringScore picks the best-aligned of the first few occurrences and
// penalizes occurrences found deep in the target.
func substringScore(t Target, query []rune, first int, set *BoundarySet) int {
	bestIdx := first
	bestBonus := charBonus(t, first, set)
	next := first
	for checks := 0; bestBonus < BonusBoundary && checks < extraOccurrenceChecks; checks++ {
		next = indexFrom(t.Lower, query, next+1)
		if next == -1 {
			break
		}
		if b := charBonus(t, next, set); b > bestBonus {
			bestBonus = b
			bestIdx = next
		}
	}

	qLen := len(query)
	score := scoreSubstringBase + qLen + bestBonus
	score += (qLen - 1) * BonusConsecutive
	score -= min(bestIdx/3, maxProximityPenalty)
	return score
}

// greedyScore takes the first available match for every query rune in a single pass.
// A match at index 0 directly follows the virtual start and earns the consecutive bonus.
func greedyScore(t Target, query []rune, set *BoundarySet) int {
	score := 0
	qi := 0
	lastIdx := -1
	for ti := 0; ti < len(t.Lower) && qi < len(query); ti++ {
		if t.Lower[ti] != query[qi] {
			continue
		}
		bonus := ScoreMatch + charBonus(t, ti, set)
		if lastIdx == ti-1 {
			bonus += BonusConsecutive
		} else if lastIdx != -1 {
			bonus += ScoreGapStart
		}
		score += bonus
		lastIdx = ti
		qi++
	}
	if qi != len(query) {
		return 0
	}
	return score
}

// align computes the optimal subsequence alignment.
//
// match[j] is the best score with the current query rune matched exactly at j.
// best[j] is max(match[0..j]).
func (s *Scratch) align(t Target, query []rune, set *BoundarySet) int {
	tLen := len(t.Lower)
	qLen := len(query)

	bonuses := s.bonuses[:tLen]
	for j := range bonuses {
		bonuses[j] = int32(charBonus(t, j, set))
	}

	prevMatch, currMatch := s.prevMatch[:tLen], s.currMatch[:tLen]
	prevBest, currBest := s.prevBest[:tLen], s.currBest[:tLen]

	var runMax int32
	for j := 0; j < tLen; j++ {
		prevMatch[j] = 0
		if t.Lower[j] == query[0] {
			prevMatch[j] = ScoreMatch + bonuses[j]
		}
		if prevMatch[j] > runMax {
			runMax = prevMatch[j]
		}
		prevBest[j] = runMax
	}

	for i := 1; i < qLen; i++ {
		runMax = 0
		for j := 0; j < tLen; j++ {
			currMatch[j] = 0
			if j < i {
				currBest[j] = 0
				continue
			}
			if t.Lower[j] != query[i] {
				currBest[j] = runMax
				continue
			}

			var score int32
			// Extend a consecutive run ending at j-1.
			if prevMatch[j-1] > 0 {
				score = prevMatch[j-1] + ScoreMatch + max(BonusConsecutive, bonuses[j])
			}
			// Open a new segment after the best earlier match.
			if prevBest[j-1] > 0 {
				if g := prevBest[j-1] + ScoreMatch + bonuses[j] + ScoreGapStart; g > score {
					score = g
				}
			}

			currMatch[j] = score
			if score > runMax {
				runMax = score
			}
			currBest[j] = runMax
		}
		prevMatch, currMatch = currMatch, prevMatch
		prevBest, currBest = currBest, prevBest
	}

	return int(prevBest[tLen-1])
}

func hasPrefix(s, prefix []rune) bool {
	if len(prefix) > len(s) {
		return false
	}
	for i, r := range prefix {
		if s[i] != r {
			return false
		}
	}
	return true
}

// indexFrom returns the first index >= from where sub occurs in s, or -1.
func indexFrom(s, sub []rune, from int) int {
	for i := from; i+len(sub) <= len(s); i++ {
		if hasPrefix(s[i:], sub) {
			return i
		}
	}
	return -1
}

func isSubsequence(s, sub []rune) bool {
	qi := 0
	for _, r := range s {
		if r == sub[qi] {
			qi++
			if qi == len(sub) {
				return true
			}
		}
	}
	return false
}
