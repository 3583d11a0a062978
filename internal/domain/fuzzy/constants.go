// Package fuzzy scores how well a lowercase query token aligns against a target string.
//
// Scores are absolute: the constants below must stay stable for rankings to be reproducible.
package fuzzy

const (
	ScoreMatch           = 16
	ScoreGapStart        = -3
	BonusBoundary        = 10
	BonusCamel           = 8
	BonusDigitTransition = 6
	BonusConsecutive     = 12
	BonusFirstChar       = 10

	// ScoreExact is returned when the whole target equals the query.
	ScoreExact = 300
	// scorePrefixBase and scoreSubstringBase seed the prefix and substring fast paths.
	scorePrefixBase    = 200
	scoreSubstringBase = 100
	// extraOccurrenceChecks bounds the search for a better-aligned substring occurrence.
	extraOccurrenceChecks = 3
	// maxProximityPenalty caps the penalty for substrings found late in the target.
	maxProximityPenalty = 12

	// MaxDPLength is the longest target scored with the alignment DP.
	// Longer targets use the greedy matcher.
	MaxDPLength = 1024
)
