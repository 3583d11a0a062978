package fuzzy

import "unicode"

// Target is a pre-split searchable string.
// Orig keeps the original casing for camelCase detection; Lower is compared against queries.
// Both slices always have the same length.
type Target struct {
	Orig  []rune
	Lower []rune
}

// NewTarget lowercases s rune by rune so Orig and Lower stay index-aligned.
func NewTarget(s string) Target {
	orig := []rune(s)
	lower := make([]rune, len(orig))
	for i, r := range orig {
		lower[i] = unicode.ToLower(r)
	}
	return Target{Orig: orig, Lower: lower}
}

// Len returns the target length in runes.
func (t Target) Len() int {
	return len(t.Lower)
}

// String returns the lowercase form.
func (t Target) String() string {
	return string(t.Lower)
}

// Query lowercases a query token into runes.
func Query(s string) []rune {
	q := []rune(s)
	for i, r := range q {
		q[i] = unicode.ToLower(r)
	}
	return q
}
