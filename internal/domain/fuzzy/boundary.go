package fuzzy

// BoundarySet marks the separator characters after which a match counts as word-aligned.
// Only ASCII separators are supported.
type BoundarySet struct {
	ascii [128]bool
}

// NewBoundarySet builds a set from the runes of chars. Non-ASCII runes are ignored.
func NewBoundarySet(chars string) *BoundarySet {
	s := &BoundarySet{}
	for _, r := range chars {
		if r >= 0 && r < 128 {
			s.ascii[r] = true
		}
	}
	return s
}

// Contains reports whether r is a separator.
func (s *BoundarySet) Contains(r rune) bool {
	if s == nil || r < 0 || r >= 128 {
		return false
	}
	return s.ascii[r]
}

var (
	// TitleBoundaries separate words in page titles.
	TitleBoundaries = NewBoundarySet(" -_:|/()[]")
	// URLBoundaries separate URL segments, query parameters and encoded bytes.
	URLBoundaries = NewBoundarySet("/.?#&= -_~+%")
)
