package fuzzy

// Scratch holds the DP rows reused across Score calls.
// A Scratch is not safe for concurrent use; give each goroutine its own.
type Scratch struct {
	prevMatch []int32
	currMatch []int32
	prevBest  []int32
	currBest  []int32
	bonuses   []int32
}

// NewScratch allocates rows sized for targets up to MaxDPLength.
func NewScratch() *Scratch {
	return &Scratch{
		prevMatch: make([]int32, MaxDPLength),
		currMatch: make([]int32, MaxDPLength),
		prevBest:  make([]int32, MaxDPLength),
		currBest:  make([]int32, MaxDPLength),
		bonuses:   make([]int32, MaxDPLength),
	}
}
