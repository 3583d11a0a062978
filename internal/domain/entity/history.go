package entity

import (
	"math"
	"time"

	"github.com/bnema/recall/internal/domain/fuzzy"
)

const (
	// VisitWeight scales the log2 visit count into a score bonus.
	VisitWeight = 4
	// MaxVisitBonus caps the visit-frequency contribution.
	MaxVisitBonus = 24
)

// Visit is a raw record coming from a history source or a visit event.
// Nil counts and times mean "not supplied by the source".
type Visit struct {
	URL           string `json:"url"`
	Title         string `json:"title"`
	VisitCount    *int64 `json:"visit_count,omitempty"`
	LastVisitTime *int64 `json:"last_visit_time,omitempty"` // epoch ms
}

// NewVisit creates a visit with only URL and title set.
func NewVisit(url, title string) Visit {
	return Visit{URL: url, Title: title}
}

// WithVisitCount returns a copy of v carrying an explicit visit count.
func (v Visit) WithVisitCount(n int64) Visit {
	v.VisitCount = &n
	return v
}

// WithLastVisitTime returns a copy of v carrying an explicit visit time.
func (v Visit) WithLastVisitTime(t time.Time) Visit {
	ms := t.UnixMilli()
	v.LastVisitTime = &ms
	return v
}

// HistoryEntry is a normalized, searchable history record. One per distinct URL.
// Derived fields are recomputed whenever their source fields change.
type HistoryEntry struct {
	URL            string
	Title          string
	TitleLower     string
	URLNoProtocol  string
	URLLower       string
	HostLower      string
	HostLowerNoWWW string
	VisitCount     int64
	VisitBonus     float64
	LastVisitTime  int64 // epoch ms, 0 when unknown
	Description    string

	// IsActive is only set on the synthesized current-context entry.
	IsActive bool

	TitleTarget fuzzy.Target
	URLTarget   fuzzy.Target
}

// HostKey returns the host used for host bonuses, preferring the no-www form.
func (h *HistoryEntry) HostKey() string {
	if h.HostLowerNoWWW != "" {
		return h.HostLowerNoWWW
	}
	return h.HostLower
}

// SetVisitCount updates the count and its bonus together.
func (h *HistoryEntry) SetVisitCount(n int64) {
	h.VisitCount = n
	h.VisitBonus = ComputeVisitBonus(n)
}

// Overwrite copies every field except URL and IsActive from other into h,
// keeping h's identity for holders of the pointer.
func (h *HistoryEntry) Overwrite(other *HistoryEntry) {
	url, active := h.URL, h.IsActive
	*h = *other
	h.URL, h.IsActive = url, active
}

// ComputeVisitBonus maps a visit count to min(log2(count+1)*4, 24).
func ComputeVisitBonus(visitCount int64) float64 {
	if visitCount <= 0 {
		return 0
	}
	return math.Min(math.Log2(float64(visitCount)+1)*VisitWeight, MaxVisitBonus)
}

// ScoredEntry pairs an entry with its score for one query. Never stored.
type ScoredEntry struct {
	Entry *HistoryEntry
	Score float64
}

// SearchResult is the presentation shape of a ranked entry.
type SearchResult struct {
	URL           string `json:"url"`
	Title         string `json:"title"`
	VisitCount    int64  `json:"visit_count"`
	LastVisitTime int64  `json:"last_visit_time"`
	IsActive      bool   `json:"is_active"`
}

// NewSearchResult formats an entry for output.
func NewSearchResult(h *HistoryEntry) SearchResult {
	return SearchResult{
		URL:           h.URL,
		Title:         h.Title,
		VisitCount:    h.VisitCount,
		LastVisitTime: h.LastVisitTime,
		IsActive:      h.IsActive,
	}
}
