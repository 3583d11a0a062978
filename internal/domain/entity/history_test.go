package entity_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/recall/internal/domain/entity"
)

func TestNormalizeEntry_DerivesFields(t *testing.T) {
	v := entity.NewVisit("https://www.GitHub.com/bnema/Recall?tab=readme#top", "Recall <dev> & co").
		WithVisitCount(7).
		WithLastVisitTime(time.UnixMilli(1_700_000_000_000))

	e := entity.NormalizeEntry(v, nil)

	assert.Equal(t, "https://www.GitHub.com/bnema/Recall?tab=readme#top", e.URL)
	assert.Equal(t, "www.GitHub.com/bnema/Recall?tab=readme#top", e.URLNoProtocol)
	assert.Equal(t, "www.github.com/bnema/recall?tab=readme#top", e.URLLower)
	assert.Equal(t, "recall <dev> & co", e.TitleLower)
	assert.Equal(t, "www.github.com", e.HostLower)
	assert.Equal(t, "github.com", e.HostLowerNoWWW)
	assert.Equal(t, "github.com", e.HostKey())
	assert.Equal(t, int64(7), e.VisitCount)
	assert.Equal(t, entity.ComputeVisitBonus(7), e.VisitBonus)
	assert.Equal(t, int64(1_700_000_000_000), e.LastVisitTime)
	assert.Equal(t,
		"Recall &lt;dev&gt; &amp; co — <url>https://www.GitHub.com/bnema/Recall?tab=readme#top</url>",
		e.Description)
	assert.False(t, e.IsActive)

	assert.Equal(t, len(e.TitleTarget.Orig), len(e.TitleTarget.Lower))
	assert.Equal(t, e.URLLower, e.URLTarget.String())
}

func TestNormalizeEntry_Defaults(t *testing.T) {
	e := entity.NormalizeEntry(entity.Visit{}, nil)

	assert.Empty(t, e.URL)
	assert.Empty(t, e.Title)
	assert.Empty(t, e.HostLower)
	assert.Equal(t, int64(1), e.VisitCount)
	assert.Zero(t, e.LastVisitTime)
	assert.Equal(t, " — <url></url>", e.Description)
}

func TestNormalizeEntry_DescriptionFallsBackToURL(t *testing.T) {
	e := entity.NormalizeEntry(entity.NewVisit("http://a.b/?x=1&y=2", ""), nil)
	assert.Equal(t, "http://a.b/?x=1&amp;y=2 — <url>http://a.b/?x=1&amp;y=2</url>", e.Description)
	assert.Equal(t, "a.b", e.HostLower)
}

func TestNormalizeEntry_Fallback(t *testing.T) {
	prev := entity.NormalizeEntry(
		entity.NewVisit("https://example.com", "Example").
			WithVisitCount(12).
			WithLastVisitTime(time.UnixMilli(5000)),
		nil,
	)

	t.Run("missing fields use fallback", func(t *testing.T) {
		e := entity.NormalizeEntry(entity.NewVisit("https://example.com", ""), prev)
		assert.Equal(t, "Example", e.Title)
		assert.Equal(t, int64(12), e.VisitCount)
		assert.Equal(t, int64(5000), e.LastVisitTime)
	})

	t.Run("supplied fields win", func(t *testing.T) {
		e := entity.NormalizeEntry(
			entity.NewVisit("https://example.com", "New title").
				WithVisitCount(3).
				WithLastVisitTime(time.UnixMilli(9000)),
			prev,
		)
		assert.Equal(t, "New title", e.Title)
		assert.Equal(t, "new title", e.TitleLower)
		assert.Equal(t, int64(3), e.VisitCount)
		assert.Equal(t, int64(9000), e.LastVisitTime)
	})

	t.Run("empty url uses fallback url", func(t *testing.T) {
		e := entity.NormalizeEntry(entity.Visit{Title: "T"}, prev)
		assert.Equal(t, "https://example.com", e.URL)
		assert.Equal(t, "example.com", e.HostLower)
	})
}

func TestComputeVisitBonus(t *testing.T) {
	assert.Zero(t, entity.ComputeVisitBonus(0))
	assert.Zero(t, entity.ComputeVisitBonus(-5))
	assert.InDelta(t, 4.0, entity.ComputeVisitBonus(1), 1e-9)
	assert.InDelta(t, 8.0, entity.ComputeVisitBonus(3), 1e-9)
	assert.InDelta(t, float64(entity.MaxVisitBonus), entity.ComputeVisitBonus(63), 1e-9)

	prev := -1.0
	for n := int64(0); n < 5000; n++ {
		b := entity.ComputeVisitBonus(n)
		require.GreaterOrEqual(t, b, prev, "non-decreasing at %d", n)
		require.LessOrEqual(t, b, float64(entity.MaxVisitBonus))
		require.False(t, math.IsNaN(b))
		prev = b
	}
}

func TestHistoryEntry_Overwrite(t *testing.T) {
	e := entity.NormalizeEntry(entity.NewVisit("https://a.com", "A"), nil)
	e.IsActive = true
	ptr := e

	e.Overwrite(entity.NormalizeEntry(entity.NewVisit("https://other.com", "B").WithVisitCount(4), nil))

	assert.Same(t, ptr, e)
	assert.Equal(t, "https://a.com", e.URL)
	assert.True(t, e.IsActive)
	assert.Equal(t, "B", e.Title)
	assert.Equal(t, int64(4), e.VisitCount)
}

func TestHistoryEntry_SetVisitCount(t *testing.T) {
	e := entity.NormalizeEntry(entity.NewVisit("https://a.com", "A"), nil)
	e.SetVisitCount(3)
	assert.Equal(t, int64(3), e.VisitCount)
	assert.InDelta(t, 8.0, e.VisitBonus, 1e-9)
}

func TestNewSearchResult(t *testing.T) {
	e := entity.NormalizeEntry(entity.NewVisit("https://a.com", "A").WithVisitCount(2), nil)
	e.IsActive = true
	r := entity.NewSearchResult(e)
	assert.Equal(t, entity.SearchResult{URL: "https://a.com", Title: "A", VisitCount: 2, IsActive: true}, r)
}
