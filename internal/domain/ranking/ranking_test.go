package ranking_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/recall/internal/domain/entity"
	"github.com/bnema/recall/internal/domain/fuzzy"
	"github.com/bnema/recall/internal/domain/ranking"
	"github.com/bnema/recall/internal/infrastructure/cache"
)

var testNow = time.UnixMilli(1_750_000_000_000)

func newEntry(url, title string, visits int64, lastVisit time.Time) *entity.HistoryEntry {
	return entity.NormalizeEntry(
		entity.NewVisit(url, title).WithVisitCount(visits).WithLastVisitTime(lastVisit),
		nil,
	)
}

func urls(entries []entity.ScoredEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Entry.URL
	}
	return out
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "empty", query: "", want: nil},
		{name: "whitespace only", query: " \t ", want: nil},
		{name: "single", query: "github", want: []string{"github"}},
		{name: "longest first", query: "a bbb cc", want: []string{"bbb", "cc", "a"}},
		{name: "ties keep order", query: "ab cd  ef", want: []string{"ab", "cd", "ef"}},
		{name: "extra spaces dropped", query: "  go   doc ", want: []string{"doc", "go"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := ranking.Tokenize(tt.query)
			var got []string
			for _, tok := range tokens {
				got = append(got, tok.Text)
				assert.Equal(t, []rune(tok.Text), tok.Runes)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeQuery(t *testing.T) {
	assert.Equal(t, "git hub", ranking.NormalizeQuery("  Git Hub \n"))
	assert.Empty(t, ranking.NormalizeQuery("   "))
}

func TestRecencyBonus(t *testing.T) {
	assert.InDelta(t, 14.0, ranking.RecencyBonus(0), 1e-9)
	assert.InDelta(t, 14.0, ranking.RecencyBonus(-int64(time.Hour/time.Millisecond)*5), 1e-9)
	assert.InDelta(t, 12.2, ranking.RecencyBonus(int64(time.Hour/time.Millisecond)), 1e-9)
	assert.Zero(t, ranking.RecencyBonus(int64(365*24*time.Hour/time.Millisecond)))

	prev := ranking.RecencyBonus(0)
	for hours := int64(1); hours < 24*400; hours += 7 {
		b := ranking.RecencyBonus(hours * int64(time.Hour/time.Millisecond))
		require.LessOrEqual(t, b, prev)
		require.GreaterOrEqual(t, b, 0.0)
		prev = b
	}
}

func TestScoreEntry_BoundaryAlignedURL(t *testing.T) {
	e := newEntry("https://github.com/user/repo", "Repository", 1, testNow)
	tokens := ranking.Tokenize("user")

	score := ranking.ScoreEntry(nil, e, tokens, testNow)
	assert.Greater(t, score, 100.0)
}

func TestScoreEntry_VisitCountRaisesScore(t *testing.T) {
	seen := testNow.Add(-2 * time.Hour)
	a := newEntry("https://example.com/docs", "Docs", 100, seen)
	b := newEntry("https://example.com/docs", "Docs", 1, seen)
	tokens := ranking.Tokenize("docs")

	assert.Greater(t, ranking.ScoreEntry(nil, a, tokens, testNow), ranking.ScoreEntry(nil, b, tokens, testNow))
}

func TestScoreEntry_SameFieldBonus(t *testing.T) {
	e := newEntry("https://example.com/x", "GitHub Dashboard Settings", 1, testNow.Add(-time.Hour))
	extras := e.VisitBonus + ranking.RecencyBonus(time.Hour.Milliseconds())

	github := float64(fuzzy.ScoreString(e.Title, "github", fuzzy.TitleBoundaries))
	dashboard := float64(fuzzy.ScoreString(e.Title, "dashboard", fuzzy.TitleBoundaries))

	single := ranking.ScoreEntry(nil, e, ranking.Tokenize("github"), testNow)
	multi := ranking.ScoreEntry(nil, e, ranking.Tokenize("github dashboard"), testNow)

	assert.InDelta(t, github+extras, single, 1e-9)
	assert.InDelta(t, github+dashboard+ranking.SameFieldBonus+extras, multi, 1e-9)
	assert.Greater(t, multi, single)
}

func TestScoreEntry_AllTokensMustMatch(t *testing.T) {
	e := newEntry("https://news.ycombinator.com", "Hacker News", 10, testNow)

	assert.Positive(t, ranking.ScoreEntry(nil, e, ranking.Tokenize("hacker news"), testNow))
	assert.Zero(t, ranking.ScoreEntry(nil, e, ranking.Tokenize("hacker zzz"), testNow))
	assert.Zero(t, ranking.ScoreEntry(nil, e, nil, testNow))
}

func TestScoreEntry_HostBonus(t *testing.T) {
	e := newEntry("https://www.youtube.com/watch?v=1", "Video", 1, testNow)
	base := func(token string) float64 {
		return float64(max(
			fuzzy.ScoreString(e.Title, token, fuzzy.TitleBoundaries),
			fuzzy.ScoreString(e.URLNoProtocol, token, fuzzy.URLBoundaries),
		)) + e.VisitBonus + ranking.RecencyBonus(0)
	}

	tests := []struct {
		token string
		bonus float64
	}{
		{token: "youtube.com", bonus: ranking.HostExactBonus},
		{token: "you", bonus: ranking.HostPrefixBonus},
		{token: "tube", bonus: ranking.HostMatchBonus},
		{token: "watch", bonus: 0},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got := ranking.ScoreEntry(nil, e, ranking.Tokenize(tt.token), testNow)
			assert.InDelta(t, base(tt.token)+tt.bonus, got, 1e-9)
		})
	}
}

func TestEngine_TopEntries(t *testing.T) {
	old := testNow.Add(-60 * 24 * time.Hour)
	entries := []*entity.HistoryEntry{
		newEntry("https://q.io/1", "Recall", 100, old),
		newEntry("https://q.io/2", "Recall", 200, old),
		newEntry("https://q.io/3", "Recall", 200, old.Add(time.Hour)),
		newEntry("https://q.io/4", "Unrelated", 500, testNow),
		newEntry("https://q.io/5", "Recall notes", 1, old),
	}
	engine := ranking.NewEngine()
	tokens := ranking.Tokenize("recall")

	t.Run("tie-break chain", func(t *testing.T) {
		top, matched := engine.TopEntries(entries, tokens, 10, testNow)

		assert.Equal(t, []string{"https://q.io/3", "https://q.io/2", "https://q.io/1", "https://q.io/5"}, urls(top))
		assert.Len(t, matched, 4)
		assert.Equal(t, "https://q.io/1", matched[0].URL, "matched keeps scan order")
	})

	t.Run("bounded", func(t *testing.T) {
		top, matched := engine.TopEntries(entries, tokens, 2, testNow)
		assert.Equal(t, []string{"https://q.io/3", "https://q.io/2"}, urls(top))
		assert.Len(t, matched, 4)
	})

	t.Run("deterministic", func(t *testing.T) {
		first, _ := engine.TopEntries(entries, tokens, 3, testNow)
		second, _ := engine.TopEntries(entries, tokens, 3, testNow)
		assert.Equal(t, first, second)
	})

	t.Run("zero limit", func(t *testing.T) {
		top, matched := engine.TopEntries(entries, tokens, 0, testNow)
		assert.Empty(t, top)
		assert.Empty(t, matched)
	})
}

func scored(url string, score float64) entity.ScoredEntry {
	return entity.ScoredEntry{Entry: &entity.HistoryEntry{URL: url}, Score: score}
}

func TestMergeActive(t *testing.T) {
	top := []entity.ScoredEntry{scored("a", 100), scored("b", 90), scored("c", 80)}

	t.Run("within limit truncates", func(t *testing.T) {
		got := ranking.MergeActive(top, scored("d", 95), 3)
		assert.Equal(t, []string{"a", "d", "b"}, urls(got))
	})

	t.Run("beyond limit forces active in", func(t *testing.T) {
		got := ranking.MergeActive(top, scored("d", 10), 3)
		assert.Equal(t, []string{"a", "b", "d"}, urls(got))
	})

	t.Run("replaces existing occurrence", func(t *testing.T) {
		got := ranking.MergeActive(top, scored("b", 50), 3)
		assert.Equal(t, []string{"a", "c", "b"}, urls(got))
		assert.Equal(t, 50.0, got[2].Score)
	})

	t.Run("room left appends", func(t *testing.T) {
		got := ranking.MergeActive(top, scored("d", 10), 6)
		assert.Equal(t, []string{"a", "b", "c", "d"}, urls(got))
	})

	t.Run("non-positive ignored", func(t *testing.T) {
		got := ranking.MergeActive(top, scored("d", 0), 3)
		assert.Equal(t, top, got)
	})

	t.Run("input untouched", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b", "c"}, urls(top))
	})
}

func TestEngine_MergeActive(t *testing.T) {
	engine := ranking.NewEngine()
	tokens := ranking.Tokenize("recall")
	old := testNow.Add(-60 * 24 * time.Hour)

	entries := make([]*entity.HistoryEntry, 0, 10)
	for i := range 10 {
		entries = append(entries, newEntry(fmt.Sprintf("https://q.io/%d", i), "Recall", 50, old))
	}
	top, _ := engine.TopEntries(entries, tokens, 6, testNow)
	require.Len(t, top, 6)

	t.Run("weak active still present", func(t *testing.T) {
		active := newEntry("https://zz.io/x", "Some recall page", 1, old)
		active.IsActive = true

		got := engine.MergeActive(top, active, tokens, 6, testNow)
		require.Len(t, got, 6)
		assert.Contains(t, urls(got), "https://zz.io/x")
	})

	t.Run("non-matching active ignored", func(t *testing.T) {
		active := newEntry("https://zz.io/x", "Other", 1, testNow)
		got := engine.MergeActive(top, active, tokens, 6, testNow)
		assert.Equal(t, top, got)
	})

	t.Run("bonus applied", func(t *testing.T) {
		active := newEntry("https://q.io/0", "Recall", 50, old)
		raw := engine.Score(active, tokens, testNow)
		got := engine.MergeActive(top, active, tokens, 6, testNow)
		assert.Equal(t, "https://q.io/0", got[0].Entry.URL)
		assert.InDelta(t, raw+ranking.ActiveMatchBonus, got[0].Score, 1e-9)
	})

	t.Run("custom bonus", func(t *testing.T) {
		e := ranking.NewEngine()
		e.SetActiveBonus(-1)
		assert.Zero(t, e.ActiveBonus())
		e.SetActiveBonus(40)
		assert.Equal(t, 40.0, e.ActiveBonus())
	})
}

func TestBuildRecentList(t *testing.T) {
	recent := []*entity.HistoryEntry{
		newEntry("https://a.io", "A", 1, testNow),
		newEntry("https://b.io", "B", 1, testNow),
		newEntry("https://c.io", "C", 1, testNow),
	}
	list := func(entries []*entity.HistoryEntry) []string {
		out := make([]string, len(entries))
		for i, e := range entries {
			out[i] = e.URL
		}
		return out
	}

	assert.Equal(t, []string{"https://a.io", "https://b.io"}, list(ranking.BuildRecentList(nil, recent, 2)))
	assert.Equal(t, []string{"https://a.io", "https://b.io", "https://c.io"}, list(ranking.BuildRecentList(nil, recent, 10)))

	active := newEntry("https://b.io", "B", 1, testNow)
	active.IsActive = true
	got := ranking.BuildRecentList(active, recent, 3)
	assert.Equal(t, []string{"https://b.io", "https://a.io", "https://c.io"}, list(got))
	assert.True(t, got[0].IsActive)

	assert.Equal(t, []string{"https://b.io"}, list(ranking.BuildRecentList(active, recent, 1)))
	assert.Empty(t, ranking.BuildRecentList(active, recent, 0))
}

func TestNarrowingCache(t *testing.T) {
	e1 := newEntry("https://github.com", "GitHub", 1, testNow)
	e2 := newEntry("https://gitlab.com", "GitLab", 1, testNow)

	t.Run("extension hits", func(t *testing.T) {
		nc := ranking.NewNarrowingCache(cache.NewLRU[string, []*entity.HistoryEntry](1))
		nc.Remember("git", []*entity.HistoryEntry{e1, e2}, 1)

		subset, ok := nc.Lookup("gith", 1)
		require.True(t, ok)
		assert.Equal(t, []*entity.HistoryEntry{e1, e2}, subset)

		_, ok = nc.Lookup("git", 1)
		assert.True(t, ok, "same query counts as extension")

		_, ok = nc.Lookup("hub", 1)
		assert.False(t, ok)

		hits, misses := nc.Stats()
		assert.Equal(t, uint64(2), hits)
		assert.Equal(t, uint64(1), misses)
	})

	t.Run("generation change purges", func(t *testing.T) {
		nc := ranking.NewNarrowingCache(cache.NewLRU[string, []*entity.HistoryEntry](1))
		nc.Remember("git", []*entity.HistoryEntry{e1}, 1)

		_, ok := nc.Lookup("gith", 2)
		assert.False(t, ok)
		assert.Zero(t, nc.Len())
	})

	t.Run("longest prefix wins", func(t *testing.T) {
		nc := ranking.NewNarrowingCache(cache.NewLRU[string, []*entity.HistoryEntry](3))
		nc.Remember("g", []*entity.HistoryEntry{e1, e2}, 1)
		nc.Remember("gith", []*entity.HistoryEntry{e1}, 1)
		nc.Remember("gi", []*entity.HistoryEntry{e1, e2}, 1)

		subset, ok := nc.Lookup("github", 1)
		require.True(t, ok)
		assert.Equal(t, []*entity.HistoryEntry{e1}, subset)
	})

	t.Run("resize keeps newest", func(t *testing.T) {
		nc := ranking.NewNarrowingCache(cache.NewLRU[string, []*entity.HistoryEntry](3))
		nc.Remember("a", nil, 1)
		nc.Remember("b", nil, 1)
		nc.Remember("c", []*entity.HistoryEntry{e1}, 1)

		nc.Resize(1)
		assert.Equal(t, 1, nc.Capacity())
		assert.Equal(t, 1, nc.Len())
		subset, ok := nc.Lookup("cd", 1)
		require.True(t, ok)
		assert.Equal(t, []*entity.HistoryEntry{e1}, subset)
	})

	t.Run("reset and nil", func(t *testing.T) {
		nc := ranking.NewNarrowingCache(cache.NewLRU[string, []*entity.HistoryEntry](2))
		nc.Remember("a", nil, 0)
		nc.Remember("", []*entity.HistoryEntry{e1}, 0)
		assert.Equal(t, 1, nc.Len())
		nc.Reset()
		assert.Zero(t, nc.Len())

		var none *ranking.NarrowingCache
		_, ok := none.Lookup("a", 0)
		assert.False(t, ok)
		none.Remember("a", nil, 0)
		none.Reset()
		none.Resize(4)
		assert.Zero(t, none.Capacity())
	})
}

func TestNarrowing_MatchesFullScan(t *testing.T) {
	var entries []*entity.HistoryEntry
	titles := []string{"GitHub", "GitLab", "Go docs", "Gitea", "Grafana", "Hacker News", "git-scm book"}
	for i, title := range titles {
		entries = append(entries, newEntry(fmt.Sprintf("https://site%d.dev/%s", i, title), title, int64(i+1), testNow.Add(-time.Duration(i)*time.Hour)))
	}

	engine := ranking.NewEngine()
	nc := ranking.NewNarrowingCache(cache.NewLRU[string, []*entity.HistoryEntry](1))

	for _, q := range []string{"g", "gi", "git", "git ", "git b", "git bo"} {
		queryLower := ranking.NormalizeQuery(q)
		tokens := ranking.Tokenize(queryLower)

		candidates := entries
		if subset, ok := nc.Lookup(queryLower, 1); ok {
			candidates = subset
		}
		narrowed, matched := engine.TopEntries(candidates, tokens, 6, testNow)
		nc.Remember(queryLower, matched, 1)

		full, _ := engine.TopEntries(entries, tokens, 6, testNow)
		assert.Equal(t, urls(full), urls(narrowed), "query %q", q)
	}
}
