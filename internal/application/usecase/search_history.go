package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bnema/recall/internal/application/port"
	"github.com/bnema/recall/internal/cache"
	"github.com/bnema/recall/internal/domain/autocomplete"
	"github.com/bnema/recall/internal/domain/entity"
	"github.com/bnema/recall/internal/domain/ranking"
	domainurl "github.com/bnema/recall/internal/domain/url"
	"github.com/bnema/recall/internal/logging"
)

// DefaultSearchLimit is used when a search does not ask for a limit.
const DefaultSearchLimit = 40

// SearchHistoryConfig tunes the in-memory history search.
type SearchHistoryConfig struct {
	Capacity     int
	RecentSize   int
	DefaultLimit int
	// ActiveBonus of zero keeps ranking.ActiveMatchBonus.
	ActiveBonus float64
	// Narrowing caches matched subsets per query. Nil disables narrowing.
	Narrowing ranking.CandidateStore
	// Now overrides the clock, mainly for tests.
	Now func() time.Time
}

// SearchHistoryUseCase ranks the in-memory history against typed queries.
//
// All store and engine access is serialized by mu: timers and the CLI call in from
// different goroutines, while the store itself is not thread-safe.
type SearchHistoryUseCase struct {
	source   port.HistorySource
	resolver port.ActiveContextResolver
	recorder port.VisitRecorder

	mu           sync.Mutex
	store        *cache.HistoryStore
	engine       *ranking.Engine
	narrowing    *ranking.NarrowingCache
	defaultLimit int
	now          func() time.Time

	lastQuery string
	lastTop   []*entity.HistoryEntry
}

// NewSearchHistoryUseCase creates the use case. resolver and recorder may be nil.
func NewSearchHistoryUseCase(
	source port.HistorySource,
	resolver port.ActiveContextResolver,
	recorder port.VisitRecorder,
	cfg SearchHistoryConfig,
) *SearchHistoryUseCase {
	engine := ranking.NewEngine()
	if cfg.ActiveBonus > 0 {
		engine.SetActiveBonus(cfg.ActiveBonus)
	}

	defaultLimit := cfg.DefaultLimit
	if defaultLimit <= 0 {
		defaultLimit = DefaultSearchLimit
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	uc := &SearchHistoryUseCase{
		source:       source,
		resolver:     resolver,
		recorder:     recorder,
		store:        cache.NewHistoryStore(cfg.Capacity, cfg.RecentSize),
		engine:       engine,
		defaultLimit: defaultLimit,
		now:          now,
	}
	if cfg.Narrowing != nil {
		uc.narrowing = ranking.NewNarrowingCache(cfg.Narrowing)
	}
	return uc
}

// ReloadOutput reports the outcome of a bulk load.
type ReloadOutput struct {
	Entries  int
	Duration time.Duration
	// Degraded is set when the source failed and the store was reset to empty.
	Degraded bool
}

// Reload replaces the store with the source's visits.
// A failing source leaves an empty store; only context cancellation is returned as an error.
func (uc *SearchHistoryUseCase) Reload(ctx context.Context) (*ReloadOutput, error) {
	log := logging.FromContext(ctx)
	start := time.Now()

	var visits []entity.Visit
	var loadErr error
	if uc.source != nil {
		visits, loadErr = uc.source.LoadVisits(ctx)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("failed to reload history: %w", err)
	}

	uc.mu.Lock()
	if loadErr != nil {
		uc.store.Reset()
	} else {
		uc.store.Load(visits)
	}
	uc.resetQueryStateLocked()
	entries := uc.store.Len()
	uc.mu.Unlock()

	out := &ReloadOutput{Entries: entries, Duration: time.Since(start), Degraded: loadErr != nil}
	if loadErr != nil {
		log.Warn().Err(loadErr).Msg("history source failed, starting with an empty store")
		return out, nil
	}

	log.Debug().
		Int("records", len(visits)).
		Int("entries", entries).
		Dur("duration", out.Duration).
		Msg("history loaded")
	return out, nil
}

// RecordVisitOutput contains the entry after the visit was applied.
type RecordVisitOutput struct {
	Entry entity.SearchResult
}

// RecordVisit applies a visit event to the store and persists it when a recorder is set.
// The in-memory update happens even if persisting fails.
func (uc *SearchHistoryUseCase) RecordVisit(ctx context.Context, visit entity.Visit) (*RecordVisitOutput, error) {
	log := logging.FromContext(ctx)

	uc.mu.Lock()
	now := uc.now()
	entry := uc.store.ApplyVisit(visit, now)
	out := &RecordVisitOutput{Entry: entity.NewSearchResult(entry)}
	uc.mu.Unlock()

	log.Debug().
		Str("url", logging.TruncateURL(out.Entry.URL, 80)).
		Int64("visits", out.Entry.VisitCount).
		Msg("visit recorded")

	if uc.recorder == nil {
		return out, nil
	}
	stamped := visit
	if stamped.LastVisitTime == nil {
		stamped = stamped.WithLastVisitTime(now)
	}
	if err := uc.recorder.SaveVisit(ctx, stamped); err != nil {
		return out, fmt.Errorf("failed to persist visit: %w", err)
	}
	return out, nil
}

// SearchInput contains search parameters.
type SearchInput struct {
	Query string
	// Limit caps the result count; zero or negative uses the configured default.
	Limit int
	// ActiveHint is passed to the active context resolver.
	ActiveHint string
}

// SearchOutput contains ranked results, best first.
type SearchOutput struct {
	Query    string
	Results  []entity.SearchResult
	Narrowed bool
	// Completion is the inline URL completion of the typed text, if any result offers one.
	Completion *autocomplete.Completion
}

// Search ranks history against the query and merges in the active entry.
// An empty query returns the most recent entries with the active entry first.
func (uc *SearchHistoryUseCase) Search(ctx context.Context, input SearchInput) (*SearchOutput, error) {
	log := logging.FromContext(ctx)

	queryLower := ranking.NormalizeQuery(input.Query)
	limit := input.Limit
	if limit <= 0 {
		uc.mu.Lock()
		limit = uc.defaultLimit
		uc.mu.Unlock()
	}

	var activeVisit *entity.Visit
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		activeVisit = uc.resolveActive(gctx, input.ActiveHint)
		return nil
	})

	tokens := ranking.Tokenize(queryLower)

	uc.mu.Lock()
	var top []entity.ScoredEntry
	narrowed := false
	if len(tokens) > 0 {
		top, narrowed = uc.topEntriesLocked(queryLower, tokens, limit)
	} else if uc.narrowing != nil {
		uc.narrowing.Reset()
	}
	uc.mu.Unlock()

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to resolve active entry: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("search canceled: %w", err)
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	active := uc.store.ActiveEntry(activeVisit)
	var entries []*entity.HistoryEntry
	if len(tokens) == 0 {
		entries = ranking.BuildRecentList(active, uc.store.RecentEntries(limit), limit)
	} else {
		merged := uc.engine.MergeActive(top, active, tokens, limit, uc.now())
		entries = make([]*entity.HistoryEntry, len(merged))
		for i, item := range merged {
			entries[i] = item.Entry
		}
	}

	uc.lastQuery = queryLower
	uc.lastTop = entries

	results := make([]entity.SearchResult, len(entries))
	urls := make([]string, len(entries))
	for i, e := range entries {
		results[i] = entity.NewSearchResult(e)
		urls[i] = e.URL
	}

	var completion *autocomplete.Completion
	if len(tokens) > 0 {
		if c, ok := autocomplete.Complete(strings.TrimSpace(input.Query), urls); ok {
			completion = &c
		}
	}

	log.Debug().
		Str("query", queryLower).
		Int("tokens", len(tokens)).
		Int("results", len(results)).
		Bool("narrowed", narrowed).
		Bool("active", active != nil).
		Msg("history search completed")

	return &SearchOutput{Query: queryLower, Results: results, Narrowed: narrowed, Completion: completion}, nil
}

// topEntriesLocked scores the (possibly narrowed) candidates and remembers the matched set.
func (uc *SearchHistoryUseCase) topEntriesLocked(
	queryLower string,
	tokens []ranking.Token,
	limit int,
) ([]entity.ScoredEntry, bool) {
	generation := uc.store.Generation()
	candidates := uc.store.Entries()
	narrowed := false
	if subset, ok := uc.narrowing.Lookup(queryLower, generation); ok {
		candidates = subset
		narrowed = true
	}

	top, matched := uc.engine.TopEntries(candidates, tokens, limit, uc.now())
	uc.narrowing.Remember(queryLower, matched, generation)
	return top, narrowed
}

// Resolve maps typed text to the URL to open: http(s) input is used verbatim,
// otherwise the best match wins. Returns "" when nothing matches.
func (uc *SearchHistoryUseCase) Resolve(ctx context.Context, text string) string {
	log := logging.FromContext(ctx)

	if domainurl.IsHTTP(text) {
		return text
	}
	queryLower := ranking.NormalizeQuery(text)
	if queryLower == "" {
		return ""
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	if queryLower == uc.lastQuery && len(uc.lastTop) > 0 {
		return uc.lastTop[0].URL
	}

	top, _ := uc.engine.TopEntries(uc.store.Entries(), ranking.Tokenize(queryLower), 1, uc.now())
	if len(top) == 0 {
		log.Debug().Str("query", queryLower).Msg("no history match to resolve")
		return ""
	}
	return top[0].Entry.URL
}

// RecentInput contains parameters for listing recent entries.
type RecentInput struct {
	Limit      int
	ActiveHint string
}

// Recent lists the most recent entries. It is Search with an empty query.
func (uc *SearchHistoryUseCase) Recent(ctx context.Context, input RecentInput) (*SearchOutput, error) {
	return uc.Search(ctx, SearchInput{Limit: input.Limit, ActiveHint: input.ActiveHint})
}

// StatsOutput describes the in-memory state.
type StatsOutput struct {
	Entries          int    `json:"entries"`
	Capacity         int    `json:"capacity"`
	RecentCached     int    `json:"recent_cached"`
	Generation       uint64 `json:"generation"`
	NarrowingQueries int    `json:"narrowing_queries"`
	NarrowingSize    int    `json:"narrowing_size"`
	NarrowingHits    uint64 `json:"narrowing_hits"`
	NarrowingMisses  uint64 `json:"narrowing_misses"`
}

// Stats returns store and cache counters.
func (uc *SearchHistoryUseCase) Stats() StatsOutput {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	hits, misses := uc.narrowing.Stats()
	return StatsOutput{
		Entries:          uc.store.Len(),
		Capacity:         uc.store.Capacity(),
		RecentCached:     uc.store.RecentLen(),
		Generation:       uc.store.Generation(),
		NarrowingQueries: uc.narrowing.Len(),
		NarrowingSize:    uc.narrowing.Capacity(),
		NarrowingHits:    hits,
		NarrowingMisses:  misses,
	}
}

// ApplySettings updates the knobs that can change without a reload.
// Non-positive values leave the current setting untouched.
func (uc *SearchHistoryUseCase) ApplySettings(defaultLimit int, activeBonus float64, narrowingSize int) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if defaultLimit > 0 {
		uc.defaultLimit = defaultLimit
	}
	if activeBonus > 0 {
		uc.engine.SetActiveBonus(activeBonus)
	}
	if narrowingSize > 0 {
		uc.narrowing.Resize(narrowingSize)
	}
}

// resolveActive asks the resolver for the current context. Failures are logged and ignored.
func (uc *SearchHistoryUseCase) resolveActive(ctx context.Context, hint string) *entity.Visit {
	if uc.resolver == nil {
		return nil
	}
	visit, err := uc.resolver.ResolveActive(ctx, hint)
	if err != nil {
		logging.FromContext(ctx).Debug().Err(err).Msg("active context unavailable")
		return nil
	}
	return visit
}

func (uc *SearchHistoryUseCase) resetQueryStateLocked() {
	uc.narrowing.Reset()
	uc.lastQuery = ""
	uc.lastTop = nil
}
