package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/recall/internal/logging"
)

// DefaultDebounce is the delay between the last keystroke and evaluation.
const DefaultDebounce = 30 * time.Millisecond

// LiveResult is delivered for every evaluation that is still the newest when it completes.
type LiveResult struct {
	RequestID uint64
	Output    *SearchOutput
}

// Searcher is the part of SearchHistoryUseCase that LiveSearch drives.
type Searcher interface {
	Search(ctx context.Context, input SearchInput) (*SearchOutput, error)
}

// LiveSearch debounces query updates and delivers only the newest result.
//
// Every Update cancels the pending timer and bumps the request id. An evaluation
// whose id is no longer current when it finishes is dropped, so a slow search can
// never overwrite the results of a newer one.
type LiveSearch struct {
	ctx      context.Context
	searcher Searcher
	deliver  func(LiveResult)

	mu         sync.Mutex
	timer      *time.Timer
	delay      time.Duration
	requestID  uint64
	limit      int
	activeHint string
	stopped    bool

	deliverMu sync.Mutex
}

// NewLiveSearch creates a debouncer. deliver is called from timer goroutines, one at a time.
func NewLiveSearch(ctx context.Context, searcher Searcher, delay time.Duration, deliver func(LiveResult)) *LiveSearch {
	if delay < 0 {
		delay = DefaultDebounce
	}
	return &LiveSearch{
		ctx:      ctx,
		searcher: searcher,
		deliver:  deliver,
		delay:    delay,
	}
}

// Update schedules evaluation of query and returns its request id.
func (l *LiveSearch) Update(query string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stopped {
		return l.requestID
	}

	l.requestID++
	id := l.requestID

	if l.timer != nil {
		l.timer.Stop()
	}
	l.timer = time.AfterFunc(l.delay, func() {
		l.evaluate(id, query)
	})
	return id
}

// SetDelay changes the debounce delay for subsequent updates.
func (l *LiveSearch) SetDelay(delay time.Duration) {
	if delay < 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.delay = delay
}

// Delay returns the current debounce delay.
func (l *LiveSearch) Delay() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.delay
}

// SetLimit sets the result limit used for evaluations. Zero uses the search default.
func (l *LiveSearch) SetLimit(limit int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.limit = limit
}

// SetActiveHint sets the hint handed to the active context resolver.
func (l *LiveSearch) SetActiveHint(hint string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.activeHint = hint
}

// Stop cancels pending work. Results of evaluations already running are dropped.
func (l *LiveSearch) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.stopped = true
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
}

// current reports whether id is still the newest request.
func (l *LiveSearch) current(id uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.stopped && id == l.requestID
}

func (l *LiveSearch) evaluate(id uint64, query string) {
	if !l.current(id) {
		return
	}

	l.mu.Lock()
	input := SearchInput{Query: query, Limit: l.limit, ActiveHint: l.activeHint}
	l.mu.Unlock()

	out, err := l.searcher.Search(l.ctx, input)
	if err != nil {
		logging.FromContext(l.ctx).Debug().Err(err).Uint64("request_id", id).Msg("live search failed")
		return
	}

	l.deliverMu.Lock()
	defer l.deliverMu.Unlock()
	if !l.current(id) {
		logging.FromContext(l.ctx).Trace().Uint64("request_id", id).Msg("stale live search result dropped")
		return
	}
	l.deliver(LiveResult{RequestID: id, Output: out})
}
