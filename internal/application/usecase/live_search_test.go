package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/recall/internal/application/usecase"
)

// fakeSearcher echoes the query back and can block per query.
type fakeSearcher struct {
	mu      sync.Mutex
	calls   []usecase.SearchInput
	gates   map[string]chan struct{}
	started chan string
}

func newFakeSearcher() *fakeSearcher {
	return &fakeSearcher{gates: make(map[string]chan struct{}), started: make(chan string, 16)}
}

func (f *fakeSearcher) block(query string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	gate := make(chan struct{})
	f.gates[query] = gate
	return gate
}

func (f *fakeSearcher) Search(_ context.Context, input usecase.SearchInput) (*usecase.SearchOutput, error) {
	f.mu.Lock()
	f.calls = append(f.calls, input)
	gate := f.gates[input.Query]
	f.mu.Unlock()

	f.started <- input.Query
	if gate != nil {
		<-gate
	}
	return &usecase.SearchOutput{Query: input.Query}, nil
}

func (f *fakeSearcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func collect() (func(usecase.LiveResult), func() []usecase.LiveResult) {
	var mu sync.Mutex
	var results []usecase.LiveResult
	deliver := func(r usecase.LiveResult) {
		mu.Lock()
		defer mu.Unlock()
		results = append(results, r)
	}
	snapshot := func() []usecase.LiveResult {
		mu.Lock()
		defer mu.Unlock()
		return append([]usecase.LiveResult(nil), results...)
	}
	return deliver, snapshot
}

func TestLiveSearch_DebouncesBursts(t *testing.T) {
	searcher := newFakeSearcher()
	deliver, results := collect()
	live := usecase.NewLiveSearch(testContext(), searcher, 40*time.Millisecond, deliver)
	defer live.Stop()

	live.Update("g")
	live.Update("gi")
	last := live.Update("git")

	require.Eventually(t, func() bool { return len(results()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(80 * time.Millisecond)

	got := results()
	require.Len(t, got, 1)
	assert.Equal(t, last, got[0].RequestID)
	assert.Equal(t, "git", got[0].Output.Query)
	assert.Equal(t, 1, searcher.callCount())
}

func TestLiveSearch_DropsStaleResults(t *testing.T) {
	searcher := newFakeSearcher()
	gate := searcher.block("slow")
	deliver, results := collect()
	live := usecase.NewLiveSearch(testContext(), searcher, 0, deliver)
	defer live.Stop()

	live.Update("slow")
	require.Equal(t, "slow", <-searcher.started)

	newer := live.Update("fast")
	require.Equal(t, "fast", <-searcher.started)
	require.Eventually(t, func() bool { return len(results()) == 1 }, time.Second, 5*time.Millisecond)

	close(gate)
	time.Sleep(50 * time.Millisecond)

	got := results()
	require.Len(t, got, 1)
	assert.Equal(t, newer, got[0].RequestID)
	assert.Equal(t, "fast", got[0].Output.Query)
}

func TestLiveSearch_StopCancelsPending(t *testing.T) {
	searcher := newFakeSearcher()
	deliver, results := collect()
	live := usecase.NewLiveSearch(testContext(), searcher, 30*time.Millisecond, deliver)

	live.Update("pending")
	live.Stop()
	time.Sleep(80 * time.Millisecond)

	assert.Empty(t, results())
	assert.Zero(t, searcher.callCount())

	live.Update("after stop")
	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, searcher.callCount())
}

func TestLiveSearch_PassesLimitAndHint(t *testing.T) {
	searcher := newFakeSearcher()
	deliver, results := collect()
	live := usecase.NewLiveSearch(testContext(), searcher, 0, deliver)
	defer live.Stop()

	live.SetLimit(12)
	live.SetActiveHint("tab-3")
	live.Update("q")

	require.Eventually(t, func() bool { return len(results()) == 1 }, time.Second, 5*time.Millisecond)
	searcher.mu.Lock()
	defer searcher.mu.Unlock()
	assert.Equal(t, usecase.SearchInput{Query: "q", Limit: 12, ActiveHint: "tab-3"}, searcher.calls[0])
}

func TestLiveSearch_SetDelay(t *testing.T) {
	live := usecase.NewLiveSearch(testContext(), newFakeSearcher(), -1, func(usecase.LiveResult) {})
	assert.Equal(t, usecase.DefaultDebounce, live.Delay())

	live.SetDelay(5 * time.Millisecond)
	assert.Equal(t, 5*time.Millisecond, live.Delay())

	live.SetDelay(-time.Second)
	assert.Equal(t, 5*time.Millisecond, live.Delay())
}

func TestLiveSearch_WithRealUseCase(t *testing.T) {
	uc := newUseCase(t, sampleVisits(), nil, nil)
	deliver, results := collect()
	live := usecase.NewLiveSearch(testContext(), uc, 5*time.Millisecond, deliver)
	defer live.Stop()

	live.Update("effective")
	require.Eventually(t, func() bool { return len(results()) == 1 }, time.Second, 5*time.Millisecond)

	out := results()[0].Output
	require.NotEmpty(t, out.Results)
	assert.Equal(t, "https://go.dev/doc/effective_go", out.Results[0].URL)
}
