// Package activectx resolves the "currently open page" for searches.
package activectx

import (
	"context"
	"strings"
	"sync"

	"github.com/bnema/recall/internal/application/port"
	"github.com/bnema/recall/internal/domain/entity"
)

// StaticResolver answers from pages registered by the caller: the CLI flags,
// or ":active" lines in live mode. A hint selects a registered page; an empty
// or unknown hint falls back to the default page.
type StaticResolver struct {
	mu    sync.RWMutex
	pages map[string]entity.Visit
	def   *entity.Visit
}

var _ port.ActiveContextResolver = (*StaticResolver)(nil)

// NewStaticResolver creates an empty resolver.
func NewStaticResolver() *StaticResolver {
	return &StaticResolver{pages: make(map[string]entity.Visit)}
}

// SetDefault registers the page returned for empty or unknown hints.
// An empty URL clears it.
func (r *StaticResolver) SetDefault(visit entity.Visit) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(visit.URL) == "" {
		r.def = nil
		return
	}
	r.def = &visit
}

// Set registers the page for a hint (a tab or window id, for instance).
func (r *StaticResolver) Set(hint string, visit entity.Visit) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pages[hint] = visit
}

// Remove forgets the page for a hint.
func (r *StaticResolver) Remove(hint string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pages, hint)
}

// ResolveActive returns a copy of the page for hint, or nil when nothing is active.
func (r *StaticResolver) ResolveActive(ctx context.Context, hint string) (*entity.Visit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if hint != "" {
		if v, ok := r.pages[hint]; ok {
			return &v, nil
		}
	}
	if r.def == nil {
		return nil, nil
	}
	v := *r.def
	return &v, nil
}
