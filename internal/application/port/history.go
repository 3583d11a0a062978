// Package port defines interfaces for infrastructure adapters.
package port

import (
	"context"

	"github.com/bnema/recall/internal/domain/entity"
)

// HistorySource bulk-loads visit records at startup or on reload.
type HistorySource interface {
	// LoadVisits returns every visit the source is willing to expose.
	// Sources apply their own age and count limits.
	LoadVisits(ctx context.Context) ([]entity.Visit, error)
}

// VisitRecorder persists visit events so they survive a reload.
// Read-only sources (browser profiles, JSON exports) do not implement it.
type VisitRecorder interface {
	SaveVisit(ctx context.Context, visit entity.Visit) error
}

// ActiveContextResolver resolves what the user is currently looking at.
// It returns nil, nil when nothing is active.
type ActiveContextResolver interface {
	ResolveActive(ctx context.Context, hint string) (*entity.Visit, error)
}
