// Package jsonfile reads history exports stored as JSON.
package jsonfile

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/bnema/recall/internal/application/port"
	"github.com/bnema/recall/internal/domain/entity"
	"github.com/bnema/recall/internal/logging"
)

// Options filters what LoadVisits returns.
type Options struct {
	// MaxAge drops visits older than now-MaxAge. Visits without a time are kept.
	MaxAge time.Duration
	// MaxRecords keeps only the most recent visits. Zero means no cap.
	MaxRecords int
	Now        func() time.Time
}

// HistorySource loads visits from a JSON array or a JSON Lines file.
type HistorySource struct {
	path string
	opts Options
}

var _ port.HistorySource = (*HistorySource)(nil)

// NewHistorySource creates a source for the file at path.
func NewHistorySource(path string, opts Options) *HistorySource {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &HistorySource{path: path, opts: opts}
}

// LoadVisits reads and filters the file. Order within the file is preserved
// unless MaxRecords forces a recency cut.
func (s *HistorySource) LoadVisits(ctx context.Context) ([]entity.Visit, error) {
	log := logging.FromContext(ctx)

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()

	visits, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode history file %s: %w", s.path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	total := len(visits)
	visits = s.filter(visits)

	log.Debug().
		Str("path", s.path).
		Int("records", total).
		Int("kept", len(visits)).
		Msg("history file loaded")

	return visits, nil
}

// Decode accepts either a single JSON array of visits or a stream of visit objects
// (JSON Lines).
func Decode(r io.Reader) ([]entity.Visit, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(br)
	if first == '[' {
		var visits []entity.Visit
		if err := dec.Decode(&visits); err != nil {
			return nil, err
		}
		return visits, nil
	}

	var visits []entity.Visit
	for {
		var v entity.Visit
		err := dec.Decode(&v)
		if errors.Is(err, io.EOF) {
			return visits, nil
		}
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", len(visits), err)
		}
		visits = append(visits, v)
	}
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, br.UnreadByte()
	}
}

func (s *HistorySource) filter(visits []entity.Visit) []entity.Visit {
	if s.opts.MaxAge > 0 {
		cutoff := s.opts.Now().Add(-s.opts.MaxAge).UnixMilli()
		kept := visits[:0]
		for _, v := range visits {
			if v.LastVisitTime == nil || *v.LastVisitTime >= cutoff {
				kept = append(kept, v)
			}
		}
		visits = kept
	}

	if s.opts.MaxRecords > 0 && len(visits) > s.opts.MaxRecords {
		sort.SliceStable(visits, func(i, j int) bool {
			return lastVisit(visits[i]) > lastVisit(visits[j])
		})
		visits = visits[:s.opts.MaxRecords]
	}
	return visits
}

func lastVisit(v entity.Visit) int64 {
	if v.LastVisitTime == nil {
		return 0
	}
	return *v.LastVisitTime
}
