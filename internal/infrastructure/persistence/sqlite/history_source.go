package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/recall/internal/application/port"
	"github.com/bnema/recall/internal/domain/entity"
	"github.com/bnema/recall/internal/logging"
)

// Dialect selects the table layout and timestamp encoding of a history database.
type Dialect string

const (
	// DialectRecall is recall's own database (epoch milliseconds).
	DialectRecall Dialect = "recall"
	// DialectChromium reads the urls table of a Chromium History file
	// (microseconds since 1601-01-01).
	DialectChromium Dialect = "chromium"
	// DialectFirefox reads moz_places of a Firefox places.sqlite (epoch microseconds).
	DialectFirefox Dialect = "firefox"
)

// chromiumEpochOffsetMs is the distance between 1601-01-01 and 1970-01-01 in ms.
const chromiumEpochOffsetMs int64 = 11644473600000

// ErrReadOnlySource is returned by SaveVisit on browser databases.
var ErrReadOnlySource = errors.New("history source is read-only")

// ParseDialect validates a dialect name.
func ParseDialect(name string) (Dialect, error) {
	switch d := Dialect(name); d {
	case DialectRecall, DialectChromium, DialectFirefox:
		return d, nil
	default:
		return "", fmt.Errorf("unknown sqlite dialect %q", name)
	}
}

// SourceOptions filters what LoadVisits returns.
type SourceOptions struct {
	// MaxAge drops visits older than now-MaxAge. Zero keeps everything.
	MaxAge time.Duration
	// MaxRecords caps the number of rows, most recent first. Zero means no cap.
	MaxRecords int
	// Now overrides the clock used for MaxAge.
	Now func() time.Time
}

// HistorySource reads visits from a SQLite history database.
type HistorySource struct {
	db      *sql.DB
	dialect Dialect
	opts    SourceOptions
}

var (
	_ port.HistorySource = (*HistorySource)(nil)
	_ port.VisitRecorder = (*HistorySource)(nil)
)

// NewHistorySource creates a source over an open database.
func NewHistorySource(db *sql.DB, dialect Dialect, opts SourceOptions) (*HistorySource, error) {
	if db == nil {
		return nil, fmt.Errorf("database cannot be nil")
	}
	if _, err := ParseDialect(string(dialect)); err != nil {
		return nil, err
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &HistorySource{db: db, dialect: dialect, opts: opts}, nil
}

// Dialect returns the dialect the source reads.
func (s *HistorySource) Dialect() Dialect {
	return s.dialect
}

const (
	selectRecall = `SELECT url, title, visit_count, last_visit_time
FROM history
WHERE last_visit_time >= ?
ORDER BY last_visit_time DESC
LIMIT ?`

	selectChromium = `SELECT url, COALESCE(title, ''), visit_count, last_visit_time
FROM urls
WHERE hidden = 0 AND last_visit_time >= ?
ORDER BY last_visit_time DESC
LIMIT ?`

	selectFirefox = `SELECT url, COALESCE(title, ''), visit_count, last_visit_date
FROM moz_places
WHERE hidden = 0 AND last_visit_date IS NOT NULL AND last_visit_date >= ?
ORDER BY last_visit_date DESC
LIMIT ?`
)

// LoadVisits returns the filtered visits, most recent first.
func (s *HistorySource) LoadVisits(ctx context.Context) ([]entity.Visit, error) {
	log := logging.FromContext(ctx)

	query, cutoff := s.selectQuery()
	limit := int64(-1) // SQLite: negative LIMIT means no limit
	if s.opts.MaxRecords > 0 {
		limit = int64(s.opts.MaxRecords)
	}

	rows, err := s.db.QueryContext(ctx, query, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s history: %w", s.dialect, err)
	}
	defer rows.Close()

	var visits []entity.Visit
	for rows.Next() {
		var (
			rawURL, title string
			count, stamp  int64
		)
		if err := rows.Scan(&rawURL, &title, &count, &stamp); err != nil {
			return nil, fmt.Errorf("failed to scan %s history row: %w", s.dialect, err)
		}
		ms := s.toUnixMilli(stamp)
		visits = append(visits, entity.Visit{
			URL:           rawURL,
			Title:         title,
			VisitCount:    &count,
			LastVisitTime: &ms,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s history: %w", s.dialect, err)
	}

	log.Debug().
		Str("dialect", string(s.dialect)).
		Int("rows", len(visits)).
		Msg("history rows loaded")

	return visits, nil
}

const (
	upsertCounted = `INSERT INTO history (url, title, visit_count, last_visit_time)
VALUES (?, ?, ?, ?)
ON CONFLICT(url) DO UPDATE SET
	title = CASE WHEN excluded.title != '' THEN excluded.title ELSE history.title END,
	visit_count = excluded.visit_count,
	last_visit_time = excluded.last_visit_time`

	upsertIncrement = `INSERT INTO history (url, title, visit_count, last_visit_time)
VALUES (?, ?, 1, ?)
ON CONFLICT(url) DO UPDATE SET
	title = CASE WHEN excluded.title != '' THEN excluded.title ELSE history.title END,
	visit_count = history.visit_count + 1,
	last_visit_time = excluded.last_visit_time`
)

// SaveVisit upserts a visit into recall's own database.
// Without an explicit count the stored count is incremented.
func (s *HistorySource) SaveVisit(ctx context.Context, visit entity.Visit) error {
	if s.dialect != DialectRecall {
		return ErrReadOnlySource
	}
	if visit.URL == "" {
		return fmt.Errorf("visit url cannot be empty")
	}

	stamp := s.opts.Now().UnixMilli()
	if visit.LastVisitTime != nil {
		stamp = *visit.LastVisitTime
	}

	var err error
	if visit.VisitCount != nil {
		_, err = s.db.ExecContext(ctx, upsertCounted, visit.URL, visit.Title, *visit.VisitCount, stamp)
	} else {
		_, err = s.db.ExecContext(ctx, upsertIncrement, visit.URL, visit.Title, stamp)
	}
	if err != nil {
		return fmt.Errorf("failed to save visit: %w", err)
	}
	return nil
}

// DeleteOlderThan removes native entries last visited before cutoff.
func (s *HistorySource) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if s.dialect != DialectRecall {
		return 0, ErrReadOnlySource
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM history WHERE last_visit_time < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to delete old history: %w", err)
	}
	return res.RowsAffected()
}

func (s *HistorySource) selectQuery() (string, int64) {
	var cutoffMs int64
	if s.opts.MaxAge > 0 {
		cutoffMs = s.opts.Now().Add(-s.opts.MaxAge).UnixMilli()
	}

	switch s.dialect {
	case DialectChromium:
		if cutoffMs == 0 {
			return selectChromium, 0
		}
		return selectChromium, (cutoffMs + chromiumEpochOffsetMs) * 1000
	case DialectFirefox:
		return selectFirefox, cutoffMs * 1000
	default:
		return selectRecall, cutoffMs
	}
}

func (s *HistorySource) toUnixMilli(stamp int64) int64 {
	if stamp <= 0 {
		return 0
	}
	switch s.dialect {
	case DialectChromium:
		ms := stamp/1000 - chromiumEpochOffsetMs
		if ms < 0 {
			return 0
		}
		return ms
	case DialectFirefox:
		return stamp / 1000
	default:
		return stamp
	}
}
