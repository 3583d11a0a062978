// Package cli wires recall's components for the command line.
package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/bnema/recall/internal/application/port"
	"github.com/bnema/recall/internal/application/usecase"
	"github.com/bnema/recall/internal/cli/styles"
	"github.com/bnema/recall/internal/domain/build"
	"github.com/bnema/recall/internal/domain/entity"
	"github.com/bnema/recall/internal/infrastructure/activectx"
	"github.com/bnema/recall/internal/infrastructure/cache"
	"github.com/bnema/recall/internal/infrastructure/config"
	"github.com/bnema/recall/internal/infrastructure/persistence/jsonfile"
	"github.com/bnema/recall/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/recall/internal/logging"
)

// Options are the global flags that shape App construction.
type Options struct {
	// ConfigFile overrides the XDG config path.
	ConfigFile string
	// LogLevel overrides the configured level when set.
	LogLevel string
}

// App holds CLI dependencies.
type App struct {
	Config        *config.Config
	ConfigManager *config.Manager
	Theme         *styles.Theme
	BuildInfo     build.Info

	// History is the search use case, loaded from the configured source.
	History *usecase.SearchHistoryUseCase
	// Active resolves the current page for active-match merging.
	Active *activectx.StaticResolver
	// Native is recall's own database when the source is the native sqlite dialect.
	Native *sqlite.HistorySource

	db       *sql.DB
	snapshot *sqlite.Snapshot
	rotator  *logging.LogRotator
	ctx      context.Context
}

// NewApp loads configuration, opens the history source and loads it into memory.
func NewApp(opts Options) (*App, error) {
	mgr, err := config.NewManagerWithFile(opts.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}
	if err := mgr.Load(); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg := mgr.Get()

	app := &App{
		Config:        cfg,
		ConfigManager: mgr,
		Theme:         styles.NewTheme(),
		Active:        activectx.NewStaticResolver(),
	}

	logger, err := app.newLogger(cfg.Logging, opts.LogLevel)
	if err != nil {
		return nil, err
	}
	app.ctx = logging.WithContext(context.Background(), logger)

	source, err := app.openSource(app.ctx, cfg.Source)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	var recorder port.VisitRecorder
	if app.Native != nil {
		recorder = app.Native
	}

	ucCfg := usecase.SearchHistoryConfig{
		Capacity:     cfg.History.Capacity,
		RecentSize:   cfg.History.RecentCacheSize,
		DefaultLimit: cfg.Search.MaxResults,
		ActiveBonus:  cfg.Search.ActiveMatchBonus,
	}
	if cfg.Search.Narrowing {
		ucCfg.Narrowing = cache.NewLRU[string, []*entity.HistoryEntry](cfg.Search.NarrowingCacheSize)
	}
	app.History = usecase.NewSearchHistoryUseCase(source, app.Active, recorder, ucCfg)

	out, err := app.History.Reload(app.ctx)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	logger.Debug().
		Str("source", string(cfg.Source.Kind)).
		Str("path", cfg.Source.Path).
		Int("entries", out.Entries).
		Bool("degraded", out.Degraded).
		Msg("history ready")

	return app, nil
}

func (a *App) newLogger(cfg config.LoggingConfig, levelOverride string) (zerolog.Logger, error) {
	level := cfg.Level
	if levelOverride != "" {
		level = levelOverride
	}

	logCfg := logging.Config{
		Level:      logging.ParseLevel(level),
		Format:     cfg.Format,
		TimeFormat: "15:04:05",
	}
	if cfg.EnableFileLog {
		rotator, err := logging.NewLogRotator(logging.RotatorConfig{
			Dir:        cfg.LogDir,
			MaxSizeMB:  cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAgeDays: cfg.MaxAge,
			Compress:   cfg.Compress,
		})
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("failed to open log file: %w", err)
		}
		a.rotator = rotator
		logCfg.File = rotator
	}
	return logging.New(logCfg), nil
}

// openSource builds the configured bulk source. Browser databases are read from a snapshot.
func (a *App) openSource(ctx context.Context, cfg config.SourceConfig) (port.HistorySource, error) {
	maxAge := time.Duration(cfg.MaxAgeDays) * 24 * time.Hour

	if cfg.Kind == config.SourceKindJSON {
		return jsonfile.NewHistorySource(cfg.Path, jsonfile.Options{
			MaxAge:     maxAge,
			MaxRecords: cfg.MaxRecords,
		}), nil
	}

	dialect, err := sqlite.ParseDialect(cfg.Dialect)
	if err != nil {
		return nil, err
	}

	var db *sql.DB
	if dialect == sqlite.DialectRecall {
		db, err = sqlite.NewConnection(ctx, cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		a.db = db
	} else {
		snap, err := sqlite.OpenSnapshot(ctx, cfg.Path)
		if err != nil {
			// The store starts empty rather than refusing to run.
			logging.FromContext(ctx).Warn().Err(err).Str("path", cfg.Path).Msg("browser history unavailable")
			return nil, nil
		}
		a.snapshot = snap
		db = snap.DB
	}

	src, err := sqlite.NewHistorySource(db, dialect, sqlite.SourceOptions{
		MaxAge:     maxAge,
		MaxRecords: cfg.MaxRecords,
	})
	if err != nil {
		return nil, err
	}
	if dialect == sqlite.DialectRecall {
		a.Native = src
	}
	return src, nil
}

// Close releases all resources.
func (a *App) Close() error {
	var errs []error
	if a.snapshot != nil {
		errs = append(errs, a.snapshot.Close())
		a.snapshot = nil
	}
	if a.db != nil {
		errs = append(errs, sqlite.Close(a.db))
		a.db = nil
	}
	if a.rotator != nil {
		errs = append(errs, a.rotator.Close())
		a.rotator = nil
	}
	return errors.Join(errs...)
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// ApplyLiveSettings pushes the hot-reloadable search settings to running components.
func (a *App) ApplyLiveSettings(cfg *config.Config, live *usecase.LiveSearch) {
	a.Config = cfg
	a.History.ApplySettings(cfg.Search.MaxResults, cfg.Search.ActiveMatchBonus, cfg.Search.NarrowingCacheSize)
	if live != nil {
		live.SetDelay(time.Duration(cfg.Search.DebounceMs) * time.Millisecond)
		live.SetLimit(cfg.Search.UIMaxResults)
	}
	logging.FromContext(a.ctx).Info().
		Int("debounce_ms", cfg.Search.DebounceMs).
		Int("max_results", cfg.Search.MaxResults).
		Int("ui_max_results", cfg.Search.UIMaxResults).
		Int("narrowing_cache_size", cfg.Search.NarrowingCacheSize).
		Msg("search settings reloaded")
}
