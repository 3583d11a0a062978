package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver" // SQLite driver (pure Go)
	_ "github.com/ncruces/go-sqlite3/embed"  // Embed SQLite WASM binary

	"github.com/bnema/recall/internal/logging"
)

// NewConnection opens (creating if needed) recall's own history database,
// applies pragmas and runs migrations.
func NewConnection(ctx context.Context, dbPath string) (*sql.DB, error) {
	const dbDirPerm = 0o750
	log := logging.FromContext(ctx)

	if dbPath == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), dbDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool (must be done before any queries)
	configurePool(db)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := applyPragmas(ctx, db, writablePragmas); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Debug().Str("path", dbPath).Msg("database connection established")

	return db, nil
}

// Snapshot is a read-only copy of a browser profile database.
// Browsers keep their history database locked while running, so it is copied
// (with its WAL file) into a temp dir before opening.
type Snapshot struct {
	DB  *sql.DB
	dir string
}

// OpenSnapshot copies dbPath to a temp dir and opens the copy read-only.
func OpenSnapshot(ctx context.Context, dbPath string) (*Snapshot, error) {
	log := logging.FromContext(ctx)

	if dbPath == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("failed to stat browser database: %w", err)
	}

	dir, err := os.MkdirTemp("", "recall-snapshot-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	copyPath := filepath.Join(dir, filepath.Base(dbPath))
	for _, suffix := range []string{"", "-wal"} {
		err := copyFile(dbPath+suffix, copyPath+suffix)
		if err == nil || (suffix != "" && os.IsNotExist(err)) {
			continue
		}
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to copy browser database: %w", err)
	}

	dsn := (&url.URL{Scheme: "file", Path: copyPath, RawQuery: "mode=ro"}).String()
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to open database snapshot: %w", err)
	}
	configurePool(db)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to connect to database snapshot: %w", err)
	}
	if err := applyPragmas(ctx, db, readOnlyPragmas); err != nil {
		_ = db.Close()
		_ = os.RemoveAll(dir)
		return nil, err
	}

	log.Debug().Str("source", dbPath).Str("snapshot", copyPath).Msg("browser database snapshot opened")

	return &Snapshot{DB: db, dir: dir}, nil
}

// Close closes the connection and removes the copied files.
func (s *Snapshot) Close() error {
	if s == nil {
		return nil
	}
	err := Close(s.DB)
	if rmErr := os.RemoveAll(s.dir); rmErr != nil && err == nil {
		err = fmt.Errorf("failed to remove snapshot: %w", rmErr)
	}
	return err
}

var (
	writablePragmas = []string{
		"PRAGMA journal_mode = WAL",   // Write-Ahead Logging for concurrent access
		"PRAGMA synchronous = NORMAL", // Safe in WAL mode
		"PRAGMA cache_size = -16000",  // 16MB cache
		"PRAGMA temp_store = MEMORY",
		"PRAGMA busy_timeout = 5000", // Wait 5 seconds on lock contention
	}
	readOnlyPragmas = []string{
		"PRAGMA query_only = ON",
		"PRAGMA temp_store = MEMORY",
		"PRAGMA busy_timeout = 5000",
	}
)

func applyPragmas(ctx context.Context, db *sql.DB, pragmas []string) error {
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}
	return nil
}

// configurePool sets connection pool parameters for SQLite.
// SQLite only supports one writer at a time, so we limit connections.
func configurePool(db *sql.DB) {
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)
}

// Close closes the database connection gracefully.
func Close(db *sql.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
