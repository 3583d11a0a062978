package config

// Config represents the complete configuration for recall.
type Config struct {
	// Source selects where history is bulk-loaded from.
	Source SourceConfig `mapstructure:"source" toml:"source" json:"source"`
	// History sizes the in-memory store. Changes apply on the next start.
	History HistoryConfig `mapstructure:"history" toml:"history" json:"history"`
	// Search tunes ranking and live search. Changes apply immediately.
	Search  SearchConfig  `mapstructure:"search" toml:"search" json:"search"`
	Logging LoggingConfig `mapstructure:"logging" toml:"logging" json:"logging"`
}

// SourceKind selects the history source adapter.
type SourceKind string

const (
	SourceKindSQLite SourceKind = "sqlite"
	SourceKindJSON   SourceKind = "json"
)

// SourceConfig configures the bulk history source.
type SourceConfig struct {
	Kind SourceKind `mapstructure:"kind" toml:"kind" json:"kind" jsonschema:"enum=sqlite,enum=json"`
	// Path of the database or JSON file. Empty uses recall's own database.
	Path string `mapstructure:"path" toml:"path" json:"path"`
	// Dialect of a sqlite source: recall, chromium or firefox.
	Dialect    string `mapstructure:"dialect" toml:"dialect" json:"dialect" jsonschema:"enum=recall,enum=chromium,enum=firefox"`
	MaxAgeDays int    `mapstructure:"max_age_days" toml:"max_age_days" json:"max_age_days" jsonschema:"minimum=0"`
	MaxRecords int    `mapstructure:"max_records" toml:"max_records" json:"max_records" jsonschema:"minimum=0"`
}

// HistoryConfig sizes the in-memory history store.
type HistoryConfig struct {
	Capacity        int `mapstructure:"capacity" toml:"capacity" json:"capacity" jsonschema:"minimum=1"`
	RecentCacheSize int `mapstructure:"recent_cache_size" toml:"recent_cache_size" json:"recent_cache_size" jsonschema:"minimum=0"`
}

// SearchConfig tunes result counts, debouncing and ranking knobs.
type SearchConfig struct {
	// MaxResults is the default for one-shot searches.
	MaxResults int `mapstructure:"max_results" toml:"max_results" json:"max_results" jsonschema:"minimum=1"`
	// UIMaxResults is the default for live (as-you-type) searches.
	UIMaxResults       int     `mapstructure:"ui_max_results" toml:"ui_max_results" json:"ui_max_results" jsonschema:"minimum=1"`
	DebounceMs         int     `mapstructure:"debounce_ms" toml:"debounce_ms" json:"debounce_ms" jsonschema:"minimum=0"`
	ActiveMatchBonus   float64 `mapstructure:"active_match_bonus" toml:"active_match_bonus" json:"active_match_bonus" jsonschema:"minimum=0"`
	Narrowing          bool    `mapstructure:"narrowing" toml:"narrowing" json:"narrowing"`
	NarrowingCacheSize int     `mapstructure:"narrowing_cache_size" toml:"narrowing_cache_size" json:"narrowing_cache_size" jsonschema:"minimum=1"`
}

// LoggingConfig controls log level, format and the optional rotating log file.
type LoggingConfig struct {
	Level  string `mapstructure:"level" toml:"level" json:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error"`
	Format string `mapstructure:"format" toml:"format" json:"format" jsonschema:"enum=console,enum=json"`

	// File output configuration
	EnableFileLog bool   `mapstructure:"enable_file_log" toml:"enable_file_log" json:"enable_file_log"`
	LogDir        string `mapstructure:"log_dir" toml:"log_dir" json:"log_dir"`
	MaxSizeMB     int    `mapstructure:"max_size_mb" toml:"max_size_mb" json:"max_size_mb" jsonschema:"minimum=1"`
	MaxBackups    int    `mapstructure:"max_backups" toml:"max_backups" json:"max_backups" jsonschema:"minimum=0"`
	MaxAge        int    `mapstructure:"max_age" toml:"max_age" json:"max_age" jsonschema:"minimum=0"`
	Compress      bool   `mapstructure:"compress" toml:"compress" json:"compress"`
}
