package config

// Default configuration constants
const (
	// Source defaults
	defaultSourceMaxAgeDays = 90
	defaultSourceMaxRecords = 5000

	// History defaults
	defaultHistoryCapacity = 6000
	defaultRecentCacheSize = 6

	// Search defaults
	defaultMaxResults         = 6
	defaultUIMaxResults       = 40
	defaultDebounceMs         = 30
	defaultActiveMatchBonus   = 15.0
	defaultNarrowingCacheSize = 1

	// Logging defaults
	defaultLogMaxSizeMB  = 10
	defaultLogMaxBackups = 3
	defaultMaxLogAgeDays = 7 // days
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			Kind:       SourceKindSQLite,
			Dialect:    "recall",
			MaxAgeDays: defaultSourceMaxAgeDays,
			MaxRecords: defaultSourceMaxRecords,
			// Path is resolved in Load when empty
		},
		History: HistoryConfig{
			Capacity:        defaultHistoryCapacity,
			RecentCacheSize: defaultRecentCacheSize,
		},
		Search: SearchConfig{
			MaxResults:         defaultMaxResults,
			UIMaxResults:       defaultUIMaxResults,
			DebounceMs:         defaultDebounceMs,
			ActiveMatchBonus:   defaultActiveMatchBonus,
			Narrowing:          true,
			NarrowingCacheSize: defaultNarrowingCacheSize,
		},
		Logging: LoggingConfig{
			Level:         "info",
			Format:        "console",
			EnableFileLog: false,
			MaxSizeMB:     defaultLogMaxSizeMB,
			MaxBackups:    defaultLogMaxBackups,
			MaxAge:        defaultMaxLogAgeDays,
			Compress:      true,
			// LogDir is resolved in Load when empty
		},
	}
}
