package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config     *Config
	viper      *viper.Viper
	configFile string
	mu         sync.RWMutex
	callbacks  []func(*Config)
	watching   bool
}

// NewManager creates a manager for the XDG config file.
func NewManager() (*Manager, error) {
	configFile, err := GetConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config directory: %w\nCheck XDG_CONFIG_HOME environment variable or HOME directory", err)
	}
	return NewManagerWithFile(configFile)
}

// NewManagerWithFile creates a manager for an explicit config file path.
func NewManagerWithFile(configFile string) (*Manager, error) {
	if configFile == "" {
		return NewManager()
	}

	v := viper.New()
	v.SetConfigFile(configFile)
	v.SetConfigType("toml")

	// RECALL_SEARCH_MAX_RESULTS, RECALL_SOURCE_PATH, ...
	v.SetEnvPrefix("RECALL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("logging.level", "RECALL_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind RECALL_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("logging.format", "RECALL_LOG_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind RECALL_LOG_FORMAT: %w", err)
	}

	return &Manager{
		viper:      v,
		configFile: configFile,
		callbacks:  make([]func(*Config), 0),
	}, nil
}

// Load loads the configuration from file and environment variables.
// A missing file is created with the defaults.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setDefaults()

	if err := m.readConfigFile(); err != nil {
		return err
	}

	config, err := m.unmarshalConfig()
	if err != nil {
		return err
	}
	if err := resolvePaths(config); err != nil {
		return err
	}
	normalizeConfig(config)

	if err := validateConfig(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	m.config = config
	return nil
}

func (m *Manager) readConfigFile() error {
	if _, err := os.Stat(m.configFile); os.IsNotExist(err) {
		if createErr := m.createDefaultConfig(); createErr != nil {
			return fmt.Errorf(
				"failed to create default config at %s: %w\nTry creating the directory manually or check permissions",
				m.configFile,
				createErr,
			)
		}
	}

	if err := m.viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file at %s: %w\nCheck the file format (must be valid TOML) and permissions", m.configFile, err)
	}
	return nil
}

func (m *Manager) unmarshalConfig() (*Config, error) {
	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf(
			"failed to parse config file at %s: %w\nCheck for syntax errors, invalid values, or type mismatches",
			m.configFile,
			err,
		)
	}
	return config, nil
}

// resolvePaths fills the XDG locations left empty in the file.
func resolvePaths(config *Config) error {
	if config.Source.Path == "" && config.Source.Kind == SourceKindSQLite {
		dbPath, err := GetDatabaseFile()
		if err != nil {
			return fmt.Errorf("failed to get database path: %w", err)
		}
		config.Source.Path = dbPath
	}
	if config.Logging.LogDir == "" {
		logDir, err := GetLogDir()
		if err != nil {
			return fmt.Errorf("failed to get log directory: %w", err)
		}
		config.Logging.LogDir = logDir
	}
	return nil
}

func normalizeConfig(config *Config) {
	switch SourceKind(strings.ToLower(strings.TrimSpace(string(config.Source.Kind)))) {
	case "", SourceKindSQLite:
		config.Source.Kind = SourceKindSQLite
	case SourceKindJSON:
		config.Source.Kind = SourceKindJSON
	}

	config.Source.Dialect = strings.ToLower(strings.TrimSpace(config.Source.Dialect))
	if config.Source.Dialect == "" {
		config.Source.Dialect = "recall"
	}
	config.Source.Path = expandHome(strings.TrimSpace(config.Source.Path))
	config.Logging.LogDir = expandHome(strings.TrimSpace(config.Logging.LogDir))

	config.Logging.Level = strings.ToLower(strings.TrimSpace(config.Logging.Level))
	switch strings.ToLower(config.Logging.Format) {
	case "json":
		config.Logging.Format = "json"
	case "text", "console", "":
		config.Logging.Format = "console"
	}
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Get returns the current configuration (thread-safe).
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return DefaultConfig()
	}
	// Return a copy to prevent external modification
	configCopy := *m.config
	return &configCopy
}

// GetConfigFile returns the path to the configuration file being used.
func (m *Manager) GetConfigFile() string {
	return m.configFile
}

// createDefaultConfig writes the defaults and the JSON schema next to the config file.
func (m *Manager) createDefaultConfig() error {
	dir := filepath.Dir(m.configFile)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return err
	}
	if err := WriteConfigOrdered(DefaultConfig(), m.configFile); err != nil {
		return err
	}
	if err := WriteSchemaFile(filepath.Join(dir, "config.schema.json")); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Created default configuration file: %s (TOML format)\n", m.configFile)
	return nil
}

// setDefaults sets default configuration values in Viper.
func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	m.setSourceDefaults(defaults)
	m.setHistoryDefaults(defaults)
	m.setSearchDefaults(defaults)
	m.setLoggingDefaults(defaults)
}

func (m *Manager) setSourceDefaults(defaults *Config) {
	m.viper.SetDefault("source.kind", string(defaults.Source.Kind))
	m.viper.SetDefault("source.path", defaults.Source.Path)
	m.viper.SetDefault("source.dialect", defaults.Source.Dialect)
	m.viper.SetDefault("source.max_age_days", defaults.Source.MaxAgeDays)
	m.viper.SetDefault("source.max_records", defaults.Source.MaxRecords)
}

func (m *Manager) setHistoryDefaults(defaults *Config) {
	m.viper.SetDefault("history.capacity", defaults.History.Capacity)
	m.viper.SetDefault("history.recent_cache_size", defaults.History.RecentCacheSize)
}

func (m *Manager) setSearchDefaults(defaults *Config) {
	m.viper.SetDefault("search.max_results", defaults.Search.MaxResults)
	m.viper.SetDefault("search.ui_max_results", defaults.Search.UIMaxResults)
	m.viper.SetDefault("search.debounce_ms", defaults.Search.DebounceMs)
	m.viper.SetDefault("search.active_match_bonus", defaults.Search.ActiveMatchBonus)
	m.viper.SetDefault("search.narrowing", defaults.Search.Narrowing)
	m.viper.SetDefault("search.narrowing_cache_size", defaults.Search.NarrowingCacheSize)
}

func (m *Manager) setLoggingDefaults(defaults *Config) {
	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)
	m.viper.SetDefault("logging.enable_file_log", defaults.Logging.EnableFileLog)
	m.viper.SetDefault("logging.log_dir", defaults.Logging.LogDir)
	m.viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	m.viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	m.viper.SetDefault("logging.max_age", defaults.Logging.MaxAge)
	m.viper.SetDefault("logging.compress", defaults.Logging.Compress)
}
