package config

import (
	"fmt"
	"strings"
)

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "warning": true,
	"error": true, "fatal": true, "disabled": true, "off": true,
}

var validDialects = map[string]bool{"recall": true, "chromium": true, "firefox": true}

// validateConfig performs comprehensive validation of configuration values
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateSource(config)...)
	validationErrors = append(validationErrors, validateHistory(config)...)
	validationErrors = append(validationErrors, validateSearch(config)...)
	validationErrors = append(validationErrors, validateLogging(config)...)

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}
	return nil
}

func validateSource(config *Config) []string {
	var validationErrors []string
	switch config.Source.Kind {
	case SourceKindSQLite:
		if !validDialects[config.Source.Dialect] {
			validationErrors = append(validationErrors,
				fmt.Sprintf("source.dialect must be one of recall, chromium, firefox (got %q)", config.Source.Dialect))
		}
	case SourceKindJSON:
		if config.Source.Path == "" {
			validationErrors = append(validationErrors, "source.path is required when source.kind is json")
		}
	default:
		validationErrors = append(validationErrors,
			fmt.Sprintf("source.kind must be sqlite or json (got %q)", config.Source.Kind))
	}
	if config.Source.MaxAgeDays < 0 {
		validationErrors = append(validationErrors, "source.max_age_days must be non-negative")
	}
	if config.Source.MaxRecords < 0 {
		validationErrors = append(validationErrors, "source.max_records must be non-negative")
	}
	return validationErrors
}

func validateHistory(config *Config) []string {
	var validationErrors []string
	if config.History.Capacity < 1 {
		validationErrors = append(validationErrors, "history.capacity must be at least 1")
	}
	if config.History.RecentCacheSize < 0 {
		validationErrors = append(validationErrors, "history.recent_cache_size must be non-negative")
	}
	return validationErrors
}

func validateSearch(config *Config) []string {
	var validationErrors []string
	if config.Search.MaxResults < 1 {
		validationErrors = append(validationErrors, "search.max_results must be at least 1")
	}
	if config.Search.UIMaxResults < 1 {
		validationErrors = append(validationErrors, "search.ui_max_results must be at least 1")
	}
	if config.Search.DebounceMs < 0 {
		validationErrors = append(validationErrors, "search.debounce_ms must be non-negative")
	}
	if config.Search.ActiveMatchBonus < 0 {
		validationErrors = append(validationErrors, "search.active_match_bonus must be non-negative")
	}
	if config.Search.NarrowingCacheSize < 1 {
		validationErrors = append(validationErrors, "search.narrowing_cache_size must be at least 1")
	}
	return validationErrors
}

func validateLogging(config *Config) []string {
	var validationErrors []string
	if !validLogLevels[config.Logging.Level] {
		validationErrors = append(validationErrors,
			fmt.Sprintf("logging.level must be one of trace, debug, info, warn, error (got %q)", config.Logging.Level))
	}
	if config.Logging.Format != "console" && config.Logging.Format != "json" {
		validationErrors = append(validationErrors,
			fmt.Sprintf("logging.format must be console or json (got %q)", config.Logging.Format))
	}
	if config.Logging.EnableFileLog && config.Logging.MaxSizeMB < 1 {
		validationErrors = append(validationErrors, "logging.max_size_mb must be at least 1")
	}
	if config.Logging.MaxBackups < 0 {
		validationErrors = append(validationErrors, "logging.max_backups must be non-negative")
	}
	if config.Logging.MaxAge < 0 {
		validationErrors = append(validationErrors, "logging.max_age must be non-negative")
	}
	return validationErrors
}
