package config

import (
	"fmt"
	"strings"
)

const (
	DefaultMinSize            = 1024
	DefaultReductionThreshold = 0.10
	DefaultContextLines       = 3
	DefaultLogLevel           = "info"
	DefaultLogFormat          = "text"
	DefaultJournalPath        = ".splice/journal.db"
)

var validLevels = map[string]bool{
	"trace": true, "debug": true, "info": true,
	"warn": true, "warning": true, "error": true,
	"fatal": true, "panic": true,
}

var validFormats = map[string]bool{
	"text": true,
	"json": true,
}

// Validate checks the config for errors and sets defaults.
func Validate(cfg *Config) error {
	if n := cfg.Guard.MinSize; n != nil && *n < 0 {
		return fmt.Errorf("config: guard: 'min-size' must be >= 0, got %d", *n)
	}
	if t := cfg.Guard.ReductionThreshold; t != nil && (*t < 0 || *t >= 1) {
		return fmt.Errorf("config: guard: 'reduction-threshold' must be in [0, 1), got %g", *t)
	}

	if n := cfg.Preview.ContextLines; n != nil && *n < 0 {
		return fmt.Errorf("config: preview: 'context-lines' must be >= 0, got %d", *n)
	}

	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if !validLevels[cfg.Log.Level] {
		return fmt.Errorf("config: log: unknown level %q (valid: trace, debug, info, warn, error)", cfg.Log.Level)
	}

	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if !validFormats[cfg.Log.Format] {
		return fmt.Errorf("config: log: unknown format %q (valid: text, json)", cfg.Log.Format)
	}

	return nil
}
