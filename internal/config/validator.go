package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// Validator validates configuration values.
type Validator struct{}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks the full configuration.
func (v *Validator) Validate(cfg *Config) error {
	if err := v.ValidateExtensions(cfg.Indexing.AllowedExtensions); err != nil {
		return err
	}
	if cfg.Indexing.Workers < 0 {
		return fmt.Errorf("indexing workers cannot be negative")
	}
	if cfg.Indexing.Schedule != "" {
		if err := v.ValidateSchedule(cfg.Indexing.Schedule); err != nil {
			return err
		}
	}
	if err := v.ValidateProvider(cfg.Search.Provider); err != nil {
		return err
	}
	if cfg.Search.TopK < 0 {
		return fmt.Errorf("top_k cannot be negative")
	}
	if err := v.ValidateLogLevel(cfg.Logging.Level); err != nil {
		return err
	}
	return nil
}

// ValidateExtensions checks that every extension starts with a dot.
func (v *Validator) ValidateExtensions(exts []string) error {
	for _, ext := range exts {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("invalid extension %q (must start with a dot)", ext)
		}
	}
	return nil
}

// ValidateProvider checks the embedding provider name.
func (v *Validator) ValidateProvider(provider string) error {
	switch provider {
	case "", "openai", "ollama", "none":
		return nil
	}
	return fmt.Errorf("unknown embedding provider %q (expected openai, ollama or none)", provider)
}

// ValidateSchedule checks a cron expression.
func (v *Validator) ValidateSchedule(expr string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(expr); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return nil
}

// ValidateLogLevel checks a log level name.
func (v *Validator) ValidateLogLevel(level string) error {
	switch level {
	case "", "trace", "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("invalid log level %q", level)
}
