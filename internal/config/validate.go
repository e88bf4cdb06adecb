package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Validate checks all fields in the config and returns all errors at once.
func Validate(cfg *Config) error {
	var errs []string

	switch strings.ToLower(cfg.API) {
	case "", "openai", "claude", "anthropic":
	default:
		errs = append(errs, fmt.Sprintf("api: must be openai or claude, got %q", cfg.API))
	}

	if cfg.Pattern != "" {
		if _, err := filepath.Match(cfg.Pattern, ""); err != nil {
			errs = append(errs, fmt.Sprintf("pattern: invalid glob %q", cfg.Pattern))
		}
	}

	if cfg.Delay != "" {
		if d, err := time.ParseDuration(cfg.Delay); err != nil {
			errs = append(errs, fmt.Sprintf("delay: invalid duration %q", cfg.Delay))
		} else if d < 0 {
			errs = append(errs, fmt.Sprintf("delay: must be non-negative, got %s", cfg.Delay))
		}
	}

	if cfg.MaxRetries != nil && *cfg.MaxRetries < 0 {
		errs = append(errs, fmt.Sprintf("max_retries: must be non-negative, got %d", *cfg.MaxRetries))
	}

	if cfg.TruncateChars < 0 {
		errs = append(errs, fmt.Sprintf("truncate_chars: must be non-negative, got %d", cfg.TruncateChars))
	}

	if cfg.Timeout != "" {
		if d, err := time.ParseDuration(cfg.Timeout); err != nil {
			errs = append(errs, fmt.Sprintf("timeout: invalid duration %q", cfg.Timeout))
		} else if d <= 0 {
			errs = append(errs, fmt.Sprintf("timeout: must be positive, got %s", cfg.Timeout))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
