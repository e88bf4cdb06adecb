package config

import "time"

// Settings are the effective scan settings after merging CLI flags with
// the config file. Zero values mean "not set"; negative Delay,
// MaxRetries, or TruncateChars mean "explicitly disabled" and survive
// the merge.
type Settings struct {
	API           string
	Model         string
	Pattern       string
	OutputDir     string
	Delay         time.Duration
	MaxRetries    int
	TruncateChars int
	Timeout       time.Duration
}

// Merge combines file-based config with CLI-provided settings.
// CLI values take precedence; zero-value CLI fields fall through to file
// config. File-level zero durations and retries map to the disabled
// sentinel so they are not mistaken for "unset" downstream.
func Merge(fileCfg *Config, cli Settings) Settings {
	result := cli

	if result.API == "" && fileCfg.API != "" {
		result.API = fileCfg.API
	}
	if result.Model == "" && fileCfg.Model != "" {
		result.Model = fileCfg.Model
	}
	if result.Pattern == "" && fileCfg.Pattern != "" {
		result.Pattern = fileCfg.Pattern
	}
	if result.OutputDir == "" && fileCfg.OutputDir != "" {
		result.OutputDir = fileCfg.OutputDir
	}

	if result.Delay == 0 && fileCfg.Delay != "" {
		if d, err := time.ParseDuration(fileCfg.Delay); err == nil {
			result.Delay = d
			if d == 0 {
				result.Delay = -1
			}
		}
	}

	if result.MaxRetries == 0 && fileCfg.MaxRetries != nil {
		result.MaxRetries = *fileCfg.MaxRetries
		if *fileCfg.MaxRetries == 0 {
			result.MaxRetries = -1
		}
	}

	if result.TruncateChars == 0 && fileCfg.TruncateChars > 0 {
		result.TruncateChars = fileCfg.TruncateChars
	}

	if result.Timeout == 0 && fileCfg.Timeout != "" {
		if d, err := time.ParseDuration(fileCfg.Timeout); err == nil && d > 0 {
			result.Timeout = d
		}
	}

	return result
}
