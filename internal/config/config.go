// Package config handles .llmscan.yaml configuration files.
package config

// Config represents the contents of a .llmscan.yaml file. Durations are
// stored as strings ("1s", "2m") and parsed during merge.
type Config struct {
	API           string `yaml:"api,omitempty"`
	Model         string `yaml:"model,omitempty"`
	Pattern       string `yaml:"pattern,omitempty"`
	OutputDir     string `yaml:"output_dir,omitempty"`
	Delay         string `yaml:"delay,omitempty"`
	MaxRetries    *int   `yaml:"max_retries,omitempty"`
	TruncateChars int    `yaml:"truncate_chars,omitempty"`
	Timeout       string `yaml:"timeout,omitempty"`
}

// FileName is the expected config file name in the working directory.
const FileName = ".llmscan.yaml"
