// Package scanner drives the scan: it enumerates candidate files, loads and
// truncates their content, submits each one to an LLM provider with retry,
// and assembles the results into a report.
package scanner

import (
	"time"

	"github.com/davetashner/llmscan/internal/report"
)

// Defaults applied by Config.applyDefaults.
const (
	// DefaultPattern matches the C sources the scan targets out of the box.
	DefaultPattern = "*.c"

	// DefaultDelay is the pause between consecutive file submissions,
	// keeping the request rate polite.
	DefaultDelay = 1 * time.Second

	// DefaultMaxRetries is how many times a transient provider error is
	// retried after the first attempt.
	DefaultMaxRetries = 3

	// DefaultTruncateChars caps file content before prompt assembly so
	// oversized files stay within model context limits.
	DefaultTruncateChars = 8000

	// DefaultRequestTimeout bounds a single provider request.
	DefaultRequestTimeout = 120 * time.Second

	// defaultTemperature keeps verdicts near-deterministic.
	defaultTemperature = 0.1
)

// Config holds the runtime knobs for a scan.
type Config struct {
	// Root is the directory to scan. The CLI resolves it to an absolute
	// path before handing it over.
	Root string

	// Pattern is a glob matched against file base names.
	Pattern string

	// Limit caps the number of files scanned. Zero means no cap.
	Limit int

	// Delay is the pause between files. It is not applied after the last
	// file. Zero selects the default; negative disables the pause.
	Delay time.Duration

	// MaxRetries is the number of retries after the first attempt for
	// transient provider errors. Zero selects the default; negative
	// disables retries.
	MaxRetries int

	// TruncateChars caps file content (in characters) before prompt
	// assembly. Zero selects the default; negative disables truncation.
	TruncateChars int

	// RequestTimeout bounds each provider request, including retries of
	// the same file individually.
	RequestTimeout time.Duration

	// OnResult, when set, is called with each finished result. The CLI
	// uses it to print per-file status lines.
	OnResult func(report.Result)
}

func (c *Config) applyDefaults() {
	if c.Pattern == "" {
		c.Pattern = DefaultPattern
	}
	switch {
	case c.Delay == 0:
		c.Delay = DefaultDelay
	case c.Delay < 0:
		c.Delay = 0
	}
	switch {
	case c.MaxRetries == 0:
		c.MaxRetries = DefaultMaxRetries
	case c.MaxRetries < 0:
		c.MaxRetries = 0
	}
	if c.TruncateChars == 0 {
		c.TruncateChars = DefaultTruncateChars
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
}
