// Copyright 2026 The llmscan Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/davetashner/llmscan/internal/config"
	"github.com/davetashner/llmscan/internal/provider"
	"github.com/davetashner/llmscan/internal/redact"
	"github.com/davetashner/llmscan/internal/report"
	"github.com/davetashner/llmscan/internal/scanner"
)

// Scan-specific flag values.
var (
	scanAPI        string
	scanKey        string
	scanModel      string
	scanOutput     string
	scanPattern    string
	scanTest       int
	scanDelay      string
	scanMaxRetries int
	scanTruncate   int
	scanTimeout    string
	scanStrict     bool
)

// newProvider builds the provider for a scan. Tests substitute a mock.
var newProvider = provider.New

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Scan C/C++ sources for buffer overflow vulnerabilities",
	Long: `Scan walks a directory tree, sends each matching source file to an LLM
provider, and writes a JSON report of the verdicts.

The provider is chosen with --api (openai or claude) and reads its key from
OPENAI_API_KEY or ANTHROPIC_API_KEY unless --key is given. Settings may also
come from a ` + config.FileName + ` file in the scanned directory; command-line
flags win over the file.

Examples:
  llmscan scan --api openai ./src
  llmscan scan --api claude -p '*.cpp' -t 5 ./vendor/lib
  llmscan scan --api openai -o audit.json --strict .`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanAPI, "api", "", "provider to use: openai or claude")
	scanCmd.Flags().StringVar(&scanKey, "key", "", "API key (overrides the provider's environment variable)")
	scanCmd.Flags().StringVar(&scanModel, "model", "", "model name (defaults to the provider's standard model)")
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "", "report file path (default results/scan_results_<api>_<timestamp>.json)")
	scanCmd.Flags().StringVarP(&scanPattern, "pattern", "p", "*.c", "glob matched against file names")
	scanCmd.Flags().IntVarP(&scanTest, "test", "t", 0, "scan only the first N matching files (0 scans all)")
	scanCmd.Flags().StringVar(&scanDelay, "delay", "1s", "pause between files; 0s disables the pause")
	scanCmd.Flags().IntVar(&scanMaxRetries, "max-retries", scanner.DefaultMaxRetries, "retries per file on transient provider errors; 0 disables retries")
	scanCmd.Flags().IntVar(&scanTruncate, "truncate-chars", scanner.DefaultTruncateChars, "truncate file content to this many characters before submission; 0 disables")
	scanCmd.Flags().StringVar(&scanTimeout, "timeout", "2m", "per-request timeout")
	scanCmd.Flags().BoolVar(&scanStrict, "strict", false, "exit non-zero when any file fails to scan")
}

func runScan(cmd *cobra.Command, args []string) error {
	scanPath := "."
	if len(args) > 0 {
		scanPath = args[0]
	}

	absPath, err := resolveScanPath(scanPath)
	if err != nil {
		return err
	}

	settings, err := resolveSettings(cmd, absPath)
	if err != nil {
		return err
	}

	if settings.API == "" {
		return exitError(ExitInvalidArgs, "llmscan: no provider selected (pass --api openai or --api claude, or set api in %s)", config.FileName)
	}
	if scanTest < 0 {
		return exitError(ExitInvalidArgs, "llmscan: --test must be non-negative (got %d)", scanTest)
	}

	if scanKey != "" {
		redact.Add(scanKey)
	}

	p, err := newProvider(settings.API,
		provider.WithAPIKey(scanKey),
		provider.WithModel(settings.Model),
	)
	if err != nil {
		var credErr *provider.CredentialError
		if errors.As(err, &credErr) {
			return exitError(ExitInvalidArgs, "llmscan: %v (export it or pass --key)", err)
		}
		return exitError(ExitInvalidArgs, "llmscan: %v", err)
	}

	out := cmd.OutOrStdout()
	s := scanner.New(p, scanner.Config{
		Root:           absPath,
		Pattern:        settings.Pattern,
		Limit:          scanTest,
		Delay:          settings.Delay,
		MaxRetries:     settings.MaxRetries,
		TruncateChars:  settings.TruncateChars,
		RequestTimeout: settings.Timeout,
		OnResult: func(r report.Result) {
			printFileStatus(out, r)
		},
	})

	rep, err := s.Run(cmd.Context())
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return exitError(ExitTotalFailure, "llmscan: scan interrupted")
		}
		return exitError(ExitTotalFailure, "llmscan: scan failed (%v)", err)
	}

	if rep.Metadata.FileCount == 0 {
		fmt.Fprintf(out, "No files matching %q under %s\n", rep.Metadata.Pattern, absPath)
		return nil
	}

	outPath := scanOutput
	if outPath == "" {
		dir := settings.OutputDir
		if dir == "" {
			dir = report.DefaultDir
		}
		outPath = report.DefaultPathIn(dir, p.Name())
	}
	if err := report.Write(outPath, rep); err != nil {
		return exitError(ExitTotalFailure, "llmscan: failed to write report (%v)", err)
	}

	printScanSummary(out, rep, outPath)

	if code := computeExitCode(rep, scanStrict); code != ExitOK {
		return exitError(code, "")
	}
	return nil
}

// resolveScanPath normalizes the scan target and verifies it is an existing
// directory.
func resolveScanPath(scanPath string) (string, error) {
	absPath, err := cmdFS.Abs(scanPath)
	if err != nil {
		return "", exitError(ExitInvalidArgs, "llmscan: cannot resolve path %q (%v)", scanPath, err)
	}

	absPath, err = cmdFS.EvalSymlinks(absPath)
	if err != nil {
		return "", exitError(ExitInvalidArgs, "llmscan: cannot resolve path %q (%v)", scanPath, err)
	}

	info, err := cmdFS.Stat(absPath)
	if err != nil {
		return "", exitError(ExitInvalidArgs, "llmscan: path %q does not exist (check the path and try again)", scanPath)
	}
	if !info.IsDir() {
		return "", exitError(ExitInvalidArgs, "llmscan: %q is not a directory (provide a source directory to scan)", scanPath)
	}

	return absPath, nil
}

// resolveSettings merges the scan root's config file with explicitly set
// flags. Only flags the user changed participate, so file values survive
// unless overridden.
func resolveSettings(cmd *cobra.Command, absPath string) (config.Settings, error) {
	fileCfg, err := config.Load(absPath)
	if err != nil {
		return config.Settings{}, exitError(ExitInvalidArgs, "llmscan: failed to load %s (%v)", config.FileName, err)
	}
	if err := config.Validate(fileCfg); err != nil {
		return config.Settings{}, exitError(ExitInvalidArgs, "llmscan: %v", err)
	}

	var cli config.Settings
	flags := cmd.Flags()
	if flags.Changed("api") {
		cli.API = scanAPI
	}
	if flags.Changed("model") {
		cli.Model = scanModel
	}
	if flags.Changed("pattern") {
		cli.Pattern = scanPattern
	}
	if flags.Changed("delay") {
		d, err := time.ParseDuration(scanDelay)
		if err != nil || d < 0 {
			return config.Settings{}, exitError(ExitInvalidArgs, "llmscan: invalid --delay %q (want a duration like 500ms or 2s)", scanDelay)
		}
		cli.Delay = d
		if d == 0 {
			cli.Delay = -1
		}
	}
	if flags.Changed("max-retries") {
		if scanMaxRetries < 0 {
			return config.Settings{}, exitError(ExitInvalidArgs, "llmscan: --max-retries must be non-negative (got %d)", scanMaxRetries)
		}
		cli.MaxRetries = scanMaxRetries
		if scanMaxRetries == 0 {
			cli.MaxRetries = -1
		}
	}
	if flags.Changed("truncate-chars") {
		if scanTruncate < 0 {
			return config.Settings{}, exitError(ExitInvalidArgs, "llmscan: --truncate-chars must be non-negative (got %d)", scanTruncate)
		}
		cli.TruncateChars = scanTruncate
		if scanTruncate == 0 {
			cli.TruncateChars = -1
		}
	}
	if flags.Changed("timeout") {
		d, err := time.ParseDuration(scanTimeout)
		if err != nil || d <= 0 {
			return config.Settings{}, exitError(ExitInvalidArgs, "llmscan: invalid --timeout %q (want a positive duration like 90s)", scanTimeout)
		}
		cli.Timeout = d
	}

	return config.Merge(fileCfg, cli), nil
}

// printFileStatus renders the one-line verdict for a scanned file.
func printFileStatus(w io.Writer, r report.Result) {
	var status string
	switch {
	case !r.Success:
		status = report.ColorError(r.Error)
	case r.Vulnerable():
		status = report.ColorVerdict(true)
		if r.Analysis.Severity != "" {
			status += " (" + report.ColorSeverity(r.Analysis.Severity) + ")"
		}
	default:
		status = report.ColorVerdict(false)
	}
	fmt.Fprintf(w, "[%d] %s  %s\n", r.ScanNumber, r.FileName, status)
}

// numPrinter formats large counts with thousands separators.
var numPrinter = message.NewPrinter(language.English)

func printScanSummary(w io.Writer, rep *report.Report, outPath string) {
	md := rep.Metadata
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, report.SectionTitle("Scan complete!"))
	fmt.Fprintf(w, "Total: %d | Success: %d | Failed: %s\n",
		md.FileCount, md.SuccessCount, report.ColorCount(md.FailureCount))
	fmt.Fprintf(w, "Results saved to: %s\n", outPath)
	fmt.Fprintf(w, "Vulnerabilities detected: %s\n", report.ColorCount(md.VulnerableCount))
	numPrinter.Fprintf(w, "Total tokens used: %d\n", md.TotalTokens)
}

// computeExitCode maps run statistics onto the exit code ladder. Partial
// failures are only fatal under --strict; a report with zero files is not an
// error here because the caller skips report writing entirely.
func computeExitCode(rep *report.Report, strict bool) int {
	md := rep.Metadata
	if md.FileCount == 0 {
		return ExitOK
	}
	switch {
	case md.FailureCount == 0:
		return ExitOK
	case md.FailureCount == md.FileCount:
		return ExitTotalFailure
	case strict:
		return ExitPartialFailure
	default:
		return ExitOK
	}
}

// exitCodeError carries a specific process exit code up to main.
type exitCodeError struct {
	code int
	msg  string
}

func (e *exitCodeError) Error() string {
	if e.msg != "" {
		return e.msg
	}
	switch e.code {
	case ExitPartialFailure:
		return "llmscan: some files failed to scan"
	case ExitTotalFailure:
		return "llmscan: all files failed to scan"
	}
	return "llmscan: error"
}

// ExitCode satisfies the interface main uses to pick the process exit code.
func (e *exitCodeError) ExitCode() int {
	return e.code
}

func exitError(code int, format string, args ...any) *exitCodeError {
	return &exitCodeError{code: code, msg: fmt.Sprintf(format, args...)}
}
