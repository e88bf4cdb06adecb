// Copyright 2026 The llmscan Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/davetashner/llmscan/internal/report"
)

// Analyze-specific flag values.
var (
	analyzeLimit int
	analyzeAll   bool
	analyzeCSV   string
	analyzeJSON  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <report.json>",
	Short: "Summarize a scan report",
	Long: `Analyze reads a report produced by scan and prints summary statistics:
success and failure counts, the severity distribution, and the list of files
the model flagged as vulnerable.

Examples:
  llmscan analyze results/scan_results_openai_20260821_153000.json
  llmscan analyze -l 25 report.json
  llmscan analyze --all --csv verdicts.csv report.json
  llmscan analyze --json report.json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().IntVarP(&analyzeLimit, "limit", "l", 10, "number of vulnerable files to list")
	analyzeCmd.Flags().BoolVar(&analyzeAll, "all", false, "list every vulnerable file, ignoring --limit")
	analyzeCmd.Flags().StringVarP(&analyzeCSV, "csv", "c", "", "export per-file verdicts to this CSV path")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "machine-readable output")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	rep, err := report.Load(args[0])
	if err != nil {
		return exitError(ExitInvalidArgs, "llmscan: %v", err)
	}

	stats := report.Summarize(rep)
	out := cmd.OutOrStdout()

	if analyzeCSV != "" {
		if err := exportCSV(analyzeCSV, stats); err != nil {
			return exitError(ExitTotalFailure, "llmscan: failed to export CSV (%v)", err)
		}
	}

	if analyzeJSON {
		return renderAnalysisJSON(out, stats)
	}

	printAnalysisSummary(out, stats)

	limit := analyzeLimit
	if analyzeAll {
		limit = len(stats.Vulnerable)
	}
	printVulnerabilityList(out, stats.Vulnerable, limit)

	if analyzeCSV != "" {
		fmt.Fprintf(out, "\nCSV exported to: %s\n", analyzeCSV)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("=", 60))
	return nil
}

// renderAnalysisJSON emits the full summary as JSON, ignoring --limit.
func renderAnalysisJSON(w io.Writer, stats *report.Stats) error {
	type vulnerableFile struct {
		FileName    string  `json:"file_name"`
		Path        string  `json:"path"`
		Type        string  `json:"vulnerability_type,omitempty"`
		Severity    string  `json:"severity"`
		Description string  `json:"description,omitempty"`
		LineNumbers []int   `json:"line_numbers,omitempty"`
		Confidence  float64 `json:"confidence,omitempty"`
	}
	type analysisOutput struct {
		Total       int              `json:"total"`
		Success     int              `json:"success"`
		Failed      int              `json:"failed"`
		Vulnerable  int              `json:"vulnerable"`
		Clean       int              `json:"clean"`
		Severities  map[string]int   `json:"severities,omitempty"`
		TotalTokens int              `json:"total_tokens"`
		Files       []vulnerableFile `json:"vulnerable_files,omitempty"`
	}

	payload := analysisOutput{
		Total:       stats.Total,
		Success:     stats.Success,
		Failed:      stats.Failed,
		Vulnerable:  len(stats.Vulnerable),
		Clean:       len(stats.Clean),
		Severities:  stats.Severities,
		TotalTokens: stats.TotalTokens,
	}
	for _, res := range stats.Vulnerable {
		a := res.Analysis
		sev := a.Severity
		if sev == "" {
			sev = "unknown"
		}
		payload.Files = append(payload.Files, vulnerableFile{
			FileName:    res.FileName,
			Path:        res.File,
			Type:        a.VulnerabilityType,
			Severity:    sev,
			Description: a.Description,
			LineNumbers: a.LineNumbers,
			Confidence:  a.Confidence,
		})
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return exitError(ExitTotalFailure, "llmscan: JSON marshal failed (%v)", err)
	}
	_, _ = fmt.Fprintln(w, string(data))
	return nil
}

func printAnalysisSummary(w io.Writer, stats *report.Stats) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, report.SectionTitle("Scan Results Summary"))
	fmt.Fprintln(w, strings.Repeat("=", 60))

	fmt.Fprintf(w, "\nTotal files scanned: %d\n", stats.Total)
	fmt.Fprintf(w, "Successfully scanned: %d (%s)\n", stats.Success, percent(stats.Success, stats.Total))
	fmt.Fprintf(w, "Scan failed: %s\n", report.ColorCount(stats.Failed))

	fmt.Fprintf(w, "\nVulnerabilities found: %s (%s)\n",
		report.ColorCount(len(stats.Vulnerable)), percent(len(stats.Vulnerable), stats.Success))
	fmt.Fprintf(w, "No vulnerabilities found: %d (%s)\n",
		len(stats.Clean), percent(len(stats.Clean), stats.Success))

	if len(stats.Severities) > 0 {
		fmt.Fprintln(w, "\nSeverity distribution:")
		for _, sev := range severityOrder(stats.Severities) {
			fmt.Fprintf(w, "  %s: %d\n", report.ColorSeverity(sev), stats.Severities[sev])
		}
	}
}

func printVulnerabilityList(w io.Writer, vulns []report.Result, limit int) {
	if len(vulns) == 0 {
		fmt.Fprintln(w, "\nNo vulnerabilities found")
		return
	}
	if limit > len(vulns) {
		limit = len(vulns)
	}

	fmt.Fprintf(w, "\nVulnerabilities found in files (showing top %d):\n", limit)
	fmt.Fprintln(w, strings.Repeat("-", 60))

	for i, vuln := range vulns[:limit] {
		a := vuln.Analysis
		sev := a.Severity
		if sev == "" {
			sev = "unknown"
		}

		fmt.Fprintf(w, "\n%d. %s\n", i+1, vuln.FileName)
		fmt.Fprintf(w, "   Path: %s\n", vuln.File)
		fmt.Fprintf(w, "   Severity: %s\n", report.ColorSeverity(sev))
		if a.Description != "" {
			fmt.Fprintf(w, "   Description: %s...\n", truncateString(a.Description, 100))
		}
		if len(a.LineNumbers) > 0 {
			fmt.Fprintf(w, "   Line numbers: %s\n", formatLineNumbers(a.LineNumbers))
		}
	}
}

// exportCSV writes one row per successfully scanned file, vulnerable files
// first.
func exportCSV(path string, stats *report.Stats) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"File Name", "Path", "Has Vulnerability", "Severity", "Description"}); err != nil {
		return err
	}

	rows := make([]report.Result, 0, len(stats.Vulnerable)+len(stats.Clean))
	rows = append(rows, stats.Vulnerable...)
	rows = append(rows, stats.Clean...)
	for _, res := range rows {
		verdict := "No"
		severity := "N/A"
		description := ""
		if a := res.Analysis; a != nil {
			if a.HasVulnerability {
				verdict = "Yes"
			}
			if a.Severity != "" {
				severity = a.Severity
			}
			description = truncateString(a.Description, 100)
		}
		if err := w.Write([]string{res.FileName, res.File, verdict, severity, description}); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return cmdFS.WriteFile(path, buf.Bytes(), 0o644)
}

// severityRank orders the distribution from most to least severe. Labels the
// model invents that are not in the rank are appended alphabetically.
var severityRank = []string{"critical", "high", "medium", "low", "none", "unknown"}

func severityOrder(counts map[string]int) []string {
	ranked := make(map[string]bool, len(severityRank))
	var keys []string
	for _, sev := range severityRank {
		if counts[sev] > 0 {
			keys = append(keys, sev)
			ranked[sev] = true
		}
	}

	var rest []string
	for sev := range counts {
		if !ranked[sev] {
			rest = append(rest, sev)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func percent(part, whole int) string {
	if whole == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(part)/float64(whole)*100)
}

// truncateString cuts s to at most n runes.
func truncateString(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func formatLineNumbers(lines []int) string {
	parts := make([]string, len(lines))
	for i, n := range lines {
		parts[i] = strconv.Itoa(n)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
