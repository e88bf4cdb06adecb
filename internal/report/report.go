// Copyright 2026 The llmscan Authors
// SPDX-License-Identifier: MIT

// Package report defines the scan report schema, its persistence, and the
// summary statistics derived from it.
package report

import "time"

// Result records the outcome of scanning a single file.
type Result struct {
	// File is the path handed to the provider, as enumerated.
	File string `json:"file"`

	// FileName is the base name of File.
	FileName string `json:"file_name"`

	// ScanNumber is the 1-based position of this file in the run.
	ScanNumber int `json:"scan_number"`

	// Timestamp is when the scan of this file started.
	Timestamp time.Time `json:"timestamp"`

	// Success is true when the provider returned a response.
	Success bool `json:"success"`

	// APIUsed identifies the provider and model, e.g. "OpenAI gpt-4o-mini".
	APIUsed string `json:"api_used"`

	// FileSize is the character count of the decoded file content.
	// Zero when the file could not be read.
	FileSize int `json:"file_size,omitempty"`

	// LineCount is the number of lines in the decoded file content.
	LineCount int `json:"line_count,omitempty"`

	// Note records truncation or decoding remarks, e.g.
	// "Code truncated to 8000 chars".
	Note string `json:"note,omitempty"`

	// Response is the raw text the model returned.
	Response string `json:"model_response,omitempty"`

	// Analysis is the structured verdict extracted from Response.
	Analysis *Analysis `json:"analysis,omitempty"`

	// TokensUsed is the provider-reported total token count.
	TokensUsed int `json:"tokens_used,omitempty"`

	// EstimatedPromptTokens is the local tiktoken estimate for the prompt,
	// recorded before submission.
	EstimatedPromptTokens int `json:"estimated_prompt_tokens,omitempty"`

	// Error holds the failure message when Success is false.
	Error string `json:"error,omitempty"`
}

// Vulnerable reports whether this result carries a positive verdict.
func (r Result) Vulnerable() bool {
	return r.Success && r.Analysis != nil && r.Analysis.HasVulnerability
}

// Metadata describes the run that produced a report.
type Metadata struct {
	RunID           string    `json:"run_id"`
	Provider        string    `json:"provider"`
	Model           string    `json:"model"`
	Root            string    `json:"root"`
	Pattern         string    `json:"pattern"`
	FileCount       int       `json:"file_count"`
	SuccessCount    int       `json:"success_count"`
	FailureCount    int       `json:"failure_count"`
	VulnerableCount int       `json:"vulnerable_count"`
	TotalTokens     int       `json:"total_tokens"`
	StartedAt       time.Time `json:"started_at"`
	ElapsedSeconds  float64   `json:"elapsed_seconds"`
}

// Report wraps per-file results with run metadata.
type Report struct {
	Results  []Result `json:"results"`
	Metadata Metadata `json:"metadata"`
}
