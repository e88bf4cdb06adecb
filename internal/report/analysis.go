// Copyright 2026 The llmscan Authors
// SPDX-License-Identifier: MIT

package report

import (
	"encoding/json"
	"strings"
)

// maxRawResponse caps the raw text kept on an unparsed analysis.
const maxRawResponse = 500

// Analysis is the structured verdict extracted from a model response.
type Analysis struct {
	// Parsed is true when the response contained the expected JSON object.
	Parsed bool `json:"parsed"`

	// HasVulnerability is the model's verdict. When Parsed is false it falls
	// back to keyword detection over the raw response.
	HasVulnerability bool `json:"has_vulnerability"`

	VulnerabilityType string  `json:"vulnerability_type,omitempty"`
	LineNumbers       []int   `json:"line_numbers,omitempty"`
	Severity          string  `json:"severity,omitempty"`
	Description       string  `json:"description,omitempty"`
	Confidence        float64 `json:"confidence,omitempty"`

	// Raw holds the leading portion of an unparseable response.
	Raw string `json:"raw_response,omitempty"`
}

// verdict is the JSON shape the prompt asks the model to emit.
type verdict struct {
	HasVulnerability  bool    `json:"has_vulnerability"`
	VulnerabilityType string  `json:"vulnerability_type"`
	LineNumbers       []int   `json:"line_numbers"`
	Severity          string  `json:"severity"`
	Description       string  `json:"description"`
	Confidence        float64 `json:"confidence"`
}

// fallbackKeywords flag a vulnerability verdict when JSON extraction fails.
var fallbackKeywords = []string{"buffer overflow", "vulnerable", "overflow"}

// ExtractAnalysis parses the model response into an Analysis. Models wrap
// the requested JSON in prose or code fences often enough that this scans for
// the outermost braces instead of unmarshaling the whole response. When no
// parseable object is found, it falls back to keyword detection and keeps a
// capped copy of the raw text.
func ExtractAnalysis(text string) *Analysis {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		var v verdict
		if err := json.Unmarshal([]byte(text[start:end+1]), &v); err == nil {
			a := &Analysis{
				Parsed:            true,
				HasVulnerability:  v.HasVulnerability,
				VulnerabilityType: v.VulnerabilityType,
				LineNumbers:       v.LineNumbers,
				Severity:          v.Severity,
				Description:       v.Description,
				Confidence:        v.Confidence,
			}
			if a.VulnerabilityType == "" {
				a.VulnerabilityType = "unknown"
			}
			if a.Severity == "" {
				a.Severity = "unknown"
			}
			return a
		}
	}

	lower := strings.ToLower(text)
	hasVuln := false
	for _, kw := range fallbackKeywords {
		if strings.Contains(lower, kw) {
			hasVuln = true
			break
		}
	}

	return &Analysis{
		HasVulnerability: hasVuln,
		Raw:              truncateRunes(text, maxRawResponse),
	}
}

// truncateRunes cuts s to at most n runes without splitting a multi-byte
// character.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
