// Package prompt builds the analysis prompts sent to LLM providers.
package prompt

import "strings"

// placeholder marks where file content is spliced into a template.
const placeholder = "{code_content}"

// vulnerabilityTemplate asks the model for a structured verdict. The JSON
// shape here is the contract that report.ExtractAnalysis parses.
const vulnerabilityTemplate = `Analyze this C/C++ code for buffer overflow vulnerabilities.

Code:
{code_content}

Respond in JSON format:
{
  "has_vulnerability": true or false,
  "vulnerability_type": "buffer_overflow" or "none",
  "line_numbers": [],
  "severity": "high/medium/low/none",
  "description": "brief explanation",
  "confidence": 0-100
}`

// Vulnerability returns the buffer overflow analysis prompt for the given
// file content. Content is spliced in verbatim; callers are responsible for
// truncating oversized files first.
func Vulnerability(code string) string {
	return strings.ReplaceAll(vulnerabilityTemplate, placeholder, code)
}
