package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractAnalysis_CleanJSON(t *testing.T) {
	text := `{
  "has_vulnerability": true,
  "vulnerability_type": "buffer_overflow",
  "line_numbers": [3, 7],
  "severity": "high",
  "description": "strcpy into fixed buffer",
  "confidence": 95
}`

	a := ExtractAnalysis(text)

	assert.True(t, a.Parsed)
	assert.True(t, a.HasVulnerability)
	assert.Equal(t, "buffer_overflow", a.VulnerabilityType)
	assert.Equal(t, []int{3, 7}, a.LineNumbers)
	assert.Equal(t, "high", a.Severity)
	assert.Equal(t, "strcpy into fixed buffer", a.Description)
	assert.Equal(t, float64(95), a.Confidence)
	assert.Empty(t, a.Raw)
}

func TestExtractAnalysis_JSONWrappedInProse(t *testing.T) {
	text := "Here is my analysis:\n```json\n" +
		`{"has_vulnerability": false, "vulnerability_type": "none", "severity": "none", "description": "bounds are checked", "confidence": 80}` +
		"\n```\nLet me know if you need more detail."

	a := ExtractAnalysis(text)

	assert.True(t, a.Parsed)
	assert.False(t, a.HasVulnerability)
	assert.Equal(t, "none", a.VulnerabilityType)
	assert.Equal(t, "none", a.Severity)
}

func TestExtractAnalysis_MissingFieldsDefaulted(t *testing.T) {
	a := ExtractAnalysis(`{"has_vulnerability": true}`)

	require.True(t, a.Parsed)
	assert.Equal(t, "unknown", a.VulnerabilityType)
	assert.Equal(t, "unknown", a.Severity)
	assert.Empty(t, a.Description)
	assert.Zero(t, a.Confidence)
}

func TestExtractAnalysis_MalformedJSONFallsBackToKeywords(t *testing.T) {
	a := ExtractAnalysis("The code is VULNERABLE because {gets( is unbounded")

	assert.False(t, a.Parsed)
	assert.True(t, a.HasVulnerability, "keyword fallback should flag 'vulnerable'")
	assert.NotEmpty(t, a.Raw)
}

func TestExtractAnalysis_NoJSONNoKeywords(t *testing.T) {
	a := ExtractAnalysis("This code looks fine to me.")

	assert.False(t, a.Parsed)
	assert.False(t, a.HasVulnerability)
	assert.Equal(t, "This code looks fine to me.", a.Raw)
}

func TestExtractAnalysis_KeywordCaseInsensitive(t *testing.T) {
	a := ExtractAnalysis("Possible Buffer Overflow on line 12.")

	assert.False(t, a.Parsed)
	assert.True(t, a.HasVulnerability)
}

func TestExtractAnalysis_RawCappedAt500Runes(t *testing.T) {
	// Multi-byte runes prove the cap counts characters, not bytes.
	text := strings.Repeat("漏", 600)
	a := ExtractAnalysis(text)

	assert.False(t, a.Parsed)
	assert.Equal(t, 500, len([]rune(a.Raw)))
	assert.Equal(t, strings.Repeat("漏", 500), a.Raw)
}

func TestExtractAnalysis_ShortRawKeptWhole(t *testing.T) {
	a := ExtractAnalysis("nothing to see")
	assert.Equal(t, "nothing to see", a.Raw)
}
