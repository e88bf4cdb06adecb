package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	r := &Report{
		Results: []Result{
			{Success: true, TokensUsed: 10, Analysis: &Analysis{Parsed: true, HasVulnerability: true, Severity: "high"}},
			{Success: true, TokensUsed: 20, Analysis: &Analysis{Parsed: true, HasVulnerability: true, Severity: "high"}},
			{Success: true, TokensUsed: 30, Analysis: &Analysis{HasVulnerability: true}},
			{Success: true, TokensUsed: 5, Analysis: &Analysis{Parsed: true, HasVulnerability: false, Severity: "none"}},
			{Success: false, TokensUsed: 99, Error: "timeout"},
		},
	}

	s := Summarize(r)

	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 4, s.Success)
	assert.Equal(t, 1, s.Failed)
	require.Len(t, s.Vulnerable, 3)
	require.Len(t, s.Clean, 1)

	// Tokens from failed results do not count.
	assert.Equal(t, 65, s.TotalTokens)

	assert.Equal(t, 2, s.Severities["high"])
	assert.Equal(t, 1, s.Severities["unknown"], "missing severity counts as unknown")
	assert.Zero(t, s.Severities["none"], "clean results do not enter the histogram")
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(&Report{})

	assert.Zero(t, s.Total)
	assert.Zero(t, s.Success)
	assert.Empty(t, s.Vulnerable)
	assert.Empty(t, s.Severities)
}

func TestResultVulnerable(t *testing.T) {
	assert.False(t, Result{}.Vulnerable())
	assert.False(t, Result{Success: true}.Vulnerable(), "no analysis means no verdict")
	assert.False(t, Result{Success: false, Analysis: &Analysis{HasVulnerability: true}}.Vulnerable(),
		"failed scans never count as vulnerable")
	assert.True(t, Result{Success: true, Analysis: &Analysis{HasVulnerability: true}}.Vulnerable())
}
