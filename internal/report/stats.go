// Copyright 2026 The llmscan Authors
// SPDX-License-Identifier: MIT

package report

// Stats summarizes a report for the analyze command.
type Stats struct {
	Total       int
	Success     int
	Failed      int
	Vulnerable  []Result
	Clean       []Result
	Severities  map[string]int
	TotalTokens int
}

// Summarize computes summary statistics over a report's results. Severity
// counts cover only vulnerable results; results without a severity are
// counted as "unknown".
func Summarize(r *Report) *Stats {
	s := &Stats{
		Total:      len(r.Results),
		Severities: make(map[string]int),
	}

	for _, res := range r.Results {
		if !res.Success {
			s.Failed++
			continue
		}
		s.Success++
		s.TotalTokens += res.TokensUsed

		if res.Vulnerable() {
			s.Vulnerable = append(s.Vulnerable, res)
			severity := res.Analysis.Severity
			if severity == "" {
				severity = "unknown"
			}
			s.Severities[severity]++
		} else {
			s.Clean = append(s.Clean, res)
		}
	}

	return s
}
