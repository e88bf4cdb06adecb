// Copyright 2026 The llmscan Authors
// SPDX-License-Identifier: MIT

package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/davetashner/llmscan/internal/prompt"
	"github.com/davetashner/llmscan/internal/provider"
	"github.com/davetashner/llmscan/internal/report"
)

// nowFunc returns the current time. Tests may substitute a fixed clock.
var nowFunc = time.Now

// Scanner submits files to a provider one at a time and collects the
// results.
type Scanner struct {
	provider  provider.Provider
	cfg       Config
	retry     *RetryPolicy
	estimator *tokenEstimator
}

// New builds a Scanner for the given provider. Zero-value Config fields
// are filled with defaults. Token estimation is best-effort: when no
// tokenizer is available the estimate is simply omitted from results.
func New(p provider.Provider, cfg Config) *Scanner {
	cfg.applyDefaults()
	s := &Scanner{
		provider: p,
		cfg:      cfg,
		retry:    newRetryPolicy(cfg.MaxRetries),
	}
	est, err := newTokenEstimator(p.Model())
	if err != nil {
		slog.Debug("token estimator unavailable", "model", p.Model(), "error", err)
	} else {
		s.estimator = est
	}
	return s
}

// Run scans every matching file under the configured root and returns
// the assembled report. Individual file failures are recorded in their
// results and never abort the run; a context cancellation does abort,
// and an aborted run returns no report.
func (s *Scanner) Run(ctx context.Context) (*report.Report, error) {
	started := nowFunc()

	files, err := Enumerate(ctx, s.cfg.Root, s.cfg.Pattern)
	if err != nil {
		return nil, err
	}

	total := len(files)
	if s.cfg.Limit > 0 && s.cfg.Limit < total {
		files = files[:s.cfg.Limit]
		slog.Info("limiting scan", "found", total, "scanning", len(files), "pattern", s.cfg.Pattern)
	} else {
		slog.Info("files found", "count", total, "pattern", s.cfg.Pattern)
	}

	results := make([]report.Result, 0, len(files))
	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		slog.Info("scanning file",
			"progress", fmt.Sprintf("[%d/%d]", i+1, len(files)),
			"file", filepath.Base(path))

		res := s.scanFile(ctx, i+1, path)
		results = append(results, res)

		switch {
		case !res.Success:
			slog.Error("scan failed", "file", res.FileName, "error", res.Error)
		case res.Vulnerable():
			slog.Info("vulnerability found", "file", res.FileName, "severity", res.Analysis.Severity)
		default:
			slog.Info("file clean", "file", res.FileName)
		}
		if s.cfg.OnResult != nil {
			s.cfg.OnResult(res)
		}

		if i < len(files)-1 && s.cfg.Delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.cfg.Delay):
			}
		}
	}

	// A cancellation that surfaced inside the final submit must still abort
	// the run rather than produce a report.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rep := &report.Report{
		Results:  results,
		Metadata: s.buildMetadata(results, started),
	}
	return rep, nil
}

func (s *Scanner) buildMetadata(results []report.Result, started time.Time) report.Metadata {
	md := report.Metadata{
		RunID:          uuid.NewString(),
		Provider:       s.provider.Name(),
		Model:          s.provider.Model(),
		Root:           s.cfg.Root,
		Pattern:        s.cfg.Pattern,
		FileCount:      len(results),
		StartedAt:      started,
		ElapsedSeconds: nowFunc().Sub(started).Seconds(),
	}
	for _, r := range results {
		if r.Success {
			md.SuccessCount++
			md.TotalTokens += r.TokensUsed
		} else {
			md.FailureCount++
		}
		if r.Vulnerable() {
			md.VulnerableCount++
		}
	}
	return md
}

// scanFile loads one file, submits it, and builds its result. All
// failure modes are captured in the result rather than returned.
func (s *Scanner) scanFile(ctx context.Context, num int, path string) report.Result {
	res := report.Result{
		File:       path,
		FileName:   filepath.Base(path),
		ScanNumber: num,
		Timestamp:  nowFunc(),
		APIUsed:    provider.Label(s.provider),
	}

	content, err := Load(path, s.cfg.TruncateChars)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.FileSize = content.Size
	res.LineCount = content.LineCount
	if content.Truncated {
		res.Note = fmt.Sprintf("Code truncated to %d chars", s.cfg.TruncateChars)
	}

	p := prompt.Vulnerability(content.Text)
	if s.estimator != nil {
		res.EstimatedPromptTokens = s.estimator.Count(p)
	}

	temp := defaultTemperature
	req := provider.Request{
		Prompt:      p,
		Temperature: &temp,
	}

	var resp *provider.Response
	err = s.retry.Execute(ctx, func() error {
		callCtx := ctx
		if s.cfg.RequestTimeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, s.cfg.RequestTimeout)
			defer cancel()
		}
		r, submitErr := s.provider.Submit(callCtx, req)
		if submitErr != nil {
			return submitErr
		}
		resp = r
		return nil
	})
	if err != nil {
		res.Error = err.Error()
		return res
	}

	res.Success = true
	res.Response = resp.Content
	res.Analysis = report.ExtractAnalysis(resp.Content)
	res.TokensUsed = resp.Usage.Total()
	return res
}
