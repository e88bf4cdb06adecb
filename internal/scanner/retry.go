// Copyright 2026 The llmscan Authors
// SPDX-License-Identifier: MIT

package scanner

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/davetashner/llmscan/internal/provider"
)

// RetryPolicy defines exponential backoff for transient provider errors.
type RetryPolicy struct {
	MaxAttempts  int // total attempts including the first
	InitialDelay time.Duration
	Multiplier   float64
	MaxDelay     time.Duration
}

// newRetryPolicy returns the standard backoff schedule allowing
// maxRetries retries after the first attempt.
func newRetryPolicy(maxRetries int) *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts:  maxRetries + 1,
		InitialDelay: 1 * time.Second,
		Multiplier:   2.0,
		MaxDelay:     30 * time.Second,
	}
}

// NextDelay returns the backoff delay after the given 1-based attempt.
func (p *RetryPolicy) NextDelay(attempt int) time.Duration {
	delay := time.Duration(float64(p.InitialDelay) * math.Pow(p.Multiplier, float64(attempt-1)))
	if delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	return delay
}

// Execute runs fn up to MaxAttempts times, sleeping between attempts.
// Only errors the provider package classifies as retryable are retried;
// auth failures and malformed requests surface immediately. A context
// cancellation during a backoff sleep aborts with the context's error.
func (p *RetryPolicy) Execute(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !provider.IsRetryable(err) {
			return err
		}
		if attempt == p.MaxAttempts {
			break
		}

		delay := p.NextDelay(attempt)
		slog.Warn("transient provider error, retrying",
			"attempt", attempt,
			"max_attempts", p.MaxAttempts,
			"delay", delay,
			"error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return lastErr
}
