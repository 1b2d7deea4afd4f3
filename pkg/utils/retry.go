// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

// Package utils provides utility functions for the group lifecycle service.
package utils

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// PermanentError wraps an error that must not be retried: a semantic
// outcome rather than a transport failure.
type PermanentError struct {
	Err error
}

// Error returns the wrapped error message.
func (e *PermanentError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *PermanentError) Unwrap() error {
	return e.Err
}

// Permanent marks an error as not retryable. RetryWithExponentialBackoff
// stops immediately and surfaces the underlying error unchanged.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// RetryConfig holds retry configuration for operations
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// NewRetryConfig creates a RetryConfig with specified parameters
func NewRetryConfig(maxAttempts int, baseDelay, maxDelay time.Duration) RetryConfig {
	return RetryConfig{
		MaxAttempts: maxAttempts,
		BaseDelay:   baseDelay,
		MaxDelay:    maxDelay,
	}
}

// RetryWithExponentialBackoff executes a function with exponential backoff retry logic
// The delay between retries follows the formula: baseDelay * 2^(attempt-1), plus
// up to 25% random jitter to keep concurrent workers from synchronizing.
// The delay is capped at maxDelay to prevent excessively long waits.
//
// Only errors are retried. Semantic outcomes such as "already a member" are
// encoded as return values by callers, never as errors, so they are never
// retried here.
func RetryWithExponentialBackoff(ctx context.Context, config RetryConfig, label string, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt < config.MaxAttempts; attempt++ {
		if attempt > 0 {
			// Exponential backoff: baseDelay * 2^(attempt-1)
			delay := time.Duration(1<<uint(attempt-1)) * config.BaseDelay
			if delay > config.MaxDelay {
				delay = config.MaxDelay
			}
			delay += Jitter(delay / 4)

			slog.WarnContext(ctx, "retrying operation",
				"operation", label,
				"attempt", attempt+1,
				"total_attempts", config.MaxAttempts,
				"retry_delay_ms", delay.Milliseconds(),
			)

			// Wait with context cancellation support
			select {
			case <-time.After(delay):
				// Continue to next attempt
			case <-ctx.Done():
				return fmt.Errorf("retry cancelled: %w", ctx.Err())
			}
		}

		err := fn()
		if err == nil {
			if attempt > 0 {
				slog.InfoContext(ctx, "retry succeeded",
					"operation", label,
					"attempt", attempt+1,
					"total_attempts", config.MaxAttempts,
				)
			}
			return nil
		}

		var permanent *PermanentError
		if errors.As(err, &permanent) {
			slog.DebugContext(ctx, "operation returned a permanent outcome, not retrying",
				"operation", label,
				"attempt", attempt+1,
				"error", permanent.Err,
			)
			return permanent.Err
		}

		lastErr = err
		slog.ErrorContext(ctx, "operation attempt failed",
			"operation", label,
			"attempt", attempt+1,
			"total_attempts", config.MaxAttempts,
			"error", err,
		)
	}

	return fmt.Errorf("%s failed after %d attempts: %w", label, config.MaxAttempts, lastErr)
}
