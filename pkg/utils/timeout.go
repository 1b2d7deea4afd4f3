// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

package utils

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/vereinsbot/group-lifecycle-service/pkg/errors"
)

// WithTimeout races an operation against a timer. The operation receives a
// derived context that is cancelled when the timer wins, and the timer is
// released on both paths. Implemented once so timer-cleanup logic is not
// duplicated at every call site.
func WithTimeout[T any](ctx context.Context, timeout time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		value T
		err   error
	}

	done := make(chan outcome, 1)
	go func() {
		value, err := fn(callCtx)
		done <- outcome{value: value, err: err}
	}()

	select {
	case out := <-done:
		return out.value, out.err
	case <-callCtx.Done():
		var zero T
		if ctx.Err() != nil {
			// The caller's context was cancelled, not the per-call timer.
			return zero, ctx.Err()
		}
		return zero, errors.NewServiceUnavailable("operation timed out", callCtx.Err())
	}
}

// IsTimeout reports whether an error came out of WithTimeout's timer path.
func IsTimeout(err error) bool {
	return stderrors.Is(err, context.DeadlineExceeded)
}
