// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

package utils

import (
	"context"
	"crypto/rand"
	"log/slog"
	"math/big"
	"time"
)

// Jitter returns a random duration in [0, max). Uses crypto/rand so the
// spread stays unpredictable across service restarts.
func Jitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return max / 2
	}
	return time.Duration(n.Int64())
}

// SleepWithJitter blocks for a random duration in [min, max], or until the
// context is cancelled. Used between work items to throttle interaction with
// the rate-sensitive messaging platform.
func SleepWithJitter(ctx context.Context, min, max time.Duration) error {
	if max < min {
		max = min
	}
	delay := min + Jitter(max-min)

	slog.DebugContext(ctx, "throttling",
		"delay_ms", delay.Milliseconds(),
	)

	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
