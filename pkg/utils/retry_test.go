// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryWithExponentialBackoff(t *testing.T) {
	testCases := []struct {
		name          string
		config        RetryConfig
		failuresFirst int
		permanent     bool
		expectError   bool
		expectCalls   int
	}{
		{
			name:        "succeeds on first attempt",
			config:      NewRetryConfig(3, time.Millisecond, 10*time.Millisecond),
			expectCalls: 1,
		},
		{
			name:          "succeeds after transient failures",
			config:        NewRetryConfig(3, time.Millisecond, 10*time.Millisecond),
			failuresFirst: 2,
			expectCalls:   3,
		},
		{
			name:        "exhausts attempts and surfaces last error",
			config:      NewRetryConfig(3, time.Millisecond, 10*time.Millisecond),
			permanent:   true,
			expectError: true,
			expectCalls: 3,
		},
		{
			name:        "single attempt means no retry",
			config:      NewRetryConfig(1, time.Millisecond, 10*time.Millisecond),
			permanent:   true,
			expectError: true,
			expectCalls: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			calls := 0
			failure := errors.New("transport failure")

			err := RetryWithExponentialBackoff(context.Background(), tc.config, "test-op", func() error {
				calls++
				if tc.permanent || calls <= tc.failuresFirst {
					return failure
				}
				return nil
			})

			assert.Equal(t, tc.expectCalls, calls)
			if tc.expectError {
				require.Error(t, err)
				assert.ErrorIs(t, err, failure)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRetryWithExponentialBackoffCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := RetryWithExponentialBackoff(ctx, NewRetryConfig(5, time.Hour, time.Hour), "cancelled-op", func() error {
		calls++
		cancel()
		return errors.New("boom")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls, "cancellation should prevent further attempts")
}
