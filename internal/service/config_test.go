// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/vereinsbot/group-lifecycle-service/pkg/errors"
)

func TestNewConfigFromEnv(t *testing.T) {
	t.Run("defaults apply when nothing is set", func(t *testing.T) {
		config := NewConfigFromEnv()

		assert.Equal(t, 20*time.Second, config.CallTimeout)
		assert.Equal(t, 3, config.RetryMaxAttempts)
		assert.False(t, config.RetryMembershipCalls)
		assert.Equal(t, 30*time.Second, config.SuccessBackoffMin)
		assert.Equal(t, 90*time.Second, config.SuccessBackoffMax)
	})

	t.Run("environment overrides are honored", func(t *testing.T) {
		t.Setenv("WORKER_ID", "worker-7")
		t.Setenv("CALL_TIMEOUT_MS", "5000")
		t.Setenv("RETRY_MAX_ATTEMPTS", "5")
		t.Setenv("RETRY_MEMBERSHIP_CALLS", "true")
		t.Setenv("BACKOFF_MIN_SECONDS", "10")
		t.Setenv("BACKOFF_MAX_SECONDS", "20")
		t.Setenv("BACKOFF_JITTER_SECONDS", "1")

		config := NewConfigFromEnv()

		assert.Equal(t, "worker-7", config.WorkerID)
		assert.Equal(t, 5*time.Second, config.CallTimeout)
		assert.Equal(t, 5, config.RetryMaxAttempts)
		assert.True(t, config.RetryMembershipCalls)
		assert.Equal(t, 10*time.Second, config.SuccessBackoffMin)
		assert.Equal(t, 20*time.Second, config.SuccessBackoffMax)
		assert.Equal(t, time.Second, config.IdleJitter)
	})

	t.Run("unparseable values fall back to defaults", func(t *testing.T) {
		t.Setenv("CALL_TIMEOUT_MS", "soon")
		t.Setenv("RETRY_MAX_ATTEMPTS", "-2")
		t.Setenv("RETRY_MEMBERSHIP_CALLS", "yes")

		config := NewConfigFromEnv()

		assert.Equal(t, 20*time.Second, config.CallTimeout)
		assert.Equal(t, 3, config.RetryMaxAttempts)
		assert.False(t, config.RetryMembershipCalls)
	})
}

func TestConfigValidate(t *testing.T) {
	valid := DefaultConfig()
	valid.WorkerID = "worker-1"

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "valid config passes",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing worker identity",
			mutate:  func(c *Config) { c.WorkerID = "" },
			wantErr: "WORKER_ID",
		},
		{
			name:    "non-positive call timeout",
			mutate:  func(c *Config) { c.CallTimeout = 0 },
			wantErr: "timeout",
		},
		{
			name:    "non-positive retry bound",
			mutate:  func(c *Config) { c.RetryMaxAttempts = 0 },
			wantErr: "retry bound",
		},
		{
			name: "inverted backoff window",
			mutate: func(c *Config) {
				c.SuccessBackoffMin = time.Minute
				c.SuccessBackoffMax = time.Second
			},
			wantErr: "backoff",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid
			tt.mutate(&config)

			err := config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.IsType(t, errs.Validation{}, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
