// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

// Package service implements the group membership lifecycle orchestration:
// the queue consumption loop and the addition and removal state machines.
package service

import (
	"os"
	"strconv"
	"time"

	"github.com/vereinsbot/group-lifecycle-service/pkg/constants"
	errs "github.com/vereinsbot/group-lifecycle-service/pkg/errors"
	"github.com/vereinsbot/group-lifecycle-service/pkg/utils"
)

// Config holds the orchestration configuration for the lifecycle flows.
type Config struct {
	// WorkerID is the bot identity used for authorization lookups
	WorkerID string

	// CallTimeout bounds every single collaborator call
	CallTimeout time.Duration

	// RetryMaxAttempts bounds retries of calls whose repetition is safe
	RetryMaxAttempts int

	// RetryBaseDelay is the base delay for retry backoff
	RetryBaseDelay time.Duration

	// RetryMaxDelay caps the retry backoff delay
	RetryMaxDelay time.Duration

	// RetryMembershipCalls controls whether the non-idempotent add/remove
	// participant calls are retried at all. The platform gives those calls
	// no idempotency guarantee, so this is an explicit deployment-level
	// risk decision, off by default.
	RetryMembershipCalls bool

	// SuccessBackoffMin and SuccessBackoffMax delimit the randomized pause
	// after a platform mutation, keeping the interaction rate below the
	// platform's limits
	SuccessBackoffMin time.Duration
	SuccessBackoffMax time.Duration

	// IdleJitter delimits the shorter randomized pause used when no
	// progress was made, so blocked numbers do not cause busy-looping
	IdleJitter time.Duration
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		CallTimeout:          20 * time.Second,
		RetryMaxAttempts:     3,
		RetryBaseDelay:       time.Second,
		RetryMaxDelay:        15 * time.Second,
		RetryMembershipCalls: false,
		SuccessBackoffMin:    30 * time.Second,
		SuccessBackoffMax:    90 * time.Second,
		IdleJitter:           3 * time.Second,
	}
}

// NewConfigFromEnv creates a Config from environment variables
func NewConfigFromEnv() Config {
	config := DefaultConfig()

	config.WorkerID = os.Getenv(constants.EnvWorkerID)

	if timeoutStr := os.Getenv("CALL_TIMEOUT_MS"); timeoutStr != "" {
		if ms, err := strconv.Atoi(timeoutStr); err == nil && ms > 0 {
			config.CallTimeout = time.Duration(ms) * time.Millisecond
		}
	}

	if retriesStr := os.Getenv("RETRY_MAX_ATTEMPTS"); retriesStr != "" {
		if retries, err := strconv.Atoi(retriesStr); err == nil && retries > 0 {
			config.RetryMaxAttempts = retries
		}
	}

	if retryMembership := os.Getenv("RETRY_MEMBERSHIP_CALLS"); retryMembership == "true" || retryMembership == "false" {
		config.RetryMembershipCalls = retryMembership == "true"
	}

	if minStr := os.Getenv("BACKOFF_MIN_SECONDS"); minStr != "" {
		if seconds, err := strconv.Atoi(minStr); err == nil && seconds >= 0 {
			config.SuccessBackoffMin = time.Duration(seconds) * time.Second
		}
	}

	if maxStr := os.Getenv("BACKOFF_MAX_SECONDS"); maxStr != "" {
		if seconds, err := strconv.Atoi(maxStr); err == nil && seconds >= 0 {
			config.SuccessBackoffMax = time.Duration(seconds) * time.Second
		}
	}

	if jitterStr := os.Getenv("BACKOFF_JITTER_SECONDS"); jitterStr != "" {
		if seconds, err := strconv.Atoi(jitterStr); err == nil && seconds >= 0 {
			config.IdleJitter = time.Duration(seconds) * time.Second
		}
	}

	return config
}

// Validate checks the configuration at startup. Misconfiguration here is
// the one error class that is allowed to abort the process.
func (c Config) Validate() error {
	if c.WorkerID == "" {
		return errs.NewValidation("WORKER_ID is required")
	}
	if c.CallTimeout <= 0 {
		return errs.NewValidation("call timeout must be positive")
	}
	if c.RetryMaxAttempts <= 0 {
		return errs.NewValidation("retry bound must be positive")
	}
	if c.SuccessBackoffMax < c.SuccessBackoffMin {
		return errs.NewValidation("maximum backoff must not be below minimum backoff")
	}
	return nil
}

// retryConfig projects the orchestration config onto the retry helper.
func (c Config) retryConfig() utils.RetryConfig {
	return utils.NewRetryConfig(c.RetryMaxAttempts, c.RetryBaseDelay, c.RetryMaxDelay)
}
