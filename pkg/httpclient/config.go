// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

// Package httpclient provides a reusable HTTP client with retry and
// middleware support.
package httpclient

import "time"

// Config holds the configuration for the HTTP client
type Config struct {
	// Timeout is the per-request timeout
	Timeout time.Duration

	// MaxRetries is the maximum number of retry attempts for failed requests
	MaxRetries int

	// RetryDelay is the base delay between retry attempts
	RetryDelay time.Duration

	// RetryBackoff enables exponential growth of the retry delay
	RetryBackoff bool

	// MaxDelay caps the exponential backoff delay
	MaxDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		Timeout:      30 * time.Second,
		MaxRetries:   3,
		RetryDelay:   time.Second,
		RetryBackoff: true,
		MaxDelay:     30 * time.Second,
	}
}
