// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

package nats

import (
	"os"
	"strconv"
	"time"

	"github.com/vereinsbot/group-lifecycle-service/pkg/constants"
)

// Config holds the NATS connection configuration.
type Config struct {
	// URL is the NATS server URL
	URL string

	// Timeout is the connection and request timeout
	Timeout time.Duration

	// MaxReconnect is the maximum number of reconnect attempts, -1 for
	// unlimited
	MaxReconnect int

	// ReconnectWait is the wait time between reconnect attempts
	ReconnectWait time.Duration

	// FetchTimeout bounds one pull-consumer fetch when the queue is empty
	FetchTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		URL:           "nats://localhost:4222",
		Timeout:       10 * time.Second,
		MaxReconnect:  -1,
		ReconnectWait: 2 * time.Second,
		FetchTimeout:  2 * time.Second,
	}
}

// NewConfigFromEnv creates a Config from environment variables
func NewConfigFromEnv() Config {
	config := DefaultConfig()

	if url := os.Getenv(constants.EnvNATSURL); url != "" {
		config.URL = url
	}

	if timeoutStr := os.Getenv("NATS_TIMEOUT_MS"); timeoutStr != "" {
		if ms, err := strconv.Atoi(timeoutStr); err == nil && ms > 0 {
			config.Timeout = time.Duration(ms) * time.Millisecond
		}
	}

	if reconnectStr := os.Getenv("NATS_MAX_RECONNECT"); reconnectStr != "" {
		if n, err := strconv.Atoi(reconnectStr); err == nil {
			config.MaxReconnect = n
		}
	}

	return config
}
