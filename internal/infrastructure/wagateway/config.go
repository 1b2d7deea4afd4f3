// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

package wagateway

import (
	"os"
	"time"
)

// Config holds the configuration for the messaging gateway client
type Config struct {
	// BaseURL is the gateway API base URL
	BaseURL string

	// APIKey authenticates this worker against the gateway
	APIKey string

	// SessionID selects the gateway session (one per bot number)
	SessionID string

	// Timeout is the HTTP client timeout for requests
	Timeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		BaseURL:   "http://localhost:8080",
		SessionID: "default",
		Timeout:   30 * time.Second,
	}
}

// NewConfigFromEnv creates a Config from environment variables
func NewConfigFromEnv() Config {
	config := DefaultConfig()

	if baseURL := os.Getenv("WA_GATEWAY_URL"); baseURL != "" {
		config.BaseURL = baseURL
	}

	if apiKey := os.Getenv("WA_GATEWAY_API_KEY"); apiKey != "" {
		config.APIKey = apiKey
	}

	if sessionID := os.Getenv("WA_GATEWAY_SESSION"); sessionID != "" {
		config.SessionID = sessionID
	}

	if timeoutStr := os.Getenv("WA_GATEWAY_TIMEOUT"); timeoutStr != "" {
		if timeout, err := time.ParseDuration(timeoutStr); err == nil {
			config.Timeout = timeout
		}
	}

	return config
}
