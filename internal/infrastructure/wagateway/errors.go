// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

package wagateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/vereinsbot/group-lifecycle-service/pkg/errors"
	"github.com/vereinsbot/group-lifecycle-service/pkg/httpclient"
)

// MapHTTPError maps httpclient errors to domain errors with proper context logging
func MapHTTPError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	if retryableErr, ok := err.(*httpclient.RetryableError); ok {
		slog.WarnContext(ctx, "gateway HTTP error occurred",
			"status_code", retryableErr.StatusCode,
			"message", retryableErr.Message,
		)

		switch retryableErr.StatusCode {
		case http.StatusNotFound:
			return errors.NewNotFound("resource not found on the gateway", err)
		case http.StatusConflict:
			return errors.NewConflict("resource already exists on the gateway", err)
		case http.StatusUnauthorized:
			return errors.NewUnauthorized("gateway authentication failed", err)
		case http.StatusForbidden:
			return errors.NewPermissionDenied("gateway denied the operation", err)
		case http.StatusTooManyRequests:
			return errors.NewServiceUnavailable("gateway rate limited", err)
		case http.StatusBadRequest:
			return errors.NewValidation(fmt.Sprintf("gateway validation error: %s", retryableErr.Message), err)
		case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return errors.NewServiceUnavailable("gateway unavailable", err)
		default:
			slog.ErrorContext(ctx, "unexpected gateway HTTP status code",
				"status_code", retryableErr.StatusCode,
				"message", retryableErr.Message,
			)
			return errors.NewUnexpected("gateway API error", err)
		}
	}

	// Network, timeout, and other transport failures
	slog.ErrorContext(ctx, "gateway request failed with non-HTTP error",
		"error", err.Error(),
	)
	return errors.NewServiceUnavailable("gateway request failed", err)
}
