// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"

	errs "github.com/vereinsbot/group-lifecycle-service/pkg/errors"
	"github.com/vereinsbot/group-lifecycle-service/pkg/utils"
)

// boundedOnce runs one collaborator call under the per-call timeout, with
// no retry. Used for the membership mutations when RetryMembershipCalls is
// off, and for the direct-message sends.
func boundedOnce[T any](ctx context.Context, config Config, fn func(ctx context.Context) (T, error)) (T, error) {
	return utils.WithTimeout(ctx, config.CallTimeout, fn)
}

// boundedRetry runs a collaborator call under the per-call timeout and
// retries transient failures up to the configured bound. Semantic outcomes
// surfacing as typed domain errors stop the retry immediately and reach
// the caller unchanged.
func boundedRetry[T any](ctx context.Context, config Config, label string, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T

	err := utils.RetryWithExponentialBackoff(ctx, config.retryConfig(), label, func() error {
		value, errCall := utils.WithTimeout(ctx, config.CallTimeout, fn)
		if errCall != nil {
			if isTerminalOutcome(errCall) {
				return utils.Permanent(errCall)
			}
			return errCall
		}
		result = value
		return nil
	})

	return result, err
}

// isTerminalOutcome reports whether an error is a semantic outcome that
// retrying cannot change, as opposed to a transient transport failure.
func isTerminalOutcome(err error) bool {
	var (
		validation   errs.Validation
		notFound     errs.NotFound
		denied       errs.PermissionDenied
		unauthorized errs.Unauthorized
		conflict     errs.Conflict
	)
	return errors.As(err, &validation) ||
		errors.As(err, &notFound) ||
		errors.As(err, &denied) ||
		errors.As(err, &unauthorized) ||
		errors.As(err, &conflict)
}
