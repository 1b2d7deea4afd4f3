// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/vereinsbot/group-lifecycle-service/internal/domain/model"
)

// FailureNotifier delivers best-effort failure reports to operators.
// Callers must acknowledge the returned error and deliberately discard it
// after logging; notification failure never propagates into a flow.
type FailureNotifier interface {
	NotifyAdditionFailure(ctx context.Context, payload model.AdditionFailure) error
	NotifyRemovalFailure(ctx context.Context, payload model.RemovalFailure) error
}
