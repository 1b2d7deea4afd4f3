// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/vereinsbot/group-lifecycle-service/internal/domain/model"
)

// WorkQueue pops queued work items. A pop is destructive: the queue hands
// each item out at most once, and exactly-once effect is the orchestrator's
// job via idempotent persistence, not the queue's.
type WorkQueue interface {
	// PopAddition returns the next addition work item, or nil when the
	// queue is currently empty.
	PopAddition(ctx context.Context) (*model.AddWorkItem, error)

	// PopRemoval returns the next removal work item, or nil when the queue
	// is currently empty.
	PopRemoval(ctx context.Context) (*model.RemoveWorkItem, error)
}
