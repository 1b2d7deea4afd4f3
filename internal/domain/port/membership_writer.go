// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

package port

import (
	"context"
	"time"

	"github.com/vereinsbot/group-lifecycle-service/internal/domain/model"
)

// MembershipWriter persists the durable artifacts of the lifecycle flows.
// All writes are at-least-once: callers may repeat them and the store must
// tolerate it.
type MembershipWriter interface {
	// RecordEntry upserts an active membership record for the phone.
	RecordEntry(ctx context.Context, registrationID, phone, groupKey string) error

	// RecordExit upserts an exited membership record with the supplied
	// business reason and exit timestamp. The key is the same as the
	// matching entry record's, so an exit closes the entry it belongs to.
	RecordExit(ctx context.Context, registrationID, phone, groupKey, reason string, exitedAt time.Time) error

	// MarkFulfilled latches the request as fulfilled.
	MarkFulfilled(ctx context.Context, requestID string) error

	// MarkAttempt increments the request's attempt counter unless the
	// request already latched fulfilled.
	MarkAttempt(ctx context.Context, requestID string) error

	// SetFailureReason records the most recent failure reason for the
	// request.
	SetFailureReason(ctx context.Context, requestID, reason string) error
}

// RequestStatusReader reads back persisted request status. Used by tests
// and operational tooling rather than the flows themselves.
type RequestStatusReader interface {
	GetRequestStatus(ctx context.Context, requestID string) (*model.RequestStatus, error)
}
