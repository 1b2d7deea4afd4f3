// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

package model

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestStatusFulfilledIsALatch(t *testing.T) {
	now := time.Now()
	status := &RequestStatus{RequestID: "req-1"}

	status.MarkAttempt(now)
	status.MarkAttempt(now)
	assert.Equal(t, 2, status.AttemptCount)
	assert.False(t, status.Fulfilled)

	status.MarkFulfilled(now)
	assert.True(t, status.Fulfilled)

	// Re-marking fulfilled and attempting afterwards must not change anything
	status.MarkFulfilled(now)
	status.MarkAttempt(now)
	status.MarkAttempt(now)
	assert.True(t, status.Fulfilled)
	assert.Equal(t, 2, status.AttemptCount)
}

func TestRequestStatusMarkFulfilledClearsFailureReason(t *testing.T) {
	status := &RequestStatus{RequestID: "req-1", FailureReason: "no admin rights"}
	status.MarkFulfilled(time.Now())

	assert.Empty(t, status.FailureReason)
	require.NotNil(t, status.LastAttempt)
}

func TestMembershipRecordBuildIndexKey(t *testing.T) {
	ctx := context.Background()

	record := &MembershipRecord{
		RegistrationID: "reg-1",
		Phone:          "+49 151 1234 5678",
		GroupKey:       "120363041234567890",
	}

	key := record.BuildIndexKey(ctx)
	require.Len(t, key, 64, "expected hex-encoded SHA-256")

	// Same registration, group, and last-8 digits collapse to the same key
	// regardless of country-code formatting
	other := &MembershipRecord{
		RegistrationID: "reg-1",
		Phone:          "015112345678",
		GroupKey:       "120363041234567890",
	}
	assert.Equal(t, key, other.BuildIndexKey(ctx))

	// A different group yields a different key
	elsewhere := &MembershipRecord{
		RegistrationID: "reg-1",
		Phone:          "+49 151 1234 5678",
		GroupKey:       "other-group",
	}
	assert.NotEqual(t, key, elsewhere.BuildIndexKey(ctx))
}
