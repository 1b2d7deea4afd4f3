// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyStatusCode(t *testing.T) {
	testCases := []struct {
		name     string
		code     int
		expected StatusCodeClass
	}{
		{name: "200 is accepted", code: 200, expected: StatusAccepted},
		{name: "201 is accepted", code: 201, expected: StatusAccepted},
		{name: "299 is accepted", code: 299, expected: StatusAccepted},
		{name: "409 is already present", code: 409, expected: StatusAlreadyPresent},
		{name: "403 is rejected", code: 403, expected: StatusRejected},
		{name: "500 is rejected", code: 500, expected: StatusRejected},
		{name: "0 is rejected", code: 0, expected: StatusRejected},
		{name: "408 is rejected", code: 408, expected: StatusRejected},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ClassifyStatusCode(tc.code))
		})
	}
}

func TestProcessResultFold(t *testing.T) {
	var result ProcessResult

	result.Fold(AttemptResult{Phone: "1", Status: AttemptAdded})
	result.Fold(AttemptResult{Phone: "2", Status: AttemptAlreadyMember})
	result.Fold(AttemptResult{Phone: "3", Status: AttemptInvited})
	result.Fold(AttemptResult{Phone: "4", Status: AttemptFailed, Reason: "policy rejection"})

	assert.Equal(t, 4, result.ProcessedPhones)
	assert.True(t, result.Added)
	assert.True(t, result.AlreadyInGroup)
	assert.True(t, result.InviteSent)
	assert.Len(t, result.Failures, 1)
	assert.Equal(t, "policy rejection", result.Failures[0].Reason)
	assert.True(t, result.Fulfilled())
}

func TestProcessResultNotFulfilled(t *testing.T) {
	var result ProcessResult
	result.Fold(AttemptResult{Phone: "1", Status: AttemptFailed, Reason: "rejected"})

	assert.Equal(t, 1, result.ProcessedPhones)
	assert.False(t, result.Fulfilled())
}

func TestAttemptResultProgressed(t *testing.T) {
	assert.True(t, AttemptResult{Status: AttemptAdded}.Progressed())
	assert.True(t, AttemptResult{Status: AttemptAlreadyMember}.Progressed())
	assert.True(t, AttemptResult{Status: AttemptInvited}.Progressed())
	assert.False(t, AttemptResult{Status: AttemptFailed}.Progressed())
}
