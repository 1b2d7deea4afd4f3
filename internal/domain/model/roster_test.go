// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParticipantNumericKeys(t *testing.T) {
	testCases := []struct {
		name        string
		participant *Participant
		expected    []string
	}{
		{
			name: "all identity fields populated",
			participant: &Participant{
				Address:       "4915112345678@s.whatsapp.net",
				PhoneAddress:  "4915112345678@s.whatsapp.net",
				LinkedAddress: "98765432109876:3@lid",
			},
			expected: []string{"4915112345678", "4915112345678", "98765432109876"},
		},
		{
			name: "partially populated entry yields fewer keys",
			participant: &Participant{
				Address: "4915112345678@s.whatsapp.net",
			},
			expected: []string{"4915112345678"},
		},
		{
			name:        "empty entry yields no keys instead of failing",
			participant: &Participant{},
			expected:    nil,
		},
		{
			name:        "nil participant is tolerated",
			participant: nil,
			expected:    nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.participant.NumericKeys())
		})
	}
}

func TestAdminRoleIsAdmin(t *testing.T) {
	assert.True(t, AdminRoleAdmin.IsAdmin())
	assert.True(t, AdminRoleSuperAdmin.IsAdmin())
	assert.False(t, AdminRoleNone.IsAdmin())
	assert.False(t, AdminRole("member").IsAdmin())
}
