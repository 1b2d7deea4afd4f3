// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"github.com/vereinsbot/group-lifecycle-service/internal/domain/model"
)

// FindParticipant returns the first roster participant whose identity keys
// intersect the target's. The target set is the primary address plus any
// alternates, all projected to numeric keys; raw strings are never
// compared, because the platform reports the same person under different
// encodings between requests.
func FindParticipant(roster *model.Roster, target model.Address, alternates ...model.Address) *model.Participant {
	if roster == nil {
		return nil
	}

	targetKeys := make(map[string]struct{}, 1+len(alternates))
	if key := target.NumericKey(); key != "" {
		targetKeys[key] = struct{}{}
	}
	for _, alt := range alternates {
		if key := alt.NumericKey(); key != "" {
			targetKeys[key] = struct{}{}
		}
	}
	if len(targetKeys) == 0 {
		return nil
	}

	for i := range roster.Participants {
		participant := &roster.Participants[i]
		for _, key := range participant.NumericKeys() {
			if _, ok := targetKeys[key]; ok {
				return participant
			}
		}
	}
	return nil
}

// IsAdmin reports whether the target participates in the roster with admin
// or superadmin privileges.
func IsAdmin(roster *model.Roster, target model.Address, alternates ...model.Address) bool {
	participant := FindParticipant(roster, target, alternates...)
	return participant != nil && participant.Role.IsAdmin()
}
