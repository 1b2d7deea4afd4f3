// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

package model

import (
	"github.com/vereinsbot/group-lifecycle-service/pkg/constants"
)

// MemberPhone is one phone number associated with a registration: the
// member's own number or a legal representative's. Read-only snapshot
// fetched per request from the registration registry.
type MemberPhone struct {
	Phone      string `json:"phone"`
	IsLegalRep bool   `json:"is_legal_rep"`
}

// AuthorizationKey returns the last-8-digit join key for this phone.
func (p MemberPhone) AuthorizationKey() string {
	return LastDigits(p.Phone, constants.AuthorizationKeyDigits)
}

// DedupeByAuthorizationKey removes phones that differ only in formatting or
// country-code prefix, keeping the first occurrence in input order. Avoids
// redundant platform calls for the same underlying number.
func DedupeByAuthorizationKey(phones []MemberPhone) []MemberPhone {
	seen := make(map[string]struct{}, len(phones))
	deduped := make([]MemberPhone, 0, len(phones))

	for _, phone := range phones {
		key := phone.AuthorizationKey()
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, phone)
	}
	return deduped
}

// AuthorizationRecord states that a phone has consented to be contacted by
// a specific bot identity. Created by the authorization sweep, read-only to
// this service.
type AuthorizationRecord struct {
	PhoneNumber string `json:"phone_number"`
	WorkerID    string `json:"worker_id"`
	CreatedAt   string `json:"created_at,omitempty"`
}
