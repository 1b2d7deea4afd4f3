// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

package model

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/vereinsbot/group-lifecycle-service/pkg/constants"
	"github.com/vereinsbot/group-lifecycle-service/pkg/log"
)

// MembershipStatus is the persisted state of one phone in one group.
type MembershipStatus string

// Membership status values
const (
	MembershipActive MembershipStatus = "active"
	MembershipExited MembershipStatus = "exited"
)

// MembershipRecord is the durable log of one phone's entry into or exit
// from a group. Writes must be safe to repeat: the record key is derived
// from (registration, phone, group), so duplicate writes collapse into an
// upsert instead of corrupting state.
type MembershipRecord struct {
	UID            string           `json:"uid"`
	RegistrationID string           `json:"registration_id"`
	Phone          string           `json:"phone"`
	GroupKey       string           `json:"group_key"`
	Status         MembershipStatus `json:"status"`
	ExitReason     string           `json:"exit_reason,omitempty"`
	EnteredAt      *time.Time       `json:"entered_at,omitempty"`
	ExitedAt       *time.Time       `json:"exited_at,omitempty"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// BuildIndexKey generates a SHA-256 hash for use as the record's KV key.
// This is what makes repeated writes of the same membership change
// idempotent.
func (m *MembershipRecord) BuildIndexKey(ctx context.Context) string {
	data := fmt.Sprintf("%s|%s|%s",
		m.RegistrationID,
		LastDigits(m.Phone, constants.AuthorizationKeyDigits),
		m.GroupKey,
	)

	hash := sha256.Sum256([]byte(data))
	key := hex.EncodeToString(hash[:])

	slog.DebugContext(ctx, "membership record index key built",
		"registration_id", m.RegistrationID,
		"phone", log.RedactPhone(m.Phone),
		"group_key", m.GroupKey,
		"key", key,
	)

	return key
}

// RequestStatus tracks the fulfillment state of one addition request.
// Fulfilled is a one-way latch: once set it never unsets, and later
// attempt marks no longer increment the counter.
type RequestStatus struct {
	RequestID     string     `json:"request_id"`
	Fulfilled     bool       `json:"fulfilled"`
	AttemptCount  int        `json:"attempt_count"`
	LastAttempt   *time.Time `json:"last_attempt,omitempty"`
	FailureReason string     `json:"failure_reason,omitempty"`
}

// MarkFulfilled latches the request as fulfilled.
func (s *RequestStatus) MarkFulfilled(now time.Time) {
	s.Fulfilled = true
	s.FailureReason = ""
	s.LastAttempt = &now
}

// MarkAttempt records an unfulfilled processing attempt. A request that
// already latched fulfilled stays fulfilled.
func (s *RequestStatus) MarkAttempt(now time.Time) {
	if s.Fulfilled {
		return
	}
	s.AttemptCount++
	s.LastAttempt = &now
}
