// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

// Package port defines the interfaces for external collaborators of the
// group lifecycle service.
package port

import (
	"context"

	"github.com/vereinsbot/group-lifecycle-service/internal/domain/model"
)

// ParticipantChange is the direction of a membership change.
type ParticipantChange string

// Participant change values
const (
	ParticipantAdd    ParticipantChange = "add"
	ParticipantRemove ParticipantChange = "remove"
)

// ParticipantStatus is the per-target numeric status code returned by the
// platform for one membership change. 200-class means applied, 409-class
// means already present, anything else is an ambiguous policy failure.
type ParticipantStatus struct {
	Address model.Address
	Code    int
}

// MessagingClient is the boundary to the messaging platform. The wire
// protocol, encryption, and session handling behind it are opaque; every
// call is a network call that may succeed, report per-target status codes,
// or fail outright.
type MessagingClient interface {
	// SelfIdentity returns the bot's own address and, when the platform
	// surfaces one, its alternate linked-device address.
	SelfIdentity(ctx context.Context) (addr model.Address, linked model.Address, err error)

	// FetchGroupRoster returns a fresh participant snapshot for the group.
	FetchGroupRoster(ctx context.Context, group model.Address) (*model.Roster, error)

	// UpdateParticipants applies a membership change for the given members
	// and returns one status per target. The platform gives no idempotency
	// guarantee for this call.
	UpdateParticipants(ctx context.Context, group model.Address, members []model.Address, change ParticipantChange) ([]ParticipantStatus, error)

	// GenerateInviteCode creates an invite code for the group.
	GenerateInviteCode(ctx context.Context, group model.Address) (string, error)

	// SendGroupInvite sends a native invite message for the group to a
	// person's private address.
	SendGroupInvite(ctx context.Context, to model.Address, group model.Address, groupSubject, code string) error

	// SendDirectMessage sends a plain text message to a person's private
	// address.
	SendDirectMessage(ctx context.Context, to model.Address, content string) error

	// IsReady checks whether the client's session is usable.
	IsReady(ctx context.Context) error
}
