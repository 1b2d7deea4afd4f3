// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/vereinsbot/group-lifecycle-service/internal/domain/model"
)

// RegistryReader reads registration data owned by the external
// registration system.
type RegistryReader interface {
	// ListMemberPhones returns the phones associated with a registration,
	// in registry order. An empty slice means the registration has no
	// reachable numbers.
	ListMemberPhones(ctx context.Context, registrationID string) ([]model.MemberPhone, error)
}

// AuthorizationReader looks up contact authorization records.
type AuthorizationReader interface {
	// FindAuthorization looks up consent by the last-8-digits join key and
	// the worker identity. Returns a NotFound error when no record exists.
	FindAuthorization(ctx context.Context, phoneLast8, workerID string) (*model.AuthorizationRecord, error)
}
