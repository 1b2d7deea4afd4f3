// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/vereinsbot/group-lifecycle-service/internal/domain/model"
	"github.com/vereinsbot/group-lifecycle-service/internal/domain/port"
	"github.com/vereinsbot/group-lifecycle-service/pkg/constants"
	"github.com/vereinsbot/group-lifecycle-service/pkg/errors"
)

// registryRequest reads registration data over NATS request/reply. The
// registration system owns the data; this service only takes per-request
// snapshots.
type registryRequest struct {
	client *NATSClient
}

// NewRegistryReader creates the NATS-backed registry reader.
func NewRegistryReader(client *NATSClient) port.RegistryReader {
	return &registryRequest{
		client: client,
	}
}

// ListMemberPhones retrieves the phones associated with a registration via
// NATS request/reply, in registry order.
func (r *registryRequest) ListMemberPhones(ctx context.Context, registrationID string) ([]model.MemberPhone, error) {
	if registrationID == "" {
		return nil, errors.NewValidation("registration ID cannot be empty")
	}

	slog.DebugContext(ctx, "requesting member phones via NATS",
		"registration_id", registrationID,
		"subject", constants.RegistryListPhonesSubject,
	)

	data := []byte(registrationID)
	msg, err := r.client.conn.RequestWithContext(ctx, constants.RegistryListPhonesSubject, data)
	if err != nil {
		slog.ErrorContext(ctx, "failed to request member phones",
			"error", err,
			"registration_id", registrationID,
		)
		return nil, errors.NewServiceUnavailable(fmt.Sprintf("registry unavailable: %v", err))
	}

	// An empty reply means the registration has no reachable numbers
	if len(msg.Data) == 0 {
		slog.WarnContext(ctx, "registration not found or has no phones",
			"registration_id", registrationID,
		)
		return []model.MemberPhone{}, nil
	}

	// Try to parse as JSON error response first
	var errorResponse struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(msg.Data, &errorResponse); err == nil && errorResponse.Error != "" {
		slog.WarnContext(ctx, "registry responded with an error",
			"registration_id", registrationID,
			"error", errorResponse.Error,
		)
		return nil, errors.NewUnexpected(errorResponse.Error)
	}

	var phones []model.MemberPhone
	if err := json.Unmarshal(msg.Data, &phones); err != nil {
		slog.ErrorContext(ctx, "failed to unmarshal member phones response",
			"error", err,
			"registration_id", registrationID,
		)
		return nil, fmt.Errorf("failed to unmarshal member phones: %w", err)
	}

	slog.DebugContext(ctx, "member phones retrieved",
		"registration_id", registrationID,
		"phone_count", len(phones),
	)

	return phones, nil
}
