// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/vereinsbot/group-lifecycle-service/internal/domain/model"
	"github.com/vereinsbot/group-lifecycle-service/internal/domain/port"
	"github.com/vereinsbot/group-lifecycle-service/pkg/constants"
	"github.com/vereinsbot/group-lifecycle-service/pkg/errors"
)

// failureNotifier publishes failure reports over NATS. Delivery is
// best-effort: callers log and drop the returned error.
type failureNotifier struct {
	client *NATSClient
}

// NewFailureNotifier creates the NATS-backed failure notifier.
func NewFailureNotifier(client *NATSClient) port.FailureNotifier {
	return &failureNotifier{
		client: client,
	}
}

// NotifyAdditionFailure publishes a consolidated addition failure report.
func (n *failureNotifier) NotifyAdditionFailure(ctx context.Context, payload model.AdditionFailure) error {
	return n.publish(ctx, constants.NotifyAdditionFailureSubject, payload, "addition_failure")
}

// NotifyRemovalFailure publishes a removal failure report.
func (n *failureNotifier) NotifyRemovalFailure(ctx context.Context, payload model.RemovalFailure) error {
	return n.publish(ctx, constants.NotifyRemovalFailureSubject, payload, "removal_failure")
}

// publish is the common method for publishing messages to NATS
func (n *failureNotifier) publish(ctx context.Context, subject string, message any, messageType string) error {
	// Check if client is ready
	if err := n.client.IsReady(ctx); err != nil {
		slog.ErrorContext(ctx, "NATS client is not ready for publishing",
			"error", err,
			"subject", subject,
			"message_type", messageType,
		)
		return errors.NewServiceUnavailable("NATS client is not ready", err)
	}

	// Marshal message to JSON
	data, err := json.Marshal(message)
	if err != nil {
		slog.ErrorContext(ctx, "failed to marshal message to JSON",
			"error", err,
			"subject", subject,
			"message_type", messageType,
		)
		return errors.NewUnexpected("failed to marshal message", err)
	}

	// Publish message
	if err := n.client.conn.Publish(subject, data); err != nil {
		slog.ErrorContext(ctx, "failed to publish message to NATS",
			"error", err,
			"subject", subject,
			"message_type", messageType,
		)
		return errors.NewServiceUnavailable("failed to publish message", err)
	}

	slog.DebugContext(ctx, "message published successfully",
		"subject", subject,
		"message_type", messageType,
		"message_size", len(data),
	)

	return nil
}
