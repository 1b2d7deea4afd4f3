// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/vereinsbot/group-lifecycle-service/internal/domain/model"
	"github.com/vereinsbot/group-lifecycle-service/internal/domain/port"
	"github.com/vereinsbot/group-lifecycle-service/pkg/constants"
	errs "github.com/vereinsbot/group-lifecycle-service/pkg/errors"
)

// workQueue pops work items from the durable JetStream pull consumers.
// Acknowledging a message is the destructive pop: the item is handed out
// at most once, and redelivery only happens when the worker dies before
// the ack.
type workQueue struct {
	client *NATSClient
}

// NewWorkQueue creates the JetStream-backed work queue.
func NewWorkQueue(client *NATSClient) port.WorkQueue {
	return &workQueue{
		client: client,
	}
}

// PopAddition returns the next addition work item, or nil when the queue
// is currently empty.
func (q *workQueue) PopAddition(ctx context.Context) (*model.AddWorkItem, error) {
	item := &model.AddWorkItem{}
	ok, err := q.pop(ctx, constants.AdditionQueueStream, item)
	if err != nil || !ok {
		return nil, err
	}
	return item, nil
}

// PopRemoval returns the next removal work item, or nil when the queue is
// currently empty.
func (q *workQueue) PopRemoval(ctx context.Context) (*model.RemoveWorkItem, error) {
	item := &model.RemoveWorkItem{}
	ok, err := q.pop(ctx, constants.RemovalQueueStream, item)
	if err != nil || !ok {
		return nil, err
	}
	return item, nil
}

// pop fetches at most one message from the stream's durable consumer and
// unmarshals it into the item. Malformed payloads are terminated so they
// are never redelivered, and reported as an error.
func (q *workQueue) pop(ctx context.Context, stream string, item any) (bool, error) {
	consumer, exists := q.client.consumers[stream]
	if !exists || consumer == nil {
		return false, errs.NewServiceUnavailable("queue consumer not available")
	}

	batch, err := consumer.Fetch(1, jetstream.FetchMaxWait(q.client.config.FetchTimeout))
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return false, nil
		}
		return false, errs.NewServiceUnavailable("failed to fetch from work queue", err)
	}

	var msg jetstream.Msg
	for m := range batch.Messages() {
		msg = m
	}
	if err := batch.Error(); err != nil {
		if errors.Is(err, nats.ErrTimeout) || errors.Is(err, jetstream.ErrNoMessages) {
			return false, nil
		}
		return false, errs.NewServiceUnavailable("work queue fetch failed", err)
	}
	if msg == nil {
		return false, nil
	}

	if err := json.Unmarshal(msg.Data(), item); err != nil {
		slog.ErrorContext(ctx, "terminating malformed work item",
			"error", err,
			"stream", stream,
		)
		if termErr := msg.Term(); termErr != nil {
			slog.ErrorContext(ctx, "failed to terminate malformed work item", "error", termErr)
		}
		return false, errs.NewValidation("work item payload is malformed", err)
	}

	if err := msg.Ack(); err != nil {
		// The item was read but the ack failed: it will be redelivered, and
		// idempotent persistence absorbs the duplicate processing.
		slog.WarnContext(ctx, "failed to acknowledge work item, it may be redelivered",
			"error", err,
			"stream", stream,
		)
	}
	return true, nil
}
