// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/vereinsbot/group-lifecycle-service/internal/domain/port"
	"github.com/vereinsbot/group-lifecycle-service/pkg/log"
	"github.com/vereinsbot/group-lifecycle-service/pkg/utils"
)

// Consumer is the single logical worker of the process: it pulls at most
// one job per cycle from each of the two work queues, dispatches to the
// matching state machine, and throttles between cycles. Work items are
// fully processed one at a time; there is no intra-process parallelism
// across items.
type Consumer struct {
	config   Config
	queue    port.WorkQueue
	addition *AdditionFlow
	removal  *RemovalFlow
}

// NewConsumer creates the queue consumption loop.
func NewConsumer(config Config, queue port.WorkQueue, addition *AdditionFlow, removal *RemovalFlow) *Consumer {
	return &Consumer{
		config:   config,
		queue:    queue,
		addition: addition,
		removal:  removal,
	}
}

// Run consumes work items until the context is cancelled. Processing
// errors are logged and the loop keeps going; only cancellation stops it.
func (c *Consumer) Run(ctx context.Context) error {
	slog.InfoContext(ctx, "queue consumption loop starting")

	idle := backoff.NewExponentialBackOff()
	idle.InitialInterval = c.config.IdleJitter
	idle.MaxInterval = c.config.SuccessBackoffMax
	idle.MaxElapsedTime = 0 // never give up, the queues stay polled forever

	for {
		if ctx.Err() != nil {
			slog.InfoContext(ctx, "queue consumption loop stopping", "reason", ctx.Err())
			return ctx.Err()
		}

		worked := c.cycle(ctx)
		if worked {
			// The flows already pace platform mutations themselves, so the
			// inter-cycle pause after work stays short.
			idle.Reset()
			if err := utils.SleepWithJitter(ctx, 0, c.config.IdleJitter); err != nil {
				return err
			}
			continue
		}

		if err := sleepOrCancel(ctx, idle.NextBackOff()); err != nil {
			return err
		}
	}
}

// cycle pops and processes at most one item from each queue, addition
// first, and reports whether any work was done.
func (c *Consumer) cycle(ctx context.Context) bool {
	worked := false

	addItem, err := c.queue.PopAddition(ctx)
	switch {
	case err != nil:
		slog.ErrorContext(ctx, "failed to pop addition work item", "error", err)
	case addItem != nil:
		worked = true
		if _, err := c.addition.ProcessAddition(ctx, addItem); err != nil {
			slog.ErrorContext(ctx, "addition work item aborted",
				"error", err,
				"request_id", addItem.RequestID,
				log.PriorityCritical(),
			)
		}
	}

	if ctx.Err() != nil {
		return worked
	}

	removeItem, err := c.queue.PopRemoval(ctx)
	switch {
	case err != nil:
		slog.ErrorContext(ctx, "failed to pop removal work item", "error", err)
	case removeItem != nil:
		worked = true
		if _, err := c.removal.ProcessRemoval(ctx, removeItem); err != nil {
			slog.ErrorContext(ctx, "removal work item aborted",
				"error", err,
				"registration_id", removeItem.RegistrationID,
				log.PriorityCritical(),
			)
		}
	}

	return worked
}

func sleepOrCancel(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
