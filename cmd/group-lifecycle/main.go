// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

// Command group-lifecycle runs the group membership lifecycle worker: it
// consumes queued addition and removal requests and executes them against
// the messaging platform.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/vereinsbot/group-lifecycle-service/internal/infrastructure/nats"
	"github.com/vereinsbot/group-lifecycle-service/internal/infrastructure/wagateway"
	"github.com/vereinsbot/group-lifecycle-service/internal/service"
	"github.com/vereinsbot/group-lifecycle-service/pkg/log"
)

func main() {
	// A .env file is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	log.InitStructureLogConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil && ctx.Err() == nil {
		slog.ErrorContext(ctx, "worker exited with error", "error", err, log.PriorityCritical())
		os.Exit(1)
	}

	slog.InfoContext(ctx, "worker stopped")
}

func run(ctx context.Context) error {
	serviceConfig := service.NewConfigFromEnv()
	if err := serviceConfig.Validate(); err != nil {
		return err
	}

	natsClient, err := nats.NewClient(ctx, nats.NewConfigFromEnv())
	if err != nil {
		return err
	}
	defer func() {
		if err := natsClient.Close(); err != nil {
			slog.ErrorContext(ctx, "failed to close NATS client", "error", err)
		}
	}()

	gatewayClient, err := wagateway.NewClient(wagateway.NewConfigFromEnv())
	if err != nil {
		return err
	}
	if err := gatewayClient.IsReady(ctx); err != nil {
		slog.WarnContext(ctx, "gateway session is not ready yet, continuing anyway", "error", err)
	}

	storage := nats.NewStorage(natsClient)

	deps := service.Dependencies{
		Client:         gatewayClient,
		Registry:       nats.NewRegistryReader(natsClient),
		Authorizations: storage,
		Memberships:    storage,
		Notifier:       nats.NewFailureNotifier(natsClient),
		GroupTypes:     service.NewGroupTypeCache(),
	}

	consumer := service.NewConsumer(serviceConfig, nats.NewWorkQueue(natsClient),
		service.NewAdditionFlow(serviceConfig, deps),
		service.NewRemovalFlow(serviceConfig, deps),
	)

	slog.InfoContext(ctx, "group lifecycle worker starting",
		"worker_id", serviceConfig.WorkerID,
	)
	return consumer.Run(ctx)
}
