// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

// Package nats provides the NATS-backed infrastructure of the service:
// the work queues, the persistence layer, the registry reader, and the
// failure notifier.
package nats

import (
	"context"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/vereinsbot/group-lifecycle-service/pkg/constants"
	"github.com/vereinsbot/group-lifecycle-service/pkg/errors"
)

// NATSClient wraps the NATS connection and the JetStream handles the
// service depends on: the KV buckets and the durable queue consumers.
type NATSClient struct {
	conn      *nats.Conn
	config    Config
	js        jetstream.JetStream
	kvStore   map[string]jetstream.KeyValue
	consumers map[string]jetstream.Consumer
	timeout   time.Duration
}

// Close gracefully closes the NATS connection
func (c *NATSClient) Close() error {
	if c.conn != nil {
		c.conn.Close()
	}
	return nil
}

// IsReady checks if the NATS client is ready
func (c *NATSClient) IsReady(ctx context.Context) error {
	if c.conn == nil {
		slog.ErrorContext(ctx, "NATS client is not initialized or not connected")
		return errors.NewServiceUnavailable("NATS client is not initialized or not connected")
	}
	if !c.conn.IsConnected() || c.conn.IsDraining() {
		slog.ErrorContext(ctx, "NATS client is not ready",
			"connected", c.conn.IsConnected(),
			"draining", c.conn.IsDraining(),
		)
		return errors.NewServiceUnavailable("NATS client is not ready, connection is not established or is draining")
	}
	slog.DebugContext(ctx, "NATS client is ready", "url", c.conn.ConnectedUrl())
	return nil
}

// keyValueStore binds one key-value bucket and caches the handle.
func (c *NATSClient) keyValueStore(ctx context.Context, bucketName string) error {
	kvStore, err := c.js.KeyValue(ctx, bucketName)
	if err != nil {
		slog.ErrorContext(ctx, "error getting NATS JetStream key-value store",
			"error", err,
			"nats_url", c.conn.ConnectedUrl(),
			"bucket", bucketName,
		)
		return err
	}

	if c.kvStore == nil {
		c.kvStore = make(map[string]jetstream.KeyValue)
	}
	c.kvStore[bucketName] = kvStore
	return nil
}

// queueConsumer binds one durable pull consumer and caches the handle.
func (c *NATSClient) queueConsumer(ctx context.Context, stream, consumer string) error {
	cons, err := c.js.Consumer(ctx, stream, consumer)
	if err != nil {
		slog.ErrorContext(ctx, "error getting NATS JetStream consumer",
			"error", err,
			"nats_url", c.conn.ConnectedUrl(),
			"stream", stream,
			"consumer", consumer,
		)
		return err
	}

	if c.consumers == nil {
		c.consumers = make(map[string]jetstream.Consumer)
	}
	c.consumers[stream] = cons
	return nil
}

// NewClient creates a new NATS client with the given configuration
func NewClient(ctx context.Context, config Config) (*NATSClient, error) {
	slog.InfoContext(ctx, "creating NATS client",
		"url", config.URL,
		"timeout", config.Timeout,
	)

	// Validate configuration
	if config.URL == "" {
		return nil, errors.NewUnexpected("NATS URL is required")
	}

	// Configure NATS connection options
	opts := []nats.Option{
		nats.Name(constants.ServiceName),
		nats.Timeout(config.Timeout),
		nats.MaxReconnects(config.MaxReconnect),
		nats.ReconnectWait(config.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			slog.WarnContext(ctx, "NATS disconnected",
				"error", err,
				"url", nc.ConnectedUrl(),
				"status", nc.Status(),
			)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.InfoContext(ctx, "NATS reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ErrorHandler(func(_ *nats.Conn, s *nats.Subscription, err error) {
			if s != nil {
				slog.With("error", err, "subject", s.Subject, "queue", s.Queue).Error("async NATS error")
			} else {
				slog.With("error", err).Error("async NATS error outside subscription")
			}
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			slog.InfoContext(ctx, "NATS connection closed",
				"url", nc.ConnectedUrl(),
				"status", nc.Status(),
			)
		}),
	}

	// Establish connection
	conn, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, errors.NewServiceUnavailable("failed to connect to NATS", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, errors.NewServiceUnavailable("failed to create JetStream client", err)
	}

	client := &NATSClient{
		conn:    conn,
		config:  config,
		js:      js,
		timeout: config.Timeout,
	}

	// Initialize key-value stores for membership records, request status,
	// and contact authorizations
	buckets := []string{
		constants.KVBucketNameMembershipRecords,
		constants.KVBucketNameRequestStatus,
		constants.KVBucketNameAuthorizations,
	}
	for _, bucketName := range buckets {
		if err := client.keyValueStore(ctx, bucketName); err != nil {
			slog.ErrorContext(ctx, "failed to initialize NATS key-value store",
				"error", err,
				"bucket", bucketName,
			)
			conn.Close()
			return nil, errors.NewServiceUnavailable("failed to initialize NATS key-value store", err)
		}
	}

	// Bind the durable work queue consumers
	queues := map[string]string{
		constants.AdditionQueueStream: constants.AdditionQueueConsumer,
		constants.RemovalQueueStream:  constants.RemovalQueueConsumer,
	}
	for stream, consumer := range queues {
		if err := client.queueConsumer(ctx, stream, consumer); err != nil {
			slog.ErrorContext(ctx, "failed to bind NATS queue consumer",
				"error", err,
				"stream", stream,
				"consumer", consumer,
			)
			conn.Close()
			return nil, errors.NewServiceUnavailable("failed to bind NATS queue consumer", err)
		}
	}

	slog.InfoContext(ctx, "NATS client created successfully",
		"connected_url", conn.ConnectedUrl(),
		"status", conn.Status(),
	)

	return client, nil
}
