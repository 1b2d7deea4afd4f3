// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/vereinsbot/group-lifecycle-service/internal/domain/model"
	"github.com/vereinsbot/group-lifecycle-service/internal/domain/port"
	"github.com/vereinsbot/group-lifecycle-service/pkg/constants"
	errs "github.com/vereinsbot/group-lifecycle-service/pkg/errors"
	"github.com/vereinsbot/group-lifecycle-service/pkg/log"
)

// Storage is the KV-backed persistence layer: membership records, request
// status, and the read-only authorization lookups.
type Storage struct {
	client *NATSClient
}

// NewStorage creates the KV-backed persistence layer.
func NewStorage(client *NATSClient) *Storage {
	return &Storage{
		client: client,
	}
}

// Compile-time interface checks
var (
	_ port.MembershipWriter    = (*Storage)(nil)
	_ port.AuthorizationReader = (*Storage)(nil)
	_ port.RequestStatusReader = (*Storage)(nil)
)

// RecordEntry upserts an active membership record. The KV key is derived
// from (registration, phone, group), so a redelivered work item overwrites
// the same record instead of creating a duplicate.
func (s *Storage) RecordEntry(ctx context.Context, registrationID, phone, groupKey string) error {
	now := time.Now()
	record := &model.MembershipRecord{
		RegistrationID: registrationID,
		Phone:          phone,
		GroupKey:       groupKey,
		Status:         model.MembershipActive,
		EnteredAt:      &now,
		UpdatedAt:      now,
	}
	key := record.BuildIndexKey(ctx)

	existing := &model.MembershipRecord{}
	_, err := s.get(ctx, constants.KVBucketNameMembershipRecords, key, existing)
	switch {
	case err == nil:
		// Keep the original identity and entry timestamp on repeat writes
		record.UID = existing.UID
		if existing.EnteredAt != nil {
			record.EnteredAt = existing.EnteredAt
		}
	case errors.Is(err, jetstream.ErrKeyNotFound):
		record.UID = uuid.New().String()
	default:
		return errs.NewServiceUnavailable("failed to read membership record", err)
	}

	if _, err := s.put(ctx, constants.KVBucketNameMembershipRecords, key, record); err != nil {
		slog.ErrorContext(ctx, "failed to store membership entry",
			"error", err,
			"phone", log.RedactPhone(phone),
			"group_key", groupKey,
		)
		return errs.NewServiceUnavailable("failed to store membership entry", err)
	}

	slog.DebugContext(ctx, "nats storage: membership entry recorded",
		"record_uid", record.UID,
		"group_key", groupKey,
	)
	return nil
}

// RecordExit upserts an exited membership record with the business reason
// and exit timestamp.
func (s *Storage) RecordExit(ctx context.Context, registrationID, phone, groupKey, reason string, exitedAt time.Time) error {
	record := &model.MembershipRecord{
		RegistrationID: registrationID,
		Phone:          phone,
		GroupKey:       groupKey,
	}
	key := record.BuildIndexKey(ctx)

	existing := &model.MembershipRecord{}
	_, err := s.get(ctx, constants.KVBucketNameMembershipRecords, key, existing)
	switch {
	case err == nil:
		record = existing
	case errors.Is(err, jetstream.ErrKeyNotFound):
		// An exit can outlive its entry record, e.g. after manual cleanup
		record.UID = uuid.New().String()
	default:
		return errs.NewServiceUnavailable("failed to read membership record", err)
	}

	record.Status = model.MembershipExited
	record.ExitReason = reason
	record.ExitedAt = &exitedAt
	record.UpdatedAt = time.Now()

	if _, err := s.put(ctx, constants.KVBucketNameMembershipRecords, key, record); err != nil {
		slog.ErrorContext(ctx, "failed to store membership exit",
			"error", err,
			"phone", log.RedactPhone(phone),
			"group_key", groupKey,
		)
		return errs.NewServiceUnavailable("failed to store membership exit", err)
	}

	slog.DebugContext(ctx, "nats storage: membership exit recorded",
		"record_uid", record.UID,
		"group_key", groupKey,
	)
	return nil
}

// MarkFulfilled latches the request status as fulfilled.
func (s *Storage) MarkFulfilled(ctx context.Context, requestID string) error {
	return s.updateRequestStatus(ctx, requestID, func(status *model.RequestStatus) {
		status.MarkFulfilled(time.Now())
	})
}

// MarkAttempt records an unfulfilled processing attempt. The underlying
// latch keeps already-fulfilled requests untouched.
func (s *Storage) MarkAttempt(ctx context.Context, requestID string) error {
	return s.updateRequestStatus(ctx, requestID, func(status *model.RequestStatus) {
		status.MarkAttempt(time.Now())
	})
}

// SetFailureReason records the latest failure reason for the request.
func (s *Storage) SetFailureReason(ctx context.Context, requestID, reason string) error {
	return s.updateRequestStatus(ctx, requestID, func(status *model.RequestStatus) {
		if status.Fulfilled {
			return
		}
		status.FailureReason = reason
	})
}

// GetRequestStatus retrieves the persisted status of one addition request.
func (s *Storage) GetRequestStatus(ctx context.Context, requestID string) (*model.RequestStatus, error) {
	status := &model.RequestStatus{}
	_, err := s.get(ctx, constants.KVBucketNameRequestStatus, requestID, status)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, errs.NewNotFound(fmt.Sprintf("request status %s not found", requestID))
		}
		return nil, errs.NewServiceUnavailable("failed to get request status", err)
	}
	return status, nil
}

// FindAuthorization looks up a consent record by the last-8-digits join key
// and the worker identity. The sweep that writes these records keys them
// the same way.
func (s *Storage) FindAuthorization(ctx context.Context, phoneLast8, workerID string) (*model.AuthorizationRecord, error) {
	key := authorizationKey(phoneLast8, workerID)

	record := &model.AuthorizationRecord{}
	_, err := s.get(ctx, constants.KVBucketNameAuthorizations, key, record)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, errs.NewNotFound(fmt.Sprintf("no authorization record for key %s", phoneLast8))
		}
		slog.ErrorContext(ctx, "failed to look up authorization record",
			"error", err,
			"worker_id", workerID,
		)
		return nil, errs.NewServiceUnavailable("failed to look up authorization record", err)
	}
	return record, nil
}

// updateRequestStatus applies a read-modify-write on one request status
// entry, creating it on first touch. Revisions are not enforced: the only
// concurrent writer is this worker, and the fulfillment latch is one-way.
func (s *Storage) updateRequestStatus(ctx context.Context, requestID string, mutate func(*model.RequestStatus)) error {
	if requestID == "" {
		return errs.NewValidation("request ID cannot be empty")
	}

	status := &model.RequestStatus{RequestID: requestID}
	_, err := s.get(ctx, constants.KVBucketNameRequestStatus, requestID, status)
	if err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return errs.NewServiceUnavailable("failed to read request status", err)
	}

	mutate(status)

	if _, err := s.put(ctx, constants.KVBucketNameRequestStatus, requestID, status); err != nil {
		slog.ErrorContext(ctx, "failed to store request status",
			"error", err,
			"request_id", requestID,
		)
		return errs.NewServiceUnavailable("failed to store request status", err)
	}

	slog.DebugContext(ctx, "nats storage: request status updated",
		"request_id", requestID,
		"fulfilled", status.Fulfilled,
		"attempt_count", status.AttemptCount,
	)
	return nil
}

// get retrieves a model from the NATS KV store by bucket and key.
// It unmarshals the data into the provided model and returns the revision.
func (s *Storage) get(ctx context.Context, bucket, key string, model any) (uint64, error) {
	if key == "" {
		return 0, errs.NewValidation("key cannot be empty")
	}

	kv, exists := s.client.kvStore[bucket]
	if !exists || kv == nil {
		return 0, errs.NewServiceUnavailable("KV bucket not available")
	}

	data, errGet := kv.Get(ctx, key)
	if errGet != nil {
		return 0, errGet
	}

	if errUnmarshal := json.Unmarshal(data.Value(), model); errUnmarshal != nil {
		return 0, errUnmarshal
	}

	return data.Revision(), nil
}

// put stores a model in the NATS KV store by bucket and key.
// It marshals the model into JSON and stores it, returning the revision.
func (s *Storage) put(ctx context.Context, bucket, key string, model any) (uint64, error) {
	if key == "" {
		return 0, errs.NewValidation("key cannot be empty")
	}

	kv, exists := s.client.kvStore[bucket]
	if !exists || kv == nil {
		return 0, errs.NewServiceUnavailable("KV bucket not available")
	}

	data, err := json.Marshal(model)
	if err != nil {
		return 0, err
	}

	return kv.Put(ctx, key, data)
}

// authorizationKey builds the KV key the authorization sweep writes
// records under.
func authorizationKey(phoneLast8, workerID string) string {
	return phoneLast8 + "." + workerID
}

// IsReady checks if the storage is ready by verifying the client connection
func (s *Storage) IsReady(ctx context.Context) error {
	return s.client.IsReady(ctx)
}
