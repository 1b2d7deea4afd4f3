// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vereinsbot/group-lifecycle-service/internal/domain/model"
	"github.com/vereinsbot/group-lifecycle-service/internal/domain/port"
	errs "github.com/vereinsbot/group-lifecycle-service/pkg/errors"
)

// MockRepository provides an in-memory implementation of the registry,
// authorization, and persistence ports for testing.
type MockRepository struct {
	mu sync.RWMutex

	// phones maps registrationID -> phones in registry order.
	phones map[string][]model.MemberPhone

	// authorizations maps "last8|workerID" -> record.
	authorizations map[string]*model.AuthorizationRecord

	// records maps the membership index key -> record.
	records map[string]*model.MembershipRecord

	// statuses maps requestID -> status.
	statuses map[string]*model.RequestStatus

	// Error hooks for failure injection.
	ListPhonesErr error
	PersistErr    error
}

// Compile-time interface checks
var (
	_ port.RegistryReader      = (*MockRepository)(nil)
	_ port.AuthorizationReader = (*MockRepository)(nil)
	_ port.MembershipWriter    = (*MockRepository)(nil)
	_ port.RequestStatusReader = (*MockRepository)(nil)
)

// NewMockRepository creates an empty in-memory repository.
func NewMockRepository() *MockRepository {
	return &MockRepository{
		phones:         make(map[string][]model.MemberPhone),
		authorizations: make(map[string]*model.AuthorizationRecord),
		records:        make(map[string]*model.MembershipRecord),
		statuses:       make(map[string]*model.RequestStatus),
	}
}

// SetPhones scripts the registry phones for a registration.
func (m *MockRepository) SetPhones(registrationID string, phones ...model.MemberPhone) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.phones[registrationID] = phones
}

// Authorize scripts a consent record for a phone and worker identity.
func (m *MockRepository) Authorize(phone, workerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := model.LastDigits(phone, 8) + "|" + workerID
	m.authorizations[key] = &model.AuthorizationRecord{
		PhoneNumber: phone,
		WorkerID:    workerID,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
}

// ListMemberPhones returns the scripted phones for a registration.
func (m *MockRepository) ListMemberPhones(_ context.Context, registrationID string) ([]model.MemberPhone, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.ListPhonesErr != nil {
		return nil, m.ListPhonesErr
	}
	return m.phones[registrationID], nil
}

// FindAuthorization looks up a scripted consent record.
func (m *MockRepository) FindAuthorization(_ context.Context, phoneLast8, workerID string) (*model.AuthorizationRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.authorizations[phoneLast8+"|"+workerID]
	if !ok {
		return nil, errs.NewNotFound(fmt.Sprintf("no authorization for key %s", phoneLast8))
	}
	return record, nil
}

// RecordEntry upserts an active membership record.
func (m *MockRepository) RecordEntry(ctx context.Context, registrationID, phone, groupKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.PersistErr != nil {
		return m.PersistErr
	}

	now := time.Now()
	record := &model.MembershipRecord{
		RegistrationID: registrationID,
		Phone:          phone,
		GroupKey:       groupKey,
		Status:         model.MembershipActive,
		EnteredAt:      &now,
		UpdatedAt:      now,
	}
	m.records[record.BuildIndexKey(ctx)] = record
	return nil
}

// RecordExit upserts an exited membership record.
func (m *MockRepository) RecordExit(ctx context.Context, registrationID, phone, groupKey, reason string, exitedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.PersistErr != nil {
		return m.PersistErr
	}

	record := &model.MembershipRecord{
		RegistrationID: registrationID,
		Phone:          phone,
		GroupKey:       groupKey,
		Status:         model.MembershipExited,
		UpdatedAt:      time.Now(),
	}
	key := record.BuildIndexKey(ctx)
	if existing, ok := m.records[key]; ok {
		record = existing
	}
	record.Status = model.MembershipExited
	record.ExitReason = reason
	record.ExitedAt = &exitedAt
	record.UpdatedAt = time.Now()
	m.records[key] = record
	return nil
}

// MarkFulfilled latches the request as fulfilled.
func (m *MockRepository) MarkFulfilled(_ context.Context, requestID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.PersistErr != nil {
		return m.PersistErr
	}

	status := m.status(requestID)
	status.MarkFulfilled(time.Now())
	return nil
}

// MarkAttempt records an unfulfilled processing attempt.
func (m *MockRepository) MarkAttempt(_ context.Context, requestID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.PersistErr != nil {
		return m.PersistErr
	}

	status := m.status(requestID)
	status.MarkAttempt(time.Now())
	return nil
}

// SetFailureReason records the latest failure reason for the request.
func (m *MockRepository) SetFailureReason(_ context.Context, requestID, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.PersistErr != nil {
		return m.PersistErr
	}

	m.status(requestID).FailureReason = reason
	return nil
}

// GetRequestStatus reads back the persisted request status.
func (m *MockRepository) GetRequestStatus(_ context.Context, requestID string) (*model.RequestStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status, ok := m.statuses[requestID]
	if !ok {
		return nil, errs.NewNotFound(fmt.Sprintf("no status for request %s", requestID))
	}
	copied := *status
	return &copied, nil
}

// MembershipRecords returns a snapshot of all stored membership records.
func (m *MockRepository) MembershipRecords() []*model.MembershipRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*model.MembershipRecord, 0, len(m.records))
	for _, record := range m.records {
		copied := *record
		records = append(records, &copied)
	}
	return records
}

// status returns the mutable status entry for a request, creating it on
// first use. Callers must hold the write lock.
func (m *MockRepository) status(requestID string) *model.RequestStatus {
	status, ok := m.statuses[requestID]
	if !ok {
		status = &model.RequestStatus{RequestID: requestID}
		m.statuses[requestID] = status
	}
	return status
}
