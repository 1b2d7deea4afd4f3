// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"sync"

	"github.com/vereinsbot/group-lifecycle-service/internal/domain/model"
	"github.com/vereinsbot/group-lifecycle-service/internal/domain/port"
)

// MockNotifier records failure notifications for assertions.
type MockNotifier struct {
	mu sync.Mutex

	AdditionFailures []model.AdditionFailure
	RemovalFailures  []model.RemovalFailure

	// NotifyErr makes every notification fail when set.
	NotifyErr error
}

// Ensure MockNotifier implements the FailureNotifier interface
var _ port.FailureNotifier = (*MockNotifier)(nil)

// NewMockNotifier creates an empty notifier mock.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// NotifyAdditionFailure records the payload.
func (m *MockNotifier) NotifyAdditionFailure(_ context.Context, payload model.AdditionFailure) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.NotifyErr != nil {
		return m.NotifyErr
	}
	m.AdditionFailures = append(m.AdditionFailures, payload)
	return nil
}

// NotifyRemovalFailure records the payload.
func (m *MockNotifier) NotifyRemovalFailure(_ context.Context, payload model.RemovalFailure) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.NotifyErr != nil {
		return m.NotifyErr
	}
	m.RemovalFailures = append(m.RemovalFailures, payload)
	return nil
}
