// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"sync"

	"github.com/vereinsbot/group-lifecycle-service/internal/domain/model"
	"github.com/vereinsbot/group-lifecycle-service/internal/domain/port"
)

// MockWorkQueue is an in-memory FIFO implementation of port.WorkQueue.
type MockWorkQueue struct {
	mu        sync.Mutex
	additions []*model.AddWorkItem
	removals  []*model.RemoveWorkItem

	// PopErr makes every pop fail when set.
	PopErr error
}

// Ensure MockWorkQueue implements the WorkQueue interface
var _ port.WorkQueue = (*MockWorkQueue)(nil)

// NewMockWorkQueue creates an empty in-memory work queue.
func NewMockWorkQueue() *MockWorkQueue {
	return &MockWorkQueue{}
}

// PushAddition enqueues addition work items.
func (m *MockWorkQueue) PushAddition(items ...*model.AddWorkItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.additions = append(m.additions, items...)
}

// PushRemoval enqueues removal work items.
func (m *MockWorkQueue) PushRemoval(items ...*model.RemoveWorkItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removals = append(m.removals, items...)
}

// PopAddition pops the oldest addition item, or nil when empty.
func (m *MockWorkQueue) PopAddition(_ context.Context) (*model.AddWorkItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.PopErr != nil {
		return nil, m.PopErr
	}
	if len(m.additions) == 0 {
		return nil, nil
	}
	item := m.additions[0]
	m.additions = m.additions[1:]
	return item, nil
}

// PopRemoval pops the oldest removal item, or nil when empty.
func (m *MockWorkQueue) PopRemoval(_ context.Context) (*model.RemoveWorkItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.PopErr != nil {
		return nil, m.PopErr
	}
	if len(m.removals) == 0 {
		return nil, nil
	}
	item := m.removals[0]
	m.removals = m.removals[1:]
	return item, nil
}
