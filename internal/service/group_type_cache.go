// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"sync"

	"github.com/vereinsbot/group-lifecycle-service/internal/domain/model"
)

// GroupTypeCache remembers group category tags per group for the lifetime
// of one gateway connection. Policy: fetch on miss, store, never expire
// proactively; Reset on reconnect. It is an explicit object handed to the
// flows rather than process-wide state.
type GroupTypeCache struct {
	mu    sync.RWMutex
	types map[string]string
}

// NewGroupTypeCache creates an empty cache.
func NewGroupTypeCache() *GroupTypeCache {
	return &GroupTypeCache{
		types: make(map[string]string),
	}
}

// Lookup returns the cached category tag for the group, if any.
func (c *GroupTypeCache) Lookup(group model.Address) (string, bool) {
	key := group.NumericKey()
	if key == "" {
		return "", false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	groupType, ok := c.types[key]
	return groupType, ok
}

// Store remembers the category tag for the group.
func (c *GroupTypeCache) Store(group model.Address, groupType string) {
	key := group.NumericKey()
	if key == "" || groupType == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.types[key] = groupType
}

// Reset drops all cached entries. Called when the gateway connection is
// re-established, since group metadata may have changed meanwhile.
func (c *GroupTypeCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.types = make(map[string]string)
}
