// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vereinsbot/group-lifecycle-service/internal/domain/model"
	"github.com/vereinsbot/group-lifecycle-service/pkg/constants"
)

func TestGroupTypeCache(t *testing.T) {
	group, err := model.NewGroupAddress("120363041234567890")
	require.NoError(t, err)

	t.Run("miss on empty cache", func(t *testing.T) {
		cache := NewGroupTypeCache()
		_, ok := cache.Lookup(group)
		assert.False(t, ok)
	})

	t.Run("store then lookup", func(t *testing.T) {
		cache := NewGroupTypeCache()
		cache.Store(group, constants.GroupTypeJB)

		groupType, ok := cache.Lookup(group)
		require.True(t, ok)
		assert.Equal(t, constants.GroupTypeJB, groupType)
	})

	t.Run("lookup matches across address encodings", func(t *testing.T) {
		cache := NewGroupTypeCache()
		cache.Store("120363041234567890@g.us", constants.GroupTypeRJB)

		groupType, ok := cache.Lookup("120363041234567890")
		require.True(t, ok)
		assert.Equal(t, constants.GroupTypeRJB, groupType)
	})

	t.Run("empty keys and empty types are not stored", func(t *testing.T) {
		cache := NewGroupTypeCache()
		cache.Store("no-digits-here", constants.GroupTypeJB)
		cache.Store(group, "")

		_, ok := cache.Lookup(group)
		assert.False(t, ok)
	})

	t.Run("reset drops all entries", func(t *testing.T) {
		cache := NewGroupTypeCache()
		cache.Store(group, constants.GroupTypeMB)
		cache.Reset()

		_, ok := cache.Lookup(group)
		assert.False(t, ok)
	})
}
