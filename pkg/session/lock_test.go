package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/stepsort/pkg/adapters/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(memory.NewStore())
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		v, err := mgr.Create(ctx, CreateParams{Algorithm: "bubble", Numbers: []int{i % 7, 3, 1}})
		require.NoError(t, err)
		_, err = mgr.Advance(ctx, v.Session.ID, 1)
		require.NoError(t, err)
		require.NoError(t, mgr.Delete(ctx, v.Session.ID))
	}

	assert.Empty(t, mgr.locks, "lock entries must be released once unused")
	assert.Empty(t, mgr.cache, "deleted sessions must leave the cache")
}

func TestManager_CacheBound(t *testing.T) {
	mgr := NewManager(memory.NewStore(), WithCacheSize(4))
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		_, err := mgr.Create(ctx, CreateParams{Algorithm: "gnome", Numbers: []int{2, 1}})
		require.NoError(t, err, fmt.Sprint(i))
	}
	assert.LessOrEqual(t, len(mgr.cache), 4)
}

func TestManager_CacheDisabled(t *testing.T) {
	mgr := NewManager(memory.NewStore(), WithCacheSize(0))
	ctx := context.Background()

	v, err := mgr.Create(ctx, CreateParams{Algorithm: "heap", Numbers: []int{3, 1, 2}})
	require.NoError(t, err)
	_, err = mgr.Advance(ctx, v.Session.ID, 2)
	require.NoError(t, err)
	assert.Empty(t, mgr.cache)
}
