package ports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/stepsort/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract runs a suite of tests verifying that a SessionStore
// implementation honors the interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := fmt.Sprintf("contract-%d", time.Now().UnixNano())

	t.Run("Save and Load", func(t *testing.T) {
		s := domain.NewSession(sessionID, "heap", []int{5, 3, 1, 4}, 42)
		s.Steps = 7
		s.Status = domain.StatusRunning

		require.NoError(t, store.Save(ctx, sessionID, s))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "heap", loaded.Algorithm)
		assert.Equal(t, uint64(42), loaded.Seed)
		assert.Equal(t, []int{5, 3, 1, 4}, loaded.Original)
		assert.Equal(t, 7, loaded.Steps)
		assert.Equal(t, domain.StatusRunning, loaded.Status)
		assert.WithinDuration(t, s.CreatedAt, loaded.CreatedAt, time.Second)
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		s := domain.NewSession(sessionID, "bubble", []int{2, 1}, 1)
		require.NoError(t, store.Save(ctx, sessionID, s))
		s.Steps = 3
		s.Status = domain.StatusFinished
		require.NoError(t, store.Save(ctx, sessionID, s))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, 3, loaded.Steps)
		assert.Equal(t, domain.StatusFinished, loaded.Status)
	})

	t.Run("Loaded Copy Is Isolated", func(t *testing.T) {
		s := domain.NewSession(sessionID, "bubble", []int{2, 1}, 1)
		require.NoError(t, store.Save(ctx, sessionID, s))
		s.Original[0] = 99

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, []int{2, 1}, loaded.Original)

		loaded.Original[1] = 77
		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, []int{2, 1}, again.Original)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, domain.NewSession(sessionID, "gnome", nil, 0)))
		require.NoError(t, store.Delete(ctx, sessionID))

		_, err := store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")

		assert.NoError(t, store.Delete(ctx, sessionID), "deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		require.NoError(t, store.Save(ctx, id1, domain.NewSession(id1, "shell", []int{1}, 0)))
		require.NoError(t, store.Save(ctx, id2, domain.NewSession(id2, "comb", []int{1}, 0)))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
