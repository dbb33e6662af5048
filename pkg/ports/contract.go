package ports

import (
	"context"
	"testing"
	"time"

	"github.com/quizflow/quizflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract runs a suite of tests to verify that a
// StateStore implementation adheres to the interface contract,
// including lossless round-tripping of the metadata mapping.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewState(sessionID)
		state.Topic = "Go concurrency"
		state.TopicValidated = true
		state.Phase = domain.PhaseQuizActive
		state.CurrentQuestion = "What does the select statement do?"
		state.Metadata[domain.MetaDifficulty] = "hard"
		state.AddConversationEntry("quiz me on Go concurrency", "")

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, state.Phase, loaded.Phase)
		assert.Equal(t, state.Topic, loaded.Topic)
		assert.Equal(t, state.CurrentQuestion, loaded.CurrentQuestion)
		assert.Equal(t, "hard", loaded.Metadata[domain.MetaDifficulty])
		require.Len(t, loaded.History, 1)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Load Isolation", func(t *testing.T) {
		// Mutating a loaded snapshot must not leak into the store.
		require.NoError(t, store.Save(ctx, sessionID, domain.NewState(sessionID)))

		first, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		first.Topic = "mutated"

		second, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Empty(t, second.Topic)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewState(sessionID))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewState(id1))
		_ = store.Save(ctx, id2, domain.NewState(id2))

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
