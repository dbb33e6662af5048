package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizflow/quizflow/pkg/adapters/memory"
	"github.com/quizflow/quizflow/pkg/domain"
	"github.com/quizflow/quizflow/pkg/persistence/middleware"
)

func generateKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, 32)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	backing := memory.NewStore()
	key := generateKey(t)
	secureStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})(backing)

	ctx := context.Background()
	original := domain.NewState("s1")
	original.Topic = "Cold War history"
	original.TopicValidated = true
	original.CurrentQuestion = "When did the Berlin Wall fall?"
	original.AddConversationEntry("quiz me on the cold war", "Question 1: ...")

	require.NoError(t, secureStore.Save(ctx, "s1", original))

	// The backing store sees only the envelope.
	raw, err := backing.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, raw.Topic)
	assert.Empty(t, raw.CurrentQuestion)
	assert.Empty(t, raw.History)
	assert.Contains(t, raw.Metadata, "__encrypted__")

	// Loading through the middleware restores everything.
	loaded, err := secureStore.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Cold War history", loaded.Topic)
	assert.Equal(t, "When did the Berlin Wall fall?", loaded.CurrentQuestion)
	require.Len(t, loaded.History, 1)
}

func TestEncryptionMiddleware_WrongKeyFails(t *testing.T) {
	backing := memory.NewStore()
	ctx := context.Background()

	writer := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(backing)
	require.NoError(t, writer.Save(ctx, "s1", domain.NewState("s1")))

	reader := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(backing)
	_, err := reader.Load(ctx, "s1")
	assert.Error(t, err)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	backing := memory.NewStore()
	ctx := context.Background()

	oldKey := generateKey(t)
	writer := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(backing)

	state := domain.NewState("s1")
	state.Topic = "Botany"
	require.NoError(t, writer.Save(ctx, "s1", state))

	// New active key, old key demoted to fallback.
	rotated := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    generateKey(t),
		FallbackKeys: [][]byte{oldKey},
	})(backing)

	loaded, err := rotated.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Botany", loaded.Topic)
}

func TestEncryptionMiddleware_PlaintextRecordRejected(t *testing.T) {
	backing := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, backing.Save(ctx, "s1", domain.NewState("s1")))

	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(backing)
	_, err := secure.Load(ctx, "s1")
	assert.ErrorContains(t, err, "envelope")
}

func TestEncryptionMiddleware_ShortKeyPanics(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short")})
	})
}
