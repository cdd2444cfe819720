package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreGetUnknownSession(t *testing.T) {
	store, err := NewStore(StoreTypeMemory)
	require.NoError(t, err)
	defer store.Close()

	history, err := store.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestMemoryStoreAppendTurn(t *testing.T) {
	store, err := NewStore(StoreTypeMemory)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	err = store.Append(ctx, "s1",
		Message{Role: RoleUser, Content: "hello"},
		Message{Role: RoleAssistant, Content: "hi there"},
	)
	require.NoError(t, err)

	history, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, RoleUser, history[0].Role)
	assert.Equal(t, "hello", history[0].Content)
	assert.Equal(t, RoleAssistant, history[1].Role)
	assert.Equal(t, "hi there", history[1].Content)
}

func TestMemoryStoreSessionIsolation(t *testing.T) {
	store, err := NewStore(StoreTypeMemory)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Append(ctx, "a", Message{Role: RoleUser, Content: "one"}))
	require.NoError(t, store.Append(ctx, "b", Message{Role: RoleUser, Content: "two"}))

	a, err := store.Get(ctx, "a")
	require.NoError(t, err)
	b, err := store.Get(ctx, "b")
	require.NoError(t, err)
	assert.Len(t, a, 1)
	assert.Len(t, b, 1)
	assert.NotEqual(t, a[0].Content, b[0].Content)
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	store, err := NewStore(StoreTypeMemory)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Append(ctx, "s1", Message{Role: RoleUser, Content: "hello"}))

	before, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, "s1", Message{Role: RoleAssistant, Content: "hi"}))

	assert.Len(t, before, 1, "earlier snapshot must not grow")
}

func TestNewStoreInvalidType(t *testing.T) {
	_, err := NewStore(StoreType("postgres"))
	assert.ErrorIs(t, err, ErrInvalidStoreType)
}

func TestNewStoreRedisRequiresClient(t *testing.T) {
	_, err := NewStore(StoreTypeRedis)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
