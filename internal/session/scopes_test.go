package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kra360/internal/platform/crypto"
)

func TestMemoryScopesIsolateSessions(t *testing.T) {
	scopes := NewMemoryScopes(time.Hour)
	require.NoError(t, scopes.For("a").Save(context.Background(), StorageKey, []byte("alice")))

	value, err := scopes.For("a").Load(context.Background(), StorageKey)
	require.NoError(t, err)
	assert.Equal(t, []byte("alice"), value)

	_, err = scopes.For("b").Load(context.Background(), StorageKey)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryScopesDropOnDelete(t *testing.T) {
	scopes := NewMemoryScopes(time.Hour)
	ctx := context.Background()
	require.NoError(t, scopes.For("a").Save(ctx, StorageKey, []byte("alice")))
	require.NoError(t, scopes.For("b").Save(ctx, StorageKey, []byte("bob")))
	assert.Equal(t, 2, scopes.Len())

	require.NoError(t, scopes.For("a").Delete(ctx, StorageKey))
	assert.Equal(t, 1, scopes.Len())
	require.NoError(t, scopes.For("missing").Delete(ctx, StorageKey))
	_, err := scopes.For("missing").Load(ctx, StorageKey)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, scopes.Len())
}

func TestMemoryScopesSweepIdleScopes(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	scopes := NewMemoryScopes(time.Hour)
	scopes.now = func() time.Time { return now }
	ctx := context.Background()
	require.NoError(t, scopes.For("idle").Save(ctx, StorageKey, []byte("alice")))

	now = now.Add(30 * time.Minute)
	require.NoError(t, scopes.For("active").Save(ctx, StorageKey, []byte("bob")))

	now = now.Add(45 * time.Minute)
	_, err := scopes.For("idle").Load(ctx, StorageKey)
	assert.ErrorIs(t, err, ErrNotFound)
	value, err := scopes.For("active").Load(ctx, StorageKey)
	require.NoError(t, err)
	assert.Equal(t, []byte("bob"), value)
	assert.Equal(t, 1, scopes.Len())
}

func TestPGScopes(t *testing.T) {
	db := &fakeDB{rows: map[string]pgRow{}}
	scopes := NewPGScopes(db, time.Hour)
	require.NoError(t, scopes.For("a").Save(context.Background(), StorageKey, []byte("alice")))

	_, err := scopes.For("b").Load(context.Background(), StorageKey)
	assert.ErrorIs(t, err, ErrNotFound)
	exerciseStorage(t, scopes.For("c"))
}

func TestEncryptedScopes(t *testing.T) {
	sealer, err := crypto.New("0123456789abcdef0123456789abcdef", "session")
	require.NoError(t, err)

	inner := NewMemoryScopes(time.Hour)
	scopes := NewEncryptedScopes(inner, sealer)
	exerciseStorage(t, scopes.For("a"))

	require.NoError(t, scopes.For("a").Save(context.Background(), StorageKey, []byte("visible")))
	sealed, err := inner.For("a").Load(context.Background(), StorageKey)
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "visible")
}
