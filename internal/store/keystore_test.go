package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"ciphergate/internal/crypto"
	"ciphergate/internal/domain"
	"ciphergate/internal/store"
)

func TestKeyStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	storage := store.NewMemoryStorage()
	ks := store.NewKeyStore(storage)

	has, err := ks.HasKey(ctx)
	require.NoError(t, err)
	require.False(t, has)

	_, ok, err := ks.GetKey(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	key, err := crypto.NewSessionKey()
	require.NoError(t, err)
	require.NoError(t, ks.StoreKey(ctx, key))

	has, err = ks.HasKey(ctx)
	require.NoError(t, err)
	require.True(t, has)

	got, ok, err := ks.GetKey(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, key, got)

	encoded, ok, err := storage.Get(ctx, domain.SessionKeyStorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, crypto.Encode(key[:]), encoded)

	require.NoError(t, storage.Set(ctx, domain.SessionCookieStorageKey, "cookie"))
	require.NoError(t, ks.Clear(ctx))

	has, err = ks.HasKey(ctx)
	require.NoError(t, err)
	require.False(t, has)
	_, ok, err = storage.Get(ctx, domain.SessionCookieStorageKey)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestKeyStore_MaterializesFromStorage(t *testing.T) {
	ctx := context.Background()
	storage := store.NewMemoryStorage()
	key, err := crypto.NewSessionKey()
	require.NoError(t, err)
	require.NoError(t, storage.Set(ctx, domain.SessionKeyStorageKey, crypto.Encode(key[:])))

	ks := store.NewKeyStore(storage)
	has, err := ks.HasKey(ctx)
	require.NoError(t, err)
	require.True(t, has)

	got, ok, err := ks.GetKey(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, key, got)

	// The memory copy outlives the stored value.
	require.NoError(t, storage.Delete(ctx, domain.SessionKeyStorageKey))
	got, ok, err = ks.GetKey(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, key, got)
}

func TestKeyStore_CorruptStoredKey(t *testing.T) {
	ctx := context.Background()

	t.Run("not base64", func(t *testing.T) {
		storage := store.NewMemoryStorage()
		require.NoError(t, storage.Set(ctx, domain.SessionKeyStorageKey, "%%%"))
		_, ok, err := store.NewKeyStore(storage).GetKey(ctx)
		require.ErrorIs(t, err, domain.ErrDecode)
		require.False(t, ok)
	})

	t.Run("wrong length", func(t *testing.T) {
		storage := store.NewMemoryStorage()
		require.NoError(t, storage.Set(ctx, domain.SessionKeyStorageKey, crypto.Encode([]byte("short"))))
		_, ok, err := store.NewKeyStore(storage).GetKey(ctx)
		require.ErrorIs(t, err, domain.ErrKeyFormat)
		require.False(t, ok)
	})
}

func TestKeyStore_FileBackedAcrossInstances(t *testing.T) {
	ctx := context.Background()
	home := t.TempDir()
	key, err := crypto.NewSessionKey()
	require.NoError(t, err)

	first := store.NewKeyStore(newFileStorage(t, home, "pass"))
	require.NoError(t, first.StoreKey(ctx, key))

	second := store.NewKeyStore(newFileStorage(t, home, "pass"))
	got, ok, err := second.GetKey(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, key, got)
}
