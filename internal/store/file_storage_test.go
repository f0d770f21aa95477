package store_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"ciphergate/internal/store"
)

// Cheap scrypt cost keeps the tests fast.
func newFileStorage(t *testing.T, dir, pass string) *store.FileStorage {
	t.Helper()
	return store.NewFileStorage(dir, "default", pass, store.WithKDFParams(1<<10, 8, 1))
}

func TestFileStorage_SetGet_OK(t *testing.T) {
	ctx := context.Background()
	home := t.TempDir()
	fs := newFileStorage(t, home, "pass")

	_, ok, err := fs.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, fs.Set(ctx, "k", "v1"))
	require.NoError(t, fs.Set(ctx, "k", "v2"))
	require.NoError(t, fs.Set(ctx, "other", "x"))

	v, ok, err := fs.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v2", v)

	info, err := os.Stat(fs.Path())
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	raw, err := os.ReadFile(fs.Path())
	require.NoError(t, err)
	require.NotContains(t, string(raw), "v2")
}

func TestFileStorage_SurvivesRestart(t *testing.T) {
	ctx := context.Background()
	home := t.TempDir()
	require.NoError(t, newFileStorage(t, home, "pass").Set(ctx, "k", "v"))

	v, ok, err := newFileStorage(t, home, "pass").Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v", v)
}

func TestFileStorage_WrongPassphrase_Fails(t *testing.T) {
	ctx := context.Background()
	home := t.TempDir()
	require.NoError(t, newFileStorage(t, home, "correct").Set(ctx, "k", "v"))

	_, _, err := newFileStorage(t, home, "wrong").Get(ctx, "k")
	require.Error(t, err)
}

func TestFileStorage_DeleteAndClear(t *testing.T) {
	ctx := context.Background()
	fs := newFileStorage(t, t.TempDir(), "")

	require.NoError(t, fs.Delete(ctx, "missing"))
	require.NoError(t, fs.Set(ctx, "a", "1"))
	require.NoError(t, fs.Set(ctx, "b", "2"))
	require.NoError(t, fs.Delete(ctx, "a"))

	_, ok, err := fs.Get(ctx, "a")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, fs.Clear(ctx))
	_, err = os.Stat(fs.Path())
	require.True(t, os.IsNotExist(err))
	require.NoError(t, fs.Clear(ctx))

	_, ok, err = fs.Get(ctx, "b")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, fs.Set(ctx, "c", "3"))
	v, ok, err := fs.Get(ctx, "c")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "3", v)
}
