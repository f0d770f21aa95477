package app

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"ciphergate/internal/devserver"
	"ciphergate/internal/domain"
	"ciphergate/internal/store"
)

func backendConfig(t *testing.T) (Config, *devserver.Server) {
	t.Helper()
	priv, err := devserver.GenerateKey(2048)
	require.NoError(t, err)
	backend := devserver.New(priv, zerolog.Nop())
	backend.Handle("echo", devserver.Echo)
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	pemText, err := backend.PublicKeyPEM()
	require.NoError(t, err)
	cfg := DefaultConfig(t.TempDir())
	cfg.BaseURL = srv.URL
	cfg.PublicKey = pemText
	return cfg, backend
}

func TestNewWire_MemoryStorage(t *testing.T) {
	cfg, backend := backendConfig(t)
	cfg.Storage = StorageMemory

	w, err := NewWire(cfg, zerolog.Nop())
	require.NoError(t, err)
	defer w.Close()

	out, err := w.Session.Call(context.Background(), "echo", map[string]string{"a": "b"})
	require.NoError(t, err)
	require.JSONEq(t, `{"a":"b"}`, string(out))
	require.Equal(t, 1, backend.Hits(domain.HandshakePath))
}

func TestNewWire_FileStorageSurvivesRestart(t *testing.T) {
	cfg, backend := backendConfig(t)
	cfg.Passphrase = "correct horse"
	ctx := context.Background()

	first, err := NewWire(cfg, zerolog.Nop())
	require.NoError(t, err)
	_, err = first.Session.Call(ctx, "echo", map[string]int{"n": 1})
	require.NoError(t, err)

	second, err := NewWire(cfg, zerolog.Nop())
	require.NoError(t, err)
	_, err = second.Session.Call(ctx, "echo", map[string]int{"n": 2})
	require.NoError(t, err)

	require.Equal(t, 1, backend.Hits(domain.HandshakePath))
	require.Equal(t, 2, backend.Hits("/api_echo"))
}

func TestNewWire_RedisStorage(t *testing.T) {
	cfg, backend := backendConfig(t)
	mr := miniredis.RunT(t)
	cfg.Storage = StorageRedis
	cfg.RedisAddr = mr.Addr()
	cfg.Profile = "ci"

	w, err := NewWire(cfg, zerolog.Nop())
	require.NoError(t, err)
	defer w.Close()
	_, err = w.Session.Call(context.Background(), "echo", map[string]int{"n": 1})
	require.NoError(t, err)

	require.True(t, mr.Exists("ciphergate:ci:"+domain.SessionKeyStorageKey))
	require.True(t, mr.Exists("ciphergate:ci:"+domain.SessionCookieStorageKey))
	require.Equal(t, 1, backend.Hits(domain.HandshakePath))
}

func TestNewWire_RedisDown(t *testing.T) {
	cfg, _ := backendConfig(t)
	mr := miniredis.RunT(t)
	cfg.Storage = StorageRedis
	cfg.RedisAddr = mr.Addr()
	mr.Close()

	_, err := NewWire(cfg, zerolog.Nop())
	require.ErrorIs(t, err, store.ErrRedisUnavailable)
}

func TestNewWire_BadPublicKey(t *testing.T) {
	cfg, _ := backendConfig(t)
	cfg.Storage = StorageMemory
	cfg.PublicKey = "-----BEGIN PUBLIC KEY-----\nAAAA\n-----END PUBLIC KEY-----"

	_, err := NewWire(cfg, zerolog.Nop())
	require.ErrorIs(t, err, domain.ErrKeyFormat)
}
