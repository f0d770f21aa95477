package commands

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"ciphergate/internal/devserver"
	"ciphergate/internal/domain"
)

type cli struct {
	home    string
	url     string
	backend *devserver.Server
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	priv, err := devserver.GenerateKey(2048)
	require.NoError(t, err)
	backend := devserver.New(priv, zerolog.Nop())
	backend.Handle("echo", devserver.Echo)
	backend.Handle(domain.AuthAPI, devserver.NewAuth([]byte("secret"), "password").Serve)
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	home := t.TempDir()
	pemText, err := backend.PublicKeyPEM()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(home, "server_public.pem"), []byte(pemText), 0o600))
	return &cli{home: home, url: srv.URL, backend: backend}
}

func (c *cli) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--home", c.home, "--url", c.url, "-p", "pw", "--log-level", "off"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLI_SessionAcrossInvocations(t *testing.T) {
	c := newCLI(t)

	out, err := c.run(t, "status")
	require.NoError(t, err)
	require.Contains(t, out, "Session: none")

	out, err = c.run(t, "handshake")
	require.NoError(t, err)
	require.Contains(t, out, "Key fingerprint:")

	out, err = c.run(t, "call", "--compact", "echo", `{"x": 1}`)
	require.NoError(t, err)
	require.Equal(t, "{\"x\":1}\n", out)
	require.Equal(t, 1, c.backend.Hits(domain.HandshakePath))

	out, err = c.run(t, "status")
	require.NoError(t, err)
	require.Contains(t, out, "Session: stored")

	_, err = c.run(t, "forget")
	require.NoError(t, err)
	out, err = c.run(t, "status")
	require.NoError(t, err)
	require.Contains(t, out, "Session: none")
}

func TestCLI_Auth(t *testing.T) {
	c := newCLI(t)

	out, err := c.run(t, "auth", "init")
	require.NoError(t, err)
	require.Contains(t, out, `"AUTH_MODE": "password"`)

	_, err = c.run(t, "auth", "signup", "alice", "p")
	require.NoError(t, err)
	out, err = c.run(t, "auth", "authorize", "alice", "p")
	require.NoError(t, err)
	require.Contains(t, out, "Token: ")

	_, err = c.run(t, "auth", "authorize", "alice", "nope")
	require.ErrorContains(t, err, "authorize rejected")

	out, err = c.run(t, "auth", "logout")
	require.NoError(t, err)
	require.Contains(t, out, "Logged out.")
	require.Equal(t, 1, c.backend.Hits(domain.HandshakePath))
}

func TestCLI_Errors(t *testing.T) {
	c := newCLI(t)

	_, err := c.run(t, "call", "echo", "{not json")
	require.ErrorContains(t, err, "not valid JSON")

	_, err = c.run(t, "--storage", "sqlite", "status")
	require.ErrorContains(t, err, "unknown backend")
}
