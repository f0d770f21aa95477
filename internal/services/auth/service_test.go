package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"ciphergate/internal/crypto"
	"ciphergate/internal/devserver"
	"ciphergate/internal/domain"
	"ciphergate/internal/protocol/bootstrap"
	"ciphergate/internal/services/auth"
	"ciphergate/internal/services/session"
	"ciphergate/internal/store"
	"ciphergate/internal/transport"
)

func setup(t *testing.T) (*auth.Service, *devserver.Server, *devserver.Auth) {
	t.Helper()
	priv, err := devserver.GenerateKey(2048)
	require.NoError(t, err)
	backend := devserver.New(priv, zerolog.Nop())
	accounts := devserver.NewAuth([]byte("test-secret"), "password")
	backend.Handle(domain.AuthAPI, accounts.Serve)
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	pemText, err := backend.PublicKeyPEM()
	require.NoError(t, err)
	pub, err := crypto.LoadPublicKey(pemText)
	require.NoError(t, err)

	storage := store.NewMemoryStorage()
	hc := &http.Client{Jar: transport.NewStorageJar(storage, transport.SessionCookieName, zerolog.Nop())}
	tr := transport.NewHTTP(srv.URL, hc, zerolog.Nop())
	svc := session.New(store.NewKeyStore(storage), bootstrap.New(pub, tr, zerolog.Nop()), tr, zerolog.Nop())
	return auth.New(svc, zerolog.Nop()), backend, accounts
}

func TestInit(t *testing.T) {
	svc, backend, _ := setup(t)

	params, err := svc.Init(context.Background())
	require.NoError(t, err)
	require.Equal(t, "auth_params", params.Info)
	require.Equal(t, "password", params.Data["AUTH_MODE"])

	last, ok := backend.LastRequest(domain.AuthAPI)
	require.True(t, ok)
	require.JSONEq(t, `{"info":"request_data","data":"auth_params"}`, string(last))
}

func TestSignupAuthorizeLogout(t *testing.T) {
	svc, backend, accounts := setup(t)
	ctx := context.Background()

	res, err := svc.Signup(ctx, "alice", "p")
	require.NoError(t, err)
	require.True(t, res.Succeeded(), res.Message)

	res, err = svc.Signup(ctx, "alice", "p")
	require.NoError(t, err)
	require.False(t, res.Succeeded())

	res, err = svc.Authorize(ctx, "alice", "wrong")
	require.NoError(t, err)
	require.False(t, res.Succeeded())

	res, err = svc.Authorize(ctx, "alice", "p")
	require.NoError(t, err)
	require.True(t, res.Succeeded())
	require.NotEmpty(t, res.Token)
	sub, err := accounts.ParseToken(res.Token)
	require.NoError(t, err)
	require.Equal(t, "alice", sub)

	last, ok := backend.LastRequest(domain.AuthAPI)
	require.True(t, ok)
	require.JSONEq(t, `{"info":"authorize","username":"alice","password":"p"}`, string(last))

	var session string
	for id := range backend.SessionKeys() {
		session = id
	}
	user, ok := accounts.LoggedIn(session)
	require.True(t, ok)
	require.Equal(t, "alice", user)

	out, err := svc.Logout(ctx)
	require.NoError(t, err)
	require.True(t, out)
	_, ok = accounts.LoggedIn(session)
	require.False(t, ok)

	// One handshake served every call above.
	require.Equal(t, 1, backend.Hits(domain.HandshakePath))
}

func TestCredentialsRequired(t *testing.T) {
	svc, backend, _ := setup(t)

	_, err := svc.Authorize(context.Background(), "", "p")
	require.ErrorIs(t, err, auth.ErrCredentialsRequired)
	_, err = svc.Signup(context.Background(), "alice", "")
	require.ErrorIs(t, err, auth.ErrCredentialsRequired)
	require.Equal(t, 0, backend.Hits(domain.HandshakePath))
}

func TestInvalidatedSessionSurfaces(t *testing.T) {
	svc, backend, _ := setup(t)
	ctx := context.Background()

	_, err := svc.Init(ctx)
	require.NoError(t, err)
	backend.DropSessions()

	_, err = svc.Logout(ctx)
	require.ErrorIs(t, err, domain.ErrSessionInvalidated)
}
