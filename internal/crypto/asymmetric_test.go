package crypto_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"ciphergate/internal/crypto"
	"ciphergate/internal/domain"
)

func pemPublic(t *testing.T, pub any) string {
	t.Helper()
	der, err := x509.MarshalPKIXPublicKey(pub)
	require.NoError(t, err)
	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

func TestLoadPublicKey(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	armored := pemPublic(t, &priv.PublicKey)

	t.Run("armored", func(t *testing.T) {
		pub, err := crypto.LoadPublicKey(armored)
		require.NoError(t, err)
		require.Equal(t, 0, pub.N.Cmp(priv.N))
	})

	t.Run("single line with CRLF", func(t *testing.T) {
		oneLine := strings.ReplaceAll(armored, "\n", "\r\n")
		pub, err := crypto.LoadPublicKey(oneLine)
		require.NoError(t, err)
		require.Equal(t, priv.E, pub.E)
	})

	t.Run("malformed", func(t *testing.T) {
		for _, in := range []string{
			"",
			"-----BEGIN PUBLIC KEY-----\n-----END PUBLIC KEY-----",
			"-----BEGIN PUBLIC KEY-----\nnot base64!\n-----END PUBLIC KEY-----",
			"-----BEGIN PUBLIC KEY-----\nAAAA\n-----END PUBLIC KEY-----",
		} {
			_, err := crypto.LoadPublicKey(in)
			require.ErrorIs(t, err, domain.ErrKeyFormat, "input %q", in)
		}
	})

	t.Run("not RSA", func(t *testing.T) {
		ec, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		require.NoError(t, err)
		_, err = crypto.LoadPublicKey(pemPublic(t, &ec.PublicKey))
		require.ErrorIs(t, err, domain.ErrKeyFormat)
	})

	t.Run("too small", func(t *testing.T) {
		small, err := rsa.GenerateKey(rand.Reader, 1024)
		require.NoError(t, err)
		_, err = crypto.LoadPublicKey(pemPublic(t, &small.PublicKey))
		require.ErrorIs(t, err, domain.ErrKeyFormat)
	})
}

func TestWrapSessionKey(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	key, err := crypto.NewSessionKey()
	require.NoError(t, err)

	wrapped, err := crypto.WrapSessionKey(&priv.PublicKey, key)
	require.NoError(t, err)

	ct, err := crypto.Decode(wrapped)
	require.NoError(t, err)
	msg, err := rsa.DecryptOAEP(sha256.New(), nil, priv, ct, nil)
	require.NoError(t, err)

	var req domain.HandshakeRequest
	require.NoError(t, json.Unmarshal(msg, &req))
	require.Equal(t, domain.HandshakeInfo, req.Info)

	raw, err := crypto.Decode(req.Key)
	require.NoError(t, err)
	require.Equal(t, key.Slice(), raw)
}
