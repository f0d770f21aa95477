package crypto_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ciphergate/internal/crypto"
	"ciphergate/internal/domain"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		{0x00},
		{0xff, 0xfe, 0xfd},
		[]byte("hello, world"),
		make([]byte, 1024),
	}
	for _, b := range cases {
		got, err := crypto.Decode(crypto.Encode(b))
		require.NoError(t, err)
		require.Equal(t, len(b), len(got))
		require.Equal(t, string(b), string(got))
	}
}

func TestDecode_Malformed(t *testing.T) {
	for _, s := range []string{"!!!", "abc", "a===", "Zm9v\x00"} {
		_, err := crypto.Decode(s)
		require.ErrorIs(t, err, domain.ErrDecode, "input %q", s)
	}
}
