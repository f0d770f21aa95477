package crypto

import (
	"encoding/base64"
	"fmt"

	"ciphergate/internal/domain"
)

// Encode returns standard base64 encoding without newlines.
func Encode(b []byte) string { return base64.StdEncoding.EncodeToString(b) }

// Decode reverses Encode. Malformed input fails with domain.ErrDecode.
func Decode(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}
	return b, nil
}
