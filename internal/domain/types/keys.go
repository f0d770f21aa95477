package types

import "fmt"

// SessionKeySize is the raw length of an AES-256-GCM session key.
const SessionKeySize = 32

// SessionKey is the symmetric key protecting all traffic of one session.
type SessionKey [SessionKeySize]byte

// Slice returns the key as a []byte.
func (k SessionKey) Slice() []byte { return k[:] }

// IsZero reports whether k was never set.
func (k SessionKey) IsZero() bool { return k == SessionKey{} }

// MustSessionKey copies b into a SessionKey, panicking on a length mismatch.
func MustSessionKey(b []byte) SessionKey {
	if len(b) != SessionKeySize {
		panic(fmt.Errorf("session key: want %d bytes, got %d", SessionKeySize, len(b)))
	}
	var out SessionKey
	copy(out[:], b)
	return out
}
