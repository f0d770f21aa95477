package crypto

import (
	"crypto/subtle"
	"runtime"

	"ciphergate/internal/domain"
)

// Wipe zeroes the provided buffer. This is best-effort and aims to
// reduce the chance of the compiler eliding the write.
//
//go:noinline
func Wipe(b []byte) {
	if len(b) == 0 {
		return
	}
	zero := make([]byte, len(b))
	subtle.ConstantTimeCopy(1, b, zero)
	runtime.KeepAlive(&b)
}

// WipeKey zeroes a session key in place.
func WipeKey(key *domain.SessionKey) {
	if key == nil {
		return
	}
	Wipe(key[:])
}
