package crypto

import (
	"crypto/sha256"
	"encoding/hex"

	"ciphergate/internal/domain"
)

// Fingerprint returns a short hex fingerprint of key material.
//
// It hashes with SHA-256 and truncates to 10 bytes (20 hex chars).
func Fingerprint(b []byte) domain.Fingerprint {
	sum := sha256.Sum256(b)
	return domain.Fingerprint(hex.EncodeToString(sum[:10]))
}

// KeyFingerprint fingerprints a session key without exposing it.
func KeyFingerprint(key domain.SessionKey) domain.Fingerprint {
	return Fingerprint(key[:])
}
