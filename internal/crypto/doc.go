// Package crypto exposes the primitives used by ciphergate.
//
// Contents
//
//   - Transport encoding of binary values (Encode, Decode)
//   - AES-256-GCM session keys and envelopes (NewSessionKey, ImportSessionKey,
//     Encrypt, Decrypt)
//   - RSA-OAEP/SHA-256 wrapping of the session key for the handshake
//     (LoadPublicKey, WrapSessionKey)
//   - Best-effort memory wiping for sensitive byte slices (Wipe, WipeKey)
//   - Short fingerprints for display/logging (Fingerprint, KeyFingerprint)
//
// # Notes
//
// Decrypt never returns plaintext that failed authentication. Callers
// classify failures with errors.Is against the sentinels in internal/domain.
package crypto
