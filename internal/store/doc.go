// Package store provides session-scoped persistence for ciphergate.
//
// It contains the KeyStore, which owns the single session key, and three
// interchangeable domain.SessionStorage backends:
//   - MemoryStorage: process lifetime only
//   - FileStorage: one sealed file per profile under the home directory,
//     encrypted with scrypt + ChaCha20-Poly1305
//   - RedisStorage: shared namespace with a TTL matching the backend session
//
// All implementations are concurrency-safe and last-writer-wins.
package store
