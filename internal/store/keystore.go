package store

import (
	"context"
	"fmt"
	"sync"

	"ciphergate/internal/crypto"
	"ciphergate/internal/domain"
)

// KeyStore caches the session key in memory and mirrors it into session
// storage so a later process can pick the session up again.
//
// States: Absent -> Present on StoreKey, Present -> Absent on Clear.
// GetKey only fills the memory cache from storage.
type KeyStore struct {
	mu      sync.Mutex
	storage domain.SessionStorage
	key     domain.SessionKey
	cached  bool
}

// NewKeyStore returns a KeyStore backed by storage.
func NewKeyStore(storage domain.SessionStorage) *KeyStore {
	return &KeyStore{storage: storage}
}

// HasKey reports whether a key exists in memory or storage, without
// decoding the stored value.
func (s *KeyStore) HasKey(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached {
		return true, nil
	}
	_, ok, err := s.storage.Get(ctx, domain.SessionKeyStorageKey)
	if err != nil {
		return false, fmt.Errorf("read session key: %w", err)
	}
	return ok, nil
}

// GetKey returns the cached key, materializing it from storage on a miss.
func (s *KeyStore) GetKey(ctx context.Context) (domain.SessionKey, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached {
		return s.key, true, nil
	}
	encoded, ok, err := s.storage.Get(ctx, domain.SessionKeyStorageKey)
	if err != nil {
		return domain.SessionKey{}, false, fmt.Errorf("read session key: %w", err)
	}
	if !ok {
		return domain.SessionKey{}, false, nil
	}
	raw, err := crypto.Decode(encoded)
	if err != nil {
		return domain.SessionKey{}, false, fmt.Errorf("stored session key: %w", err)
	}
	defer crypto.Wipe(raw)
	key, err := crypto.ImportSessionKey(raw)
	if err != nil {
		return domain.SessionKey{}, false, fmt.Errorf("stored session key: %w", err)
	}
	s.key, s.cached = key, true
	return key, true, nil
}

// StoreKey sets the in-memory key and writes it to storage.
func (s *KeyStore) StoreKey(ctx context.Context, key domain.SessionKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Set(ctx, domain.SessionKeyStorageKey, crypto.Encode(key[:])); err != nil {
		return fmt.Errorf("write session key: %w", err)
	}
	s.key, s.cached = key, true
	return nil
}

// Clear forgets the key and drops the whole session storage namespace,
// including the backend session cookie stored next to it.
func (s *KeyStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	crypto.WipeKey(&s.key)
	s.cached = false
	if err := s.storage.Clear(ctx); err != nil {
		return fmt.Errorf("clear session storage: %w", err)
	}
	return nil
}

var _ domain.KeyStore = (*KeyStore)(nil)
