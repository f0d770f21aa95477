package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"ciphergate/internal/domain"
)

const sessionsDirname = "sessions"

// FileStorage is a SessionStorage persisted as one sealed file per profile.
// Values survive process restarts, which is what lets a later invocation
// reuse the established session.
type FileStorage struct {
	path string
	mu   sync.Mutex
	seal sealer
}

// FileOption tunes a FileStorage.
type FileOption func(*FileStorage)

// WithKDFParams overrides the scrypt cost used for new files.
func WithKDFParams(n, r, p int) FileOption {
	return func(s *FileStorage) { s.seal.params = kdfParams{N: n, R: r, P: p} }
}

// NewFileStorage returns a FileStorage for profile rooted at dir. The file
// is sealed with a key derived from passphrase, which may be empty.
func NewFileStorage(dir, profile, passphrase string, opts ...FileOption) *FileStorage {
	s := &FileStorage{
		path: filepath.Join(dir, sessionsDirname, profile+".json.enc"),
		seal: sealer{passphrase: passphrase, params: kdfParamsDefault()},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing file location.
func (s *FileStorage) Path() string { return s.path }

// Get returns the value stored under key.
func (s *FileStorage) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// Set writes value under key.
func (s *FileStorage) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	values[key] = value
	return s.save(values)
}

// Delete removes key. Deleting a missing key is not an error.
func (s *FileStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return s.save(values)
}

// Clear removes the session file.
func (s *FileStorage) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seal.reset()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *FileStorage) load() (map[string]string, error) {
	values := make(map[string]string)
	b, err := readFile(s.path)
	if err != nil || b == nil {
		return values, err
	}
	raw, err := s.seal.open(b)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, err
	}
	return values, nil
}

func (s *FileStorage) save(values map[string]string) error {
	raw, err := json.Marshal(values)
	if err != nil {
		return err
	}
	sealed, err := s.seal.seal(raw)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return writeFile(s.path, sealed, 0o600)
}

// Compile-time assertion that FileStorage implements domain.SessionStorage.
var _ domain.SessionStorage = (*FileStorage)(nil)
