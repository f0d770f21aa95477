package interfaces

import (
	"context"

	domaintypes "ciphergate/internal/domain/types"
)

// SessionStorage is durable, session-scoped string storage. Writes are
// last-writer-wins and Clear drops everything in the session namespace.
type SessionStorage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// KeyStore owns the lifecycle of the single session key.
type KeyStore interface {
	HasKey(ctx context.Context) (bool, error)
	GetKey(ctx context.Context) (domaintypes.SessionKey, bool, error)
	StoreKey(ctx context.Context, key domaintypes.SessionKey) error
	Clear(ctx context.Context) error
}
