package interfaces

import (
	"context"
	"encoding/json"

	domaintypes "ciphergate/internal/domain/types"
)

// Bootstrapper runs the asymmetric handshake and returns a confirmed key.
type Bootstrapper interface {
	Establish(ctx context.Context) (domaintypes.SessionKey, error)
}

// SessionService sends encrypted API calls, establishing a session first
// when none exists.
type SessionService interface {
	Call(ctx context.Context, api domaintypes.APIName, payload any) (json.RawMessage, error)
	CallInto(ctx context.Context, api domaintypes.APIName, payload any, out any) error
	Establish(ctx context.Context) (domaintypes.Fingerprint, error)
	Forget(ctx context.Context) error
	State() domaintypes.SessionState
}

// AuthService wraps the "auth" API operations.
type AuthService interface {
	Init(ctx context.Context) (domaintypes.AuthParams, error)
	Authorize(ctx context.Context, username, password string) (domaintypes.AuthResult, error)
	Signup(ctx context.Context, username, password string) (domaintypes.AuthResult, error)
	Logout(ctx context.Context) (bool, error)
}
