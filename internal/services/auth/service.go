package auth

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"ciphergate/internal/domain"
)

// ErrCredentialsRequired is returned before any call when username or
// password is empty.
var ErrCredentialsRequired = errors.New("username and password required")

// Service issues auth operations over an encrypted session.
type Service struct {
	session domain.SessionService
	log     zerolog.Logger
}

// New returns an auth service sending calls through session.
func New(session domain.SessionService, log zerolog.Logger) *Service {
	return &Service{session: session, log: log.With().Str("component", "auth").Logger()}
}

// Init asks the backend how clients should authenticate.
func (s *Service) Init(ctx context.Context) (domain.AuthParams, error) {
	var params domain.AuthParams
	req := domain.APIRequest{
		Info:   domain.AuthInfoRequestData,
		Fields: map[string]any{"data": "auth_params"},
	}
	if err := s.session.CallInto(ctx, domain.AuthAPI, req, &params); err != nil {
		return domain.AuthParams{}, err
	}
	return params, nil
}

// Authorize logs username in. A rejected login is reported through the
// result, not as an error.
func (s *Service) Authorize(ctx context.Context, username, password string) (domain.AuthResult, error) {
	return s.credentials(ctx, domain.AuthInfoAuthorize, username, password)
}

// Signup registers a new account.
func (s *Service) Signup(ctx context.Context, username, password string) (domain.AuthResult, error) {
	return s.credentials(ctx, domain.AuthInfoSignup, username, password)
}

// Logout ends the login bound to the current session and reports whether
// the backend accepted it.
func (s *Service) Logout(ctx context.Context) (bool, error) {
	var res domain.AuthResult
	if err := s.session.CallInto(ctx, domain.AuthAPI, domain.APIRequest{Info: domain.AuthInfoLogout}, &res); err != nil {
		return false, err
	}
	return res.Succeeded(), nil
}

func (s *Service) credentials(ctx context.Context, info, username, password string) (domain.AuthResult, error) {
	if username == "" || password == "" {
		return domain.AuthResult{}, ErrCredentialsRequired
	}
	req := domain.APIRequest{
		Info:   info,
		Fields: map[string]any{"username": username, "password": password},
	}
	var res domain.AuthResult
	if err := s.session.CallInto(ctx, domain.AuthAPI, req, &res); err != nil {
		return domain.AuthResult{}, err
	}
	s.log.Debug().Str("op", info).Str("user", username).Str("status", res.Status).Msg("auth")
	return res, nil
}

var _ domain.AuthService = (*Service)(nil)
