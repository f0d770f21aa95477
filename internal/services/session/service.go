package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"ciphergate/internal/crypto"
	"ciphergate/internal/domain"
)

const establishFlight = "session-establishment"

// Service sends encrypted API calls over one session.
type Service struct {
	keys      domain.KeyStore
	boot      domain.Bootstrapper
	transport domain.Transport
	log       zerolog.Logger

	flight singleflight.Group
	state  atomic.Int32
}

// New constructs a Service. keys is the only owner of the session key.
func New(
	keys domain.KeyStore,
	boot domain.Bootstrapper,
	transport domain.Transport,
	log zerolog.Logger,
) *Service {
	return &Service{
		keys:      keys,
		boot:      boot,
		transport: transport,
		log:       log.With().Str("component", "session").Logger(),
	}
}

// State reports whether this service has established or resumed a session.
func (s *Service) State() domain.SessionState {
	return domain.SessionState(s.state.Load())
}

func (s *Service) setState(st domain.SessionState) { s.state.Store(int32(st)) }

// Establish makes sure a session key exists, running the handshake if
// needed, and returns the key's fingerprint.
func (s *Service) Establish(ctx context.Context) (domain.Fingerprint, error) {
	key, err := s.sessionKey(ctx)
	if err != nil {
		return "", err
	}
	return crypto.KeyFingerprint(key), nil
}

// Forget drops the session key and everything stored with it.
func (s *Service) Forget(ctx context.Context) error {
	s.setState(domain.StateUninitialized)
	return s.keys.Clear(ctx)
}

// Call encrypts payload, sends it to api and returns the decrypted JSON
// result.
//
// Steps:
//  1. Load the session key, or run the handshake once to create it.
//  2. Re-persist the key so durable storage always mirrors memory.
//  3. Seal json(payload) into a fresh envelope.
//  4. POST {"data": envelope} to /api_<api>.
//  5. On the invalid-session marker, clear the key store and fail.
//  6. Otherwise open the reply envelope and check it is JSON.
func (s *Service) Call(ctx context.Context, api domain.APIName, payload any) (json.RawMessage, error) {
	if api == "" {
		return nil, errors.New("api name required")
	}
	plaintext, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	defer crypto.Wipe(plaintext)

	key, err := s.sessionKey(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.keys.StoreKey(ctx, key); err != nil {
		return nil, err
	}

	env, err := crypto.Encrypt(key, plaintext)
	if err != nil {
		return nil, fmt.Errorf("encrypt request: %w", err)
	}
	reply, err := s.transport.Post(ctx, api.Path(), domain.Request{Data: env})
	if err != nil {
		return nil, err
	}
	result, err := s.open(ctx, api, key, reply)
	if err != nil {
		return nil, err
	}
	s.log.Debug().Str("api", api.String()).Int("status", reply.StatusCode).Msg("call")
	return result, nil
}

// CallInto is Call followed by decoding the result into out.
func (s *Service) CallInto(ctx context.Context, api domain.APIName, payload any, out any) error {
	raw, err := s.Call(ctx, api, payload)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s result: %v", domain.ErrProtocol, api, err)
	}
	return nil
}

// sessionKey returns the current key, or establishes one. Concurrent
// callers that find no key share one handshake.
func (s *Service) sessionKey(ctx context.Context) (domain.SessionKey, error) {
	key, ok, err := s.keys.GetKey(ctx)
	if err != nil {
		return domain.SessionKey{}, err
	}
	if ok {
		s.setState(domain.StateEstablished)
		return key, nil
	}

	v, err, shared := s.flight.Do(establishFlight, func() (any, error) {
		// A handshake that finished between our miss and this flight wins.
		if key, ok, err := s.keys.GetKey(ctx); err != nil || ok {
			return key, err
		}
		s.log.Info().Msg("no session key, starting handshake")
		key, err := s.boot.Establish(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.keys.StoreKey(ctx, key); err != nil {
			crypto.WipeKey(&key)
			return nil, fmt.Errorf("%w: persist key: %w", domain.ErrHandshake, err)
		}
		s.setState(domain.StateEstablished)
		s.log.Info().Str("key", crypto.KeyFingerprint(key).String()).Msg("session established")
		return key, nil
	})
	if err != nil {
		return domain.SessionKey{}, err
	}
	if shared {
		s.log.Debug().Msg("joined in-flight handshake")
	}
	return v.(domain.SessionKey), nil
}

func (s *Service) open(
	ctx context.Context,
	api domain.APIName,
	key domain.SessionKey,
	reply domain.Reply,
) (json.RawMessage, error) {
	var resp domain.Response
	if err := json.Unmarshal(reply.Body, &resp); err != nil {
		if !reply.OK() {
			return nil, &domain.StatusError{Path: api.Path(), Code: reply.StatusCode, Body: snippet(reply.Body)}
		}
		return nil, fmt.Errorf("%w: %s reply is not JSON", domain.ErrProtocol, api.Path())
	}
	if resp.InvalidSession() {
		return nil, s.invalidate(ctx)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("%w: %s: backend error %q", domain.ErrProtocol, api.Path(), *resp.Error)
	}
	env, ok := resp.Envelope()
	if !ok {
		if !reply.OK() {
			return nil, &domain.StatusError{Path: api.Path(), Code: reply.StatusCode, Body: snippet(reply.Body)}
		}
		return nil, fmt.Errorf("%w: %s reply is not an envelope", domain.ErrProtocol, api.Path())
	}

	pt, err := crypto.Decrypt(key, env)
	if err != nil {
		return nil, fmt.Errorf("%s reply: %w", api.Path(), err)
	}
	if !json.Valid(pt) {
		return nil, fmt.Errorf("%w: %s payload is not JSON", domain.ErrProtocol, api.Path())
	}
	return json.RawMessage(pt), nil
}

// invalidate clears persisted session state before the error surfaces.
func (s *Service) invalidate(ctx context.Context) error {
	s.setState(domain.StateUninitialized)
	s.log.Warn().Msg("backend rejected the session, clearing key")
	if err := s.keys.Clear(ctx); err != nil {
		return errors.Join(domain.ErrSessionInvalidated, err)
	}
	return domain.ErrSessionInvalidated
}

func snippet(b []byte) string {
	const max = 128
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}

// Compile-time assertion that Service implements domain.SessionService.
var _ domain.SessionService = (*Service)(nil)
