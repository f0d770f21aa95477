package bootstrap

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"ciphergate/internal/crypto"
	"ciphergate/internal/domain"
)

// Bootstrapper runs the handshake against one backend.
type Bootstrapper struct {
	pub       *rsa.PublicKey
	transport domain.Transport
	log       zerolog.Logger
}

// New returns a Bootstrapper wrapping keys under pub.
func New(pub *rsa.PublicKey, transport domain.Transport, log zerolog.Logger) *Bootstrapper {
	return &Bootstrapper{
		pub:       pub,
		transport: transport,
		log:       log.With().Str("component", "bootstrap").Logger(),
	}
}

// Establish mints a session key, transmits it and confirms the backend's
// acknowledgment. The returned key has not been persisted.
func (b *Bootstrapper) Establish(ctx context.Context) (domain.SessionKey, error) {
	key, err := crypto.NewSessionKey()
	if err != nil {
		return domain.SessionKey{}, fmt.Errorf("%w: generate key: %w", domain.ErrHandshake, err)
	}
	ack, err := b.exchange(ctx, key)
	if err != nil {
		crypto.WipeKey(&key)
		return domain.SessionKey{}, fmt.Errorf("%w: %w", domain.ErrHandshake, err)
	}
	b.log.Debug().
		Str("key", crypto.KeyFingerprint(key).String()).
		Bool("session_bound", ack.Session != "").
		Msg("handshake confirmed")
	return key, nil
}

func (b *Bootstrapper) exchange(ctx context.Context, key domain.SessionKey) (domain.HandshakeAck, error) {
	wrapped, err := crypto.WrapSessionKey(b.pub, key)
	if err != nil {
		return domain.HandshakeAck{}, fmt.Errorf("wrap key: %w", err)
	}
	reply, err := b.transport.Post(ctx, domain.HandshakePath, domain.Request{Data: wrapped})
	if err != nil {
		return domain.HandshakeAck{}, err
	}

	var resp domain.Response
	if err := json.Unmarshal(reply.Body, &resp); err != nil {
		if !reply.OK() {
			return domain.HandshakeAck{}, &domain.StatusError{Path: domain.HandshakePath, Code: reply.StatusCode}
		}
		return domain.HandshakeAck{}, fmt.Errorf("%w: acknowledgment is not JSON", domain.ErrProtocol)
	}
	if resp.Error != nil {
		return domain.HandshakeAck{}, fmt.Errorf("%w: backend error %q", domain.ErrProtocol, *resp.Error)
	}
	env, ok := resp.Envelope()
	if !ok {
		if !reply.OK() {
			return domain.HandshakeAck{}, &domain.StatusError{Path: domain.HandshakePath, Code: reply.StatusCode}
		}
		return domain.HandshakeAck{}, fmt.Errorf("%w: acknowledgment is not an envelope", domain.ErrProtocol)
	}

	pt, err := crypto.Decrypt(key, env)
	if err != nil {
		return domain.HandshakeAck{}, fmt.Errorf("acknowledgment: %w", err)
	}
	var ack domain.HandshakeAck
	if err := json.Unmarshal(pt, &ack); err != nil {
		return domain.HandshakeAck{}, fmt.Errorf("%w: acknowledgment payload: %v", domain.ErrProtocol, err)
	}
	if ack.Info != domain.HandshakeAckInfo {
		return domain.HandshakeAck{}, fmt.Errorf("%w: unexpected acknowledgment %q", domain.ErrProtocol, ack.Info)
	}
	if !reply.OK() {
		return domain.HandshakeAck{}, &domain.StatusError{Path: domain.HandshakePath, Code: reply.StatusCode}
	}
	return ack, nil
}

var _ domain.Bootstrapper = (*Bootstrapper)(nil)
