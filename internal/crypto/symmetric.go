package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"ciphergate/internal/domain"
)

// NonceBytes is the AES-GCM nonce length (96 bits).
const NonceBytes = 12

// NewSessionKey returns a fresh random AES-256 session key.
func NewSessionKey() (domain.SessionKey, error) {
	var key domain.SessionKey
	if _, err := rand.Read(key[:]); err != nil {
		return domain.SessionKey{}, err
	}
	return key, nil
}

// ImportSessionKey validates raw key bytes and copies them into a SessionKey.
func ImportSessionKey(raw []byte) (domain.SessionKey, error) {
	if len(raw) != domain.SessionKeySize {
		return domain.SessionKey{}, fmt.Errorf("%w: session key must be %d bytes, got %d",
			domain.ErrKeyFormat, domain.SessionKeySize, len(raw))
	}
	return domain.MustSessionKey(raw), nil
}

// Encrypt seals plaintext under key with a fresh random nonce.
func Encrypt(key domain.SessionKey, plaintext []byte) (domain.Envelope, error) {
	aead, err := newGCM(key)
	if err != nil {
		return domain.Envelope{}, err
	}
	nonce := make([]byte, NonceBytes)
	if _, err := rand.Read(nonce); err != nil {
		return domain.Envelope{}, err
	}
	ct := aead.Seal(nil, nonce, plaintext, nil)
	return domain.Envelope{
		Nonce:      Encode(nonce),
		Ciphertext: Encode(ct),
	}, nil
}

// Decrypt opens env under key. Any integrity failure, including a nonce of
// the wrong size, is reported as domain.ErrAuthentication.
func Decrypt(key domain.SessionKey, env domain.Envelope) ([]byte, error) {
	nonce, err := Decode(env.Nonce)
	if err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}
	ct, err := Decode(env.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("ciphertext: %w", err)
	}
	if len(nonce) != NonceBytes {
		return nil, fmt.Errorf("%w: nonce must be %d bytes, got %d",
			domain.ErrAuthentication, NonceBytes, len(nonce))
	}
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	pt, err := aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return nil, domain.ErrAuthentication
	}
	return pt, nil
}

func newGCM(key domain.SessionKey) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
