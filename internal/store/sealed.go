package store

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

const (
	// The current supported version of the sealed blob format stored on disk.
	sealedFormatVersion = 1
	saltBytes           = 16
)

var (
	// Returned when the passphrase is incorrect or the ciphertext has been modified / corrupted.
	errWrongPassphrase = errors.New("wrong passphrase or corrupted session file")
)

// kdfParams are the scrypt tunables recorded next to each blob.
type kdfParams struct {
	N, R, P int
}

// Tunables for scrypt key derivation.
func kdfParamsDefault() kdfParams { return kdfParams{N: 1 << 15, R: 8, P: 1} }

// blob is the on-disk JSON structure holding the ciphertext and KDF parameters.
type blob struct {
	V      int    `json:"v"`
	Salt   []byte `json:"salt"`
	N      int    `json:"scrypt_N"`
	R      int    `json:"scrypt_r"`
	P      int    `json:"scrypt_p"`
	Nonce  []byte `json:"nonce"`
	Cipher []byte `json:"cipher"`
}

// sealer holds a passphrase-derived key bound to one salt, so repeated
// writes to the same file skip the scrypt cost.
type sealer struct {
	passphrase string
	params     kdfParams
	salt       []byte
	key        []byte
}

func (s *sealer) derive(salt []byte, params kdfParams) error {
	key, err := scrypt.Key([]byte(s.passphrase), salt, params.N, params.R, params.P, chacha20poly1305.KeySize)
	if err != nil {
		return err
	}
	s.salt = append([]byte(nil), salt...)
	s.params = params
	s.key = key
	return nil
}

// seal encrypts raw into a JSON blob. The salt is the file's salt; the
// nonce is fresh per write.
func (s *sealer) seal(raw []byte) ([]byte, error) {
	if s.key == nil {
		salt := make([]byte, saltBytes)
		if _, err := rand.Read(salt); err != nil {
			return nil, err
		}
		if err := s.derive(salt, s.params); err != nil {
			return nil, err
		}
	}
	aead, err := chacha20poly1305.New(s.key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return json.Marshal(blob{
		V:      sealedFormatVersion,
		Salt:   s.salt,
		N:      s.params.N,
		R:      s.params.R,
		P:      s.params.P,
		Nonce:  nonce,
		Cipher: aead.Seal(nil, nonce, raw, s.salt),
	})
}

// open decrypts a JSON blob, re-deriving the key only if the salt changed.
func (s *sealer) open(b []byte) ([]byte, error) {
	var bl blob
	if err := json.Unmarshal(b, &bl); err != nil {
		return nil, err
	}
	if bl.V > sealedFormatVersion {
		return nil, fmt.Errorf("unsupported session file version %d", bl.V)
	}
	if s.key == nil || string(bl.Salt) != string(s.salt) {
		if err := s.derive(bl.Salt, kdfParams{N: bl.N, R: bl.R, P: bl.P}); err != nil {
			return nil, err
		}
	}
	aead, err := chacha20poly1305.New(s.key)
	if err != nil {
		return nil, err
	}
	if len(bl.Nonce) != aead.NonceSize() {
		return nil, errWrongPassphrase
	}
	pt, err := aead.Open(nil, bl.Nonce, bl.Cipher, bl.Salt)
	if err != nil {
		return nil, errWrongPassphrase
	}
	return pt, nil
}

// reset forgets the derived key so the next seal picks a new salt.
func (s *sealer) reset() {
	for i := range s.key {
		s.key[i] = 0
	}
	s.key = nil
	s.salt = nil
}
