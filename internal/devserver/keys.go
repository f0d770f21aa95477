package devserver

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
)

// GenerateKey returns a fresh RSA key pair suitable for the handshake.
func GenerateKey(bits int) (*rsa.PrivateKey, error) {
	return rsa.GenerateKey(rand.Reader, bits)
}

// PublicKeyPEM returns the armored SPKI form of pub.
func PublicKeyPEM(pub *rsa.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", err
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})), nil
}

// PrivateKeyPEM returns the armored PKCS#8 form of priv.
func PrivateKeyPEM(priv *rsa.PrivateKey) (string, error) {
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return "", err
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})), nil
}

// ParsePrivateKey reads a PKCS#8 or PKCS#1 armored RSA private key.
func ParsePrivateKey(b []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(b)
	if block == nil {
		return nil, errors.New("no PEM data")
	}
	if k, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return k, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	k, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("want RSA private key, got %T", parsed)
	}
	return k, nil
}

// LoadOrCreateKey reads the private key at privPath, generating and writing
// a new pair (plus pubPath) when it does not exist.
func LoadOrCreateKey(privPath, pubPath string, bits int) (*rsa.PrivateKey, bool, error) {
	b, err := os.ReadFile(privPath)
	if err == nil {
		k, err := ParsePrivateKey(b)
		return k, false, err
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, false, err
	}
	k, err := GenerateKey(bits)
	if err != nil {
		return nil, false, err
	}
	privPEM, err := PrivateKeyPEM(k)
	if err != nil {
		return nil, false, err
	}
	pubPEM, err := PublicKeyPEM(&k.PublicKey)
	if err != nil {
		return nil, false, err
	}
	if err := os.WriteFile(privPath, []byte(privPEM), 0o600); err != nil {
		return nil, false, err
	}
	if pubPath != "" {
		if err := os.WriteFile(pubPath, []byte(pubPEM), 0o644); err != nil {
			return nil, false, err
		}
	}
	return k, true, nil
}

// PublicKeyPEM returns the armored public half of the server key.
func (s *Server) PublicKeyPEM() (string, error) { return PublicKeyPEM(&s.priv.PublicKey) }
