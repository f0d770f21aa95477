package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"ciphergate/internal/domain"
)

// MinRSABits is the smallest accepted backend public key.
const MinRSABits = 2048

var armorLine = regexp.MustCompile(`-----[^-]*-----`)

// LoadPublicKey parses an armored SPKI RSA public key. Armor markers and all
// whitespace are stripped before decoding, so keys pasted on one line work
// too. Any failure is reported as domain.ErrKeyFormat.
func LoadPublicKey(pemText string) (*rsa.PublicKey, error) {
	body := armorLine.ReplaceAllString(pemText, "")
	body = strings.Join(strings.Fields(body), "")
	if body == "" {
		return nil, fmt.Errorf("%w: empty public key", domain.ErrKeyFormat)
	}
	der, err := Decode(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrKeyFormat, err)
	}
	parsed, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrKeyFormat, err)
	}
	pub, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: want RSA public key, got %T", domain.ErrKeyFormat, parsed)
	}
	if pub.N.BitLen() < MinRSABits {
		return nil, fmt.Errorf("%w: RSA key has %d bits, want at least %d",
			domain.ErrKeyFormat, pub.N.BitLen(), MinRSABits)
	}
	return pub, nil
}

// EncryptRSA encrypts plaintext with RSA-OAEP/SHA-256 and returns it
// transport-encoded.
func EncryptRSA(pub *rsa.PublicKey, plaintext []byte) (string, error) {
	ct, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, plaintext, nil)
	if err != nil {
		return "", err
	}
	return Encode(ct), nil
}

// WrapSessionKey builds the handshake request for key and encrypts it under
// the backend public key.
func WrapSessionKey(pub *rsa.PublicKey, key domain.SessionKey) (string, error) {
	raw := Encode(key[:])
	msg, err := json.Marshal(domain.HandshakeRequest{Info: domain.HandshakeInfo, Key: raw})
	if err != nil {
		return "", err
	}
	defer Wipe(msg)
	return EncryptRSA(pub, msg)
}
