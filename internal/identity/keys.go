package identity

import (
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/curve25519"
)

// EncPublicKeyFromSecret derives the base64 curve25519 public key advertised
// as publicEncKey/boxPub on disclosure responses.
func EncPublicKeyFromSecret(secret []byte) (string, error) {
	if len(secret) != curve25519.ScalarSize {
		return "", fmt.Errorf("encryption secret must be %d bytes, got %d", curve25519.ScalarSize, len(secret))
	}
	pub, err := curve25519.X25519(secret, curve25519.Basepoint)
	if err != nil {
		return "", fmt.Errorf("derive encryption key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(pub), nil
}
