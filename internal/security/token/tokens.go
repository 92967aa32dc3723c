// Package tokens maneja valores opacos: generación (solo seeder/tests)
// y hashing. Los stores guardan únicamente el hash.
package tokens

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
)

// GenerateOpaqueToken genera un token opaco aleatorio (base64url sin padding).
func GenerateOpaqueToken(nBytes int) (string, error) {
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// SHA256Base64URL devuelve sha256(input) en base64url sin padding.
// Es la clave de lookup en todos los stores de tokens.
func SHA256Base64URL(s string) string {
	sum := sha256.Sum256([]byte(s))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
