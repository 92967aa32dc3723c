package jwt

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// Keyset mantiene las claves públicas Ed25519 aceptadas para verificar
// tokens delegados, indexadas por kid. askjohn no emite tokens: solo
// verifica los que emitió el authorization server.
type Keyset struct {
	keys     map[string]ed25519.PublicKey
	fallback ed25519.PublicKey // usada cuando el token no trae kid
}

// NewKeyset crea un Keyset vacío.
func NewKeyset() *Keyset {
	return &Keyset{keys: make(map[string]ed25519.PublicKey)}
}

// Add registra una clave pública bajo un kid. La primera clave agregada
// queda como fallback para tokens sin kid.
func (k *Keyset) Add(kid string, pub ed25519.PublicKey) {
	if k.fallback == nil {
		k.fallback = pub
	}
	if kid != "" {
		k.keys[kid] = pub
	}
}

// AddBase64 registra una clave pública en base64url (raw, 32 bytes).
func (k *Keyset) AddBase64(kid, pubB64 string) error {
	raw, err := base64.RawURLEncoding.DecodeString(pubB64)
	if err != nil {
		return fmt.Errorf("decode public key: %w", err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return fmt.Errorf("public key must be %d bytes, got %d", ed25519.PublicKeySize, len(raw))
	}
	k.Add(kid, ed25519.PublicKey(raw))
	return nil
}

// PublicKeyByKID retorna la clave para un kid, o la fallback si kid es "".
func (k *Keyset) PublicKeyByKID(kid string) (ed25519.PublicKey, error) {
	if kid != "" {
		if pub, ok := k.keys[kid]; ok {
			return pub, nil
		}
		return nil, fmt.Errorf("unknown kid %q", kid)
	}
	if k.fallback == nil {
		return nil, fmt.Errorf("no keys configured")
	}
	return k.fallback, nil
}

// DevKeySet es un par de claves en memoria para dev y tests.
type DevKeySet struct {
	Priv ed25519.PrivateKey
	Pub  ed25519.PublicKey
	KID  string
}

// NewDevEd25519 genera un par Ed25519 efímero con el kid dado.
func NewDevEd25519(kid string) (*DevKeySet, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &DevKeySet{Priv: priv, Pub: pub, KID: kid}, nil
}

// Sign firma claims con EdDSA. Solo para dev/tests y el seeder.
func (k *DevKeySet) Sign(claims map[string]any) (string, error) {
	tok := jwtv5.NewWithClaims(jwtv5.SigningMethodEdDSA, jwtv5.MapClaims(claims))
	tok.Header["kid"] = k.KID
	return tok.SignedString(k.Priv)
}

// PublicBase64 retorna la clave pública en base64url para pegar en config.
func (k *DevKeySet) PublicBase64() string {
	return base64.RawURLEncoding.EncodeToString(k.Pub)
}
