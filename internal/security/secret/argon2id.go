// Package secret maneja client_secrets en formato PHC (argon2id).
package secret

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Params parametriza argon2id.
type Params struct {
	Memory      uint32 // KiB
	Time        uint32
	Parallelism uint8
	KeyLen      uint32
}

var Default = Params{Memory: 64 * 1024, Time: 3, Parallelism: 1, KeyLen: 32}

// Hash devuelve un PHC string: $argon2id$v=19$m=...,t=...,p=...$<saltB64>$<dkB64>
// Lo usa el seeder al registrar clients confidential; el servicio solo verifica.
func Hash(p Params, plain string) (string, error) {
	if plain == "" {
		return "", fmt.Errorf("empty secret")
	}
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	dk := argon2.IDKey([]byte(plain), salt, p.Time, p.Memory, p.Parallelism, p.KeyLen)
	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		p.Memory, p.Time, p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(dk),
	), nil
}

// Verify compara un secret plano contra un PHC string en tiempo constante.
func Verify(plain, phc string) bool {
	// $argon2id$v=19$m=...,t=...,p=...$<saltB64>$<dkB64>
	parts := strings.Split(phc, "$")
	if len(parts) != 6 || parts[1] != "argon2id" || parts[2] != "v=19" {
		return false
	}
	var m, t, p int
	if n, _ := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &m, &t, &p); n != 3 {
		return false
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	dkStored, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false
	}
	key := argon2.IDKey([]byte(plain), salt, uint32(t), uint32(m), uint8(p), uint32(len(dkStored)))
	return subtle.ConstantTimeCompare(key, dkStored) == 1
}
