package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken cubre firma inválida, formato roto o claims ilegibles.
	ErrInvalidToken = errors.New("invalid_jwt")

	// ErrInvalidIssuer indica que el iss no coincide con el esperado.
	ErrInvalidIssuer = errors.New("invalid_issuer")

	// ErrExpired indica que el token ya venció.
	ErrExpired = errors.New("expired")
)

// leeway de reloj para exp/nbf
const clockSkew = 30 * time.Second

// ParseEdDSA valida firma (EdDSA) contra el Keyset (por kid o fallback),
// chequea iss (si expectedIss != "") y valida exp/nbf con tolerancia.
// Devuelve las claims como map[string]any.
func ParseEdDSA(token string, ks *Keyset, expectedIss string) (map[string]any, error) {
	keyfunc := func(t *jwtv5.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		return ks.PublicKeyByKID(kid)
	}

	tok, err := jwtv5.Parse(token, keyfunc, jwtv5.WithValidMethods([]string{"EdDSA"}))
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := tok.Claims.(jwtv5.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	if expectedIss != "" {
		if iss, _ := claims["iss"].(string); iss != expectedIss {
			return nil, ErrInvalidIssuer
		}
	}

	now := time.Now()
	if expf, ok := claims["exp"].(float64); ok {
		if time.Unix(int64(expf), 0).Before(now.Add(-clockSkew)) {
			return nil, ErrExpired
		}
	}
	if nbff, ok := claims["nbf"].(float64); ok {
		if time.Unix(int64(nbff), 0).After(now.Add(clockSkew)) {
			return nil, ErrInvalidToken
		}
	}

	out := make(map[string]any, len(claims))
	for k, v := range claims {
		out[k] = v
	}
	return out, nil
}

// ClaimString extrae una claim string; retorna "" si no existe o no es string.
func ClaimString(claims map[string]any, key string) string {
	v, _ := claims[key].(string)
	return v
}
