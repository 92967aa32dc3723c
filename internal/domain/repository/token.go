package repository

import (
	"context"
	"time"
)

// AccessToken representa un access token opaco emitido (incluye ID tokens,
// que comparten el mismo espacio de almacenamiento).
type AccessToken struct {
	ID        string
	ClientID  string // client al que fue emitido
	TokenHash string
	Scopes    []string
	Principal string // nombre del usuario que autorizó el token; vacío para client_credentials
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// RefreshToken representa un refresh token opaco.
type RefreshToken struct {
	ID        string
	ClientID  string
	TokenHash string
	// GrantedScopes son los scopes del authorization request original;
	// el refresh token en sí no lleva scopes propios.
	GrantedScopes []string
	Principal     string
	IssuedAt      time.Time
	ExpiresAt     time.Time
	RevokedAt     *time.Time
}

// AccessTokenRepository define el lookup de access tokens por hash.
type AccessTokenRepository interface {
	// GetByHash busca un access token por el hash del valor opaco.
	// Retorna ErrNotFound si no existe.
	GetByHash(ctx context.Context, tokenHash string) (*AccessToken, error)
}

// RefreshTokenRepository define el lookup de refresh tokens por hash.
type RefreshTokenRepository interface {
	// GetByHash busca un refresh token por el hash del valor opaco.
	// Retorna ErrNotFound si no existe.
	GetByHash(ctx context.Context, tokenHash string) (*RefreshToken, error)
}
