// Package redis implementa el repositorio de access tokens sobre Redis.
// Cada token vive como JSON bajo "<prefix>:at:<hash>" con TTL igual a su
// vigencia, así los vencidos desaparecen solos.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	rdb "github.com/redis/go-redis/v9"

	"github.com/dropDatabas3/askjohn/internal/domain/repository"
)

// TokenStore implementa repository.AccessTokenRepository.
type TokenStore struct {
	c      *rdb.Client
	prefix string
}

// NewTokenStore crea el store.
func NewTokenStore(addr string, db int, prefix string) *TokenStore {
	return &TokenStore{
		c:      rdb.NewClient(&rdb.Options{Addr: addr, DB: db}),
		prefix: prefix,
	}
}

// Close cierra la conexión.
func (s *TokenStore) Close() error { return s.c.Close() }

func (s *TokenStore) key(hash string) string {
	return s.prefix + ":at:" + hash
}

// accessTokenRecord es la forma JSON persistida.
type accessTokenRecord struct {
	ID        string   `json:"id"`
	ClientID  string   `json:"client_id"`
	Scopes    []string `json:"scopes"`
	Principal string   `json:"principal,omitempty"`
	IssuedAt  int64    `json:"iat"`
	ExpiresAt int64    `json:"exp"`
}

// GetByHash busca un access token por hash. redis.Nil → ErrNotFound.
func (s *TokenStore) GetByHash(ctx context.Context, tokenHash string) (*repository.AccessToken, error) {
	b, err := s.c.Get(ctx, s.key(tokenHash)).Bytes()
	if err == rdb.Nil {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var rec accessTokenRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("decode access token record: %w", err)
	}

	return &repository.AccessToken{
		ID:        rec.ID,
		ClientID:  rec.ClientID,
		TokenHash: tokenHash,
		Scopes:    rec.Scopes,
		Principal: rec.Principal,
		IssuedAt:  time.Unix(rec.IssuedAt, 0).UTC(),
		ExpiresAt: time.Unix(rec.ExpiresAt, 0).UTC(),
	}, nil
}

// Put guarda un registro con TTL hasta su expiración. Lo usan el seeder
// y los tests; el servicio nunca escribe tokens.
func (s *TokenStore) Put(ctx context.Context, t *repository.AccessToken) error {
	rec := accessTokenRecord{
		ID:        t.ID,
		ClientID:  t.ClientID,
		Scopes:    t.Scopes,
		Principal: t.Principal,
		IssuedAt:  t.IssuedAt.Unix(),
		ExpiresAt: t.ExpiresAt.Unix(),
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	ttl := time.Until(t.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("token already expired")
	}
	return s.c.Set(ctx, s.key(t.TokenHash), b, ttl).Err()
}
