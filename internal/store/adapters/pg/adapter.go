// Package pg implementa los repositorios de clients, refresh tokens y
// user info sobre PostgreSQL (pgx). Los access tokens opacos viven en
// Redis (adapters/redis), no acá.
package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/askjohn/internal/domain/repository"
)

// Adapter agrupa los repositorios PostgreSQL sobre un pool compartido.
type Adapter struct {
	pool *pgxpool.Pool
}

// New abre el pool y verifica conectividad.
func New(ctx context.Context, dsn string) (*Adapter, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Adapter{pool: pool}, nil
}

// Close cierra el pool.
func (a *Adapter) Close() { a.pool.Close() }

// Clients retorna el ClientRepository.
func (a *Adapter) Clients() repository.ClientRepository { return &clientRepo{pool: a.pool} }

// RefreshTokens retorna el RefreshTokenRepository.
func (a *Adapter) RefreshTokens() repository.RefreshTokenRepository {
	return &refreshTokenRepo{pool: a.pool}
}

// Users retorna el UserInfoRepository.
func (a *Adapter) Users() repository.UserInfoRepository { return &userInfoRepo{pool: a.pool} }

// ─── clients ───

type clientRepo struct{ pool *pgxpool.Pool }

func (r *clientRepo) GetByClientID(ctx context.Context, clientID string) (*repository.Client, error) {
	var c repository.Client
	err := r.pool.QueryRow(ctx, `
		SELECT id, client_id, name, type,
		       COALESCE(scopes, '{}'),
		       COALESCE(roles, '{}'),
		       allow_introspection,
		       COALESCE(secret_phc, '')
		  FROM oauth_client
		 WHERE client_id = $1`, clientID,
	).Scan(&c.ID, &c.ClientID, &c.Name, &c.Type, &c.Scopes, &c.Roles, &c.AllowIntrospection, &c.SecretPHC)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select oauth_client: %w", err)
	}
	return &c, nil
}

// ─── refresh tokens ───

type refreshTokenRepo struct{ pool *pgxpool.Pool }

func (r *refreshTokenRepo) GetByHash(ctx context.Context, tokenHash string) (*repository.RefreshToken, error) {
	var t repository.RefreshToken
	err := r.pool.QueryRow(ctx, `
		SELECT id, client_id, token_hash,
		       COALESCE(granted_scopes, '{}'),
		       COALESCE(principal, ''),
		       issued_at, expires_at, revoked_at
		  FROM refresh_token
		 WHERE token_hash = $1`, tokenHash,
	).Scan(&t.ID, &t.ClientID, &t.TokenHash, &t.GrantedScopes, &t.Principal, &t.IssuedAt, &t.ExpiresAt, &t.RevokedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select refresh_token: %w", err)
	}
	return &t, nil
}

// ─── user info ───

type userInfoRepo struct{ pool *pgxpool.Pool }

func (r *userInfoRepo) GetByUsernameAndClientID(ctx context.Context, username, clientID string) (*repository.UserInfo, error) {
	var u repository.UserInfo
	err := r.pool.QueryRow(ctx, `
		SELECT sub, username, COALESCE(email, ''), COALESCE(name, '')
		  FROM user_info
		 WHERE username = $1 AND client_id = $2`, username, clientID,
	).Scan(&u.Sub, &u.Username, &u.Email, &u.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user_info: %w", err)
	}
	return &u, nil
}
