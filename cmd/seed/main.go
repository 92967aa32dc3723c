// Seeder de dev: carga clients, user info y tokens de demo en
// postgres+redis y deja impreso todo lo necesario para probar el
// endpoint con curl (tokens opacos, secret del requester, JWT delegado).
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/dropDatabas3/askjohn/internal/config"
	"github.com/dropDatabas3/askjohn/internal/domain/repository"
	jwtx "github.com/dropDatabas3/askjohn/internal/jwt"
	"github.com/dropDatabas3/askjohn/internal/security/secret"
	tokens "github.com/dropDatabas3/askjohn/internal/security/token"
	redisstore "github.com/dropDatabas3/askjohn/internal/store/adapters/redis"
)

const (
	resourceClientID = "demo-resource"
	requesterID      = "demo-requester"
	requesterSecret  = "requester-secret"
	demoUsername     = "ada"
)

func main() {
	_ = godotenv.Load()

	cfgPath := flag.String("config", "", "ruta al config YAML (opcional)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Storage.Driver != "postgres" {
		log.Fatalf("el seeder solo aplica al driver postgres (driver=%q); con memory usá storage.fixtures_file", cfg.Storage.Driver)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Storage.DSN)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	ts := redisstore.NewTokenStore(cfg.TokenStore.Redis.Addr, cfg.TokenStore.Redis.DB, cfg.TokenStore.Redis.Prefix)
	defer ts.Close()

	// clients: el dueño de los tokens y un requester confidencial con
	// allow_introspection.
	if err := upsertClient(ctx, pool, &repository.Client{
		ID:                 uuid.NewString(),
		ClientID:           resourceClientID,
		Name:               "Demo Resource",
		Type:               repository.ClientTypeConfidential,
		Scopes:             []string{"openid", "profile", "api:read"},
		Roles:              []string{repository.RoleClient},
		AllowIntrospection: true,
	}, "resource-secret"); err != nil {
		log.Fatalf("seed resource client: %v", err)
	}

	if err := upsertClient(ctx, pool, &repository.Client{
		ID:                 uuid.NewString(),
		ClientID:           requesterID,
		Name:               "Demo Requester",
		Type:               repository.ClientTypeConfidential,
		Roles:              []string{repository.RoleClient},
		AllowIntrospection: true,
	}, requesterSecret); err != nil {
		log.Fatalf("seed requester client: %v", err)
	}

	// user info del principal de los tokens
	if err := upsertUser(ctx, pool, &repository.UserInfo{
		Sub:      uuid.NewString(),
		Username: demoUsername,
		Email:    "ada@example.com",
		Name:     "Ada Lovelace",
	}, resourceClientID); err != nil {
		log.Fatalf("seed user: %v", err)
	}

	now := time.Now().UTC()

	// access token opaco en redis
	accessPlain, err := tokens.GenerateOpaqueToken(32)
	if err != nil {
		log.Fatalf("generate access token: %v", err)
	}
	if err := ts.Put(ctx, &repository.AccessToken{
		ID:        uuid.NewString(),
		ClientID:  resourceClientID,
		TokenHash: tokens.SHA256Base64URL(accessPlain),
		Scopes:    []string{"openid", "profile", "api:read"},
		Principal: demoUsername,
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Hour),
	}); err != nil {
		log.Fatalf("seed access token: %v", err)
	}

	// refresh token opaco en postgres
	refreshPlain, err := tokens.GenerateOpaqueToken(32)
	if err != nil {
		log.Fatalf("generate refresh token: %v", err)
	}
	if err := upsertRefreshToken(ctx, pool, &repository.RefreshToken{
		ID:            uuid.NewString(),
		ClientID:      resourceClientID,
		TokenHash:     tokens.SHA256Base64URL(refreshPlain),
		GrantedScopes: []string{"openid", "offline_access"},
		Principal:     demoUsername,
		IssuedAt:      now,
		ExpiresAt:     now.Add(30 * 24 * time.Hour),
	}); err != nil {
		log.Fatalf("seed refresh token: %v", err)
	}

	fmt.Println("seed ok")
	fmt.Printf("  resource client:   %s (secret: resource-secret)\n", resourceClientID)
	fmt.Printf("  requester client:  %s (secret: %s)\n", requesterID, requesterSecret)
	fmt.Printf("  access token:      %s\n", accessPlain)
	fmt.Printf("  refresh token:     %s\n", refreshPlain)

	// par de claves dev + JWT delegado para probar el camino Bearer
	dk, err := jwtx.NewDevEd25519("dev-1")
	if err != nil {
		log.Fatalf("dev keys: %v", err)
	}
	iss := cfg.JWT.Issuer
	if iss == "" {
		iss = "https://askjohn.local"
	}
	delegated, err := dk.Sign(map[string]any{
		"iss":       iss,
		"sub":       requesterID,
		"client_id": requesterID,
		"scope":     cfg.Introspection.ProtectionScope,
		"iat":       now.Unix(),
		"exp":       now.Add(time.Hour).Unix(),
	})
	if err != nil {
		log.Fatalf("sign delegated jwt: %v", err)
	}
	fmt.Println("\ndev delegated credential (configurar JWT_PUBLIC_KEY/JWT_KID para usarla):")
	fmt.Printf("  JWT_PUBLIC_KEY=%s\n", dk.PublicBase64())
	fmt.Printf("  JWT_KID=%s\n", dk.KID)
	fmt.Printf("  JWT_ISSUER=%s\n", iss)
	fmt.Printf("  bearer: %s\n", delegated)
}

func upsertClient(ctx context.Context, pool *pgxpool.Pool, c *repository.Client, plainSecret string) error {
	phc, err := secret.Hash(secret.Default, plainSecret)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
		INSERT INTO oauth_client (id, client_id, name, type, scopes, roles, allow_introspection, secret_phc)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (client_id) DO UPDATE SET
			name = EXCLUDED.name,
			type = EXCLUDED.type,
			scopes = EXCLUDED.scopes,
			roles = EXCLUDED.roles,
			allow_introspection = EXCLUDED.allow_introspection,
			secret_phc = EXCLUDED.secret_phc`,
		c.ID, c.ClientID, c.Name, c.Type, c.Scopes, c.Roles, c.AllowIntrospection, phc)
	return err
}

func upsertUser(ctx context.Context, pool *pgxpool.Pool, u *repository.UserInfo, clientID string) error {
	_, err := pool.Exec(ctx, `
		INSERT INTO user_info (sub, username, client_id, email, name)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (username, client_id) DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name`,
		u.Sub, u.Username, clientID, u.Email, u.Name)
	return err
}

func upsertRefreshToken(ctx context.Context, pool *pgxpool.Pool, t *repository.RefreshToken) error {
	_, err := pool.Exec(ctx, `
		INSERT INTO refresh_token (id, client_id, token_hash, granted_scopes, principal, issued_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (token_hash) DO NOTHING`,
		t.ID, t.ClientID, t.TokenHash, t.GrantedScopes, t.Principal, t.IssuedAt, t.ExpiresAt)
	return err
}
