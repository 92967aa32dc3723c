package introspection_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/askjohn/internal/domain/repository"
	"github.com/dropDatabas3/askjohn/internal/introspection"
	tokens "github.com/dropDatabas3/askjohn/internal/security/token"
	"github.com/dropDatabas3/askjohn/internal/store/adapters/memory"
)

const (
	ownerID     = "resource-app"
	otherID     = "other-app"
	protScope   = "uma_protection"
	accessPlain = "opaque-access-token"
	refreshOnly = "opaque-refresh-token"
)

// newFixture arma un adapter en memoria con un client dueño, un segundo
// client habilitado para introspección y un par de tokens vivos.
func newFixture(t *testing.T) *memory.Adapter {
	t.Helper()
	a := memory.New()
	now := time.Now().UTC()

	a.AddClient(&repository.Client{
		ID:                 "c-owner",
		ClientID:           ownerID,
		Type:               repository.ClientTypeConfidential,
		Roles:              []string{repository.RoleClient},
		AllowIntrospection: true,
	})
	a.AddClient(&repository.Client{
		ID:                 "c-other",
		ClientID:           otherID,
		Type:               repository.ClientTypeConfidential,
		Roles:              []string{repository.RoleClient},
		AllowIntrospection: true,
	})

	a.AddAccessToken(&repository.AccessToken{
		ID:        "at-1",
		ClientID:  ownerID,
		TokenHash: tokens.SHA256Base64URL(accessPlain),
		Scopes:    []string{"openid", "api:read"},
		Principal: "ada",
		IssuedAt:  now.Add(-time.Minute),
		ExpiresAt: now.Add(time.Hour),
	})
	a.AddRefreshToken(&repository.RefreshToken{
		ID:            "rt-1",
		ClientID:      ownerID,
		TokenHash:     tokens.SHA256Base64URL(refreshOnly),
		GrantedScopes: []string{"openid", "offline_access"},
		Principal:     "ada",
		IssuedAt:      now.Add(-time.Minute),
		ExpiresAt:     now.Add(24 * time.Hour),
	})
	a.AddUserInfo("ada", ownerID, &repository.UserInfo{
		Sub:      "sub-ada",
		Username: "ada",
	})
	return a
}

func newService(a *memory.Adapter, policy introspection.Policy) introspection.Service {
	return introspection.NewService(introspection.Deps{
		Clients:       a,
		AccessTokens:  a.AccessTokens(),
		RefreshTokens: a.RefreshTokens(),
		Users:         a,
		Policy:        policy,
	})
}

func defaultPolicy() introspection.Policy {
	return introspection.Policy{ProtectionScope: protScope}
}

func TestIntrospect_SelfAccessToken(t *testing.T) {
	svc := newService(newFixture(t), defaultPolicy())

	res, err := svc.Introspect(context.Background(), introspection.Request{
		Token:     accessPlain,
		Requester: introspection.DirectClient{ClientID: ownerID},
	})
	require.NoError(t, err)
	require.True(t, res.Active)
	require.Equal(t, "access_token", res.TokenType)
	require.Equal(t, ownerID, res.ClientID)
	require.Equal(t, "openid api:read", res.Scope)
	require.Equal(t, "sub-ada", res.Sub)
	require.Equal(t, "ada", res.Username)
	require.Greater(t, res.Exp, res.Iat)
}

func TestIntrospect_RefreshFallback(t *testing.T) {
	svc := newService(newFixture(t), defaultPolicy())

	// sin hint: primero access store, después refresh
	res, err := svc.Introspect(context.Background(), introspection.Request{
		Token:     refreshOnly,
		Requester: introspection.DirectClient{ClientID: ownerID},
	})
	require.NoError(t, err)
	require.True(t, res.Active)
	require.Equal(t, "refresh_token", res.TokenType)
	require.Equal(t, "openid offline_access", res.Scope)

	// un hint equivocado no cambia el resultado
	hinted, err := svc.Introspect(context.Background(), introspection.Request{
		Token:         refreshOnly,
		TokenTypeHint: "access_token",
		Requester:     introspection.DirectClient{ClientID: ownerID},
	})
	require.NoError(t, err)
	require.Equal(t, res, hinted)
}

func TestIntrospect_UnknownTokenIsInactive(t *testing.T) {
	svc := newService(newFixture(t), defaultPolicy())

	res, err := svc.Introspect(context.Background(), introspection.Request{
		Token:     "never-issued",
		Requester: introspection.DirectClient{ClientID: ownerID},
	})
	require.NoError(t, err)
	require.False(t, res.Active)
	// nada más que active=false: ni tipo, ni scopes, ni timestamps
	require.Empty(t, res.TokenType)
	require.Empty(t, res.ClientID)
	require.Empty(t, res.Scope)
	require.Zero(t, res.Exp)
	require.Zero(t, res.Iat)
}

func TestIntrospect_EmptyTokenIsInactive(t *testing.T) {
	svc := newService(newFixture(t), defaultPolicy())

	res, err := svc.Introspect(context.Background(), introspection.Request{
		Token:     "   ",
		Requester: introspection.DirectClient{ClientID: ownerID},
	})
	require.NoError(t, err)
	require.False(t, res.Active)
}

func TestIntrospect_ExpiredAccessTokenIsInactive(t *testing.T) {
	a := newFixture(t)
	a.AddAccessToken(&repository.AccessToken{
		ID:        "at-old",
		ClientID:  ownerID,
		TokenHash: tokens.SHA256Base64URL("stale"),
		Scopes:    []string{"openid"},
		IssuedAt:  time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	})
	svc := newService(a, defaultPolicy())

	res, err := svc.Introspect(context.Background(), introspection.Request{
		Token:     "stale",
		Requester: introspection.DirectClient{ClientID: ownerID},
	})
	require.NoError(t, err)
	require.False(t, res.Active)
}

func TestIntrospect_RevokedRefreshTokenIsInactive(t *testing.T) {
	a := newFixture(t)
	revoked := time.Now().Add(-time.Minute)
	a.AddRefreshToken(&repository.RefreshToken{
		ID:            "rt-revoked",
		ClientID:      ownerID,
		TokenHash:     tokens.SHA256Base64URL("revoked-rt"),
		GrantedScopes: []string{"openid"},
		IssuedAt:      time.Now().Add(-time.Hour),
		ExpiresAt:     time.Now().Add(time.Hour),
		RevokedAt:     &revoked,
	})
	svc := newService(a, defaultPolicy())

	res, err := svc.Introspect(context.Background(), introspection.Request{
		Token:     "revoked-rt",
		Requester: introspection.DirectClient{ClientID: ownerID},
	})
	require.NoError(t, err)
	require.False(t, res.Active)
}

func TestIntrospect_NilRequesterIsUnauthenticated(t *testing.T) {
	svc := newService(newFixture(t), defaultPolicy())

	_, err := svc.Introspect(context.Background(), introspection.Request{Token: accessPlain})
	require.ErrorIs(t, err, introspection.ErrUnauthenticated)
}

func TestIntrospect_DelegatedWithoutProtectionScope(t *testing.T) {
	svc := newService(newFixture(t), defaultPolicy())

	// forbidden aunque el token ni exista: la denegación de permiso nunca
	// se disfraza de "inactive"
	for _, tok := range []string{accessPlain, "never-issued"} {
		_, err := svc.Introspect(context.Background(), introspection.Request{
			Token: tok,
			Requester: introspection.DelegatedClient{
				ClientID:      otherID,
				GrantedScopes: []string{"openid"},
			},
		})
		require.ErrorIs(t, err, introspection.ErrForbidden)
	}
}

func TestIntrospect_DirectWithoutAllowFlag(t *testing.T) {
	a := newFixture(t)
	a.AddClient(&repository.Client{
		ID:       "c-plain",
		ClientID: "plain-app",
		Type:     repository.ClientTypeConfidential,
		Roles:    []string{repository.RoleClient},
	})
	svc := newService(a, defaultPolicy())

	_, err := svc.Introspect(context.Background(), introspection.Request{
		Token:     accessPlain,
		Requester: introspection.DirectClient{ClientID: "plain-app"},
	})
	require.ErrorIs(t, err, introspection.ErrForbidden)
}

func TestIntrospect_DirectCrossClientIsForbidden(t *testing.T) {
	svc := newService(newFixture(t), defaultPolicy())

	// allow_introspection habilita el endpoint, no los tokens ajenos
	_, err := svc.Introspect(context.Background(), introspection.Request{
		Token:     accessPlain,
		Requester: introspection.DirectClient{ClientID: otherID},
	})
	require.ErrorIs(t, err, introspection.ErrForbidden)
}

func TestIntrospect_DelegatedCrossClient(t *testing.T) {
	delegated := introspection.DelegatedClient{
		ClientID:      otherID,
		GrantedScopes: []string{protScope},
	}

	t.Run("unrestricted", func(t *testing.T) {
		svc := newService(newFixture(t), defaultPolicy())
		res, err := svc.Introspect(context.Background(), introspection.Request{
			Token:     accessPlain,
			Requester: delegated,
		})
		require.NoError(t, err)
		require.True(t, res.Active)
	})

	t.Run("scope intersection", func(t *testing.T) {
		svc := newService(newFixture(t), introspection.Policy{
			ProtectionScope:   protScope,
			CrossClientScopes: []string{"api:read"},
		})
		res, err := svc.Introspect(context.Background(), introspection.Request{
			Token:     accessPlain,
			Requester: delegated,
		})
		require.NoError(t, err)
		require.True(t, res.Active)
	})

	t.Run("no intersection", func(t *testing.T) {
		svc := newService(newFixture(t), introspection.Policy{
			ProtectionScope:   protScope,
			CrossClientScopes: []string{"admin"},
		})
		_, err := svc.Introspect(context.Background(), introspection.Request{
			Token:     accessPlain,
			Requester: delegated,
		})
		require.ErrorIs(t, err, introspection.ErrForbidden)
	})

	t.Run("same rule for refresh tokens", func(t *testing.T) {
		svc := newService(newFixture(t), introspection.Policy{
			ProtectionScope:   protScope,
			CrossClientScopes: []string{"offline_access"},
		})
		res, err := svc.Introspect(context.Background(), introspection.Request{
			Token:     refreshOnly,
			Requester: delegated,
		})
		require.NoError(t, err)
		require.True(t, res.Active)

		_, err = svc.Introspect(context.Background(), introspection.Request{
			Token:     accessPlain, // scopes: openid api:read → no interseca
			Requester: delegated,
		})
		require.ErrorIs(t, err, introspection.ErrForbidden)
	})
}

func TestIntrospect_OwnerGoneIsInactive(t *testing.T) {
	a := newFixture(t)
	a.AddAccessToken(&repository.AccessToken{
		ID:        "at-orphan",
		ClientID:  "deregistered-app",
		TokenHash: tokens.SHA256Base64URL("orphan"),
		Scopes:    []string{"openid"},
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	})
	svc := newService(a, defaultPolicy())

	res, err := svc.Introspect(context.Background(), introspection.Request{
		Token:     "orphan",
		Requester: introspection.DirectClient{ClientID: ownerID},
	})
	require.NoError(t, err)
	require.False(t, res.Active)
}

func TestIntrospect_Idempotent(t *testing.T) {
	svc := newService(newFixture(t), defaultPolicy())
	req := introspection.Request{
		Token:     accessPlain,
		Requester: introspection.DirectClient{ClientID: ownerID},
	}

	first, err := svc.Introspect(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.Introspect(context.Background(), req)
	require.NoError(t, err)

	fb, _ := json.Marshal(first)
	sb, _ := json.Marshal(second)
	require.JSONEq(t, string(fb), string(sb))
}

// failingTokens simula un backend caído.
type failingTokens struct{}

func (failingTokens) GetByHash(context.Context, string) (*repository.AccessToken, error) {
	return nil, errors.New("connection refused")
}

func TestIntrospect_CollaboratorFailure(t *testing.T) {
	a := newFixture(t)
	svc := introspection.NewService(introspection.Deps{
		Clients:       a,
		AccessTokens:  failingTokens{},
		RefreshTokens: a.RefreshTokens(),
		Users:         a,
		Policy:        defaultPolicy(),
	})

	_, err := svc.Introspect(context.Background(), introspection.Request{
		Token:     accessPlain,
		Requester: introspection.DirectClient{ClientID: ownerID},
	})
	require.Error(t, err)
	require.NotErrorIs(t, err, introspection.ErrForbidden)
	require.NotErrorIs(t, err, introspection.ErrUnauthenticated)
}
