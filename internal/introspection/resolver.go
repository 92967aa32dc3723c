package introspection

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dropDatabas3/askjohn/internal/domain/repository"
	"github.com/dropDatabas3/askjohn/internal/observability/logger"
	tokens "github.com/dropDatabas3/askjohn/internal/security/token"
)

// resolution is the outcome of a successful token lookup: the subject
// token, the client that owns it, and the user that authorized it (nil
// for client-only tokens).
type resolution struct {
	Subject SubjectToken
	Owner   *repository.Client
	User    *repository.UserInfo
}

// Scopes returns the subject token's scope set.
func (r *resolution) Scopes() []string {
	return r.Subject.subject().Scopes
}

// resolve looks up an opaque token value: access tokens first (ID tokens
// share that store), refresh tokens as fallback. A nil resolution with a
// nil error means the token is inactive, which is a legitimate outcome.
//
// The token_type_hint is advisory only and never changes the lookup
// order; an unknown hint is logged and ignored.
func (s *service) resolve(ctx context.Context, token, hint string, log *zap.Logger) (*resolution, error) {
	if hint != "" && hint != TokenTypeAccess && hint != TokenTypeRefresh {
		log.Debug("ignoring unknown token_type_hint", logger.String("token_type_hint", hint))
	}

	hash := tokens.SHA256Base64URL(token)
	now := time.Now().UTC()

	at, err := s.deps.AccessTokens.GetByHash(ctx, hash)
	switch {
	case err == nil:
		if at.ExpiresAt.After(now) {
			return s.buildResolution(ctx, AccessSubject{Token: at}, at.ClientID, at.Principal, log)
		}
		log.Debug("access token expired", logger.ClientID(at.ClientID))
	case repository.IsNotFound(err):
		// fall through to the refresh store
	default:
		return nil, fmt.Errorf("access token lookup: %w", err)
	}

	rt, err := s.deps.RefreshTokens.GetByHash(ctx, hash)
	switch {
	case err == nil:
		if rt.RevokedAt == nil && rt.ExpiresAt.After(now) {
			return s.buildResolution(ctx, RefreshSubject{Token: rt}, rt.ClientID, rt.Principal, log)
		}
		log.Debug("refresh token revoked or expired", logger.ClientID(rt.ClientID))
		return nil, nil
	case repository.IsNotFound(err):
		return nil, nil
	default:
		return nil, fmt.Errorf("refresh token lookup: %w", err)
	}
}

// buildResolution completes a resolved subject with its owning client and
// optional user context.
func (s *service) buildResolution(ctx context.Context, sub SubjectToken, clientID, principal string, log *zap.Logger) (*resolution, error) {
	owner, err := s.deps.Clients.GetByClientID(ctx, clientID)
	if repository.IsNotFound(err) {
		// the token outlived its client registration; report it inactive
		log.Warn("token owner no longer registered", logger.ClientID(clientID))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("owner client lookup: %w", err)
	}

	var user *repository.UserInfo
	if principal != "" {
		user, err = s.deps.Users.GetByUsernameAndClientID(ctx, principal, clientID)
		if err != nil && !repository.IsNotFound(err) {
			return nil, fmt.Errorf("user info lookup: %w", err)
		}
		// absence is tolerated: client-only visibility of the principal
	}

	return &resolution{Subject: sub, Owner: owner, User: user}, nil
}
