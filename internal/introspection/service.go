// Package introspection implements the RFC 7662 decision core: who is
// asking, what token they are asking about, whether they may ask, and
// what the answer looks like. It only reads; token and client state is
// owned by the injected repositories.
package introspection

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/dropDatabas3/askjohn/internal/domain/repository"
	dto "github.com/dropDatabas3/askjohn/internal/http/dto/oauth"
	"github.com/dropDatabas3/askjohn/internal/observability/logger"
)

// Service defines the token introspection operation.
type Service interface {
	// Introspect runs the full decision sequence. It returns a result for
	// the benign outcomes (active, inactive) and an error for the rest:
	// ErrUnauthenticated, ErrForbidden, or a wrapped collaborator failure.
	Introspect(ctx context.Context, req Request) (*dto.IntrospectResult, error)
}

// Request carries the introspection parameters plus the caller's
// authentication context as established by the transport layer.
type Request struct {
	Token         string
	TokenTypeHint string
	Requester     RequesterIdentity
}

// Deps contains the collaborators the service reads from. Everything is
// injected at construction; the service holds no mutable state and is
// safe for concurrent use.
type Deps struct {
	Clients       repository.ClientRepository
	AccessTokens  repository.AccessTokenRepository
	RefreshTokens repository.RefreshTokenRepository
	Users         repository.UserInfoRepository
	Policy        Policy
}

// Service errors. The transport layer maps these to 401/403; anything
// else is a collaborator failure and maps to 500.
var (
	ErrUnauthenticated = errors.New("requester not authenticated")
	ErrForbidden       = errors.New("introspection not permitted")
)

type service struct {
	deps Deps
}

// NewService creates the introspection service.
func NewService(deps Deps) Service {
	return &service{deps: deps}
}

// Introspect sequences the decision: validate input, authenticate the
// requester, resolve the token, authorize, assemble. Strictly linear; the
// early exits are the ones the protocol defines.
func (s *service) Introspect(ctx context.Context, req Request) (*dto.IntrospectResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("introspection"),
		logger.Op("Introspect"),
	)

	// A missing token parameter is a benign outcome, not an input error.
	if strings.TrimSpace(req.Token) == "" {
		log.Debug("empty token value")
		return inactive(), nil
	}

	requester, err := s.authenticateRequester(ctx, req.Requester, log)
	if err != nil {
		return nil, err
	}

	res, err := s.resolve(ctx, req.Token, req.TokenTypeHint, log)
	if err != nil {
		return nil, err
	}
	if res == nil {
		log.Debug("token not found in any store")
		return inactive(), nil
	}

	// A policy denial is forbidden, never "inactive": reporting it as a
	// dead token would mask a permission problem.
	if !s.deps.Policy.IntrospectionPermitted(requester, res.Owner, res.Scopes()) {
		log.Warn("introspection denied by policy",
			logger.String("requester", requester.Client.ClientID),
			logger.String("owner", res.Owner.ClientID),
		)
		return nil, ErrForbidden
	}

	out := assemble(res.Subject, res.User)
	log.Debug("token introspected",
		logger.ClientID(out.ClientID),
		logger.String("token_type", out.TokenType),
	)
	return out, nil
}

// authenticateRequester classifies the caller and resolves its client
// profile. Delegated callers must hold the protection scope in their own
// grant; direct callers need the client role and the allow_introspection
// flag on their profile.
func (s *service) authenticateRequester(ctx context.Context, id RequesterIdentity, log *zap.Logger) (*Requester, error) {
	if id == nil {
		return nil, ErrUnauthenticated
	}

	switch ident := id.(type) {
	case DelegatedClient:
		if !ident.HasScope(s.deps.Policy.ProtectionScope) {
			log.Warn("delegated requester lacks protection scope", logger.ClientID(ident.ClientID))
			return nil, ErrForbidden
		}
	case DirectClient:
		// profile flags checked below, once loaded
	default:
		return nil, ErrUnauthenticated
	}

	client, err := s.deps.Clients.GetByClientID(ctx, id.requesterClientID())
	if repository.IsNotFound(err) {
		// unreachable if upstream authentication did its job
		log.Error("authenticated requester has no client profile", logger.ClientID(id.requesterClientID()))
		return nil, ErrForbidden
	}
	if err != nil {
		return nil, fmt.Errorf("requester client lookup: %w", err)
	}

	if _, direct := id.(DirectClient); direct {
		if !client.HasRole(repository.RoleClient) || !client.AllowIntrospection {
			log.Warn("client not allowed to introspect with direct credentials", logger.ClientID(client.ClientID))
			return nil, ErrForbidden
		}
	}

	return &Requester{Identity: id, Client: client}, nil
}
