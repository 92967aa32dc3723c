package introspection

import (
	"time"

	"github.com/dropDatabas3/askjohn/internal/domain/repository"
)

// Token type values reported in responses and accepted as hints.
const (
	TokenTypeAccess  = "access_token"
	TokenTypeRefresh = "refresh_token"
)

// SubjectToken is the token under inspection: exactly one of the two
// variants per request. A nil SubjectToken means nothing resolved, which
// is the protocol's "inactive" outcome, not an error.
type SubjectToken interface {
	subject() tokenClaims
}

// AccessSubject wraps a resolved access token record (ID tokens live in
// the same store and surface through this variant too).
type AccessSubject struct {
	Token *repository.AccessToken
}

// RefreshSubject wraps a resolved refresh token record.
type RefreshSubject struct {
	Token *repository.RefreshToken
}

// tokenClaims is the single projection both variants map onto. The
// assembler only ever consumes this shape, so the field mapping exists
// exactly once regardless of variant.
type tokenClaims struct {
	TokenType string
	ClientID  string
	Scopes    []string
	Principal string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func (a AccessSubject) subject() tokenClaims {
	return tokenClaims{
		TokenType: TokenTypeAccess,
		ClientID:  a.Token.ClientID,
		Scopes:    a.Token.Scopes,
		Principal: a.Token.Principal,
		IssuedAt:  a.Token.IssuedAt,
		ExpiresAt: a.Token.ExpiresAt,
	}
}

func (r RefreshSubject) subject() tokenClaims {
	// a refresh token carries no scopes of its own; it reports the scopes
	// of the original authorization request
	return tokenClaims{
		TokenType: TokenTypeRefresh,
		ClientID:  r.Token.ClientID,
		Scopes:    r.Token.GrantedScopes,
		Principal: r.Token.Principal,
		IssuedAt:  r.Token.IssuedAt,
		ExpiresAt: r.Token.ExpiresAt,
	}
}
