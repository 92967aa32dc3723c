package introspection

import (
	"strings"

	"github.com/dropDatabas3/askjohn/internal/domain/repository"
	dto "github.com/dropDatabas3/askjohn/internal/http/dto/oauth"
)

// assemble maps a resolved token plus optional user context into the
// public result. Both token variants pass through the same tokenClaims
// projection, so there is one mapping, not one per variant.
func assemble(sub SubjectToken, user *repository.UserInfo) *dto.IntrospectResult {
	c := sub.subject()

	out := &dto.IntrospectResult{
		Active:    true,
		TokenType: c.TokenType,
		ClientID:  c.ClientID,
		Scope:     strings.Join(c.Scopes, " "),
		Exp:       c.ExpiresAt.Unix(),
		Iat:       c.IssuedAt.Unix(),
	}
	if user != nil {
		out.Sub = user.Sub
		out.Username = user.Username
	}
	return out
}

// inactive is everything an unresolved token is allowed to reveal.
func inactive() *dto.IntrospectResult {
	return &dto.IntrospectResult{Active: false}
}
