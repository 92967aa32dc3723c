package introspection

import (
	"github.com/dropDatabas3/askjohn/internal/domain/repository"
)

// Policy is the introspection authorization rule. It is a pure predicate:
// no lookups, no side effects, and its outcome must never be reported as
// an inactive token (that would answer the wrong question).
type Policy struct {
	// ProtectionScope is the scope a delegated requester must hold to
	// introspect tokens it does not own (the UMA protection-API scope).
	ProtectionScope string

	// CrossClientScopes restricts which tokens are visible across client
	// boundaries: the subject token's scope set must intersect this list.
	// Empty means no restriction beyond the protection scope.
	CrossClientScopes []string
}

// Requester is an authenticated caller: the identity it presented plus
// the client profile it resolved to.
type Requester struct {
	Identity RequesterIdentity
	Client   *repository.Client
}

// IntrospectionPermitted decides whether req may introspect a token owned
// by owner carrying tokenScopes.
//
// Self-introspection is always permitted. Cross-client introspection
// requires the requester to hold the protection-scope delegation and the
// token's scopes to pass the configured intersection rule; a caller that
// authenticated with direct credentials never reaches across clients.
func (p Policy) IntrospectionPermitted(req *Requester, owner *repository.Client, tokenScopes []string) bool {
	if req == nil || req.Client == nil || owner == nil {
		return false
	}
	if req.Client.ClientID == owner.ClientID {
		return true
	}

	del, ok := req.Identity.(DelegatedClient)
	if !ok {
		return false
	}
	if !del.HasScope(p.ProtectionScope) {
		return false
	}
	if len(p.CrossClientScopes) == 0 {
		return true
	}
	return scopesIntersect(tokenScopes, p.CrossClientScopes)
}

func scopesIntersect(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
