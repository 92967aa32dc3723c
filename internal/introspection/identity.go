package introspection

// RequesterIdentity models how the caller of the introspection endpoint
// authenticated: with a delegated OAuth token of its own, or with direct
// client credentials. Exactly one variant exists per request; it is
// resolved by the transport layer and never persisted.
type RequesterIdentity interface {
	requesterClientID() string
}

// DelegatedClient is a caller that reached the endpoint presenting a
// bearer token issued to itself.
type DelegatedClient struct {
	ClientID      string
	GrantedScopes []string
}

// DirectClient is a caller that authenticated with client credentials
// (Basic auth or form client_id/client_secret).
type DirectClient struct {
	ClientID string
}

func (d DelegatedClient) requesterClientID() string { return d.ClientID }
func (d DirectClient) requesterClientID() string    { return d.ClientID }

// HasScope reports whether the delegated grant includes a scope.
func (d DelegatedClient) HasScope(scope string) bool {
	for _, s := range d.GrantedScopes {
		if s == scope {
			return true
		}
	}
	return false
}
