package oauth

// IntrospectResult es el resultado a nivel de servicio de una
// introspección. El controller lo traduce a IntrospectResponse.
type IntrospectResult struct {
	Active    bool
	TokenType string // "access_token" | "refresh_token"
	ClientID  string
	Scope     string // scopes unidos por espacio
	Sub       string
	Username  string
	Exp       int64 // epoch seconds
	Iat       int64
}

// IntrospectResponse es la forma de wire RFC 7662. Todos los campos menos
// "active" llevan omitempty: una respuesta inactiva serializa exactamente
// {"active":false} y no filtra nada más.
type IntrospectResponse struct {
	Active    bool   `json:"active"`
	TokenType string `json:"token_type,omitempty"`
	ClientID  string `json:"client_id,omitempty"`
	Scope     string `json:"scope,omitempty"`
	Sub       string `json:"sub,omitempty"`
	Username  string `json:"username,omitempty"`
	Exp       int64  `json:"exp,omitempty"`
	Iat       int64  `json:"iat,omitempty"`
}
