package repository

import "context"

const (
	ClientTypePublic       = "public"
	ClientTypeConfidential = "confidential"

	// RoleClient es el rol que habilita a un client a usar endpoints
	// de máquina-a-máquina (entre ellos la introspección directa).
	RoleClient = "client"
)

// Client representa el perfil de un cliente OAuth registrado.
// Inmutable durante el request; el core solo lo lee.
type Client struct {
	ID       string
	ClientID string // identificador público
	Name     string
	Type     string // "public" | "confidential"
	Scopes   []string
	Roles    []string

	// AllowIntrospection habilita la introspección con credenciales
	// directas (sin token delegado).
	AllowIntrospection bool

	// SecretPHC es el client_secret en formato PHC (argon2id).
	// Vacío para clients públicos.
	SecretPHC string
}

// HasRole verifica si el client tiene un rol.
func (c *Client) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// ClientRepository define el lookup de clients.
type ClientRepository interface {
	// GetByClientID obtiene un client por su client_id público.
	// Retorna ErrNotFound si no existe.
	GetByClientID(ctx context.Context, clientID string) (*Client, error)
}
