package repository

import "context"

// UserInfo contiene los claims del usuario que autorizó un token.
// Puede no existir (tokens client-only): eso no es un error de negocio.
type UserInfo struct {
	Sub      string
	Username string
	Email    string
	Name     string
}

// UserInfoRepository define el lookup de información de usuario.
type UserInfoRepository interface {
	// GetByUsernameAndClientID busca el perfil visible para el par
	// (username, client_id). Retorna ErrNotFound si no hay registro.
	GetByUsernameAndClientID(ctx context.Context, username, clientID string) (*UserInfo, error)
}
