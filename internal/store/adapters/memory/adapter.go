// Package memory implementa todos los repositorios en memoria. Es el
// driver de dev y el doble de test: los helpers Add* existen para armar
// fixtures, el core solo usa las interfaces de lectura.
package memory

import (
	"context"
	"sync"

	"github.com/dropDatabas3/askjohn/internal/domain/repository"
)

// Adapter implementa ClientRepository, AccessTokenRepository,
// RefreshTokenRepository y UserInfoRepository sobre maps.
type Adapter struct {
	mu sync.RWMutex

	clients       map[string]*repository.Client       // client_id → profile
	accessTokens  map[string]*repository.AccessToken  // token_hash → record
	refreshTokens map[string]*repository.RefreshToken // token_hash → record
	users         map[string]*repository.UserInfo     // username + "\x00" + client_id → info
}

// New crea un adapter vacío.
func New() *Adapter {
	return &Adapter{
		clients:       make(map[string]*repository.Client),
		accessTokens:  make(map[string]*repository.AccessToken),
		refreshTokens: make(map[string]*repository.RefreshToken),
		users:         make(map[string]*repository.UserInfo),
	}
}

func userKey(username, clientID string) string {
	return username + "\x00" + clientID
}

// ─── Lecturas (contratos de repository) ───

func (a *Adapter) GetByClientID(_ context.Context, clientID string) (*repository.Client, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	c, ok := a.clients[clientID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

// AccessTokens retorna la vista AccessTokenRepository del adapter.
func (a *Adapter) AccessTokens() repository.AccessTokenRepository { return accessView{a} }

// RefreshTokens retorna la vista RefreshTokenRepository del adapter.
func (a *Adapter) RefreshTokens() repository.RefreshTokenRepository { return refreshView{a} }

type accessView struct{ a *Adapter }

func (v accessView) GetByHash(_ context.Context, tokenHash string) (*repository.AccessToken, error) {
	v.a.mu.RLock()
	defer v.a.mu.RUnlock()
	t, ok := v.a.accessTokens[tokenHash]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

type refreshView struct{ a *Adapter }

func (v refreshView) GetByHash(_ context.Context, tokenHash string) (*repository.RefreshToken, error) {
	v.a.mu.RLock()
	defer v.a.mu.RUnlock()
	t, ok := v.a.refreshTokens[tokenHash]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (a *Adapter) GetByUsernameAndClientID(_ context.Context, username, clientID string) (*repository.UserInfo, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	u, ok := a.users[userKey(username, clientID)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// ─── Escrituras (solo fixtures/seeding, fuera del core) ───

// AddClient registra un perfil de client.
func (a *Adapter) AddClient(c *repository.Client) {
	a.mu.Lock()
	defer a.mu.Unlock()
	cp := *c
	a.clients[c.ClientID] = &cp
}

// AddAccessToken registra un access token por su hash.
func (a *Adapter) AddAccessToken(t *repository.AccessToken) {
	a.mu.Lock()
	defer a.mu.Unlock()
	cp := *t
	a.accessTokens[t.TokenHash] = &cp
}

// AddRefreshToken registra un refresh token por su hash.
func (a *Adapter) AddRefreshToken(t *repository.RefreshToken) {
	a.mu.Lock()
	defer a.mu.Unlock()
	cp := *t
	a.refreshTokens[t.TokenHash] = &cp
}

// AddUserInfo registra info de usuario para (username, client_id).
func (a *Adapter) AddUserInfo(username, clientID string, u *repository.UserInfo) {
	a.mu.Lock()
	defer a.mu.Unlock()
	cp := *u
	a.users[userKey(username, clientID)] = &cp
}
