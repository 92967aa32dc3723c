// Package clientcache decora un ClientRepository con un cache de lectura.
// Los perfiles de client cambian poco y se consultan en cada request
// (requester + owner), así que es el lookup que más conviene amortiguar.
package clientcache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dropDatabas3/askjohn/internal/cache"
	"github.com/dropDatabas3/askjohn/internal/domain/repository"
)

const keyPrefix = "client:"

// Repository implementa repository.ClientRepository con cache-aside.
// Solo cachea aciertos: un ErrNotFound siempre vuelve al store.
type Repository struct {
	inner repository.ClientRepository
	cache cache.Cache
	ttl   time.Duration
}

// New crea el decorador.
func New(inner repository.ClientRepository, c cache.Cache, ttl time.Duration) *Repository {
	return &Repository{inner: inner, cache: c, ttl: ttl}
}

// GetByClientID busca primero en cache y cae al repositorio interno.
func (r *Repository) GetByClientID(ctx context.Context, clientID string) (*repository.Client, error) {
	key := keyPrefix + clientID

	if b, ok := r.cache.Get(key); ok {
		var c repository.Client
		if err := json.Unmarshal(b, &c); err == nil {
			return &c, nil
		}
		// entrada corrupta: se descarta y se vuelve al store
		r.cache.Delete(key)
	}

	c, err := r.inner.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(c); err == nil {
		r.cache.Set(key, b, r.ttl)
	}
	return c, nil
}
