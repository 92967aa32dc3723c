// Package store arma el conjunto de repositorios según el driver
// configurado: memory para dev/test, postgres+redis para producción.
package store

import (
	"context"
	"fmt"

	"github.com/dropDatabas3/askjohn/internal/config"
	"github.com/dropDatabas3/askjohn/internal/domain/repository"
	"github.com/dropDatabas3/askjohn/internal/store/adapters/memory"
	"github.com/dropDatabas3/askjohn/internal/store/adapters/pg"
	"github.com/dropDatabas3/askjohn/internal/store/adapters/redis"
)

// Stores agrupa los repositorios abiertos y sus funciones de cierre.
type Stores struct {
	Clients       repository.ClientRepository
	AccessTokens  repository.AccessTokenRepository
	RefreshTokens repository.RefreshTokenRepository
	Users         repository.UserInfoRepository

	closers []func() error
}

// Close cierra todos los backends en orden inverso al de apertura.
func (s *Stores) Close() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Open abre los repositorios según cfg.Storage.Driver.
func Open(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.Storage.Driver {
	case "memory":
		a := memory.New()
		if cfg.Storage.FixturesFile != "" {
			if err := a.LoadFixtures(cfg.Storage.FixturesFile); err != nil {
				return nil, err
			}
		}
		return &Stores{
			Clients:       a,
			AccessTokens:  a.AccessTokens(),
			RefreshTokens: a.RefreshTokens(),
			Users:         a,
		}, nil

	case "postgres":
		db, err := pg.New(ctx, cfg.Storage.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		ts := redis.NewTokenStore(cfg.TokenStore.Redis.Addr, cfg.TokenStore.Redis.DB, cfg.TokenStore.Redis.Prefix)
		return &Stores{
			Clients:       db.Clients(),
			AccessTokens:  ts,
			RefreshTokens: db.RefreshTokens(),
			Users:         db.Users(),
			closers: []func() error{
				func() error { db.Close(); return nil },
				ts.Close,
			},
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
