package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	rdb "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/askjohn/internal/cache"
	"github.com/dropDatabas3/askjohn/internal/cache/clientcache"
	memcache "github.com/dropDatabas3/askjohn/internal/cache/memory"
	redcache "github.com/dropDatabas3/askjohn/internal/cache/redis"
	"github.com/dropDatabas3/askjohn/internal/config"
	"github.com/dropDatabas3/askjohn/internal/domain/repository"
	oauthctl "github.com/dropDatabas3/askjohn/internal/http/controllers/oauth"
	mw "github.com/dropDatabas3/askjohn/internal/http/middlewares"
	"github.com/dropDatabas3/askjohn/internal/http/router"
	"github.com/dropDatabas3/askjohn/internal/introspection"
	jwtx "github.com/dropDatabas3/askjohn/internal/jwt"
	"github.com/dropDatabas3/askjohn/internal/metrics"
	"github.com/dropDatabas3/askjohn/internal/observability/logger"
	"github.com/dropDatabas3/askjohn/internal/rate"
	"github.com/dropDatabas3/askjohn/internal/store"
)

func main() {
	// .env si existe; si no, seguimos con el ambiente del sistema
	_ = godotenv.Load()

	cfgPath := flag.String("config", "", "ruta al config YAML (opcional)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger.Init(logger.Config{Env: cfg.App.Env, ServiceName: "askjohnd"})
	defer logger.Sync()
	lg := logger.Named("askjohnd")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores, err := store.Open(ctx, cfg)
	if err != nil {
		lg.Fatal("store open failed", zap.Error(err))
	}
	defer stores.Close()

	clients := wrapClientCache(cfg, stores.Clients, lg)

	keys, err := buildKeyset(cfg)
	if err != nil {
		lg.Fatal("jwt keyset", zap.Error(err))
	}

	svc := introspection.NewService(introspection.Deps{
		Clients:       clients,
		AccessTokens:  stores.AccessTokens,
		RefreshTokens: stores.RefreshTokens,
		Users:         stores.Users,
		Policy: introspection.Policy{
			ProtectionScope:   cfg.Introspection.ProtectionScope,
			CrossClientScopes: cfg.Introspection.CrossClientScopes,
		},
	})

	if err := metrics.RegisterIntrospection(nil); err != nil {
		lg.Fatal("metrics registration", zap.Error(err))
	}

	h := router.New(router.Deps{
		Introspect: oauthctl.NewIntrospectController(svc),
		RequesterAuth: mw.RequesterAuthDeps{
			Keys:    keys,
			Issuer:  cfg.JWT.Issuer,
			Clients: clients,
		},
		RateLimit:     buildRateLimiter(cfg, lg),
		ExposeMetrics: cfg.Server.MetricsAddr == "",
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      h,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		lg.Info("listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	var msrv *http.Server
	if cfg.Server.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", mw.Chain(promhttp.Handler(), mw.WithRecover(), mw.WithRequestID(), mw.WithLogging()))
		msrv = &http.Server{Addr: cfg.Server.MetricsAddr, Handler: mux}
		g.Go(func() error {
			lg.Info("metrics listening", zap.String("addr", cfg.Server.MetricsAddr))
			if err := msrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if msrv != nil {
			_ = msrv.Shutdown(shCtx)
		}
		return srv.Shutdown(shCtx)
	})

	if err := g.Wait(); err != nil {
		lg.Fatal("server failed", zap.Error(err))
	}
	lg.Info("bye")
}

// wrapClientCache envuelve el ClientRepository según cache.kind.
func wrapClientCache(cfg *config.Config, inner repository.ClientRepository, lg *zap.Logger) repository.ClientRepository {
	var c cache.Cache
	switch cfg.Cache.Kind {
	case "none":
		return inner
	case "redis":
		c = redcache.New(cfg.Cache.Redis.Addr, cfg.Cache.Redis.DB, cfg.Cache.Redis.Prefix)
	default:
		c = memcache.New(cfg.ClientCacheTTL())
	}
	lg.Info("client cache enabled", zap.String("kind", cfg.Cache.Kind))
	return clientcache.New(inner, c, cfg.ClientCacheTTL())
}

// buildRateLimiter arma el limiter por IP. Con redis del token store
// configurado el presupuesto se comparte entre réplicas; si no, es local.
func buildRateLimiter(cfg *config.Config, lg *zap.Logger) rate.Limiter {
	if cfg.RateLimit.Max <= 0 {
		return nil
	}
	window := cfg.RateLimitWindow()
	lg.Info("rate limit enabled", zap.Int("max", cfg.RateLimit.Max), zap.Duration("window", window))

	if cfg.TokenStore.Redis.Addr != "" {
		client := rdb.NewClient(&rdb.Options{Addr: cfg.TokenStore.Redis.Addr, DB: cfg.TokenStore.Redis.DB})
		return rate.NewRedisLimiter(client, cfg.TokenStore.Redis.Prefix+":rl:", cfg.RateLimit.Max, window)
	}
	return rate.NewMemoryLimiter(cfg.RateLimit.Max, window)
}

// buildKeyset arma el keyset Ed25519 para validar tokens delegados. Sin
// public key configurada los Bearer delegados se rechazan (queda Basic).
func buildKeyset(cfg *config.Config) (*jwtx.Keyset, error) {
	ks := jwtx.NewKeyset()
	if cfg.JWT.PublicKey == "" {
		return ks, nil
	}
	if err := ks.AddBase64(cfg.JWT.KID, cfg.JWT.PublicKey); err != nil {
		return nil, err
	}
	return ks, nil
}
