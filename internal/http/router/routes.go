package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	ctrl "github.com/dropDatabas3/askjohn/internal/http/controllers/oauth"
	mw "github.com/dropDatabas3/askjohn/internal/http/middlewares"
	"github.com/dropDatabas3/askjohn/internal/rate"
)

// Deps contiene las dependencias del router.
type Deps struct {
	Introspect    *ctrl.IntrospectController
	RequesterAuth mw.RequesterAuthDeps

	// RateLimit en nil desactiva el límite.
	RateLimit rate.Limiter

	// ExposeMetrics publica /metrics en este mismo listener. Apagarlo
	// cuando el daemon corre con listener de métricas separado.
	ExposeMetrics bool
}

// New arma el router HTTP del servicio.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithSecurityHeaders(),
		mw.WithLogging(),
	)

	// POST /oauth2/introspect - Token introspection (RFC 7662)
	r.Route("/oauth2", func(r chi.Router) {
		sub := r.With(mw.WithNoStore())
		if deps.RateLimit != nil {
			sub = sub.With(mw.WithRateLimit(deps.RateLimit))
		}
		sub.With(mw.WithRequesterAuth(deps.RequesterAuth)).
			Post("/introspect", deps.Introspect.Introspect)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if deps.ExposeMetrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}
