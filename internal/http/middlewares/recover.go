package middlewares

import (
	"net/http"

	httperrors "github.com/dropDatabas3/askjohn/internal/http/errors"
	"github.com/dropDatabas3/askjohn/internal/observability/logger"
	"go.uber.org/zap"
)

// WithRecover atrapa panics, los loguea con stack y responde 500.
func WithRecover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.From(r.Context()).Error("panic recovered",
						zap.Any("panic", rec),
						zap.Stack("stack"),
					)
					httperrors.WriteError(w, httperrors.ErrInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
