package middlewares

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	httperrors "github.com/dropDatabas3/askjohn/internal/http/errors"
	"github.com/dropDatabas3/askjohn/internal/observability/logger"
	"github.com/dropDatabas3/askjohn/internal/rate"
)

// WithRateLimit limita requests por IP de origen con el limiter dado.
// Si el backend del limiter falla se deja pasar: un Redis caído no debe
// tirar abajo la introspección.
func WithRateLimit(l rate.Limiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)

			res, err := l.Allow(r.Context(), key)
			if err != nil {
				logger.From(r.Context()).Warn("rate limiter unavailable", logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}
			if !res.Allowed {
				retry := int(res.RetryAfter.Seconds())
				if retry < 1 {
					retry = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				logger.From(r.Context()).Warn("rate limited", logger.ClientIP(key))
				httperrors.WriteError(w, httperrors.ErrTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extrae la IP de origen: primer hop de X-Forwarded-For si hay
// proxy adelante, RemoteAddr si no.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i > 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
