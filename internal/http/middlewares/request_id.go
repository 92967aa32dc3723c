package middlewares

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// WithRequestID genera o propaga un Request ID único por request.
// Si el cliente envía X-Request-ID lo respeta; si no, genera uno.
func WithRequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := strings.TrimSpace(r.Header.Get("X-Request-ID"))
			if rid == "" {
				rid = uuid.NewString()
			}

			w.Header().Set("X-Request-ID", rid)
			ctx := setRequestID(r.Context(), rid)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
