package middlewares

import (
	"net/http"
	"time"

	"github.com/dropDatabas3/askjohn/internal/observability/logger"
)

// statusRecorder captura status code y bytes escritos.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.wroteHeader {
		return
	}
	s.status = code
	s.wroteHeader = true
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if !s.wroteHeader {
		s.status = http.StatusOK
		s.wroteHeader = true
	}
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

// WithLogging registra cada request con campos estructurados e inyecta un
// logger "scoped" (request_id, method, path) en el contexto. El nivel del
// log final depende del status: 5xx error, 4xx warn, resto info.
func WithLogging() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := w.Header().Get("X-Request-ID")
			if requestID == "" {
				requestID = GetRequestID(r.Context())
			}

			reqLog := logger.L().With(
				logger.RequestID(requestID),
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
			)

			ctx := logger.ToContext(r.Context(), reqLog)
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r.WithContext(ctx))

			dur := time.Since(start)
			switch {
			case rec.status >= 500:
				reqLog.Error("request failed",
					logger.Status(rec.status),
					logger.Bytes(rec.bytes),
					logger.DurationMs(dur.Milliseconds()),
				)
			case rec.status >= 400:
				reqLog.Warn("request completed with client error",
					logger.Status(rec.status),
					logger.Bytes(rec.bytes),
					logger.DurationMs(dur.Milliseconds()),
				)
			default:
				reqLog.Info("request completed",
					logger.Status(rec.status),
					logger.Bytes(rec.bytes),
					logger.DurationMs(dur.Milliseconds()),
				)
			}
		})
	}
}
