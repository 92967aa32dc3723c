package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

// ToContext inyecta un logger en el contexto. Lo usan los middlewares
// para propagar un logger con los campos del request.
func ToContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From extrae el logger del contexto; si no hay, retorna el singleton.
// Seguro de llamar desde cualquier capa.
func From(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return L()
	}
	if v := ctx.Value(ctxKey{}); v != nil {
		if l, ok := v.(*zap.Logger); ok {
			return l
		}
	}
	return L()
}
