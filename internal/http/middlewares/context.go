package middlewares

import (
	"context"

	"github.com/dropDatabas3/askjohn/internal/introspection"
)

type ctxKey int

const (
	ctxKeyRequestID ctxKey = iota
	ctxKeyRequester
)

func setRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, rid)
}

// GetRequestID retorna el request ID del contexto, o "".
func GetRequestID(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyRequestID).(string)
	return v
}

// WithRequester guarda la identidad autenticada del caller en el contexto.
func WithRequester(ctx context.Context, id introspection.RequesterIdentity) context.Context {
	return context.WithValue(ctx, ctxKeyRequester, id)
}

// GetRequester retorna la identidad del caller, o nil si no hay.
func GetRequester(ctx context.Context) introspection.RequesterIdentity {
	v, _ := ctx.Value(ctxKeyRequester).(introspection.RequesterIdentity)
	return v
}
