package logger

import (
	"go.uber.org/zap"
)

// ───── HTTP ─────

// RequestID crea un campo para el ID del request.
func RequestID(v string) zap.Field {
	return zap.String("request_id", v)
}

// Method crea un campo para el método HTTP.
func Method(v string) zap.Field {
	return zap.String("method", v)
}

// Path crea un campo para el path del request.
func Path(v string) zap.Field {
	return zap.String("path", v)
}

// Status crea un campo para el status code HTTP.
func Status(v int) zap.Field {
	return zap.Int("status", v)
}

// Bytes crea un campo para los bytes de respuesta.
func Bytes(v int) zap.Field {
	return zap.Int("bytes", v)
}

// DurationMs crea un campo para la duración en milisegundos.
func DurationMs(v int64) zap.Field {
	return zap.Int64("duration_ms", v)
}

// ClientIP crea un campo para la IP del cliente.
func ClientIP(v string) zap.Field {
	return zap.String("client_ip", v)
}

// ───── Negocio ─────

// ClientID crea un campo para el client_id OAuth.
func ClientID(v string) zap.Field {
	return zap.String("client_id", v)
}

// Sub crea un campo para el subject (usuario) de un token.
func Sub(v string) zap.Field {
	return zap.String("sub", v)
}

// Scope crea un campo para un scope o lista de scopes serializada.
func Scope(v string) zap.Field {
	return zap.String("scope", v)
}

// ───── Sistema ─────

// Component crea un campo para el componente/módulo.
func Component(v string) zap.Field {
	return zap.String("component", v)
}

// Op crea un campo para la operación actual.
func Op(v string) zap.Field {
	return zap.String("op", v)
}

// Layer crea un campo para la capa (controller, service, store).
func Layer(v string) zap.Field {
	return zap.String("layer", v)
}

// Err crea un campo para un error.
func Err(err error) zap.Field {
	return zap.Error(err)
}

// ───── Genéricos ─────

// String crea un campo string genérico.
func String(key, v string) zap.Field {
	return zap.String(key, v)
}

// Bool crea un campo bool genérico.
func Bool(key string, v bool) zap.Field {
	return zap.Bool(key, v)
}
