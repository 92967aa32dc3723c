package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	once     sync.Once
	instance *zap.Logger
)

// Init inicializa el singleton. Idempotente: solo la primera llamada
// tiene efecto. Debe llamarse al inicio de la aplicación.
func Init(cfg Config) {
	once.Do(func() {
		instance = build(cfg)
	})
}

// L retorna el singleton. Si Init no fue llamado, crea uno por defecto
// (dev, info) para no romper en tests.
func L() *zap.Logger {
	if instance == nil {
		Init(Config{Env: "dev", Level: "info"})
	}
	return instance
}

// Named retorna un logger con nombre de componente.
func Named(name string) *zap.Logger {
	return L().Named(name)
}

// With retorna un logger con campos persistentes adicionales.
func With(fields ...zap.Field) *zap.Logger {
	return L().With(fields...)
}

// Sync flushea buffers pendientes. Llamar con defer en main.
func Sync() error {
	if instance != nil {
		return instance.Sync()
	}
	return nil
}
