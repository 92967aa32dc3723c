// Package logger provee un logger Zap singleton con scoping por contexto.
//
// Inicialización (una vez, en main):
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: os.Getenv("LOG_LEVEL")})
//	defer logger.Sync()
//
// En controllers/services:
//
//	log := logger.From(ctx)
//	log.Info("token introspected", logger.ClientID(cid))
//
// El middleware de logging inyecta un logger "scoped" con request_id,
// method y path; From(ctx) cae al singleton si no hay nada en el contexto.
package logger
