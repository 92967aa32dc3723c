// Package cache define un contrato mínimo de cache byte-orientado con
// backends en memoria (dev, single node) y Redis (multi réplica).
package cache

import "time"

// Cache es un KV con TTL. Get retorna ok=false tanto para miss como para
// entradas vencidas.
type Cache interface {
	Get(key string) (value []byte, ok bool)
	Set(key string, value []byte, ttl time.Duration)
	Delete(key string)
}
