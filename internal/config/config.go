// Package config carga la configuración del servicio desde YAML con
// overrides por variables de entorno. Las constantes de política de
// introspección (protection scope, regla cross-client) se consumen acá,
// nunca se computan.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dropDatabas3/askjohn/internal/validation"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Server struct {
		Addr string `yaml:"addr"`
		// MetricsAddr separa /metrics en su propio listener; vacío lo
		// publica en el listener principal.
		MetricsAddr string `yaml:"metrics_addr"`
	} `yaml:"server"`

	Storage struct {
		// memory | postgres
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
		// FixturesFile carga clients/tokens/usuarios de dev en el driver
		// memory. Ignorado con postgres.
		FixturesFile string `yaml:"fixtures_file"`
	} `yaml:"storage"`

	// TokenStore es el backend de access tokens opacos (hash → registro).
	TokenStore struct {
		Redis struct {
			Addr   string `yaml:"addr"`
			DB     int    `yaml:"db"`
			Prefix string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"token_store"`

	Cache struct {
		// memory | redis | none
		Kind      string `yaml:"kind"`
		ClientTTL string `yaml:"client_ttl"`
		Redis     struct {
			Addr   string `yaml:"addr"`
			DB     int    `yaml:"db"`
			Prefix string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	RateLimit struct {
		// Max requests por IP por ventana; 0 desactiva el límite.
		Max    int    `yaml:"max"`
		Window string `yaml:"window"`
	} `yaml:"rate_limit"`

	JWT struct {
		// Issuer esperado en tokens delegados; vacío desactiva el chequeo.
		Issuer string `yaml:"issuer"`
		// PublicKey Ed25519 del authorization server, base64url raw.
		PublicKey string `yaml:"public_key"`
		KID       string `yaml:"kid"`
	} `yaml:"jwt"`

	Introspection struct {
		// ProtectionScope habilita la introspección cross-client a
		// requesters delegados que lo tengan en su grant.
		ProtectionScope string `yaml:"protection_scope"`
		// CrossClientScopes restringe qué tokens son visibles cross-client
		// (intersección con los scopes del token). Vacío = sin restricción.
		CrossClientScopes []string `yaml:"cross_client_scopes"`
	} `yaml:"introspection"`
}

// Load lee el YAML (si path != "") y aplica defaults y env overrides.
func Load(path string) (*Config, error) {
	var c Config

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	c.applyEnvOverrides()

	// sane defaults
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.ClientTTL == "" {
		c.Cache.ClientTTL = "30s"
	}
	if c.Introspection.ProtectionScope == "" {
		c.Introspection.ProtectionScope = "uma_protection"
	}
	if c.TokenStore.Redis.Prefix == "" {
		c.TokenStore.Redis.Prefix = "askjohn"
	}
	if c.RateLimit.Window == "" {
		c.RateLimit.Window = "1m"
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "memory", "postgres":
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Storage.Driver == "postgres" {
		if strings.TrimSpace(c.Storage.DSN) == "" {
			return fmt.Errorf("storage.dsn is required with the postgres driver")
		}
		if strings.TrimSpace(c.TokenStore.Redis.Addr) == "" {
			return fmt.Errorf("token_store.redis.addr is required with the postgres driver")
		}
	}
	if !validation.ValidScopeName(c.Introspection.ProtectionScope) {
		return fmt.Errorf("invalid protection scope %q", c.Introspection.ProtectionScope)
	}
	for _, s := range c.Introspection.CrossClientScopes {
		if !validation.ValidScopeName(s) {
			return fmt.Errorf("invalid cross-client scope %q", s)
		}
	}
	return nil
}

// RateLimitWindow parsea rate_limit.window con fallback de 1m.
func (c *Config) RateLimitWindow() time.Duration {
	if d, err := time.ParseDuration(c.RateLimit.Window); err == nil && d > 0 {
		return d
	}
	return time.Minute
}

// ClientCacheTTL parsea cache.client_ttl con fallback de 30s.
func (c *Config) ClientCacheTTL() time.Duration {
	if d, err := time.ParseDuration(c.Cache.ClientTTL); err == nil && d > 0 {
		return d
	}
	return 30 * time.Second
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}

func getEnvCSV(key string) ([]string, bool) {
	if s, ok := getEnvStr(key); ok {
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out, true
	}
	return nil, false
}

// applyEnvOverrides pisa el YAML con variables de entorno.
func (c *Config) applyEnvOverrides() {
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvStr("SERVER_METRICS_ADDR"); ok {
		c.Server.MetricsAddr = v
	}
	if v, ok := getEnvStr("STORAGE_DRIVER"); ok {
		c.Storage.Driver = v
	}
	if v, ok := getEnvStr("STORAGE_DSN"); ok {
		c.Storage.DSN = v
	}
	if v, ok := getEnvStr("TOKEN_STORE_REDIS_ADDR"); ok {
		c.TokenStore.Redis.Addr = v
	}
	if v, ok := getEnvInt("TOKEN_STORE_REDIS_DB"); ok {
		c.TokenStore.Redis.DB = v
	}
	if v, ok := getEnvStr("CACHE_KIND"); ok {
		c.Cache.Kind = v
	}
	if v, ok := getEnvStr("CACHE_REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvInt("RATE_LIMIT_MAX"); ok {
		c.RateLimit.Max = v
	}
	if v, ok := getEnvStr("RATE_LIMIT_WINDOW"); ok {
		c.RateLimit.Window = v
	}
	if v, ok := getEnvStr("JWT_ISSUER"); ok {
		c.JWT.Issuer = v
	}
	if v, ok := getEnvStr("JWT_PUBLIC_KEY"); ok {
		c.JWT.PublicKey = v
	}
	if v, ok := getEnvStr("JWT_KID"); ok {
		c.JWT.KID = v
	}
	if v, ok := getEnvStr("INTROSPECTION_PROTECTION_SCOPE"); ok {
		c.Introspection.ProtectionScope = v
	}
	if v, ok := getEnvCSV("INTROSPECTION_CROSS_CLIENT_SCOPES"); ok {
		c.Introspection.CrossClientScopes = v
	}
}
