package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("addr: %q", cfg.Server.Addr)
	}
	if cfg.Storage.Driver != "memory" {
		t.Fatalf("driver: %q", cfg.Storage.Driver)
	}
	if cfg.Introspection.ProtectionScope != "uma_protection" {
		t.Fatalf("protection scope: %q", cfg.Introspection.ProtectionScope)
	}
	if cfg.ClientCacheTTL() != 30*time.Second {
		t.Fatalf("cache ttl: %v", cfg.ClientCacheTTL())
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, `
app:
  env: prod
server:
  addr: ":9090"
storage:
  driver: postgres
  dsn: postgres://localhost/askjohn
token_store:
  redis:
    addr: localhost:6379
introspection:
  protection_scope: protection
  cross_client_scopes: [api:read, api:write]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":9090" || cfg.App.Env != "prod" {
		t.Fatalf("yaml not applied: %+v", cfg.Server)
	}
	if len(cfg.Introspection.CrossClientScopes) != 2 {
		t.Fatalf("cross client scopes: %+v", cfg.Introspection.CrossClientScopes)
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeConfig(t, "server:\n  addr: \":9090\"\n")
	t.Setenv("SERVER_ADDR", ":7070")
	t.Setenv("INTROSPECTION_CROSS_CLIENT_SCOPES", "a, b ,c")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":7070" {
		t.Fatalf("env must win over yaml: %q", cfg.Server.Addr)
	}
	if len(cfg.Introspection.CrossClientScopes) != 3 {
		t.Fatalf("csv env: %+v", cfg.Introspection.CrossClientScopes)
	}
}

func TestLoad_PostgresRequiresDSNAndRedis(t *testing.T) {
	if _, err := Load(writeConfig(t, "storage:\n  driver: postgres\n")); err == nil {
		t.Fatal("postgres without dsn must fail")
	}
	if _, err := Load(writeConfig(t, "storage:\n  driver: postgres\n  dsn: x\n")); err == nil {
		t.Fatal("postgres without token store redis must fail")
	}
}

func TestLoad_InvalidScopeNames(t *testing.T) {
	if _, err := Load(writeConfig(t, "introspection:\n  protection_scope: \"BAD SCOPE\"\n")); err == nil {
		t.Fatal("invalid protection scope must fail")
	}
	if _, err := Load(writeConfig(t, "introspection:\n  cross_client_scopes: [ok, \"not ok\"]\n")); err == nil {
		t.Fatal("invalid cross-client scope must fail")
	}
}

func TestLoad_UnknownDriver(t *testing.T) {
	if _, err := Load(writeConfig(t, "storage:\n  driver: cassandra\n")); err == nil {
		t.Fatal("unknown driver must fail")
	}
}
