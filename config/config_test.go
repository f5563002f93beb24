package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("TRUSTED_PROXIES", "")
	cfg := Load()

	if cfg.JWTSecret != "devjwtsecret" {
		t.Fatalf("jwt secret default = %q", cfg.JWTSecret)
	}
	if cfg.DBDriver != "postgres" {
		t.Fatalf("db driver default = %q", cfg.DBDriver)
	}
	if !cfg.AuthDegradeOnLookupError {
		t.Fatalf("expected degrade-on-lookup-error to default to true")
	}
	if cfg.UploadsMaxBytes != 5<<20 {
		t.Fatalf("uploads max bytes = %d", cfg.UploadsMaxBytes)
	}
	if len(cfg.TrustedProxyList()) != 0 {
		t.Fatalf("no proxy should be trusted by default")
	}
	if cfg.IsProduction() {
		t.Fatalf("development env reported as production")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "Production")
	t.Setenv("DB_DRIVER", "MEMORY")
	t.Setenv("AUTH_LOOKUP_TIMEOUT", "750ms")
	t.Setenv("AUTH_DEGRADE_ON_LOOKUP_ERROR", "false")
	t.Setenv("DB_MAX_CONNS", "not-a-number")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.0.2.1")

	cfg := Load()
	if !cfg.IsProduction() {
		t.Fatalf("expected production")
	}
	if cfg.DBDriver != "memory" {
		t.Fatalf("db driver = %q", cfg.DBDriver)
	}
	if cfg.AuthLookupTimeout != 750*time.Millisecond {
		t.Fatalf("lookup timeout = %v", cfg.AuthLookupTimeout)
	}
	if cfg.AuthDegradeOnLookupError {
		t.Fatalf("expected degrade disabled")
	}
	if cfg.DBMaxConns != 10 {
		t.Fatalf("invalid int should fall back to default, got %d", cfg.DBMaxConns)
	}
	origins := cfg.CORSOrigins()
	if len(origins) != 2 || origins[0] != "https://a.example" || origins[1] != "https://b.example" {
		t.Fatalf("origins = %v", origins)
	}
	if proxies := cfg.TrustedProxyList(); len(proxies) != 2 || proxies[1] != "192.0.2.1" {
		t.Fatalf("trusted proxies = %v", proxies)
	}
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "1", DBName: "d", DBSSLMode: "disable"}
	if got := cfg.PostgresDSN(); got != "postgres://u:p@h:1/d?sslmode=disable" {
		t.Fatalf("dsn = %q", got)
	}
}
