package config

import (
	"testing"
	"time"
)

func setEnv(t *testing.T, kv map[string]string) {
	t.Helper()
	for _, k := range []string{"DB_DSN", "SERVER_PORT", "SESSION_SECRET", "JWT_SECRET", "TOKEN_TTL", "APP_ENV", "LOG_LEVEL", "ADMIN_USERNAME", "ADMIN_PASSWORD"} {
		t.Setenv(k, kv[k])
	}
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, map[string]string{
		"DB_DSN":         "host=localhost",
		"SESSION_SECRET": "secret",
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if cfg.JWTSecret != "secret" {
		t.Errorf("JWTSecret should fall back to SESSION_SECRET, got %q", cfg.JWTSecret)
	}
	if cfg.TokenTTL != 12*time.Hour {
		t.Errorf("TokenTTL = %v, want 12h", cfg.TokenTTL)
	}
	if cfg.IsProduction() {
		t.Error("default env should not be production")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "no dsn", env: map[string]string{"SESSION_SECRET": "s"}},
		{name: "no session secret", env: map[string]string{"DB_DSN": "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, tt.env)
			if _, err := Load(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoad_TokenTTL(t *testing.T) {
	setEnv(t, map[string]string{"DB_DSN": "d", "SESSION_SECRET": "s", "TOKEN_TTL": "30m"})
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TokenTTL != 30*time.Minute {
		t.Errorf("TokenTTL = %v, want 30m", cfg.TokenTTL)
	}

	setEnv(t, map[string]string{"DB_DSN": "d", "SESSION_SECRET": "s", "TOKEN_TTL": "soon"})
	if _, err := Load(); err == nil {
		t.Error("expected error for malformed TOKEN_TTL")
	}
}
