package config

import (
	"testing"
	"time"
)

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"auth": map[string]any{
			"secretKey":          "",
			"accessTokenMinutes": 30,
		},
		"generation": map[string]any{
			"textBaseUrl": "",
			"textApiKey":  "",
		},
		"postgres": map[string]any{
			"maxOpenConns": 10,
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "AUTH_SECRETKEY", want: "auth.secretKey"},
		{envKey: "AUTH_ACCESSTOKENMINUTES", want: "auth.accessTokenMinutes"},
		{envKey: "GENERATION_TEXTBASEURL", want: "generation.textBaseUrl"},
		{envKey: "GENERATION_TEXTAPIKEY", want: "generation.textApiKey"},
		{envKey: "POSTGRES_MAXOPENCONNS", want: "postgres.maxOpenConns"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}

func TestApplyDefaults_RequiresSecretKey(t *testing.T) {
	cfg := &Config{
		Postgres: &PostgresConfig{URL: "postgres://localhost/companion"},
	}

	if err := cfg.applyDefaults(); err == nil {
		t.Fatal("expected error when auth.secretKey is missing")
	}
}

func TestApplyDefaults_RequiresPostgresURL(t *testing.T) {
	cfg := &Config{
		Auth: &AuthConfig{SecretKey: "test-secret"},
	}

	if err := cfg.applyDefaults(); err == nil {
		t.Fatal("expected error when postgres.url is missing")
	}
}

func TestApplyDefaults_FillsZeroValues(t *testing.T) {
	cfg := &Config{
		Auth:     &AuthConfig{SecretKey: "test-secret"},
		Postgres: &PostgresConfig{URL: "postgres://localhost/companion"},
	}

	if err := cfg.applyDefaults(); err != nil {
		t.Fatalf("applyDefaults() = %v", err)
	}

	if cfg.Auth.Algorithm != "HS256" {
		t.Errorf("Algorithm = %q, want HS256", cfg.Auth.Algorithm)
	}
	if cfg.Auth.AccessTokenMinutes != 30 {
		t.Errorf("AccessTokenMinutes = %d, want 30", cfg.Auth.AccessTokenMinutes)
	}
	if cfg.Auth.RefreshTokenDays != 7 {
		t.Errorf("RefreshTokenDays = %d, want 7", cfg.Auth.RefreshTokenDays)
	}
	if cfg.Generation == nil || cfg.Generation.Timeout != 5*time.Minute {
		t.Errorf("Generation.Timeout = %v, want 5m", cfg.Generation)
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Auth: &AuthConfig{
			SecretKey:          "test-secret",
			Algorithm:          "HS512",
			AccessTokenMinutes: 5,
			RefreshTokenDays:   1,
		},
		Postgres:   &PostgresConfig{URL: "postgres://localhost/companion"},
		Generation: &GenerationConfig{Timeout: 30 * time.Second},
	}

	if err := cfg.applyDefaults(); err != nil {
		t.Fatalf("applyDefaults() = %v", err)
	}

	if cfg.Auth.Algorithm != "HS512" {
		t.Errorf("Algorithm = %q, want HS512", cfg.Auth.Algorithm)
	}
	if cfg.Auth.AccessTokenMinutes != 5 {
		t.Errorf("AccessTokenMinutes = %d, want 5", cfg.Auth.AccessTokenMinutes)
	}
	if cfg.Auth.RefreshTokenDays != 1 {
		t.Errorf("RefreshTokenDays = %d, want 1", cfg.Auth.RefreshTokenDays)
	}
	if cfg.Generation.Timeout != 30*time.Second {
		t.Errorf("Generation.Timeout = %v, want 30s", cfg.Generation.Timeout)
	}
}
