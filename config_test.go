package accounts

import (
	"testing"
	"time"
)

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.JWT.AccessSecret = []byte("access-secret")
	cfg.JWT.RefreshSecret = []byte("refresh-secret")
	return cfg
}

func TestConfigValidate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing access secret", func(c *Config) { c.JWT.AccessSecret = nil }},
		{"missing refresh secret", func(c *Config) { c.JWT.RefreshSecret = nil }},
		{"shared secret", func(c *Config) { c.JWT.RefreshSecret = c.JWT.AccessSecret }},
		{"zero access TTL", func(c *Config) { c.JWT.AccessTTL = 0 }},
		{"refresh not longer than access", func(c *Config) { c.JWT.RefreshTTL = c.JWT.AccessTTL }},
		{"zero lock TTL", func(c *Config) { c.Refresh.LockTTL = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "env-access-secret")
	t.Setenv("REFRESH_TOKEN_SECRET", "env-refresh-secret")
	t.Setenv("ACCESS_TOKEN_TTL", "20m")
	t.Setenv("REFRESH_TOKEN_TTL", "10")
	t.Setenv("TOKEN_ISSUER", "accountd-test")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv failed: %v", err)
	}
	if cfg.JWT.AccessTTL != 20*time.Minute {
		t.Fatalf("access TTL = %v, want 20m", cfg.JWT.AccessTTL)
	}
	// Bare integers mean days.
	if cfg.JWT.RefreshTTL != 10*24*time.Hour {
		t.Fatalf("refresh TTL = %v, want 240h", cfg.JWT.RefreshTTL)
	}
	if cfg.JWT.Issuer != "accountd-test" {
		t.Fatalf("issuer = %q", cfg.JWT.Issuer)
	}
}

func TestConfigFromEnvRequiresSecrets(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "")
	t.Setenv("REFRESH_TOKEN_SECRET", "")
	if _, err := ConfigFromEnv(); err == nil {
		t.Fatal("expected error without secrets")
	}
}

func TestConfigFromEnvRejectsBadTTL(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "env-access-secret")
	t.Setenv("REFRESH_TOKEN_SECRET", "env-refresh-secret")
	t.Setenv("ACCESS_TOKEN_TTL", "soon")
	if _, err := ConfigFromEnv(); err == nil {
		t.Fatal("expected error for malformed TTL")
	}
}
