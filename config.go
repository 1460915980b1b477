package accounts

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config defines the engine configuration. It is constructed once at
// process start and treated as immutable afterwards; the engine never
// reads process environment on its own.
type Config struct {
	JWT      JWTConfig
	Password PasswordConfig
	Refresh  RefreshConfig
}

// JWTConfig holds signing secrets and expiries for the two token kinds.
// Access and refresh tokens are signed with distinct secrets.
type JWTConfig struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// PasswordConfig holds Argon2id parameters. Memory is in KiB.
type PasswordConfig struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// RefreshConfig tunes the optional per-user refresh single-flight lock.
// The lock is only active when the engine is built with a Redis client.
type RefreshConfig struct {
	LockTTL time.Duration
}

// DefaultConfig returns a configuration with working expiries and hash
// parameters. Secrets must still be supplied by the caller.
func DefaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			AccessTTL:  15 * time.Minute,
			RefreshTTL: 10 * 24 * time.Hour,
			Issuer:     "accounts",
		},
		Password: PasswordConfig{
			Memory:      64 * 1024,
			Time:        2,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
		},
		Refresh: RefreshConfig{
			LockTTL: 5 * time.Second,
		},
	}
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	if len(c.JWT.AccessSecret) == 0 {
		return errors.New("missing access token secret")
	}
	if len(c.JWT.RefreshSecret) == 0 {
		return errors.New("missing refresh token secret")
	}
	if string(c.JWT.AccessSecret) == string(c.JWT.RefreshSecret) {
		return errors.New("access and refresh secrets must differ")
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		return errors.New("token TTLs must be positive")
	}
	if c.JWT.RefreshTTL <= c.JWT.AccessTTL {
		return errors.New("refresh TTL must exceed access TTL")
	}
	if c.Refresh.LockTTL <= 0 {
		return errors.New("refresh lock TTL must be positive")
	}
	return nil
}

// ConfigFromEnv builds a Config from process environment on top of
// DefaultConfig. Recognized variables:
//
//	ACCESS_TOKEN_SECRET, REFRESH_TOKEN_SECRET
//	ACCESS_TOKEN_TTL, REFRESH_TOKEN_TTL   (Go duration strings)
//	TOKEN_ISSUER
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	cfg.JWT.AccessSecret = []byte(os.Getenv("ACCESS_TOKEN_SECRET"))
	cfg.JWT.RefreshSecret = []byte(os.Getenv("REFRESH_TOKEN_SECRET"))
	if v := os.Getenv("TOKEN_ISSUER"); v != "" {
		cfg.JWT.Issuer = v
	}
	if v := os.Getenv("ACCESS_TOKEN_TTL"); v != "" {
		d, err := parseTTL(v)
		if err != nil {
			return Config{}, errors.New("invalid ACCESS_TOKEN_TTL")
		}
		cfg.JWT.AccessTTL = d
	}
	if v := os.Getenv("REFRESH_TOKEN_TTL"); v != "" {
		d, err := parseTTL(v)
		if err != nil {
			return Config{}, errors.New("invalid REFRESH_TOKEN_TTL")
		}
		cfg.JWT.RefreshTTL = d
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// parseTTL accepts Go duration strings and, for compatibility with older
// deployments, bare integers meaning days ("10" == 240h).
func parseTTL(v string) (time.Duration, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return time.ParseDuration(v)
}
