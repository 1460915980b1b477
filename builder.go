package accounts

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/cliptube/accounts/internal/flows"
	"github.com/cliptube/accounts/internal/refreshlock"
	"github.com/cliptube/accounts/jwt"
	"github.com/cliptube/accounts/password"
)

// Builder assembles an [Engine]. Construction is allocation-only; no I/O
// happens until the engine methods are called.
type Builder struct {
	config    Config
	configSet bool
	store     Store
	uploader  Uploader
	redis     *redis.Client
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{}
}

// WithConfig sets the engine configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	b.configSet = true
	return b
}

// WithStore sets the credential store.
func (b *Builder) WithStore(s Store) *Builder {
	b.store = s
	return b
}

// WithUploader sets the object-storage uploader.
func (b *Builder) WithUploader(u Uploader) *Builder {
	b.uploader = u
	return b
}

// WithRedis enables the per-user refresh single-flight lock. Without it
// concurrent refreshes for the same user are last-write-wins.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// Build validates the assembly and returns a ready Engine.
func (b *Builder) Build() (*Engine, error) {
	if !b.configSet {
		return nil, errors.New("config is required")
	}
	if err := b.config.Validate(); err != nil {
		return nil, err
	}
	if b.store == nil {
		return nil, errors.New("store is required")
	}
	if b.uploader == nil {
		return nil, errors.New("uploader is required")
	}

	tokens, err := jwt.NewManager(jwt.Config{
		AccessSecret:  b.config.JWT.AccessSecret,
		RefreshSecret: b.config.JWT.RefreshSecret,
		AccessTTL:     b.config.JWT.AccessTTL,
		RefreshTTL:    b.config.JWT.RefreshTTL,
		Issuer:        b.config.JWT.Issuer,
	})
	if err != nil {
		return nil, err
	}

	passwords, err := password.New(password.Config{
		Memory:      b.config.Password.Memory,
		Time:        b.config.Password.Time,
		Parallelism: b.config.Password.Parallelism,
		SaltLength:  b.config.Password.SaltLength,
		KeyLength:   b.config.Password.KeyLength,
	})
	if err != nil {
		return nil, err
	}

	e := &Engine{
		config:    b.config,
		store:     b.store,
		uploader:  b.uploader,
		tokens:    tokens,
		passwords: passwords,
	}
	if b.redis != nil {
		e.refreshLock = refreshlock.New(b.redis, b.config.Refresh.LockTTL)
	}
	e.flowDeps = e.buildFlowDeps()
	return e, nil
}

func (e *Engine) buildFlowDeps() flows.Deps {
	refresh := flows.RefreshDeps{
		ParseSubject: func(token string) (string, error) {
			claims, err := e.tokens.ParseRefresh(token)
			if err != nil {
				return "", err
			}
			return claims.Subject, nil
		},
		StoredToken: func(ctx context.Context, userID string) (string, error) {
			u, err := e.store.FindByID(ctx, userID)
			if err != nil {
				return "", err
			}
			return u.RefreshToken, nil
		},
		Issue: func(ctx context.Context, userID string) (string, string, error) {
			pair, err := e.IssueTokens(ctx, userID)
			if err != nil {
				return "", "", err
			}
			return pair.AccessToken, pair.RefreshToken, nil
		},
		NotFound: ErrUserNotFound,
		Warn:     warnf,
	}
	if e.refreshLock != nil {
		refresh.AcquireLock = e.refreshLock.Acquire
	}
	return flows.Deps{
		Refresh: refresh,
		Logout: flows.LogoutDeps{
			ClearRefreshToken: e.store.ClearRefreshToken,
			NotFound:          ErrUserNotFound,
		},
	}
}
