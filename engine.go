package accounts

import (
	"context"
	"fmt"
	"log"

	"github.com/cliptube/accounts/internal/flows"
	"github.com/cliptube/accounts/internal/refreshlock"
	"github.com/cliptube/accounts/jwt"
	"github.com/cliptube/accounts/password"
)

// Engine orchestrates the session flows over the wired collaborators.
// Engine instances are configured through [Builder.Build] and treated as
// immutable afterwards; all methods are safe for concurrent use.
type Engine struct {
	config      Config
	store       Store
	uploader    Uploader
	tokens      *jwt.Manager
	passwords   *password.Hasher
	refreshLock *refreshlock.Lock
	flowDeps    flows.Deps
}

// IssueTokens creates a signed access/refresh pair for the user and
// persists the refresh token onto the user record, replacing any prior
// value, before returning. If persistence fails no tokens are returned:
// a pair that was not durably stored must never reach a client.
func (e *Engine) IssueTokens(ctx context.Context, userID string) (TokenPair, error) {
	if e == nil || e.tokens == nil {
		return TokenPair{}, ErrEngineNotReady
	}

	u, err := e.store.FindByID(ctx, userID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("%w: %v", ErrTokenPersistence, err)
	}

	access, err := e.tokens.CreateAccess(u.ID, u.Username, u.Email, u.Fullname)
	if err != nil {
		return TokenPair{}, fmt.Errorf("%w: %v", ErrTokenPersistence, err)
	}
	refresh, err := e.tokens.CreateRefresh(u.ID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("%w: %v", ErrTokenPersistence, err)
	}

	if err := e.store.SetRefreshToken(ctx, u.ID, refresh); err != nil {
		return TokenPair{}, fmt.Errorf("%w: %v", ErrTokenPersistence, err)
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// ParseAccess verifies an access token and returns its claims. Intended
// for authentication middleware in front of guarded routes.
func (e *Engine) ParseAccess(tokenStr string) (*jwt.AccessClaims, error) {
	if e == nil || e.tokens == nil {
		return nil, ErrEngineNotReady
	}
	claims, err := e.tokens.ParseAccess(tokenStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return claims, nil
}

func warnf(format string, args ...any) {
	log.Printf(format, args...)
}
