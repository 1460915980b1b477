package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Login authenticates by username or email plus password, issues and
// persists a fresh token pair, and returns the sanitized user alongside
// both tokens. The stored refresh token is overwritten: logging in ends
// any previous session's ability to refresh.
func (e *Engine) Login(ctx context.Context, username, email, plaintext string) (*LoginResult, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}

	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.TrimSpace(email)
	if username == "" && email == "" {
		return nil, ErrFieldsRequired
	}

	u, err := e.store.FindByIdentifier(ctx, username, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user lookup: %w", err)
	}

	ok, err := e.passwords.Verify(plaintext, u.PasswordHash)
	if err != nil || !ok {
		return nil, ErrInvalidCredentials
	}

	pair, err := e.IssueTokens(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	// Re-read so the returned view reflects the stored record, not the
	// pre-issuance copy.
	fresh, err := e.store.FindByID(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("read back user: %w", err)
	}

	return &LoginResult{User: fresh.Public(), Tokens: pair}, nil
}
