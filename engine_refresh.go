package accounts

import (
	"context"
	"fmt"

	"github.com/cliptube/accounts/internal/flows"
)

// Refresh validates a presented refresh token and rotates the pair: a new
// access and refresh token are issued and the stored refresh token is
// replaced, so the presented token is unusable from this point on.
func (e *Engine) Refresh(ctx context.Context, presented string) (TokenPair, error) {
	if e == nil || e.store == nil {
		return TokenPair{}, ErrEngineNotReady
	}

	result := flows.RunRefresh(ctx, presented, e.flowDeps.Refresh)
	if err := e.mapRefreshFailure(result); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	}, nil
}

// ValidateRefresh runs the refresh validator without rotating: it checks
// presence, signature and expiry, subject resolution, and the exact match
// against the stored value, and returns the resolved user id.
func (e *Engine) ValidateRefresh(ctx context.Context, presented string) (string, error) {
	if e == nil || e.store == nil {
		return "", ErrEngineNotReady
	}

	deps := e.flowDeps.Refresh
	deps.Issue = func(context.Context, string) (string, string, error) { return "", "", nil }
	result := flows.RunRefresh(ctx, presented, deps)
	if err := e.mapRefreshFailure(result); err != nil {
		return "", err
	}
	return result.UserID, nil
}

func (e *Engine) mapRefreshFailure(result flows.RefreshResult) error {
	switch result.Failure {
	case flows.RefreshFailureNone:
		return nil
	case flows.RefreshFailureMissing:
		return ErrUnauthorized
	case flows.RefreshFailureParse:
		return fmt.Errorf("%w: %v", ErrRefreshInvalid, result.Err)
	case flows.RefreshFailureUserNotFound:
		return ErrRefreshInvalid
	case flows.RefreshFailureSuperseded:
		return ErrRefreshSuperseded
	case flows.RefreshFailureIssue:
		return result.Err
	default:
		return fmt.Errorf("refresh: %w", result.Err)
	}
}
