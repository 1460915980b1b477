package accounts

import (
	"context"
	"fmt"

	"github.com/cliptube/accounts/internal/flows"
)

// Logout clears the stored refresh token for the authenticated user,
// ending the session's ability to refresh. The caller's identity comes
// from authentication middleware; an empty id is rejected.
func (e *Engine) Logout(ctx context.Context, userID string) error {
	if e == nil || e.store == nil {
		return ErrEngineNotReady
	}
	if userID == "" {
		return ErrUnauthorized
	}
	if err := flows.RunLogout(ctx, userID, e.flowDeps.Logout); err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	return nil
}
