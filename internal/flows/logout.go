package flows

import (
	"context"
	"errors"
)

// LogoutDeps captures logout flow dependencies.
type LogoutDeps struct {
	// ClearRefreshToken removes the stored refresh token for the user.
	ClearRefreshToken func(ctx context.Context, userID string) error
	// NotFound is the sentinel the store reports for unknown users.
	NotFound error
}

// RunLogout invalidates the user's current refresh token. Logging out a
// user that has already been deleted is not an error.
func RunLogout(ctx context.Context, userID string, deps LogoutDeps) error {
	err := deps.ClearRefreshToken(ctx, userID)
	if err != nil && deps.NotFound != nil && errors.Is(err, deps.NotFound) {
		return nil
	}
	return err
}
