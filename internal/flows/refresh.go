package flows

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
)

// RefreshFailureKind classifies refresh flow failures for root-level
// mapping onto sentinel errors.
type RefreshFailureKind int

const (
	RefreshFailureNone RefreshFailureKind = iota
	RefreshFailureMissing
	RefreshFailureParse
	RefreshFailureUserNotFound
	RefreshFailureLookup
	RefreshFailureSuperseded
	RefreshFailureIssue
)

// RefreshResult carries either the rotated token pair or failure metadata.
type RefreshResult struct {
	Failure      RefreshFailureKind
	Err          error
	UserID       string
	AccessToken  string
	RefreshToken string
}

// RefreshDeps captures refresh flow dependencies.
type RefreshDeps struct {
	// ParseSubject verifies the presented token's signature and expiry and
	// returns the subject user id.
	ParseSubject func(token string) (string, error)
	// StoredToken loads the refresh token currently stored for the user.
	// Unknown users are reported with NotFound.
	StoredToken func(ctx context.Context, userID string) (string, error)
	// Issue creates and persists a new token pair for the user (rotation).
	Issue func(ctx context.Context, userID string) (access, refresh string, err error)
	// AcquireLock, when non-nil, single-flights the flow per user. Lock
	// acquisition is best-effort: on error the flow proceeds unlocked.
	AcquireLock func(ctx context.Context, userID string) (release func(), err error)
	// NotFound is the sentinel StoredToken reports for unknown users.
	NotFound error
	Warn     func(format string, args ...any)
}

// RunRefresh executes validation and rotation for one presented refresh
// token. The ordered failure modes are: missing token, signature/expiry
// failure, unknown subject, storage error, stored-value mismatch, issuance
// failure.
func RunRefresh(ctx context.Context, presented string, deps RefreshDeps) RefreshResult {
	presented = strings.TrimSpace(presented)
	if presented == "" {
		return RefreshResult{Failure: RefreshFailureMissing}
	}

	userID, err := deps.ParseSubject(presented)
	if err != nil {
		return RefreshResult{Failure: RefreshFailureParse, Err: err}
	}

	if deps.AcquireLock != nil {
		release, err := deps.AcquireLock(ctx, userID)
		if err != nil {
			if deps.Warn != nil {
				deps.Warn("accounts: refresh lock unavailable, proceeding unlocked: %v", err)
			}
		} else {
			defer release()
		}
	}

	stored, err := deps.StoredToken(ctx, userID)
	switch {
	case err == nil:
	case deps.NotFound != nil && errors.Is(err, deps.NotFound):
		return RefreshResult{Failure: RefreshFailureUserNotFound, Err: err, UserID: userID}
	default:
		return RefreshResult{Failure: RefreshFailureLookup, Err: err, UserID: userID}
	}

	// Exact match against the stored value is what makes rotation
	// effective: a cryptographically valid token that was rotated out or
	// cleared by logout is rejected here.
	if stored == "" || subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) != 1 {
		return RefreshResult{Failure: RefreshFailureSuperseded, UserID: userID}
	}

	access, refresh, err := deps.Issue(ctx, userID)
	if err != nil {
		return RefreshResult{Failure: RefreshFailureIssue, Err: err, UserID: userID}
	}

	return RefreshResult{
		Failure:      RefreshFailureNone,
		UserID:       userID,
		AccessToken:  access,
		RefreshToken: refresh,
	}
}
