package flows

import (
	"context"
	"errors"
	"testing"
)

var errNoUser = errors.New("no user")

func workingDeps(stored string) RefreshDeps {
	return RefreshDeps{
		ParseSubject: func(token string) (string, error) {
			if token == "parseable" {
				return "u1", nil
			}
			return "", errors.New("bad signature")
		},
		StoredToken: func(_ context.Context, userID string) (string, error) {
			if userID != "u1" {
				return "", errNoUser
			}
			return stored, nil
		},
		Issue: func(_ context.Context, userID string) (string, string, error) {
			return "new-access", "new-refresh", nil
		},
		NotFound: errNoUser,
	}
}

func TestRunRefreshSuccess(t *testing.T) {
	result := RunRefresh(context.Background(), "parseable", workingDeps("parseable"))
	if result.Failure != RefreshFailureNone {
		t.Fatalf("failure = %v, err = %v", result.Failure, result.Err)
	}
	if result.UserID != "u1" || result.AccessToken != "new-access" || result.RefreshToken != "new-refresh" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestRunRefreshFailureOrdering(t *testing.T) {
	cases := []struct {
		name      string
		presented string
		deps      RefreshDeps
		want      RefreshFailureKind
	}{
		{"empty token", "", workingDeps("parseable"), RefreshFailureMissing},
		{"whitespace token", "  \t ", workingDeps("parseable"), RefreshFailureMissing},
		{"unparseable token", "garbage", workingDeps("parseable"), RefreshFailureParse},
		{"stored mismatch", "parseable", workingDeps("a different token"), RefreshFailureSuperseded},
		{"cleared token", "parseable", workingDeps(""), RefreshFailureSuperseded},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := RunRefresh(context.Background(), tc.presented, tc.deps)
			if result.Failure != tc.want {
				t.Fatalf("failure = %v, want %v", result.Failure, tc.want)
			}
		})
	}
}

func TestRunRefreshUnknownUser(t *testing.T) {
	deps := workingDeps("parseable")
	deps.StoredToken = func(context.Context, string) (string, error) { return "", errNoUser }

	result := RunRefresh(context.Background(), "parseable", deps)
	if result.Failure != RefreshFailureUserNotFound {
		t.Fatalf("failure = %v, want RefreshFailureUserNotFound", result.Failure)
	}
}

func TestRunRefreshStorageError(t *testing.T) {
	deps := workingDeps("parseable")
	deps.StoredToken = func(context.Context, string) (string, error) { return "", errors.New("io timeout") }

	result := RunRefresh(context.Background(), "parseable", deps)
	if result.Failure != RefreshFailureLookup {
		t.Fatalf("failure = %v, want RefreshFailureLookup", result.Failure)
	}
}

func TestRunRefreshIssueFailureAfterMatch(t *testing.T) {
	deps := workingDeps("parseable")
	issueErr := errors.New("persist refused")
	deps.Issue = func(context.Context, string) (string, string, error) { return "", "", issueErr }

	result := RunRefresh(context.Background(), "parseable", deps)
	if result.Failure != RefreshFailureIssue || !errors.Is(result.Err, issueErr) {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestRunRefreshLockFailureIsBestEffort(t *testing.T) {
	deps := workingDeps("parseable")
	warned := false
	deps.Warn = func(string, ...any) { warned = true }
	deps.AcquireLock = func(context.Context, string) (func(), error) {
		return nil, errors.New("redis down")
	}

	result := RunRefresh(context.Background(), "parseable", deps)
	if result.Failure != RefreshFailureNone {
		t.Fatalf("lock failure must not fail the flow: %+v", result)
	}
	if !warned {
		t.Fatal("expected a warning on lock failure")
	}
}

func TestRunRefreshReleasesLock(t *testing.T) {
	deps := workingDeps("parseable")
	released := false
	deps.AcquireLock = func(context.Context, string) (func(), error) {
		return func() { released = true }, nil
	}

	if result := RunRefresh(context.Background(), "parseable", deps); result.Failure != RefreshFailureNone {
		t.Fatalf("unexpected failure: %+v", result)
	}
	if !released {
		t.Fatal("lock was not released")
	}
}
