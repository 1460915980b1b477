package refreshlock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLock(t *testing.T, ttl time.Duration) (*Lock, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, ttl), mr
}

func TestAcquireRelease(t *testing.T) {
	lock, mr := newTestLock(t, time.Second)
	ctx := context.Background()

	release, err := lock.Acquire(ctx, "u1")
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if !mr.Exists("accounts:refreshlock:u1") {
		t.Fatal("lease key missing after acquire")
	}

	release()
	if mr.Exists("accounts:refreshlock:u1") {
		t.Fatal("lease key still present after release")
	}
}

func TestSecondCallerWaitsForRelease(t *testing.T) {
	lock, _ := newTestLock(t, 2*time.Second)
	ctx := context.Background()

	release, err := lock.Acquire(ctx, "u1")
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	acquired := make(chan error, 1)
	go func() {
		defer wg.Done()
		r, err := lock.Acquire(ctx, "u1")
		if err == nil {
			r()
		}
		acquired <- err
	}()

	time.Sleep(100 * time.Millisecond)
	release()
	wg.Wait()

	if err := <-acquired; err != nil {
		t.Fatalf("second caller failed to acquire after release: %v", err)
	}
}

func TestAcquireTimesOut(t *testing.T) {
	lock, _ := newTestLock(t, 200*time.Millisecond)
	ctx := context.Background()

	release, err := lock.Acquire(ctx, "u1")
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer release()

	_, err = lock.Acquire(ctx, "u1")
	if !errors.Is(err, ErrNotAcquired) {
		t.Fatalf("expected ErrNotAcquired, got %v", err)
	}
}

func TestLocksAreScopedPerUser(t *testing.T) {
	lock, _ := newTestLock(t, time.Second)
	ctx := context.Background()

	r1, err := lock.Acquire(ctx, "u1")
	if err != nil {
		t.Fatalf("Acquire u1 failed: %v", err)
	}
	defer r1()

	r2, err := lock.Acquire(ctx, "u2")
	if err != nil {
		t.Fatalf("Acquire u2 blocked by u1's lease: %v", err)
	}
	defer r2()
}

func TestReleaseDoesNotStealNewerLease(t *testing.T) {
	lock, mr := newTestLock(t, 200*time.Millisecond)
	ctx := context.Background()

	release, err := lock.Acquire(ctx, "u1")
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	// Expire the first lease and let another caller take it over.
	mr.FastForward(300 * time.Millisecond)
	release2, err := lock.Acquire(ctx, "u1")
	if err != nil {
		t.Fatalf("re-Acquire failed: %v", err)
	}
	defer release2()

	// The stale holder's release must not delete the new lease.
	release()
	if !mr.Exists("accounts:refreshlock:u1") {
		t.Fatal("stale release deleted a lease it did not own")
	}
}
