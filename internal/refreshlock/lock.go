// Package refreshlock provides a Redis-backed per-user mutual exclusion
// for the refresh flow. It is an optional hardening layer: without it two
// concurrent refreshes for the same user race last-write-wins.
package refreshlock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "accounts:refreshlock:"

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// ErrNotAcquired is returned when the lock stayed held by another caller
// for the whole acquisition window.
var ErrNotAcquired = errors.New("refresh lock not acquired")

// Lock hands out per-user leases with a bounded TTL so a crashed holder
// cannot wedge the flow.
type Lock struct {
	client *redis.Client
	ttl    time.Duration
}

// New returns a Lock issuing leases of the given TTL.
func New(client *redis.Client, ttl time.Duration) *Lock {
	return &Lock{client: client, ttl: ttl}
}

// Acquire takes the lease for userID, polling until it frees or one full
// TTL has elapsed. The returned release function is safe to call exactly
// once and only deletes the lease if this caller still owns it.
func (l *Lock) Acquire(ctx context.Context, userID string) (func(), error) {
	owner := make([]byte, 16)
	if _, err := rand.Read(owner); err != nil {
		return nil, err
	}
	token := hex.EncodeToString(owner)
	key := keyPrefix + userID

	deadline := time.Now().Add(l.ttl)
	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() {
				releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				_ = releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err()
			}, nil
		}
		if time.Now().After(deadline) {
			return nil, ErrNotAcquired
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(25 * time.Millisecond):
		}
	}
}
