// Package sessionlock guards PIX sessions with per-charge redis locks so
// the same charge is never carried by two live sessions, e.g. when a
// reseller has the dashboard open in two tabs.
package sessionlock

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"

	"github.com/revendalabs/revenda/internal/config"
)

const chargeLockKey = "revenda:pix:charge:%s"

const lockReleaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

// ErrChargeLocked is returned when another live session already holds the
// charge.
var ErrChargeLocked = errors.New("charge_locked")

// Locker acquires and releases the per-charge locks. A nil Locker disables
// locking, mirroring how an absent redis backend degrades.
type Locker struct {
	client *redis.Client
	script *redis.Script
}

func NewLocker(cfg config.Config) *Locker {
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.RedisPassword),
		DB:       cfg.RedisDB,
	})
	return &Locker{
		client: client,
		script: redis.NewScript(lockReleaseScript),
	}
}

// Acquire takes the lock for every charge in the set or none of them. The
// returned Lease releases what was taken; on a conflict the partial set is
// rolled back and ErrChargeLocked is returned.
func (l *Locker) Acquire(ctx context.Context, chargeIDs []string, ttl time.Duration) (*Lease, error) {
	if l == nil || l.client == nil {
		return &Lease{}, nil
	}
	if ttl <= 0 {
		return nil, errors.New("lock ttl must be positive")
	}

	lease := &Lease{locker: l}
	for _, id := range chargeIDs {
		key := fmt.Sprintf(chargeLockKey, strings.TrimSpace(id))
		token := uuid.NewString()
		ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			lease.Release(ctx)
			return nil, err
		}
		if !ok {
			lease.Release(ctx)
			return nil, ErrChargeLocked
		}
		lease.held = append(lease.held, heldLock{key: key, token: token})
	}
	return lease, nil
}

func (l *Locker) release(ctx context.Context, key, token string) error {
	if l == nil || l.client == nil {
		return nil
	}
	return l.script.Run(ctx, l.client, []string{key}, token).Err()
}

// Close shuts down the underlying redis client.
func (l *Locker) Close() error {
	if l == nil || l.client == nil {
		return nil
	}
	return l.client.Close()
}

type heldLock struct {
	key   string
	token string
}

// Lease is the set of locks one session holds. Release only deletes keys
// whose token still matches, so an expired-and-reacquired lock is never
// stolen from its new owner. Release is safe to call concurrently and
// more than once.
type Lease struct {
	locker *Locker
	mu     sync.Mutex
	held   []heldLock
}

func (le *Lease) Release(ctx context.Context) {
	if le == nil || le.locker == nil {
		return
	}
	le.mu.Lock()
	held := le.held
	le.held = nil
	le.mu.Unlock()

	for _, h := range held {
		_ = le.locker.release(ctx, h.key, h.token)
	}
}
