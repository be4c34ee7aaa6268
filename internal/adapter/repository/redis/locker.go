package redis

import (
	"context"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
)

// Releasing only deletes the key when the stored token matches, so a holder
// whose TTL already expired cannot release somebody else's lock.
var releaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	end
	return 0
`)

// Locker implements usecase.Locker with Redis SET NX. It is advisory: the
// transactional duplicate check stays authoritative, the lock only shrinks
// the window where two workers do the same work.
type Locker struct {
	client *redis.Client
	prefix string

	mu     sync.Mutex
	tokens map[string]string
}

// NewLocker creates a new Locker.
func NewLocker(client *redis.Client) *Locker {
	return &Locker{
		client: client,
		prefix: "lock:",
		tokens: make(map[string]string),
	}
}

// Acquire attempts to take the lock. It returns false when another holder
// owns it.
func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	token := ulid.Make().String()

	ok, err := l.client.SetNX(ctx, l.prefix+key, token, ttl).Result()
	if err != nil || !ok {
		return false, err
	}

	l.mu.Lock()
	l.tokens[key] = token
	l.mu.Unlock()

	return true, nil
}

// Release gives the lock back if this process still holds it.
func (l *Locker) Release(ctx context.Context, key string) error {
	l.mu.Lock()
	token, ok := l.tokens[key]
	delete(l.tokens, key)
	l.mu.Unlock()

	if !ok {
		return nil
	}

	return releaseScript.Run(ctx, l.client, []string{l.prefix + key}, token).Err()
}
