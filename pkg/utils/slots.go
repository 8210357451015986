package utils

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SlotGuard caps the number of concurrent holders of a key.
// The gateway uses it with a limit of one to refuse overlapping writes to the
// same tenant record from the same session.
type SlotGuard interface {
	Acquire(ctx context.Context, key string, limit int, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

var slotAcquireScript = redis.NewScript(`
-- KEYS[1] = counter key
-- ARGV[1] = limit (int)
-- ARGV[2] = ttl_ms (int)
local current = redis.call('INCR', KEYS[1])
if current == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[2])
elseif redis.call('PTTL', KEYS[1]) < 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[2])
end

if current > tonumber(ARGV[1]) then
  redis.call('DECR', KEYS[1])
  return 0
end
return 1
`)

var slotReleaseScript = redis.NewScript(`
local current = redis.call('DECR', KEYS[1])
if current <= 0 then
  redis.call('DEL', KEYS[1])
end
return 1
`)

// RedisSlotGuard shares slots across gateway replicas. The TTL frees slots
// leaked by a crashed replica.
type RedisSlotGuard struct {
	rdb *redis.Client
}

func NewRedisSlotGuard(rdb *redis.Client) *RedisSlotGuard {
	return &RedisSlotGuard{rdb: rdb}
}

func (g *RedisSlotGuard) Acquire(ctx context.Context, key string, limit int, ttl time.Duration) (bool, error) {
	if err := validateSlotArgs(key, limit, ttl); err != nil {
		return false, err
	}
	if g.rdb == nil {
		return false, fmt.Errorf("redis client is nil")
	}
	res, err := slotAcquireScript.Run(ctx, g.rdb, []string{key}, limit, ttl.Milliseconds()).Int()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}

func (g *RedisSlotGuard) Release(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key is required")
	}
	if g.rdb == nil {
		return fmt.Errorf("redis client is nil")
	}
	return slotReleaseScript.Run(ctx, g.rdb, []string{key}).Err()
}

// MemorySlotGuard is the single-process fallback.
type MemorySlotGuard struct {
	mu    sync.Mutex
	slots map[string]memSlot
	now   func() time.Time
}

type memSlot struct {
	count     int
	expiresAt time.Time
}

func NewMemorySlotGuard() *MemorySlotGuard {
	return &MemorySlotGuard{slots: map[string]memSlot{}, now: time.Now}
}

func (g *MemorySlotGuard) Acquire(_ context.Context, key string, limit int, ttl time.Duration) (bool, error) {
	if err := validateSlotArgs(key, limit, ttl); err != nil {
		return false, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	s := g.slots[key]
	if !s.expiresAt.IsZero() && !now.Before(s.expiresAt) {
		s = memSlot{}
	}
	if s.count >= limit {
		return false, nil
	}
	if s.count == 0 {
		s.expiresAt = now.Add(ttl)
	}
	s.count++
	g.slots[key] = s
	return true, nil
}

func (g *MemorySlotGuard) Release(_ context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key is required")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.slots[key]
	if !ok {
		return nil
	}
	s.count--
	if s.count <= 0 {
		delete(g.slots, key)
		return nil
	}
	g.slots[key] = s
	return nil
}

func validateSlotArgs(key string, limit int, ttl time.Duration) error {
	if key == "" {
		return fmt.Errorf("key is required")
	}
	if limit <= 0 {
		return fmt.Errorf("limit must be > 0")
	}
	if ttl <= 0 {
		return fmt.Errorf("ttl must be > 0")
	}
	return nil
}
