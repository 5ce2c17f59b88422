package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"careerhub-backend/internal/shared/telemetry"
)

const defaultRedisTTL = 2 * time.Minute

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0`)

// Redis is a Guard shared across processes via SET NX PX. The TTL caps how
// long a crashed holder can block a key.
type Redis struct {
	Client *redis.Client
	Prefix string
	TTL    time.Duration
}

// NewRedis connects to redisURL and verifies the connection.
func NewRedis(ctx context.Context, redisURL string, ttl time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	if ttl <= 0 {
		ttl = defaultRedisTTL
	}
	return &Redis{Client: client, Prefix: "careerhub:inflight:", TTL: ttl}, nil
}

func (r *Redis) Acquire(ctx context.Context, key string) (func(), bool, error) {
	fullKey := r.Prefix + key
	token := uuid.NewString()
	ok, err := r.Client.SetNX(ctx, fullKey, token, r.TTL).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}
	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, r.Client, []string{fullKey}, token).Err(); err != nil {
			telemetry.Warn("lock.release", map[string]any{"key": key, "err": err})
		}
	}
	return release, true, nil
}

func (r *Redis) Held(ctx context.Context, key string) bool {
	n, err := r.Client.Exists(ctx, r.Prefix+key).Result()
	if err != nil {
		telemetry.Warn("lock.held", map[string]any{"key": key, "err": err})
		return false
	}
	return n > 0
}

// Close releases the client connection pool.
func (r *Redis) Close() error {
	return r.Client.Close()
}
