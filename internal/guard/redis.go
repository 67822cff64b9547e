package guard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Wishlist-Squad/Wishlist/pkg/database"
)

const keyPrefix = "console:pending:"

// releaseScript deletes the key only while it still carries the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is a Guard shared by every console replica. Holds expire after ttl so
// a crashed replica cannot block a session forever.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ Guard = (*Redis)(nil)

// NewRedis creates a Redis-backed guard.
func NewRedis(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Redis {
	return &Redis{client: client, ttl: ttl, logger: logger}
}

// Acquire implements Guard with SET NX PX.
func (g *Redis) Acquire(ctx context.Context, key string) (func(), bool, error) {
	k := keyPrefix + key
	token := uuid.NewString()

	ctx, end := database.TraceCommand(ctx, "SET NX", k)
	ok, err := g.client.SetNX(ctx, k, token, g.ttl).Result()
	end(err)
	if err != nil {
		return nil, false, fmt.Errorf("acquire pending guard %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}

	var once sync.Once
	release := func() {
		once.Do(func() { g.release(ctx, k, token) })
	}
	return release, true, nil
}

func (g *Redis) release(ctx context.Context, key, token string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	ctx, end := database.TraceCommand(ctx, "EVAL release", key)
	err := releaseScript.Run(ctx, g.client, []string{key}, token).Err()
	end(err)
	if err != nil {
		g.logger.WarnContext(ctx, "failed to release pending guard",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

// Ping checks the Redis connection.
func (g *Redis) Ping(ctx context.Context) error {
	return g.client.Ping(ctx).Err()
}
