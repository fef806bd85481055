package lock

import (
	"context"
	"time"

	apperrors "campus-gig-workers/internal/common/errors"
	"campus-gig-workers/internal/common/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultRetryInterval = 50 * time.Millisecond
	releaseTimeout       = 2 * time.Second
	keyPrefix            = "ledger:lock:"
)

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is a Locker shared by every worker-manager replica. Each hold expires
// after ttl so a crashed holder cannot wedge a gig.
type Redis struct {
	client        redis.UniversalClient
	ttl           time.Duration
	wait          time.Duration
	retryInterval time.Duration
	logger        logger.Logger
}

func NewRedis(client redis.UniversalClient, ttl, wait time.Duration, log logger.Logger) *Redis {
	return &Redis{
		client:        client,
		ttl:           ttl,
		wait:          wait,
		retryInterval: defaultRetryInterval,
		logger:        log,
	}
}

func (r *Redis) Acquire(ctx context.Context, key string) (func(), error) {
	redisKey := keyPrefix + key
	token := uuid.NewString()

	if r.wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.wait)
		defer cancel()
	}

	ticker := time.NewTicker(r.retryInterval)
	defer ticker.Stop()

	for {
		ok, err := r.client.SetNX(ctx, redisKey, token, r.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, apperrors.NewLockTimeoutError(key)
			}
			return nil, apperrors.NewExternalServiceError("redis", err)
		}
		if ok {
			return r.releaser(redisKey, token), nil
		}

		select {
		case <-ctx.Done():
			return nil, apperrors.NewLockTimeoutError(key)
		case <-ticker.C:
		}
	}
}

func (r *Redis) releaser(redisKey, token string) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
		defer cancel()

		if err := releaseScript.Run(ctx, r.client, []string{redisKey}, token).Err(); err != nil {
			// The key still expires after ttl.
			r.logger.Warn("failed to release lock", map[string]interface{}{
				"key":   redisKey,
				"error": err.Error(),
			})
		}
	}
}
