package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Limiter admits or rejects a single request.
type Limiter interface {
	Allow(ctx context.Context) bool
}

// LocalLimiter is a per-process token bucket.
type LocalLimiter struct{ l *rate.Limiter }

func NewLocalLimiter(rps int) *LocalLimiter {
	return &LocalLimiter{l: rate.NewLimiter(rate.Limit(rps), rps)}
}

func (l *LocalLimiter) Allow(context.Context) bool { return l.l.Allow() }

// DistributedLimiter checks the local bucket first and then a per-second
// counter shared by all instances through Redis. Redis failures admit the
// request.
type DistributedLimiter struct {
	local  *rate.Limiter
	client redis.UniversalClient
	key    string
	limit  int64
	log    *zap.Logger
	now    func() time.Time
}

func NewDistributedLimiter(client redis.UniversalClient, key string, rps int, log *zap.Logger) *DistributedLimiter {
	if log == nil {
		log = zap.NewNop()
	}
	return &DistributedLimiter{
		local:  rate.NewLimiter(rate.Limit(rps), rps),
		client: client,
		key:    key,
		limit:  int64(rps),
		log:    log,
		now:    time.Now,
	}
}

func (d *DistributedLimiter) Allow(ctx context.Context) bool {
	if !d.local.Allow() {
		return false
	}

	window := d.key + ":" + strconv.FormatInt(d.now().Unix(), 10)
	pipe := d.client.Pipeline()
	incr := pipe.Incr(ctx, window)
	pipe.Expire(ctx, window, 2*time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		d.log.Error("redis rate limit check failed; using local limit only", zap.Error(err))
		return true
	}

	if count := incr.Val(); count > d.limit {
		d.log.Warn("global rate limit exceeded", zap.Int64("count", count))
		return false
	}
	return true
}

// NewLimiter returns nil when rps is 0, a distributed limiter when a Redis
// client is given and a local one otherwise.
func NewLimiter(rps int, client redis.UniversalClient, log *zap.Logger) Limiter {
	switch {
	case rps <= 0:
		return nil
	case client != nil:
		return NewDistributedLimiter(client, "wallet:ratelimit", rps, log)
	default:
		return NewLocalLimiter(rps)
	}
}
