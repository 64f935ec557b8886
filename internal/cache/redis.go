package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds the Redis connection options. Zero values fall back to
// defaults.
type Config struct {
	Addr         string
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MaxRetries   int
}

// New returns a connected client and verifies it with PING. Call the returned
// closer during shutdown.
func New(ctx context.Context, cfg Config) (*redis.Client, func(), error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  defaultDuration(cfg.DialTimeout, 3*time.Second),
		ReadTimeout:  defaultDuration(cfg.ReadTimeout, 500*time.Millisecond),
		WriteTimeout: defaultDuration(cfg.WriteTimeout, 500*time.Millisecond),
		PoolSize:     defaultInt(cfg.PoolSize, 10),
		MaxRetries:   defaultInt(cfg.MaxRetries, 1),
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

func defaultDuration(v, d time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return d
}

func defaultInt(v, d int) int {
	if v > 0 {
		return v
	}
	return d
}
