package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	redisConnectAttempts = 5
	redisMaxBackoff      = 5 * time.Second
)

// Redis is a Storage backed by a Redis server. Each key maps to one Redis
// string value.
type Redis struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedis wraps an existing client without checking connectivity.
func NewRedis(client *redis.Client, logger *zap.Logger) *Redis {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Redis{client: client, logger: logger}
}

// OpenRedis connects to addr, which is either a redis:// URL or a bare
// host[:port]. It pings the server with exponential backoff and fails once
// the attempts are exhausted or ctx is done.
func OpenRedis(ctx context.Context, addr string, logger *zap.Logger) (*Redis, error) {
	if addr == "" {
		return nil, errors.New("storage.OpenRedis: address is required")
	}
	opts, err := redis.ParseURL(addr)
	if err != nil {
		if !strings.Contains(addr, ":") {
			addr += ":6379"
		}
		opts = &redis.Options{
			Addr:         addr,
			MinIdleConns: 1,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     4,
		}
	}

	r := NewRedis(redis.NewClient(opts), logger)
	if err := r.connect(ctx); err != nil {
		_ = r.client.Close()
		return nil, err
	}
	return r, nil
}

func (r *Redis) connect(ctx context.Context) error {
	var lastErr error
	for i := 0; i < redisConnectAttempts; i++ {
		if lastErr = r.Ping(ctx); lastErr == nil {
			r.logger.Debug("redis connected", zap.Int("attempt", i+1))
			return nil
		}

		backoff := time.Duration(100*(1<<uint(i))) * time.Millisecond
		if backoff > redisMaxBackoff {
			backoff = redisMaxBackoff
		}
		r.logger.Warn("redis ping failed",
			zap.Int("attempt", i+1),
			zap.Duration("backoff", backoff),
			zap.Error(lastErr))

		select {
		case <-ctx.Done():
			return fmt.Errorf("storage.OpenRedis: %w", ctx.Err())
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("storage.OpenRedis: no connection after %d attempts: %w", redisConnectAttempts, lastErr)
}

// GetItem returns the value for key; redis.Nil maps to absent.
func (r *Redis) GetItem(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("GetItem: %w", err)
	}
	return val, true, nil
}

// SetItem overwrites key with value, without expiry.
func (r *Redis) SetItem(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("SetItem: %w", err)
	}
	return nil
}

// RemoveItem deletes key.
func (r *Redis) RemoveItem(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("RemoveItem: %w", err)
	}
	return nil
}

// Ping checks the server with a short timeout.
func (r *Redis) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return r.client.Ping(pingCtx).Err()
}

// Close closes the client's connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}
