package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/oggyb/swipe-match/internal/config"
	"github.com/redis/go-redis/v9"
)

// ErrQueueEmpty is returned by Pop when nothing arrived before the timeout.
var ErrQueueEmpty = errors.New("queue empty")

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.Client.Close()
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.Client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.Client.Get(ctx, key).Result()
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}

// KeyForLikeCount generates Redis key for a user's received-like count
func (c *RedisCache) KeyForLikeCount(userID uint64) string {
	return fmt.Sprintf("likes:count:%d", userID)
}

// GetLikeCount returns the cached count and whether it was present.
// A hit refreshes the TTL since the user is active.
func (c *RedisCache) GetLikeCount(ctx context.Context, userID uint64, ttl time.Duration) (int64, bool, error) {
	key := c.KeyForLikeCount(userID)
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil // cache miss
	} else if err != nil {
		return 0, false, err
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, nil
	}
	_ = c.Client.Expire(ctx, key, ttl).Err()
	return n, true, nil
}

func (c *RedisCache) SetLikeCount(ctx context.Context, userID uint64, count int64, ttl time.Duration) error {
	return c.Client.Set(ctx, c.KeyForLikeCount(userID), count, ttl).Err()
}

// InvalidateLikeCount drops the cached count; the next read goes to the DB.
func (c *RedisCache) InvalidateLikeCount(ctx context.Context, userID uint64) error {
	return c.Client.Del(ctx, c.KeyForLikeCount(userID)).Err()
}

// KeyForLikeNotification is the 24h dedup marker of the admin like-threshold mail.
func (c *RedisCache) KeyForLikeNotification(userID uint64) string {
	return fmt.Sprintf("like_notification_sent:%d", userID)
}

// AcquireMarker sets key only if absent (SET NX EX). It reports whether
// this caller now owns the marker.
func (c *RedisCache) AcquireMarker(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return c.Client.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
}

func (c *RedisCache) ReleaseMarker(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}

// Push appends a payload to a list-backed queue.
func (c *RedisCache) Push(ctx context.Context, queue string, payload []byte) error {
	return c.Client.LPush(ctx, queue, payload).Err()
}

// Pop blocks up to timeout for the oldest queued payload.
func (c *RedisCache) Pop(ctx context.Context, queue string, timeout time.Duration) ([]byte, error) {
	res, err := c.Client.BRPop(ctx, timeout, queue).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrQueueEmpty
	}
	if err != nil {
		return nil, err
	}
	// res = [queue, value]
	if len(res) != 2 {
		return nil, fmt.Errorf("unexpected BRPOP reply of %d elements", len(res))
	}
	return []byte(res[1]), nil
}

// QueueLen reports how many payloads wait in the queue.
func (c *RedisCache) QueueLen(ctx context.Context, queue string) (int64, error) {
	return c.Client.LLen(ctx, queue).Result()
}

// KeyForRevokedToken marks a logged-out JWT id.
func (c *RedisCache) KeyForRevokedToken(tokenID string) string {
	return "auth:revoked:" + tokenID
}

// RevokeToken denylists a token id until its natural expiry.
func (c *RedisCache) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.Client.Set(ctx, c.KeyForRevokedToken(tokenID), 1, ttl).Err()
}

func (c *RedisCache) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := c.Client.Exists(ctx, c.KeyForRevokedToken(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
