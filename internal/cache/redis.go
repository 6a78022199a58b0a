package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Ananth-NQI/hotelluxe-backend/internal/models"
)

const roomKeyPrefix = "rooms:"

// Connect opens a redis client for addr and pings it.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})
	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}
	return client, nil
}

// RedisRoomCache stores room listings as JSON under rooms:<key>.
type RedisRoomCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisRoomCache creates a room cache with entries expiring after ttl
func NewRedisRoomCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisRoomCache {
	return &RedisRoomCache{client: client, ttl: ttl, logger: logger}
}

// GetRooms returns the cached listing for key. Misses and redis errors both
// report false.
func (c *RedisRoomCache) GetRooms(ctx context.Context, key string) ([]*models.Room, bool) {
	cached, err := c.client.Get(ctx, roomKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("room cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var rooms []*models.Room
	if err := json.Unmarshal(cached, &rooms); err != nil {
		c.logger.Warn("room cache entry corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return rooms, true
}

func (c *RedisRoomCache) SetRooms(ctx context.Context, key string, rooms []*models.Room) {
	b, err := json.Marshal(rooms)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, roomKeyPrefix+key, b, c.ttl).Err(); err != nil {
		c.logger.Warn("room cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate drops every cached room listing.
func (c *RedisRoomCache) Invalidate(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, roomKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		c.client.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("room cache invalidate failed", zap.Error(err))
	}
}

// NoopRoomCache never holds anything. Used when redis is not configured.
type NoopRoomCache struct{}

func (NoopRoomCache) GetRooms(context.Context, string) ([]*models.Room, bool) { return nil, false }
func (NoopRoomCache) SetRooms(context.Context, string, []*models.Room) {}
func (NoopRoomCache) Invalidate(context.Context) {}
