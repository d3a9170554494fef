package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"residora/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type CacheService interface {
	// Room caching
	GetRoom(ctx context.Context, roomID uuid.UUID) (*models.Room, error)
	SetRoom(ctx context.Context, room *models.Room, ttl time.Duration) error
	DeleteRoom(ctx context.Context, roomID uuid.UUID) error

	// Session management
	SetSession(ctx context.Context, sessionID, userID string, ttl time.Duration) error
	GetSession(ctx context.Context, sessionID string) (string, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Rate limiting
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	IncrementRateLimit(ctx context.Context, key string, window time.Duration) error

	// Generic string operations for token management
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
	ScanKeys(ctx context.Context, pattern string) ([]string, error)
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func roomCacheKey(roomID uuid.UUID) string {
	return fmt.Sprintf("residora:room:%s", roomID.String())
}

func (c *redisCacheService) GetRoom(ctx context.Context, roomID uuid.UUID) (*models.Room, error) {
	data, err := c.client.Get(ctx, roomCacheKey(roomID)).Result()
	if err != nil {
		return nil, err
	}

	room := &models.Room{}
	if err := json.Unmarshal([]byte(data), room); err != nil {
		return nil, err
	}
	return room, nil
}

func (c *redisCacheService) SetRoom(ctx context.Context, room *models.Room, ttl time.Duration) error {
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, roomCacheKey(room.ID), data, ttl).Err()
}

func (c *redisCacheService) DeleteRoom(ctx context.Context, roomID uuid.UUID) error {
	return c.client.Del(ctx, roomCacheKey(roomID)).Err()
}

func (c *redisCacheService) SetSession(ctx context.Context, sessionID, userID string, ttl time.Duration) error {
	return c.client.Set(ctx, fmt.Sprintf("residora:session:%s", sessionID), userID, ttl).Err()
}

func (c *redisCacheService) GetSession(ctx context.Context, sessionID string) (string, error) {
	return c.client.Get(ctx, fmt.Sprintf("residora:session:%s", sessionID)).Result()
}

func (c *redisCacheService) DeleteSession(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, fmt.Sprintf("residora:session:%s", sessionID)).Err()
}

func (c *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := c.client.Get(ctx, fmt.Sprintf("residora:ratelimit:%s", key)).Int()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return count >= limit, nil
}

func (c *redisCacheService) IncrementRateLimit(ctx context.Context, key string, window time.Duration) error {
	rateKey := fmt.Sprintf("residora:ratelimit:%s", key)
	pipe := c.client.TxPipeline()
	pipe.Incr(ctx, rateKey)
	pipe.Expire(ctx, rateKey, window)
	_, err := pipe.Exec(ctx)
	return err
}

func (c *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	return c.client.Get(ctx, key).Result()
}

func (c *redisCacheService) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func (c *redisCacheService) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}
