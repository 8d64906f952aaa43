// Package cache provides a Redis-backed read cache for card records.
// Balances change on every transfer, so the cache is invalidated on each
// mutation rather than updated in place.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bankcards/internal/models"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func NewRedisClient(cfg *RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// CardCache caches card records keyed by card id.
type CardCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCardCache(client *redis.Client, ttl time.Duration) *CardCache {
	return &CardCache{client: client, ttl: ttl}
}

func (c *CardCache) GetCard(ctx context.Context, cardID uint) (*models.Card, error) {
	val, err := c.client.Get(ctx, cardKey(cardID)).Result()
	if err != nil {
		return nil, err
	}
	var card models.Card
	if err := json.Unmarshal([]byte(val), &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (c *CardCache) SetCard(ctx context.Context, card *models.Card) error {
	data, err := json.Marshal(card)
	if err != nil {
		return fmt.Errorf("failed to marshal card: %w", err)
	}
	return c.client.Set(ctx, cardKey(card.ID), data, c.ttl).Err()
}

func (c *CardCache) InvalidateCard(ctx context.Context, cardID uint) error {
	return c.client.Del(ctx, cardKey(cardID)).Err()
}

func (c *CardCache) HealthCheck(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

func (c *CardCache) Close() error {
	return c.client.Close()
}

func cardKey(cardID uint) string {
	return fmt.Sprintf("card:%d", cardID)
}
