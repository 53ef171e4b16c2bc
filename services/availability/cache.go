package availability

import (
	"context"
	"encoding/json"
	"time"

	"studiobook/models"
	"studiobook/utils"

	"github.com/go-redis/redis/v8"
)

// SlotCache stores raw provider slot listings for a short time.
type SlotCache interface {
	Get(ctx context.Context, key string) ([]models.AvailableSlot, bool, error)
	Set(ctx context.Context, key string, slots []models.AvailableSlot) error
}

type RedisSlotCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSlotCache(client *redis.Client, ttl time.Duration) *RedisSlotCache {
	if ttl <= 0 {
		ttl = utils.DefaultAvailabilityCacheTTL
	}
	return &RedisSlotCache{client: client, ttl: ttl}
}

func (c *RedisSlotCache) Get(ctx context.Context, key string) ([]models.AvailableSlot, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var slots []models.AvailableSlot
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil, false, err
	}
	return slots, true, nil
}

func (c *RedisSlotCache) Set(ctx context.Context, key string, slots []models.AvailableSlot) error {
	b, err := json.Marshal(slots)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, b, c.ttl).Err()
}
