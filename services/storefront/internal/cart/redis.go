package cart

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func itemsKey(sessionID string) string {
	return fmt.Sprintf("cart:%s:items", sessionID)
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (Cart, error) {
	items, err := s.client.HGetAll(ctx, itemsKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}

	c := make(Cart, len(items))
	for productID, quantityStr := range items {
		quantity, err := strconv.Atoi(quantityStr)
		if err != nil {
			return nil, fmt.Errorf("invalid quantity for product %s: %w", productID, err)
		}
		if quantity > 0 {
			c[productID] = quantity
		}
	}
	return c, nil
}

func (s *RedisStore) Add(ctx context.Context, sessionID, productID string) error {
	key := itemsKey(sessionID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, key, productID, 1)
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to add item to cart: %w", err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, sessionID, productID string) error {
	if err := s.client.HDel(ctx, itemsKey(sessionID), productID).Err(); err != nil {
		return fmt.Errorf("failed to delete item from cart: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, itemsKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
