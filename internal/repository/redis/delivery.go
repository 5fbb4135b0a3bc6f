// Package redis keeps webhook delivery ids in Redis so replays are ignored.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"coresync/coach/internal/repository"
)

const deliveryKeyPrefix = "coresync:webhook:delivery:"

// Options holds the connection settings of the delivery store.
type Options struct {
	Address  string
	Password string
	DB       int
	PoolSize int
}

// NewClient creates a Redis client from opts. The connection is established lazily.
func NewClient(opts Options) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     opts.Address,
		Password: opts.Password,
		DB:       opts.DB,
		PoolSize: opts.PoolSize,
	})
}

// Ping checks the connection to Redis.
func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close closes the client if there is one.
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}

type deliveryStore struct {
	client redis.Cmdable
}

// NewDeliveryStore returns a repository.DeliveryStore backed by client.
func NewDeliveryStore(client redis.Cmdable) repository.DeliveryStore {
	return &deliveryStore{client: client}
}

// MarkDelivered sets the delivery key only if it is absent.
func (s *deliveryStore) MarkDelivered(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	if id == "" {
		return true, nil
	}
	first, err := s.client.SetNX(ctx, deliveryKeyPrefix+id, time.Now().UTC().Unix(), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record delivery %s: %w", id, err)
	}
	return first, nil
}

func (s *deliveryStore) Release(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.client.Del(ctx, deliveryKeyPrefix+id).Err()
}
