package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient creates and returns a new Redis client.
// It exits the process if it cannot connect to the Redis server.
func NewRedisClient(redisURL string) *redis.Client {
	if redisURL == "" {
		log.Fatal("REDIS_URL environment variable is not set")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("could not parse Redis URL: %v", err)
	}

	client := redis.NewClient(opts)

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("could not connect to Redis: %v", err)
	}

	return client
}

// Cooldown tracks short-lived "do not repeat yet" marks, keyed by an action and
// a subject. It backs the resend throttle on verification codes.
type Cooldown interface {
	// Acquire attempts to claim the cooldown slot for the given key. It returns
	// false when a previous claim is still within its window.
	Acquire(ctx context.Context, action, subject string, window time.Duration) (bool, error)
}

type redisCooldown struct {
	client *redis.Client
}

// NewCooldown creates a Redis-backed cooldown tracker.
func NewCooldown(client *redis.Client) Cooldown {
	return &redisCooldown{client: client}
}

func (c *redisCooldown) Acquire(ctx context.Context, action, subject string, window time.Duration) (bool, error) {
	key := fmt.Sprintf("cooldown:%s:%s", action, subject)
	ok, err := c.client.SetNX(ctx, key, time.Now().Unix(), window).Result()
	if err != nil {
		return false, fmt.Errorf("cooldown acquire: %w", err)
	}
	return ok, nil
}
