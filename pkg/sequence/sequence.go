// Package sequence issues monotonic integer identifiers starting at 1.
package sequence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Generator hands out strictly increasing ids. Values are never reused.
type Generator interface {
	// Next advances the sequence and returns the new value.
	Next(ctx context.Context) (int, error)
	// Current returns the last issued value, 0 before the first Next.
	Current(ctx context.Context) (int, error)
}

// Counter is an in-process Generator.
type Counter struct {
	mu    sync.Mutex
	value int
}

// NewCounter returns a counter seeded at 0.
func NewCounter() *Counter {
	return &Counter{}
}

// Next implements Generator.
func (c *Counter) Next(_ context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value++
	return c.value, nil
}

// Current implements Generator.
func (c *Counter) Current(_ context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value, nil
}

type redisCounterClient interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisCounter keeps the sequence in a Redis key so ids survive restarts.
type RedisCounter struct {
	client redisCounterClient
	key    string
}

// NewRedisCounter binds a counter to key.
func NewRedisCounter(client redisCounterClient, key string) *RedisCounter {
	return &RedisCounter{client: client, key: key}
}

// Key returns the Redis key backing the counter.
func (c *RedisCounter) Key() string {
	return c.key
}

// Next implements Generator using INCR.
func (c *RedisCounter) Next(ctx context.Context) (int, error) {
	v, err := c.client.Incr(ctx, c.key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr %s: %w", c.key, err)
	}
	return int(v), nil
}

// Current implements Generator. A missing key reads as 0.
func (c *RedisCounter) Current(ctx context.Context) (int, error) {
	raw, err := c.client.Get(ctx, c.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis get %s: %w", c.key, err)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse sequence %s: %w", c.key, err)
	}
	return v, nil
}

// AdvanceTo moves g forward until its current value is at least floor, so ids
// already present in restored data are never issued again.
func AdvanceTo(ctx context.Context, g Generator, floor int) error {
	current, err := g.Current(ctx)
	if err != nil {
		return err
	}
	for current < floor {
		if current, err = g.Next(ctx); err != nil {
			return err
		}
	}
	return nil
}
