package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by the API
const DefaultPrefix = "tonesmith"

// Client is a namespaced Redis client storing short-lived flags
type Client struct {
	rdb            *redis.Client
	prefix         string
	connectTimeout time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithPrefix replaces DefaultPrefix. An empty prefix writes bare keys.
func WithPrefix(prefix string) Option {
	return func(c *Client) { c.prefix = prefix }
}

// WithConnectTimeout bounds the ping performed by NewClient
func WithConnectTimeout(d time.Duration) Option {
	return func(c *Client) { c.connectTimeout = d }
}

// NewClient parses redisURL and verifies the connection
func NewClient(redisURL string, opts ...Option) (*Client, error) {
	redisOpts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed parsing redis URL: %w", err)
	}

	c := &Client{
		rdb:            redis.NewClient(redisOpts),
		prefix:         DefaultPrefix,
		connectTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.connectTimeout)
	defer cancel()

	if err := c.Ping(ctx); err != nil {
		_ = c.rdb.Close()
		return nil, fmt.Errorf("failed connecting to redis: %w", err)
	}

	return c, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping checks the connection, used by /health
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Key joins parts with ':' under the client prefix
func (c *Client) Key(parts ...string) string {
	if c.prefix == "" {
		return strings.Join(parts, ":")
	}
	return c.prefix + ":" + strings.Join(parts, ":")
}

// Mark sets a flag that disappears after ttl. Non-positive ttls are a no-op.
func (c *Client) Mark(ctx context.Context, key string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.rdb.Set(ctx, key, "1", ttl).Err()
}

// Marked reports whether the flag is still set
func (c *Client) Marked(ctx context.Context, key string) (bool, error) {
	n, err := c.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Unmark removes flags
func (c *Client) Unmark(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}
