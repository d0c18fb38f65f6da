package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// CacheOptions represents options for cache operations
type CacheOptions struct {
	// TTL is the time to live applied by Set
	TTL time.Duration
	// RefreshTTL indicates whether to refresh the TTL on access
	RefreshTTL bool
	// Serializer is a custom serializer function
	Serializer func(interface{}) ([]byte, error)
	// Deserializer is a custom deserializer function
	Deserializer func([]byte, interface{}) error
	// KeyPrefix partitions the keys of this cache inside the database
	KeyPrefix string
}

// NewCacheOptions creates a new cache options with default values
func NewCacheOptions() *CacheOptions {
	return &CacheOptions{
		TTL:          5 * time.Minute,
		RefreshTTL:   false,
		Serializer:   json.Marshal,
		Deserializer: json.Unmarshal,
	}
}

// WithTTL sets the TTL for cache operations
func (co *CacheOptions) WithTTL(ttl time.Duration) *CacheOptions {
	if ttl <= 0 {
		panic(fmt.Sprintf("invalid TTL: %v, must be positive", ttl))
	}
	co.TTL = ttl
	return co
}

// WithRefreshTTL enables TTL refresh on access
func (co *CacheOptions) WithRefreshTTL(refresh bool) *CacheOptions {
	co.RefreshTTL = refresh
	return co
}

// WithSerializer sets a custom serializer function
func (co *CacheOptions) WithSerializer(serializer func(interface{}) ([]byte, error)) *CacheOptions {
	co.Serializer = serializer
	return co
}

// WithDeserializer sets a custom deserializer function
func (co *CacheOptions) WithDeserializer(deserializer func([]byte, interface{}) error) *CacheOptions {
	co.Deserializer = deserializer
	return co
}

// WithKeyPrefix sets the key prefix of the cache
func (co *CacheOptions) WithKeyPrefix(prefix string) *CacheOptions {
	co.KeyPrefix = prefix
	return co
}

// Cache provides high-level caching operations over one prefix of one database
type Cache struct {
	client *Client
	opts   *CacheOptions
}

// NewCache creates a new cache instance
func NewCache(client *Client, opts *CacheOptions) *Cache {
	if opts == nil {
		opts = NewCacheOptions()
	}
	return &Cache{
		client: client,
		opts:   opts,
	}
}

// Client returns the client the cache writes to
func (c *Cache) Client() *Client {
	return c.client
}

// TTL returns the TTL applied by Set
func (c *Cache) TTL() time.Duration {
	return c.opts.TTL
}

// buildCacheKey constructs the full cache key using KeyPrefix::cacheKey format
func (c *Cache) buildCacheKey(key string) string {
	if c.opts.KeyPrefix != "" {
		return c.opts.KeyPrefix + "::" + key
	}
	return key
}

// Get retrieves a value from cache and deserializes it into dest. It reports false on a miss.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	fullKey := c.buildCacheKey(key)
	data, found, err := c.client.Lookup(ctx, fullKey)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}

	if c.opts.RefreshTTL {
		if err := c.client.Expire(ctx, fullKey, c.opts.TTL); err != nil {
			return false, fmt.Errorf("failed to refresh ttl: %w", err)
		}
	}

	if err := c.opts.Deserializer(data, dest); err != nil {
		return false, fmt.Errorf("failed to deserialize value: %w", err)
	}
	return true, nil
}

// Set stores a value in cache with the cache TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}) error {
	return c.SetWithTTL(ctx, key, value, c.opts.TTL)
}

// SetWithTTL stores a value in cache with custom TTL
func (c *Cache) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	fullKey := c.buildCacheKey(key)
	data, err := c.opts.Serializer(value)
	if err != nil {
		return fmt.Errorf("failed to serialize value: %w", err)
	}

	return c.client.Set(ctx, fullKey, data, ttl)
}

// Delete removes a value from cache
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Delete(ctx, c.buildCacheKey(key))
}

// Exists checks if a key exists in cache
func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	count, err := c.client.Exists(ctx, c.buildCacheKey(key))
	return count > 0, err
}

// Clear removes every key of this cache. Keys outside the prefix are left untouched.
func (c *Cache) Clear(ctx context.Context) error {
	return DeleteKeysByPattern(ctx, c.client, c.buildCacheKey("*"), 500)
}

// GetTTL returns the time to live of a key
func (c *Cache) GetTTL(ctx context.Context, key string) (time.Duration, error) {
	return c.client.TTL(ctx, c.buildCacheKey(key))
}
