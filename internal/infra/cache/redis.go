package cache

import (
	"context"
	"fmt"
	"time"

	"countries-informer/configs"
	"countries-informer/internal/domain/gateway/cache"
	"countries-informer/internal/domain/model"
	"countries-informer/pkg/codec"
	"countries-informer/pkg/redis"
)

// redisNamespace stores one namespace under its prefix in its own redis database.
type redisNamespace struct {
	name   string
	cache  *redis.Cache
	health *redis.HealthChecker
}

var _ cache.Namespace = (*redisNamespace)(nil)

// NewRedisNamespace binds a namespace to a client already connected to the namespace database.
func NewRedisNamespace(client *redis.Client, cfg configs.NamespaceConfig) (cache.Namespace, error) {
	valueCodec, err := codec.New(cfg.Codec)
	if err != nil {
		return nil, fmt.Errorf("namespace %s: %w", cfg.Name, err)
	}

	opts := redis.NewCacheOptions().
		WithTTL(cfg.TTL).
		WithKeyPrefix(cfg.Prefix).
		WithSerializer(valueCodec.Marshal).
		WithDeserializer(valueCodec.Unmarshal)

	return &redisNamespace{
		name:   cfg.Name,
		cache:  redis.NewCache(client, opts),
		health: redis.NewHealthChecker(client),
	}, nil
}

func (n *redisNamespace) Name() string {
	return n.name
}

func (n *redisNamespace) TTL() time.Duration {
	return n.cache.TTL()
}

func (n *redisNamespace) Get(ctx context.Context, key string, dest any) (bool, error) {
	found, err := n.cache.Get(ctx, key, dest)
	if err != nil {
		return false, fmt.Errorf("cache %s: get %q: %w", n.name, key, err)
	}
	return found, nil
}

func (n *redisNamespace) Set(ctx context.Context, key string, value any) error {
	return n.SetWithTTL(ctx, key, value, n.cache.TTL())
}

func (n *redisNamespace) SetWithTTL(ctx context.Context, key string, value any, ttl time.Duration) error {
	if err := n.cache.SetWithTTL(ctx, key, value, ttl); err != nil {
		return fmt.Errorf("cache %s: set %q: %w", n.name, key, err)
	}
	return nil
}

func (n *redisNamespace) Delete(ctx context.Context, key string) error {
	if err := n.cache.Delete(ctx, key); err != nil {
		return fmt.Errorf("cache %s: delete %q: %w", n.name, key, err)
	}
	return nil
}

func (n *redisNamespace) Flush(ctx context.Context) error {
	if err := n.cache.Clear(ctx); err != nil {
		return fmt.Errorf("cache %s: flush: %w", n.name, err)
	}
	return nil
}

func (n *redisNamespace) Health(ctx context.Context) model.ComponentHealthStatus {
	check := n.health.HealthCheck(ctx)
	details := check.Details
	details["backend"] = "redis"
	details["ttl"] = n.cache.TTL().String()

	status := model.StatusDown
	if check.Status == redis.StatusUp {
		status = model.StatusUp
	}
	return model.ComponentHealthStatus{Status: status, Details: details}
}
