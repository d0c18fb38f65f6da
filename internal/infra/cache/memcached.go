package cache

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"countries-informer/configs"
	"countries-informer/internal/domain/gateway/cache"
	"countries-informer/internal/domain/model"
	"countries-informer/pkg/codec"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/cespare/xxhash/v2"
)

const (
	maxKeyLength   = 250
	maxRelativeTTL = 30 * 24 * time.Hour
)

// MemcachedClient is the subset of *memcache.Client the namespace uses.
type MemcachedClient interface {
	Get(key string) (*memcache.Item, error)
	Set(item *memcache.Item) error
	Add(item *memcache.Item) error
	Delete(key string) error
	Increment(key string, delta uint64) (uint64, error)
	Ping() error
}

// memcachedNamespace keeps a generation counter per namespace. Flush bumps it, which orphans every
// key of the previous generation until memcached expires them.
type memcachedNamespace struct {
	name   string
	prefix string
	ttl    time.Duration
	client MemcachedClient
	codec  codec.Codec
	now    func() time.Time
}

var _ cache.Namespace = (*memcachedNamespace)(nil)

func NewMemcachedNamespace(client MemcachedClient, cfg configs.NamespaceConfig) (cache.Namespace, error) {
	valueCodec, err := codec.New(cfg.Codec)
	if err != nil {
		return nil, fmt.Errorf("namespace %s: %w", cfg.Name, err)
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = cfg.Name
	}
	return &memcachedNamespace{
		name:   cfg.Name,
		prefix: prefix,
		ttl:    cfg.TTL,
		client: client,
		codec:  valueCodec,
		now:    time.Now,
	}, nil
}

func (n *memcachedNamespace) Name() string {
	return n.name
}

func (n *memcachedNamespace) TTL() time.Duration {
	return n.ttl
}

func (n *memcachedNamespace) generationKey() string {
	return n.prefix + ":gen"
}

func (n *memcachedNamespace) generation() (uint64, error) {
	item, err := n.client.Get(n.generationKey())
	if errors.Is(err, memcache.ErrCacheMiss) {
		err = n.client.Add(&memcache.Item{Key: n.generationKey(), Value: []byte("1")})
		if err != nil && !errors.Is(err, memcache.ErrNotStored) {
			return 0, err
		}
		if err == nil {
			return 1, nil
		}
		item, err = n.client.Get(n.generationKey())
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(string(item.Value), 10, 64)
}

func (n *memcachedNamespace) itemKey(key string) (string, error) {
	gen, err := n.generation()
	if err != nil {
		return "", err
	}
	full := n.prefix + ":" + strconv.FormatUint(gen, 10) + ":" + url.QueryEscape(key)
	if len(full) > maxKeyLength {
		full = n.prefix + ":" + strconv.FormatUint(gen, 10) + ":h" + strconv.FormatUint(xxhash.Sum64String(key), 16)
	}
	return full, nil
}

func (n *memcachedNamespace) Get(ctx context.Context, key string, dest any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	itemKey, err := n.itemKey(key)
	if err != nil {
		return false, fmt.Errorf("cache %s: get %q: %w", n.name, key, err)
	}
	item, err := n.client.Get(itemKey)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache %s: get %q: %w", n.name, key, err)
	}
	if err := n.codec.Unmarshal(item.Value, dest); err != nil {
		return false, fmt.Errorf("cache %s: decode %q: %w", n.name, key, err)
	}
	return true, nil
}

func (n *memcachedNamespace) Set(ctx context.Context, key string, value any) error {
	return n.SetWithTTL(ctx, key, value, n.ttl)
}

func (n *memcachedNamespace) SetWithTTL(ctx context.Context, key string, value any, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := n.codec.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache %s: encode %q: %w", n.name, key, err)
	}
	itemKey, err := n.itemKey(key)
	if err != nil {
		return fmt.Errorf("cache %s: set %q: %w", n.name, key, err)
	}
	err = n.client.Set(&memcache.Item{Key: itemKey, Value: data, Expiration: n.expiration(ttl)})
	if err != nil {
		return fmt.Errorf("cache %s: set %q: %w", n.name, key, err)
	}
	return nil
}

// expiration converts ttl to memcached seconds. Values above 30 days must be absolute unix times.
func (n *memcachedNamespace) expiration(ttl time.Duration) int32 {
	if ttl <= 0 {
		return 0
	}
	if ttl > maxRelativeTTL {
		return int32(n.now().Add(ttl).Unix())
	}
	seconds := int32(ttl / time.Second)
	if seconds == 0 {
		seconds = 1
	}
	return seconds
}

func (n *memcachedNamespace) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	itemKey, err := n.itemKey(key)
	if err != nil {
		return fmt.Errorf("cache %s: delete %q: %w", n.name, key, err)
	}
	if err := n.client.Delete(itemKey); err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
		return fmt.Errorf("cache %s: delete %q: %w", n.name, key, err)
	}
	return nil
}

func (n *memcachedNamespace) Flush(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := n.client.Increment(n.generationKey(), 1)
	if errors.Is(err, memcache.ErrCacheMiss) {
		err = n.client.Set(&memcache.Item{Key: n.generationKey(), Value: []byte("2")})
	}
	if err != nil {
		return fmt.Errorf("cache %s: flush: %w", n.name, err)
	}
	return nil
}

func (n *memcachedNamespace) Health(ctx context.Context) model.ComponentHealthStatus {
	if err := n.client.Ping(); err != nil {
		status := model.DownStatus(err)
		status.Details["backend"] = "memcached"
		return status
	}
	return model.UpStatus(map[string]string{
		"backend": "memcached",
		"prefix":  n.prefix,
		"ttl":     n.ttl.String(),
	})
}
