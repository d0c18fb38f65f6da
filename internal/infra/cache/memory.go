package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"countries-informer/configs"
	"countries-informer/internal/domain/gateway/cache"
	"countries-informer/internal/domain/model"
	"countries-informer/pkg/codec"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// memoryNamespace keeps encoded values in process memory. Expired entries are dropped on access.
type memoryNamespace struct {
	name  string
	ttl   time.Duration
	codec codec.Codec
	now   func() time.Time

	mu      sync.Mutex
	entries map[string]memoryEntry
}

var _ cache.Namespace = (*memoryNamespace)(nil)

// NewMemoryNamespace creates an in-process namespace. now may be nil to use the wall clock.
func NewMemoryNamespace(cfg configs.NamespaceConfig, now func() time.Time) (cache.Namespace, error) {
	valueCodec, err := codec.New(cfg.Codec)
	if err != nil {
		return nil, fmt.Errorf("namespace %s: %w", cfg.Name, err)
	}
	if now == nil {
		now = time.Now
	}
	return &memoryNamespace{
		name:    cfg.Name,
		ttl:     cfg.TTL,
		codec:   valueCodec,
		now:     now,
		entries: make(map[string]memoryEntry),
	}, nil
}

func (n *memoryNamespace) Name() string {
	return n.name
}

func (n *memoryNamespace) TTL() time.Duration {
	return n.ttl
}

func (n *memoryNamespace) Get(ctx context.Context, key string, dest any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	n.mu.Lock()
	entry, ok := n.entries[key]
	if ok && !n.now().Before(entry.expiresAt) {
		delete(n.entries, key)
		ok = false
	}
	n.mu.Unlock()

	if !ok {
		return false, nil
	}
	if err := n.codec.Unmarshal(entry.data, dest); err != nil {
		return false, fmt.Errorf("cache %s: decode %q: %w", n.name, key, err)
	}
	return true, nil
}

func (n *memoryNamespace) Set(ctx context.Context, key string, value any) error {
	return n.SetWithTTL(ctx, key, value, n.ttl)
}

func (n *memoryNamespace) SetWithTTL(ctx context.Context, key string, value any, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := n.codec.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache %s: encode %q: %w", n.name, key, err)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.entries[key] = memoryEntry{data: data, expiresAt: n.now().Add(ttl)}
	return nil
}

func (n *memoryNamespace) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.entries, key)
	return nil
}

func (n *memoryNamespace) Flush(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	clear(n.entries)
	return nil
}

func (n *memoryNamespace) Health(context.Context) model.ComponentHealthStatus {
	n.mu.Lock()
	size := len(n.entries)
	n.mu.Unlock()
	return model.UpStatus(map[string]string{
		"backend": "memory",
		"entries": strconv.Itoa(size),
		"ttl":     n.ttl.String(),
	})
}
