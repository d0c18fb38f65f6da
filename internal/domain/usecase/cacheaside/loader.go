// Package cacheaside implements the read-through flow shared by every cached use case.
package cacheaside

import (
	"context"
	"errors"
	"fmt"

	"countries-informer/internal/domain/gateway/cache"
	"countries-informer/internal/infra/metrics"
	"countries-informer/pkg/log"
	"countries-informer/pkg/msg"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrCacheUnavailable wraps failures of the cache backend
var ErrCacheUnavailable = errors.New("cache unavailable")

// FetchFunc loads a value from its source. A nil value with a nil error means the source had nothing.
type FetchFunc[T any] func(ctx context.Context) (*T, error)

// Loader reads a namespace and fills it on a miss. Absent values and errors are never stored.
type Loader[T any] struct {
	ns           cache.Namespace
	singleFlight bool
	group        singleflight.Group
}

func New[T any](ns cache.Namespace, singleFlight bool) *Loader[T] {
	return &Loader[T]{ns: ns, singleFlight: singleFlight}
}

func (l *Loader[T]) Namespace() cache.Namespace {
	return l.ns
}

// Load returns the cached value of key, or fetches and stores it.
// Concurrent misses of the same key share one fetch when single-flight is enabled.
func (l *Loader[T]) Load(ctx context.Context, key string, fetch FetchFunc[T]) (*T, error) {
	var cached T
	found, err := l.ns.Get(ctx, key, &cached)
	if errors.Is(err, cache.ErrCorruptValue) {
		found, err = false, l.evict(ctx, key, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrCacheUnavailable, l.ns.Name(), err)
	}
	if found {
		return &cached, nil
	}

	if !l.singleFlight {
		return l.Refresh(ctx, key, fetch)
	}

	// the shared fetch outlives a cancelled leader so followers still get a result
	shared := context.WithoutCancel(ctx)
	ch := l.group.DoChan(key, func() (any, error) {
		return l.Refresh(shared, key, fetch)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*T), nil
	}
}

// evict drops a value that no longer decodes so the load falls through to the source.
func (l *Loader[T]) evict(ctx context.Context, key string, cause error) error {
	log.Warn(msg.GetMessage("cache.corrupt", l.ns.Name(), key), zap.Error(cause))
	return l.ns.Delete(ctx, key)
}

// Refresh fetches key from the source and overwrites the cached value.
func (l *Loader[T]) Refresh(ctx context.Context, key string, fetch FetchFunc[T]) (*T, error) {
	value, err := fetch(ctx)
	if err != nil || value == nil {
		return nil, err
	}

	if err := l.ns.Set(ctx, key, value); err != nil {
		return nil, fmt.Errorf("%w: write %s: %w", ErrCacheUnavailable, l.ns.Name(), err)
	}
	log.Debug(msg.GetMessage("cache.stored", l.ns.Name(), key, l.ns.TTL()))
	return value, nil
}

// ReportInvalid records an upstream payload that failed normalization.
func ReportInvalid(m *metrics.Metrics, upstream, subject string, err error) {
	log.Warn(msg.GetMessage("upstream.invalid", upstream, subject, err.Error()),
		zap.String("upstream", upstream),
		zap.Error(err))
	m.ObserveInvalidPayload(upstream)
}
