package cache

import (
	"context"

	"countries-informer/internal/domain/gateway/cache"
	"countries-informer/internal/infra/metrics"
	"countries-informer/pkg/log"
	"countries-informer/pkg/msg"

	"go.uber.org/zap"
)

// instrumentedNamespace counts lookups and logs hits and misses at debug level.
type instrumentedNamespace struct {
	cache.Namespace
	metrics *metrics.Metrics
}

func Instrument(ns cache.Namespace, m *metrics.Metrics) cache.Namespace {
	return &instrumentedNamespace{Namespace: ns, metrics: m}
}

func (n *instrumentedNamespace) Get(ctx context.Context, key string, dest any) (bool, error) {
	found, err := n.Namespace.Get(ctx, key, dest)
	switch {
	case err != nil:
		n.metrics.ObserveCache(n.Name(), metrics.CacheError)
	case found:
		n.metrics.ObserveCache(n.Name(), metrics.CacheHit)
		log.Debug(msg.GetMessage("cache.hit", n.Name(), key))
	default:
		n.metrics.ObserveCache(n.Name(), metrics.CacheMiss)
		log.Debug(msg.GetMessage("cache.miss", n.Name(), key))
	}
	return found, err
}

func (n *instrumentedNamespace) Flush(ctx context.Context) error {
	if err := n.Namespace.Flush(ctx); err != nil {
		return err
	}
	log.Info(msg.GetMessage("cache.flushed", n.Name()), zap.String("namespace", n.Name()))
	return nil
}
