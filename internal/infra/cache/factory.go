package cache

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"countries-informer/configs"
	"countries-informer/internal/domain/gateway/cache"
	"countries-informer/internal/infra/metrics"
	"countries-informer/pkg/log"
	"countries-informer/pkg/msg"
	"countries-informer/pkg/redis"

	"github.com/bradfitz/gomemcache/memcache"
)

const (
	BackendRedis     = "redis"
	BackendMemcached = "memcached"
	BackendMemory    = "memory"
)

// NewNamespaces builds the four namespaces on the configured backend. The returned close function
// releases every backend connection.
func NewNamespaces(cfg *configs.Config, m *metrics.Metrics) (*cache.Namespaces, func() error, error) {
	var (
		build   func(configs.NamespaceConfig) (cache.Namespace, error)
		closers []func() error
	)

	switch cfg.Cache.Backend {
	case BackendRedis:
		clients := map[int]*redis.Client{}
		build = func(ns configs.NamespaceConfig) (cache.Namespace, error) {
			client, ok := clients[ns.Database]
			if !ok {
				client = redis.NewClient(cfg.Redis.ForDatabase(ns.Database))
				clients[ns.Database] = client
			}
			return NewRedisNamespace(client, ns)
		}
		closers = append(closers, func() error {
			var errs []error
			for _, db := range slices.Sorted(maps.Keys(clients)) {
				errs = append(errs, clients[db].Close())
			}
			return errors.Join(errs...)
		})
	case BackendMemcached:
		client := memcache.New(cfg.Cache.MemcachedServers...)
		build = func(ns configs.NamespaceConfig) (cache.Namespace, error) {
			return NewMemcachedNamespace(client, ns)
		}
		closers = append(closers, client.Close)
	case BackendMemory:
		build = func(ns configs.NamespaceConfig) (cache.Namespace, error) {
			return NewMemoryNamespace(ns, nil)
		}
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}

	closeAll := func() error {
		var errs []error
		for _, c := range closers {
			errs = append(errs, c())
		}
		return errors.Join(errs...)
	}

	built := make([]cache.Namespace, 0, 4)
	for _, nsCfg := range cfg.Cache.Namespaces() {
		ns, err := build(nsCfg)
		if err != nil {
			_ = closeAll()
			return nil, nil, err
		}
		log.Info(msg.GetMessage("cache.backend", cfg.Cache.Backend, nsCfg.Name, nsCfg.Prefix, nsCfg.Database, nsCfg.TTL.String()))
		built = append(built, Instrument(ns, m))
	}

	return &cache.Namespaces{
		Default:  built[0],
		Weather:  built[1],
		Currency: built[2],
		News:     built[3],
	}, closeAll, nil
}
