package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"countries-informer/configs"
	"countries-informer/internal/domain/gateway/cache"
	"countries-informer/internal/domain/model"
	"countries-informer/pkg/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	weatherCfg  = configs.NamespaceConfig{Name: "weather", Prefix: "weather", Database: 1, TTL: 10700 * time.Second, Codec: "json"}
	currencyCfg = configs.NamespaceConfig{Name: "currency", Prefix: "currency", Database: 2, TTL: 86400 * time.Second, Codec: "zstd"}
	newsCfg     = configs.NamespaceConfig{Name: "news", Prefix: "news", Database: 3, TTL: 3600 * time.Second, Codec: "zstd"}
)

type payload struct {
	Value string `json:"value"`
}

func newRedisNamespace(t *testing.T, mr *miniredis.Miniredis, cfg configs.NamespaceConfig) cache.Namespace {
	t.Helper()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	client := redis.NewClient(redis.NewRedisConfig().
		WithHost(mr.Host()).
		WithPort(port).
		WithDatabase(cfg.Database).
		WithMaxRetries(0))
	t.Cleanup(func() { _ = client.Close() })

	ns, err := NewRedisNamespace(client, cfg)
	require.NoError(t, err)
	return ns
}

func TestRedisNamespace_TTLIsolation(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	weather := newRedisNamespace(t, mr, weatherCfg)
	currency := newRedisNamespace(t, mr, currencyCfg)
	news := newRedisNamespace(t, mr, newsCfg)

	for _, ns := range []cache.Namespace{weather, currency, news} {
		require.NoError(t, ns.Set(ctx, "key", payload{Value: ns.Name()}))
	}
	assert.Equal(t, []string{"weather::key"}, mr.DB(1).Keys())
	assert.Equal(t, 10700*time.Second, mr.DB(1).TTL("weather::key"))
	assert.Equal(t, 86400*time.Second, mr.DB(2).TTL("currency::key"))
	assert.Equal(t, 3600*time.Second, mr.DB(3).TTL("news::key"))

	mr.FastForward(3601 * time.Second)
	var got payload
	found, err := news.Get(ctx, "key", &got)
	require.NoError(t, err)
	assert.False(t, found)

	found, err = weather.Get(ctx, "key", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "weather", got.Value)

	mr.FastForward(7100 * time.Second)
	found, err = weather.Get(ctx, "key", &got)
	require.NoError(t, err)
	assert.False(t, found)

	found, err = currency.Get(ctx, "key", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "currency", got.Value)
}

func TestRedisNamespace_FlushKeepsOtherNamespaces(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	sharedDB := currencyCfg
	sharedDB.Database = weatherCfg.Database
	weather := newRedisNamespace(t, mr, weatherCfg)
	currency := newRedisNamespace(t, mr, sharedDB)

	require.NoError(t, weather.Set(ctx, "Moscow,RU", payload{Value: "w"}))
	require.NoError(t, currency.Set(ctx, "USD", payload{Value: "c"}))

	require.NoError(t, weather.Flush(ctx))

	var got payload
	found, err := weather.Get(ctx, "Moscow,RU", &got)
	require.NoError(t, err)
	assert.False(t, found)

	found, err = currency.Get(ctx, "USD", &got)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestRedisNamespace_BackendDown(t *testing.T) {
	mr := miniredis.RunT(t)
	weather := newRedisNamespace(t, mr, weatherCfg)
	mr.Close()

	var got payload
	_, err := weather.Get(context.Background(), "key", &got)
	assert.Error(t, err)
	assert.Error(t, weather.Set(context.Background(), "key", payload{}))
	assert.Equal(t, model.StatusDown, weather.Health(context.Background()).Status)
}

func TestRedisNamespace_Health(t *testing.T) {
	mr := miniredis.RunT(t)
	weather := newRedisNamespace(t, mr, weatherCfg)

	health := weather.Health(context.Background())
	assert.Equal(t, model.StatusUp, health.Status)
	assert.Equal(t, "redis", health.Details["backend"])
	assert.Equal(t, "1", health.Details["database"])
}

func TestMemoryNamespace_Expiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	ctx := context.Background()

	ns, err := NewMemoryNamespace(newsCfg, clock)
	require.NoError(t, err)

	require.NoError(t, ns.Set(ctx, "category=business", payload{Value: "a"}))

	var got payload
	found, err := ns.Get(ctx, "category=business", &got)
	require.NoError(t, err)
	assert.True(t, found)

	now = now.Add(time.Hour)
	found, err = ns.Get(ctx, "category=business", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryNamespace_StoresCopies(t *testing.T) {
	ctx := context.Background()
	ns, err := NewMemoryNamespace(weatherCfg, nil)
	require.NoError(t, err)

	value := map[string]int{"a": 1}
	require.NoError(t, ns.Set(ctx, "k", value))
	value["a"] = 2

	var got map[string]int
	found, err := ns.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 1, got["a"])

	require.NoError(t, ns.Flush(ctx))
	found, err = ns.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryNamespace_CancelledContext(t *testing.T) {
	ns, err := NewMemoryNamespace(weatherCfg, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ns.Get(ctx, "k", &payload{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewNamespaces_Memory(t *testing.T) {
	cfg := &configs.Config{Cache: configs.CacheConfig{
		Backend:  BackendMemory,
		Default:  configs.NamespaceConfig{Name: "default", Prefix: "default", TTL: 300 * time.Second, Codec: "json"},
		Weather:  weatherCfg,
		Currency: currencyCfg,
		News:     newsCfg,
	}}

	namespaces, closeFn, err := NewNamespaces(cfg, nil)
	require.NoError(t, err)
	defer func() { assert.NoError(t, closeFn()) }()

	assert.Equal(t, []string{"default", "weather", "currency", "news"}, namespaces.Names())
	assert.Equal(t, 300*time.Second, namespaces.Default.TTL())

	ns, err := namespaces.Get("currency")
	require.NoError(t, err)
	assert.Equal(t, 86400*time.Second, ns.TTL())

	_, err = namespaces.Get("sessions")
	assert.ErrorIs(t, err, cache.ErrUnknownNamespace)
}

func TestNewNamespaces_UnknownBackend(t *testing.T) {
	_, _, err := NewNamespaces(&configs.Config{Cache: configs.CacheConfig{Backend: "etcd"}}, nil)
	assert.Error(t, err)
}
