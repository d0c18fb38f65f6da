package configs

import (
	"testing"
	"time"

	"countries-informer/pkg/resource"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	props, err := resource.LoadBytes(DefaultProperties)
	require.NoError(t, err)

	cfg, err := Load(props)
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.True(t, cfg.Cache.SingleFlight)

	assert.Equal(t, NamespaceConfig{Name: "default", Prefix: "default", Database: 0, TTL: 300 * time.Second, Codec: "json"}, cfg.Cache.Default)
	assert.Equal(t, NamespaceConfig{Name: "weather", Prefix: "weather", Database: 1, TTL: 10700 * time.Second, Codec: "json"}, cfg.Cache.Weather)
	assert.Equal(t, NamespaceConfig{Name: "currency", Prefix: "currency", Database: 2, TTL: 86400 * time.Second, Codec: "zstd"}, cfg.Cache.Currency)
	assert.Equal(t, NamespaceConfig{Name: "news", Prefix: "news", Database: 3, TTL: 3600 * time.Second, Codec: "zstd"}, cfg.Cache.News)
	assert.Len(t, cfg.Cache.Namespaces(), 4)

	assert.Equal(t, "https://api.openweathermap.org", cfg.Upstream.Weather.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Upstream.Weather.Timeout)
	assert.Zero(t, cfg.Upstream.Weather.MaxRetries)
	assert.Equal(t, []string{"USD", "EUR"}, cfg.Schedule.CurrencyBases)
	assert.Equal(t, "0 */6 * * *", cfg.Schedule.CurrencyCron)
	assert.Equal(t, "host=localhost port=5432 user=postgres password=postgres dbname=countries sslmode=disable", cfg.Database.DSN())
}

func TestLoad_NewsTTLIndependentFromWeather(t *testing.T) {
	t.Setenv("CACHE_TTL_WEATHER", "120")

	props, err := resource.LoadBytes(DefaultProperties)
	require.NoError(t, err)
	cfg, err := Load(props)
	require.NoError(t, err)

	assert.Equal(t, 120*time.Second, cfg.Cache.Weather.TTL)
	assert.Equal(t, 3600*time.Second, cfg.Cache.News.TTL)

	t.Setenv("CACHE_TTL_NEWS", "45")
	props, err = resource.LoadBytes(DefaultProperties)
	require.NoError(t, err)
	cfg, err = Load(props)
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, cfg.Cache.News.TTL)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"unknown backend": "CACHE_BACKEND",
		"zero ttl":        "CACHE_TTL_CURRENCY_RATES",
		"bad url":         "NEWSAPI_BASE_URL",
	}
	values := map[string]string{
		"CACHE_BACKEND":            "dynamodb",
		"CACHE_TTL_CURRENCY_RATES": "0",
		"NEWSAPI_BASE_URL":         "not a url",
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(env, values[env])
			props, err := resource.LoadBytes(DefaultProperties)
			require.NoError(t, err)

			_, err = Load(props)
			assert.Error(t, err)
		})
	}
}

func TestLoad_MemcachedRequiresServers(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "memcached")
	t.Setenv("MEMCACHED_SERVERS", "")

	props, err := resource.LoadBytes(DefaultProperties)
	require.NoError(t, err)

	_, err = Load(props)
	assert.Error(t, err)
}
