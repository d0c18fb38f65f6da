package currency

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"countries-informer/configs"
	"countries-informer/internal/domain/gateway/api"
	"countries-informer/internal/domain/gateway/cache"
	"countries-informer/internal/domain/model"
	infracache "countries-informer/internal/infra/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCurrencyNamespace(t *testing.T) cache.Namespace {
	t.Helper()
	ns, err := infracache.NewMemoryNamespace(configs.NamespaceConfig{
		Name: "currency", Prefix: "currency", Database: 2, TTL: 86400 * time.Second, Codec: "zstd",
	}, time.Now)
	require.NoError(t, err)
	return ns
}

func newGateway(url string) api.CurrencyGateway {
	return api.NewCurrencyGateway(api.UpstreamOptions{Name: "currency", BaseURL: url, APIKey: "secret", Timeout: time.Second})
}

func TestGetCurrency_ServiceUnavailableIsAbsent(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ns := newCurrencyNamespace(t)
	useCase := NewCurrencyUseCase(newGateway(server.URL), ns, true, nil)

	rates, err := useCase.GetCurrency(context.Background(), "USD")
	require.NoError(t, err)
	assert.Nil(t, rates)

	found, err := ns.Get(context.Background(), "USD", &model.CurrencyRatesDTO{})
	require.NoError(t, err)
	assert.False(t, found)

	_, err = useCase.GetCurrency(context.Background(), "USD")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGetCurrency_CachesUpperCasedBase(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "EUR", r.URL.Query().Get("base"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"success":true,"base":"EUR","date":"2024-05-02","rates":{"usd":1.07,"GBP":0.85}}`)
	}))
	defer server.Close()

	ns := newCurrencyNamespace(t)
	useCase := NewCurrencyUseCase(newGateway(server.URL), ns, true, nil)

	first, err := useCase.GetCurrency(context.Background(), "eur")
	require.NoError(t, err)
	require.NotNil(t, first)
	rate, ok := first.Rate("USD")
	assert.True(t, ok)
	assert.Equal(t, 1.07, rate)

	second, err := useCase.GetCurrency(context.Background(), "EUR")
	require.NoError(t, err)
	assert.True(t, first.Equal(*second))
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetCurrency_InvalidPayloadIsNotCached(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"success":true,"base":"USD","date":"14/11/2023"}`)
	}))
	defer server.Close()

	ns := newCurrencyNamespace(t)
	useCase := NewCurrencyUseCase(newGateway(server.URL), ns, true, nil)

	_, err := useCase.GetCurrency(context.Background(), "USD")
	assert.ErrorIs(t, err, model.ErrValidation)

	found, err := ns.Get(context.Background(), "USD", &model.CurrencyRatesDTO{})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetCurrency_InvalidBase(t *testing.T) {
	useCase := NewCurrencyUseCase(newGateway("http://127.0.0.1:1"), newCurrencyNamespace(t), true, nil)
	_, err := useCase.GetCurrency(context.Background(), "DOLLAR")
	assert.ErrorIs(t, err, model.ErrInvalidQuery)
}

func TestRefreshCurrency_OverwritesCache(t *testing.T) {
	var rate atomic.Int32
	rate.Store(90)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"base":"USD","date":"2024-05-02","rates":{"EUR":0.%d}}`, rate.Load())
	}))
	defer server.Close()

	useCase := NewCurrencyUseCase(newGateway(server.URL), newCurrencyNamespace(t), true, nil)
	ctx := context.Background()

	_, err := useCase.GetCurrency(ctx, "USD")
	require.NoError(t, err)
	rate.Store(95)
	_, err = useCase.RefreshCurrency(ctx, "USD")
	require.NoError(t, err)

	cached, err := useCase.GetCurrency(ctx, "USD")
	require.NoError(t, err)
	eur, _ := cached.Rate("EUR")
	assert.Equal(t, 0.95, eur)
}
