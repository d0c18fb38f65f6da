package schedule

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"countries-informer/internal/domain/model"
	"countries-informer/internal/infra/metrics"
	"countries-informer/pkg/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCurrencyUseCase struct {
	mock.Mock
}

func (m *mockCurrencyUseCase) GetCurrency(ctx context.Context, base string) (*model.CurrencyRatesDTO, error) {
	args := m.Called(ctx, base)
	return nil, args.Error(1)
}

func (m *mockCurrencyUseCase) RefreshCurrency(ctx context.Context, base string) (*model.CurrencyRatesDTO, error) {
	args := m.Called(ctx, base)
	rates, _ := args.Get(0).(*model.CurrencyRatesDTO)
	return rates, args.Error(1)
}

type mockNewsUseCase struct {
	mock.Mock
}

func (m *mockNewsUseCase) GetNews(ctx context.Context, query model.NewsQuery) (*model.NewsFeedDTO, error) {
	args := m.Called(ctx, query)
	return nil, args.Error(1)
}

func (m *mockNewsUseCase) RefreshNews(ctx context.Context, query model.NewsQuery) (*model.NewsFeedDTO, error) {
	args := m.Called(ctx, query)
	feed, _ := args.Get(0).(*model.NewsFeedDTO)
	return feed, args.Error(1)
}

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func newTestClient(t *testing.T, mr *miniredis.Miniredis) *redis.Client {
	t.Helper()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	client := redis.NewClient(redis.NewRedisConfig().WithHost(mr.Host()).WithPort(port).WithMaxRetries(0))
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestCurrencyScheduler_RefreshesEveryBase(t *testing.T) {
	mr := miniredis.RunT(t)
	useCase := new(mockCurrencyUseCase)
	useCase.On("RefreshCurrency", mock.Anything, "USD").Return(&model.CurrencyRatesDTO{}, nil).Once()
	useCase.On("RefreshCurrency", mock.Anything, "EUR").Return(nil, errors.New("quota exhausted")).Once()
	m := metrics.New()

	scheduler := NewCurrencyScheduler(useCase, newTestClient(t, mr), m, CurrencySchedulerConfig{
		CronExpression: "0 */6 * * *",
		LockTTL:        time.Minute,
		Bases:          []string{"USD", "EUR"},
	})
	scheduler.ExecuteScheduledTask(context.Background())

	useCase.AssertExpectations(t)
	assert.False(t, mr.Exists("schedule::currency-warmup"), "lock released after the run")
	assert.Contains(t, scrape(t, m), `scheduled_runs_total{job="currency-warmup",outcome="error"} 1`)
}

func TestCurrencyScheduler_AbsentRatesAreNotSuccess(t *testing.T) {
	mr := miniredis.RunT(t)
	useCase := new(mockCurrencyUseCase)
	useCase.On("RefreshCurrency", mock.Anything, "USD").Return(&model.CurrencyRatesDTO{}, nil).Once()
	useCase.On("RefreshCurrency", mock.Anything, "RUB").Return(nil, nil).Once()
	m := metrics.New()

	scheduler := NewCurrencyScheduler(useCase, newTestClient(t, mr), m, CurrencySchedulerConfig{
		LockTTL: time.Minute,
		Bases:   []string{"USD", "RUB"},
	})
	scheduler.ExecuteScheduledTask(context.Background())

	useCase.AssertExpectations(t)
	body := scrape(t, m)
	assert.Contains(t, body, `scheduled_runs_total{job="currency-warmup",outcome="absent"} 1`)
	assert.NotContains(t, body, `outcome="success"`)
}

func TestFoldOutcome(t *testing.T) {
	failure := errors.New("boom")
	assert.Equal(t, metrics.RunSuccess, foldOutcome(metrics.RunSuccess, currencyJob, "USD", false, nil, "id"))
	assert.Equal(t, metrics.RunAbsent, foldOutcome(metrics.RunSuccess, currencyJob, "USD", true, nil, "id"))
	assert.Equal(t, metrics.RunError, foldOutcome(metrics.RunAbsent, currencyJob, "USD", true, failure, "id"))
	assert.Equal(t, metrics.RunError, foldOutcome(metrics.RunError, currencyJob, "USD", true, nil, "id"))
	assert.Equal(t, metrics.RunAbsent, foldOutcome(metrics.RunAbsent, currencyJob, "USD", false, nil, "id"))
}

func TestCurrencyScheduler_SkipsWhenLockHeld(t *testing.T) {
	mr := miniredis.RunT(t)
	client := newTestClient(t, mr)
	holder := redis.NewLock(client, currencyJob, redis.NewLockOptions().WithTTL(time.Minute).WithLockNamespace(lockNamespace))
	require.NoError(t, holder.Lock(context.Background()))

	useCase := new(mockCurrencyUseCase)
	scheduler := NewCurrencyScheduler(useCase, client, nil, CurrencySchedulerConfig{LockTTL: time.Minute, Bases: []string{"USD"}})
	scheduler.ExecuteScheduledTask(context.Background())

	useCase.AssertNotCalled(t, "RefreshCurrency", mock.Anything, mock.Anything)
}

func TestCurrencyScheduler_InvalidCron(t *testing.T) {
	scheduler := NewCurrencyScheduler(new(mockCurrencyUseCase), nil, nil, CurrencySchedulerConfig{CronExpression: "every day"})
	assert.Error(t, scheduler.InitCurrencyScheduleTasks(context.Background()))
}

func TestRedisLocker_OneHolderPerKey(t *testing.T) {
	mr := miniredis.RunT(t)
	locker := &redisLocker{client: newTestClient(t, mr), ttl: time.Minute}
	ctx := context.Background()

	first, err := locker.Lock(ctx, newsJob)
	require.NoError(t, err)
	_, err = locker.Lock(ctx, newsJob)
	assert.ErrorIs(t, err, redis.ErrLockNotAcquired)

	require.NoError(t, first.Unlock(ctx))
	second, err := locker.Lock(ctx, newsJob)
	require.NoError(t, err)
	require.NoError(t, second.Unlock(ctx))
}

func TestNewsScheduler_RefreshesEveryCountry(t *testing.T) {
	mr := miniredis.RunT(t)
	useCase := new(mockNewsUseCase)
	useCase.On("RefreshNews", mock.Anything, model.NewsQuery{Country: "us"}).Return(&model.NewsFeedDTO{}, nil).Once()
	useCase.On("RefreshNews", mock.Anything, model.NewsQuery{Country: "gb"}).Return(nil, nil).Once()
	m := metrics.New()

	scheduler, err := NewNewsScheduler(useCase, newTestClient(t, mr), m, NewsSchedulerConfig{
		CronExpression: "*/30 * * * *",
		LockTTL:        time.Minute,
		Countries:      []string{"us", "gb"},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, scheduler.InitNewsScheduleTasks(ctx))
	scheduler.ExecuteScheduledTask(ctx)

	useCase.AssertExpectations(t)
	assert.Contains(t, scrape(t, m), `scheduled_runs_total{job="news-warmup",outcome="absent"} 1`)
}
