package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rates struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

type apiError struct {
	Message string `json:"message"`
}

func noSleep(context.Context, time.Duration) error { return nil }

func TestRequest_DecodesSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/exchangerates_data/latest", r.URL.Path)
		assert.Equal(t, "USD", r.URL.Query().Get("base"))
		assert.Equal(t, "secret", r.Header.Get("apikey"))
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = fmt.Fprint(w, `{"base":"USD","rates":{"EUR":0.92}}`)
	}))
	defer server.Close()

	client := NewHttpClient(server.URL+"/", ClientOptions{DefaultHeaders: map[string]string{"apikey": "secret"}})

	resp, _, status, err := client.Request().
		WithContext(context.Background()).
		WithPath("exchangerates_data/latest").
		WithQueryParams(map[string]string{"base": "USD"}).
		WithSuccessResp(&rates{}).
		Execute()

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, &rates{Base: "USD", Rates: map[string]float64{"EUR": 0.92}}, resp)
}

func TestRequest_EscapesQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "New York,US", r.URL.Query().Get("q"))
		_, _ = fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	_, _, _, err := NewHttpClient(server.URL, ClientOptions{}).Request().
		WithPath("/data/2.5/weather").
		WithQueryParams(map[string]string{"q": "New York,US"}).
		Execute()
	require.NoError(t, err)
}

func TestRequest_ErrorResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = fmt.Fprint(w, `{"message":"invalid api key"}`)
	}))
	defer server.Close()

	_, errResp, status, err := NewHttpClient(server.URL, ClientOptions{}).Request().
		WithSuccessResp(&rates{}).
		WithErrorResp(&apiError{}).
		Execute()

	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, &apiError{Message: "invalid api key"}, errResp)
}

func TestRequest_Dismiss404(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	resp, errResp, status, err := NewHttpClient(server.URL, ClientOptions{Dismiss404: true}).Request().
		WithSuccessResp(&rates{}).
		Execute()

	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Nil(t, resp)
	assert.Nil(t, errResp)
}

func TestRequest_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = fmt.Fprint(w, `{"base":"EUR"}`)
	}))
	defer server.Close()

	client := NewHttpClient(server.URL, ClientOptions{Backoff: NewBackoffConfig().WithMaxRetries(3)})
	client.sleep = noSleep

	resp, _, status, err := client.Request().WithSuccessResp(&rates{}).Execute()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "EUR", resp.(*rates).Base)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRequest_NoRetryByDefault(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, _, status, err := NewHttpClient(server.URL, ClientOptions{}).Request().WithSuccessResp(&rates{}).Execute()
	require.Error(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRequest_ClientErrorsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewHttpClient(server.URL, ClientOptions{Backoff: NewBackoffConfig().WithMaxRetries(3)})
	client.sleep = noSleep

	_, _, _, err := client.Request().Execute()
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRequest_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"base":`)
	}))
	defer server.Close()

	_, _, status, err := NewHttpClient(server.URL, ClientOptions{}).Request().WithSuccessResp(&rates{}).Execute()
	require.Error(t, err)
	assert.Equal(t, http.StatusOK, status)
}

func TestRequest_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer server.Close()

	_, _, status, err := NewHttpClient(server.URL, ClientOptions{ReadTimeout: 50 * time.Millisecond}).Request().Execute()
	require.Error(t, err)
	assert.Zero(t, status)
}

func TestBreaker_OpensAfterFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	var transitions []gobreaker.State
	client := NewHttpClient(server.URL, ClientOptions{Breaker: &BreakerConfig{
		Name:        "newsapi",
		MaxFailures: 2,
		OpenTimeout: time.Minute,
		OnStateChange: func(name string, from, to gobreaker.State) {
			transitions = append(transitions, to)
		},
	}})

	for i := 0; i < 2; i++ {
		_, _, _, err := client.Request().Execute()
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, client.BreakerState())

	_, _, status, err := client.Request().Execute()
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
	assert.Zero(t, status)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, []gobreaker.State{gobreaker.StateOpen}, transitions)
}

func TestMasking(t *testing.T) {
	masked := MaskURL("https://api.openweathermap.org/data/2.5/weather?q=Moscow,RU&appid=secret")
	assert.NotContains(t, masked, "secret")
	assert.Contains(t, masked, "q=Moscow%2CRU")

	headers := MaskHeaders(map[string]string{"X-Api-Key": "secret", "Accept": "application/json"})
	assert.Equal(t, redacted, headers["X-Api-Key"])
	assert.Equal(t, "application/json", headers["Accept"])
}

type errorRecorder struct {
	errs []error
}

func (r *errorRecorder) LogRequest(string, string, map[string]string, string) {}

func (r *errorRecorder) LogResponseSuccess(string, string, map[string]string, string, int, string, int64) {
}

func (r *errorRecorder) LogResponseError(_, _ string, _ map[string]string, _ string, _ int, _ string, _ int64, err error) {
	r.errs = append(r.errs, err)
}

func (r *errorRecorder) LogRequestRetry(_, _ string, _ map[string]string, _ string, _ int, _ string, _ int64, err error, _, _ int) {
	r.errs = append(r.errs, err)
}

func TestRequest_TransportErrorMasksCredentials(t *testing.T) {
	recorder := &errorRecorder{}
	client := NewHttpClient("http://127.0.0.1:1", ClientOptions{
		Logger:  recorder,
		Backoff: NewBackoffConfig().WithMaxRetries(1),
	})
	client.sleep = noSleep

	_, _, status, err := client.Request().
		WithPath("/data/2.5/weather").
		WithQueryParams(map[string]string{"q": "Moscow,RU", "appid": "SUPERSECRET123"}).
		Execute()
	require.Error(t, err)
	assert.Zero(t, status)
	assert.NotContains(t, err.Error(), "SUPERSECRET123")
	assert.Contains(t, err.Error(), "127.0.0.1:1")

	require.Len(t, recorder.errs, 2)
	for _, logged := range recorder.errs {
		assert.NotContains(t, logged.Error(), "SUPERSECRET123")
	}
}

func TestBackoff_DelayIsBounded(t *testing.T) {
	backoff := NewBackoffConfig().WithIntervals(100*time.Millisecond, 300*time.Millisecond)
	for attempt := 0; attempt < 10; attempt++ {
		d := backoff.delay(attempt)
		assert.GreaterOrEqual(t, d, time.Duration(0))
		assert.LessOrEqual(t, d, 300*time.Millisecond)
	}
	assert.False(t, backoff.shouldRetry(0, gobreaker.ErrOpenState))
	assert.True(t, backoff.shouldRetry(http.StatusTooManyRequests, nil))
	assert.False(t, backoff.shouldRetry(http.StatusNotFound, errors.New("http error")))
}
