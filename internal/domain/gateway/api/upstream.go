package api

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"time"

	"countries-informer/configs"
	"countries-informer/internal/domain/model/external"
	"countries-informer/internal/infra/metrics"
	"countries-informer/pkg/http"
	"countries-informer/pkg/log"
	"countries-informer/pkg/msg"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// Throttle guards the request quota of an upstream.
type Throttle interface {
	Acquire(ctx context.Context) (string, error)
}

// UpstreamOptions configures one upstream client.
type UpstreamOptions struct {
	Name     string
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
	Backoff  *http.BackoffConfig
	Breaker  *http.BreakerConfig
	Throttle Throttle
	Metrics  *metrics.Metrics
	// Transport overrides the HTTP transport, mainly for tests.
	Transport nethttp.RoundTripper
}

// NewUpstreamOptions maps the configuration of an upstream. Retries stay disabled unless max-retries is set.
func NewUpstreamOptions(cfg configs.UpstreamConfig, throttle Throttle, m *metrics.Metrics) UpstreamOptions {
	opts := UpstreamOptions{
		Name:     cfg.Name,
		BaseURL:  cfg.BaseURL,
		APIKey:   cfg.APIKey,
		Timeout:  cfg.Timeout,
		Throttle: throttle,
		Metrics:  m,
	}
	if cfg.MaxRetries > 0 {
		opts.Backoff = http.NewBackoffConfig().
			WithMaxRetries(cfg.MaxRetries).
			WithIntervals(cfg.InitialBackoff, cfg.MaxBackoff)
	}
	if cfg.BreakerFailures > 0 {
		opts.Breaker = &http.BreakerConfig{
			Name:        cfg.Name,
			MaxFailures: cfg.BreakerFailures,
			OpenTimeout: cfg.BreakerTimeout,
		}
	}
	return opts
}

// upstream runs single requests against one API and turns every failure into an absent result.
type upstream struct {
	name     string
	client   *http.Client
	throttle Throttle
	metrics  *metrics.Metrics
}

func newUpstream(opts UpstreamOptions, headers map[string]string, dismiss404 bool) *upstream {
	var breaker *http.BreakerConfig
	if opts.Breaker != nil {
		cfg := *opts.Breaker
		m := opts.Metrics
		cfg.OnStateChange = func(name string, from, to gobreaker.State) {
			log.Warn(msg.GetMessage("upstream.breaker", name, from.String(), to.String()))
			m.BreakerStateChanged(name, from, to)
		}
		breaker = &cfg
	}

	client := http.NewHttpClient(opts.BaseURL, http.ClientOptions{
		Dismiss404:     dismiss404,
		DefaultHeaders: headers,
		ReadTimeout:    opts.Timeout,
		Backoff:        opts.Backoff,
		Breaker:        breaker,
		Logger:         http.NewZapLogger(opts.Name),
		Transport:      opts.Transport,
	})

	return &upstream{
		name:     opts.Name,
		client:   client,
		throttle: opts.Throttle,
		metrics:  opts.Metrics,
	}
}

// refusal is implemented by payloads that can report an error inside a 2xx answer.
type refusal interface {
	Failure() string
}

// get decodes a successful answer into success. It returns nil when the upstream gave no usable data,
// and an error only when the caller context is done.
func (u *upstream) get(ctx context.Context, subject, path string, query map[string]string, success, errorResp any) (any, error) {
	start := time.Now()

	if u.throttle != nil {
		if _, err := u.throttle.Acquire(ctx); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn(msg.GetMessage("upstream.throttled", u.name, subject), zap.Error(err))
			u.metrics.ObserveUpstream(u.name, metrics.UpstreamThrottled, time.Since(start))
			return nil, nil
		}
	}

	resp, errResp, status, err := u.client.Request().
		WithContext(ctx).
		WithMethod(http.GET).
		WithPath(path).
		WithQueryParams(query).
		WithSuccessResp(success).
		WithErrorResp(errorResp).
		Execute()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	why := ""
	switch {
	case err != nil || resp == nil:
		why = reason(status, err, errResp)
	default:
		if refused, ok := resp.(refusal); ok {
			why = refused.Failure()
		}
	}
	if why != "" {
		log.Warn(msg.GetMessage("upstream.absent", u.name, subject, why),
			zap.String("upstream", u.name),
			zap.Int("status", status))
		u.metrics.ObserveUpstream(u.name, metrics.UpstreamAbsent, time.Since(start))
		return nil, nil
	}

	u.metrics.ObserveUpstream(u.name, metrics.UpstreamOK, time.Since(start))
	return resp, nil
}

func reason(status int, err error, errResp any) string {
	if message := upstreamMessage(errResp); message != "" {
		return fmt.Sprintf("status %d: %s", status, message)
	}
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "circuit breaker open"
	case err != nil:
		return err.Error()
	case status == nethttp.StatusNotFound:
		return "not found"
	default:
		return fmt.Sprintf("status %d", status)
	}
}

func upstreamMessage(errResp any) string {
	switch e := errResp.(type) {
	case *external.OpenWeatherError:
		return e.Message
	case *external.ApilayerError:
		return e.Message
	case *external.NewsAPIError:
		return e.Message
	default:
		return ""
	}
}

// BreakerState reports the breaker state of the upstream.
func (u *upstream) BreakerState() gobreaker.State {
	return u.client.BreakerState()
}
