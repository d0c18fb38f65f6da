package http

import (
	"errors"
	"math"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
)

// BackoffConfig is a bounded exponential backoff with full jitter.
type BackoffConfig struct {
	// MaxRetries is the number of attempts after the first one
	MaxRetries int
	// InitialInterval is the upper bound of the first delay
	InitialInterval time.Duration
	// MaxInterval caps every delay
	MaxInterval time.Duration
	// Multiplier grows the bound between attempts
	Multiplier float64
}

// NewBackoffConfig creates a backoff configuration with default values
func NewBackoffConfig() *BackoffConfig {
	return &BackoffConfig{
		MaxRetries:      0,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		Multiplier:      2,
	}
}

// WithMaxRetries sets the number of retries
func (b *BackoffConfig) WithMaxRetries(maxRetries int) *BackoffConfig {
	if maxRetries < 0 {
		panic("invalid max retries, must be non-negative")
	}
	b.MaxRetries = maxRetries
	return b
}

// WithIntervals sets the initial and maximum delay
func (b *BackoffConfig) WithIntervals(initial, maxInterval time.Duration) *BackoffConfig {
	if initial < 0 || maxInterval < 0 {
		panic("invalid backoff intervals, must be non-negative")
	}
	b.InitialInterval = initial
	b.MaxInterval = maxInterval
	return b
}

// shouldRetry reports transport errors, 429 and 5xx. An open breaker is never retried.
func (b *BackoffConfig) shouldRetry(status int, err error) bool {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return false
	}
	if status == http.StatusTooManyRequests || status >= http.StatusInternalServerError {
		return true
	}
	return status == 0 && err != nil
}

func (b *BackoffConfig) delay(attempt int) time.Duration {
	if b.InitialInterval <= 0 {
		return 0
	}
	multiplier := b.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}
	bound := float64(b.InitialInterval) * math.Pow(multiplier, float64(attempt))
	if b.MaxInterval > 0 && bound > float64(b.MaxInterval) {
		bound = float64(b.MaxInterval)
	}
	return time.Duration(rand.Int64N(int64(bound) + 1))
}
