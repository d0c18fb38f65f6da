package http

import (
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerConfig configures the circuit breaker around outbound calls
type BreakerConfig struct {
	Name string
	// MaxFailures consecutive failures open the breaker
	MaxFailures uint32
	// OpenTimeout is how long the breaker stays open before probing
	OpenTimeout time.Duration
	// OnStateChange is called on every transition
	OnStateChange func(name string, from, to gobreaker.State)
}

func newBreaker(cfg BreakerConfig) *gobreaker.CircuitBreaker[*rawResponse] {
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}

	return gobreaker.NewCircuitBreaker[*rawResponse](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: cfg.OnStateChange,
	})
}

// BreakerState returns the current breaker state, or closed when no breaker is configured
func (hc *Client) BreakerState() gobreaker.State {
	if hc.breaker == nil {
		return gobreaker.StateClosed
	}
	return hc.breaker.State()
}
