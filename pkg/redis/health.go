package redis

import (
	"context"
	"strconv"
	"sync"
	"time"
)

type HealthStatus string

const (
	StatusUp   HealthStatus = "UP"
	StatusDown HealthStatus = "DOWN"
)

// RedisHealthCheck represents the health check response for Redis
type RedisHealthCheck struct {
	Status  HealthStatus      `json:"status"`
	Details map[string]string `json:"details"`
}

// HealthChecker provides Redis health checking functionality
type HealthChecker struct {
	client    *Client
	timeout   time.Duration
	mu        sync.Mutex
	lastCheck time.Time
	lastError string
}

// NewHealthChecker creates a new Redis health checker
func NewHealthChecker(client *Client) *HealthChecker {
	return &HealthChecker{
		client:  client,
		timeout: 5 * time.Second,
	}
}

// HealthCheck performs a round trip against the database and reports pool statistics
func (h *HealthChecker) HealthCheck(ctx context.Context) RedisHealthCheck {
	h.mu.Lock()
	defer h.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	status := StatusUp
	h.lastError = ""
	if err := HealthCheck(ctx, h.client); err != nil {
		status = StatusDown
		h.lastError = err.Error()
	}
	h.lastCheck = time.Now()

	config := h.client.GetConfig()
	stats := h.client.Stats()

	return RedisHealthCheck{
		Status: status,
		Details: map[string]string{
			"addr":        config.Addr(),
			"database":    strconv.Itoa(config.Database),
			"total_conns": strconv.FormatUint(uint64(stats.TotalConns), 10),
			"idle_conns":  strconv.FormatUint(uint64(stats.IdleConns), 10),
			"timeouts":    strconv.FormatUint(uint64(stats.Timeouts), 10),
			"last_check":  h.lastCheck.Format(time.RFC3339),
			"last_error":  h.lastError,
		},
	}
}
