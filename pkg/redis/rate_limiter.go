package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ErrRateLimited is returned by Acquire when a window is exhausted
var ErrRateLimited = errors.New("rate limit reached")

// RateLimiterOptions represents options for rate limiting
type RateLimiterOptions struct {
	// MaxTransactionsPerSecond is the maximum number of transactions per second (optional)
	MaxTransactionsPerSecond int
	// MaxTransactionsPerMinute is the maximum number of transactions per minute (optional)
	MaxTransactionsPerMinute int
	// WaitOnLimit indicates whether to wait when limit is reached (true) or return error immediately (false)
	WaitOnLimit bool
	// WaitTimeout is the maximum time to wait when WaitOnLimit is true
	WaitTimeout time.Duration
	// RetryDelay is the delay between retry attempts when waiting
	RetryDelay time.Duration
	// Namespace is the namespace for organizing rate limiters
	Namespace string
}

// NewRateLimiterOptions creates a new rate limiter options with default values
func NewRateLimiterOptions() *RateLimiterOptions {
	return &RateLimiterOptions{
		WaitOnLimit: false,
		WaitTimeout: 5 * time.Second,
		RetryDelay:  100 * time.Millisecond,
		Namespace:   "quota",
	}
}

// WithMaxTransactionsPerSecond sets the maximum number of transactions per second
func (rlo *RateLimiterOptions) WithMaxTransactionsPerSecond(max int) *RateLimiterOptions {
	if max < 0 {
		panic(fmt.Sprintf("invalid max transactions per second: %d, must be non-negative", max))
	}
	rlo.MaxTransactionsPerSecond = max
	return rlo
}

// WithMaxTransactionsPerMinute sets the maximum number of transactions per minute
func (rlo *RateLimiterOptions) WithMaxTransactionsPerMinute(max int) *RateLimiterOptions {
	if max < 0 {
		panic(fmt.Sprintf("invalid max transactions per minute: %d, must be non-negative", max))
	}
	rlo.MaxTransactionsPerMinute = max
	return rlo
}

// WithWaitOnLimit sets whether to wait when limit is reached
func (rlo *RateLimiterOptions) WithWaitOnLimit(wait bool) *RateLimiterOptions {
	rlo.WaitOnLimit = wait
	return rlo
}

// WithWaitTimeout sets the maximum time to wait when WaitOnLimit is true
func (rlo *RateLimiterOptions) WithWaitTimeout(timeout time.Duration) *RateLimiterOptions {
	if timeout < 0 {
		panic(fmt.Sprintf("invalid wait timeout: %v, must be non-negative", timeout))
	}
	rlo.WaitTimeout = timeout
	return rlo
}

// WithNamespace sets the namespace for organizing rate limiters
func (rlo *RateLimiterOptions) WithNamespace(namespace string) *RateLimiterOptions {
	rlo.Namespace = namespace
	return rlo
}

// Validate validates the rate limiter options
func (rlo *RateLimiterOptions) Validate() error {
	if rlo.MaxTransactionsPerSecond == 0 && rlo.MaxTransactionsPerMinute == 0 {
		return fmt.Errorf("at least one limit must be configured (MaxTransactionsPerSecond or MaxTransactionsPerMinute)")
	}
	return nil
}

// RateLimiter is a distributed sliding window limiter shared by every instance using the same key
type RateLimiter struct {
	client     *Client
	key        string
	opts       *RateLimiterOptions
	tpsKeyName string
	tpmKeyName string
}

// NewRateLimiter creates a new distributed rate limiter
func NewRateLimiter(client *Client, key string, opts *RateLimiterOptions) (*RateLimiter, error) {
	if opts == nil {
		opts = NewRateLimiterOptions()
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	limiter := &RateLimiter{
		client: client,
		key:    key,
		opts:   opts,
	}
	limiter.tpsKeyName = limiter.buildKey("tps")
	limiter.tpmKeyName = limiter.buildKey("tpm")

	return limiter, nil
}

// buildKey constructs the full key using Namespace::key::suffix format
func (rl *RateLimiter) buildKey(suffix string) string {
	if rl.opts.Namespace != "" {
		return rl.opts.Namespace + "::" + rl.key + "::" + suffix
	}
	return rl.key + "::" + suffix
}

// Acquire takes one slot in every configured window and returns its id.
func (rl *RateLimiter) Acquire(ctx context.Context) (string, error) {
	if rl.opts.WaitOnLimit {
		return rl.acquireWithWait(ctx)
	}
	return rl.acquireImmediate(ctx)
}

func (rl *RateLimiter) acquireImmediate(ctx context.Context) (string, error) {
	transactionID := uuid.NewString()
	nowMillis := time.Now().UnixMilli()

	result, err := rl.client.GetClient().Eval(ctx, acquireScript, []string{
		rl.tpsKeyName,
		rl.tpmKeyName,
	},
		rl.opts.MaxTransactionsPerSecond,
		rl.opts.MaxTransactionsPerMinute,
		transactionID,
		nowMillis,
	).Int64()
	if err != nil {
		return "", fmt.Errorf("failed to acquire rate limiter: %w", err)
	}

	// 1 = success, -1 = TPS limit, -2 = TPM limit
	switch result {
	case 1:
		return transactionID, nil
	case -1:
		return "", fmt.Errorf("%w: %d transactions per second", ErrRateLimited, rl.opts.MaxTransactionsPerSecond)
	case -2:
		return "", fmt.Errorf("%w: %d transactions per minute", ErrRateLimited, rl.opts.MaxTransactionsPerMinute)
	default:
		return "", fmt.Errorf("unknown rate limiter result: %d", result)
	}
}

func (rl *RateLimiter) acquireWithWait(ctx context.Context) (string, error) {
	deadline := time.Now().Add(rl.opts.WaitTimeout)

	for {
		transactionID, err := rl.acquireImmediate(ctx)
		if err == nil {
			return transactionID, nil
		}
		if !errors.Is(err, ErrRateLimited) {
			return "", err
		}

		if time.Now().After(deadline) {
			return "", fmt.Errorf("timeout waiting for rate limiter: %w", err)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(rl.opts.RetryDelay):
		}
	}
}

// Usage returns the number of slots taken in the current windows
func (rl *RateLimiter) Usage(ctx context.Context) (perSecond, perMinute int64, err error) {
	now := time.Now()
	perSecond, err = rl.client.GetClient().ZCount(ctx, rl.tpsKeyName,
		strconv.FormatInt(now.Add(-time.Second).UnixMilli(), 10), "+inf").Result()
	if err != nil {
		return 0, 0, err
	}
	perMinute, err = rl.client.GetClient().ZCount(ctx, rl.tpmKeyName,
		strconv.FormatInt(now.Add(-time.Minute).UnixMilli(), 10), "+inf").Result()
	if err != nil {
		return 0, 0, err
	}
	return perSecond, perMinute, nil
}

// Cleanup removes all keys associated with this rate limiter
func (rl *RateLimiter) Cleanup(ctx context.Context) error {
	return rl.client.Delete(ctx, rl.tpsKeyName, rl.tpmKeyName)
}

const acquireScript = `
local tps_key = KEYS[1]
local tpm_key = KEYS[2]

local max_tps = tonumber(ARGV[1])
local max_tpm = tonumber(ARGV[2])
local transaction_id = ARGV[3]
local now_millis = tonumber(ARGV[4])

if max_tps > 0 then
	local tps_cutoff = now_millis - 1000
	redis.call("ZREMRANGEBYSCORE", tps_key, "-inf", tps_cutoff)
	if redis.call("ZCARD", tps_key) >= max_tps then
		return -1
	end
end

if max_tpm > 0 then
	local tpm_cutoff = now_millis - 60000
	redis.call("ZREMRANGEBYSCORE", tpm_key, "-inf", tpm_cutoff)
	if redis.call("ZCARD", tpm_key) >= max_tpm then
		return -2
	end
end

if max_tps > 0 then
	redis.call("ZADD", tps_key, now_millis, transaction_id)
	redis.call("EXPIRE", tps_key, 2)
end

if max_tpm > 0 then
	redis.call("ZADD", tpm_key, now_millis, transaction_id)
	redis.call("EXPIRE", tpm_key, 61)
end

return 1
`
