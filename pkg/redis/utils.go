package redis

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const healthCheckKey = "health_check_test"

// HealthCheck performs a round trip on the Redis connection
func HealthCheck(ctx context.Context, client *Client) error {
	if err := client.Ping(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}

	testValue := "test_value"
	if err := client.Set(ctx, healthCheckKey, testValue, time.Minute); err != nil {
		return fmt.Errorf("set operation failed: %w", err)
	}

	value, found, err := client.Lookup(ctx, healthCheckKey)
	if err != nil {
		return fmt.Errorf("get operation failed: %w", err)
	}
	if !found || string(value) != testValue {
		return fmt.Errorf("value mismatch: expected %s, got %s", testValue, value)
	}

	if err := client.Delete(ctx, healthCheckKey); err != nil {
		return fmt.Errorf("delete operation failed: %w", err)
	}
	return nil
}

// ScanKeys scans for keys matching a pattern
func ScanKeys(ctx context.Context, client *Client, pattern string, count int64) ([]string, error) {
	var keys []string
	var cursor uint64

	for {
		scanKeys, nextCursor, err := client.Scan(ctx, cursor, pattern, count)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}

		keys = append(keys, scanKeys...)
		cursor = nextCursor

		if cursor == 0 {
			break
		}
	}

	return keys, nil
}

// DeleteKeysByPattern deletes all keys matching a pattern
func DeleteKeysByPattern(ctx context.Context, client *Client, pattern string, batchSize int64) error {
	keys, err := ScanKeys(ctx, client, pattern, batchSize)
	if err != nil {
		return fmt.Errorf("failed to scan keys: %w", err)
	}

	for i := 0; i < len(keys); i += int(batchSize) {
		end := min(i+int(batchSize), len(keys))
		if err := client.Delete(ctx, keys[i:end]...); err != nil {
			return fmt.Errorf("failed to delete batch: %w", err)
		}
	}

	return nil
}

// IsConnectionError checks if an error is a connection error
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}

	errorStr := strings.ToLower(err.Error())
	connectionErrors := []string{
		"connection refused",
		"connection reset",
		"connection timeout",
		"network is unreachable",
		"no such host",
		"i/o timeout",
	}

	for _, connErr := range connectionErrors {
		if strings.Contains(errorStr, connErr) {
			return true
		}
	}

	return false
}
