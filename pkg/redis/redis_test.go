package redis

import (
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, mr *miniredis.Miniredis, database int) *Client {
	t.Helper()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	client := NewClient(NewRedisConfig().
		WithHost(mr.Host()).
		WithPort(port).
		WithDatabase(database).
		WithMaxRetries(0))
	t.Cleanup(func() { _ = client.Close() })
	return client
}
