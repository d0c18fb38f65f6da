package msg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMessage(t *testing.T) {
	require.NoError(t, InitBytes([]byte(`
cache:
  hit: "Cache hit in namespace {0} for key {1}"
upstream:
  absent: "Upstream {0} returned no data: {1}"
`)))

	assert.Equal(t, "Cache hit in namespace weather for key Moscow,RU",
		GetMessage("cache.hit", "weather", "Moscow,RU"))
	assert.Equal(t, `Upstream news returned no data: {"country":"us"}`,
		GetMessage("upstream.absent", "news", map[string]string{"country": "us"}))
	assert.Equal(t, "Message not found: cache.miss", GetMessage("cache.miss"))
}
