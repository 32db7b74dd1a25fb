package restclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vlinker/variant-linker/internal/cache"
)

func newTestCache(t *testing.T) *cache.Tier {
	t.Helper()
	tier, err := cache.New(cache.Options{Location: t.TempDir(), TTL: time.Hour})
	require.NoError(t, err)
	return tier
}
