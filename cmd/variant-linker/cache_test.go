package main

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestCacheStatsAndClear_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	viper.Reset()
	viper.SetDefault("cache.location", dir)
	viper.SetDefault("cache.ttl", "1h")
	t.Cleanup(viper.Reset)

	tier, err := openConfiguredCache()
	require.NoError(t, err)
	tier.Set("1-100-A-T", []byte(`{"x":1}`))

	require.NoError(t, runCacheStats())
	require.NoError(t, runCacheClear())

	fresh, err := openConfiguredCache()
	require.NoError(t, err)
	require.False(t, fresh.Has("1-100-A-T"))
}
