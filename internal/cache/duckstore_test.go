package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuckStore_WriteAndLookup(t *testing.T) {
	store, err := OpenDuckStore("")
	require.NoError(t, err)
	defer store.Close()

	err = store.WriteResults([]CachedResult{
		{VariantKey: "1-100-A-G", Chrom: "1", Pos: 100, Ref: "A", Alt: "G", Payload: []byte(`{"most_severe_consequence":"missense_variant"}`)},
	})
	require.NoError(t, err)

	payload, ok, err := store.Lookup("1-100-A-G")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"most_severe_consequence":"missense_variant"}`, string(payload))
}

func TestDuckStore_LookupMiss(t *testing.T) {
	store, err := OpenDuckStore("")
	require.NoError(t, err)
	defer store.Close()

	_, ok, err := store.Lookup("does-not-exist")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDuckStore_WriteResultsDeduplicatesAndReplaces(t *testing.T) {
	store, err := OpenDuckStore("")
	require.NoError(t, err)
	defer store.Close()

	err = store.WriteResults([]CachedResult{
		{VariantKey: "1-100-A-G", Payload: []byte(`{"v":1}`)},
		{VariantKey: "1-100-A-G", Payload: []byte(`{"v":2}`)},
	})
	require.NoError(t, err)

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	err = store.WriteResults([]CachedResult{
		{VariantKey: "1-100-A-G", Payload: []byte(`{"v":3}`)},
	})
	require.NoError(t, err)

	payload, ok, err := store.Lookup("1-100-A-G")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"v":3}`, string(payload))
}

func TestDuckStore_ClearAndCount(t *testing.T) {
	store, err := OpenDuckStore("")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.WriteResults([]CachedResult{
		{VariantKey: "1-1-A-G", Payload: []byte(`{}`)},
		{VariantKey: "1-2-A-G", Payload: []byte(`{}`)},
	}))

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, store.Clear())
	count, err = store.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestDuckStore_WriteResultsEmpty(t *testing.T) {
	store, err := OpenDuckStore("")
	require.NoError(t, err)
	defer store.Close()

	assert.NoError(t, store.WriteResults(nil))
}
