package cache

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_SetGet(t *testing.T) {
	fs, err := NewFileStore(t.TempDir(), time.Hour, 0)
	require.NoError(t, err)

	require.NoError(t, fs.Set("1-100-A-G", []byte(`{"x":1}`)))

	got, ok := fs.Get("1-100-A-G")
	assert.True(t, ok)
	assert.JSONEq(t, `{"x":1}`, string(got))
}

func TestFileStore_Miss(t *testing.T) {
	fs, err := NewFileStore(t.TempDir(), time.Hour, 0)
	require.NoError(t, err)

	_, ok := fs.Get("does-not-exist")
	assert.False(t, ok)
}

func TestFileStore_TTLExpiry(t *testing.T) {
	fs, err := NewFileStore(t.TempDir(), 10*time.Millisecond, 0)
	require.NoError(t, err)
	require.NoError(t, fs.Set("k", []byte(`1`)))

	time.Sleep(30 * time.Millisecond)
	_, ok := fs.Get("k")
	assert.False(t, ok)
}

func TestFileStore_RemoveAndClear(t *testing.T) {
	fs, err := NewFileStore(t.TempDir(), time.Hour, 0)
	require.NoError(t, err)

	require.NoError(t, fs.Set("a", []byte(`1`)))
	require.NoError(t, fs.Set("b", []byte(`2`)))

	require.NoError(t, fs.Remove("a"))
	_, ok := fs.Get("a")
	assert.False(t, ok)

	require.NoError(t, fs.Clear())
	stats, err := fs.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Entries)
}

func TestFileStore_Stats(t *testing.T) {
	fs, err := NewFileStore(t.TempDir(), time.Hour, 0)
	require.NoError(t, err)

	require.NoError(t, fs.Set("a", []byte(`"hello"`)))
	require.NoError(t, fs.Set("b", []byte(`"world"`)))

	stats, err := fs.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, 0, stats.ExpiredEntries)
	assert.Positive(t, stats.TotalSize)
}

func TestFileStore_StatsCountsExpiredEntriesSeparately(t *testing.T) {
	fs, err := NewFileStore(t.TempDir(), 10*time.Millisecond, 0)
	require.NoError(t, err)

	require.NoError(t, fs.Set("stale", []byte(`"hello"`)))
	time.Sleep(30 * time.Millisecond)
	require.NoError(t, fs.Set("fresh", []byte(`"world"`)))

	stats, err := fs.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, 1, stats.ExpiredEntries)
}

func TestFileStore_EvictsOverCapacity(t *testing.T) {
	fs, err := NewFileStore(t.TempDir(), time.Hour, 120)
	require.NoError(t, err)

	require.NoError(t, fs.Set("a", []byte(`"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"`)))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, fs.Set("b", []byte(`"bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"`)))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, fs.Set("c", []byte(`"cccccccccccccccccccccccccccccccccccccccc"`)))

	stats, err := fs.Stats()
	require.NoError(t, err)
	assert.LessOrEqual(t, stats.TotalSize, int64(200))
	_, ok := fs.Get("a")
	assert.False(t, ok, "oldest entry should have been evicted")
}

func TestFileStore_CorruptEntryIsTreatedAsMiss(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir, time.Hour, 0)
	require.NoError(t, err)

	require.NoError(t, fs.Set("k", []byte(`1`)))
	// Corrupt the file directly.
	path := fs.pathFor("k")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, ok := fs.Get("k")
	assert.False(t, ok)
}
