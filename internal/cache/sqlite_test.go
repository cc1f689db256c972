package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "summary:42", Key("42", KindSummary))
	assert.Equal(t, "strategy:42", Key("42", KindStrategy))
	// Same assignment, different kinds, never the same key.
	assert.NotEqual(t, Key("42", KindSummary), Key("42", KindStrategy))
}

func TestGetMissIsDistinctFromEmpty(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	_, ok, err := s.Get("summary:1")
	require.NoError(t, err)
	assert.False(t, ok)

	// An empty cached string is a hit, not a miss.
	require.NoError(t, s.Put("summary:1", ""))
	v, ok, err := s.Get("summary:1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "", v)
}

func TestPutOverwrites(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Put("summary:9", "first"))
	require.NoError(t, s.Put("summary:9", "second"))

	v, ok, err := s.Get("summary:9")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "second", v)
}

func TestSyncedLedger(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	seen, err := s.Seen("1001")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, s.MarkSeen("1001"))
	require.NoError(t, s.MarkSeen("1001")) // idempotent

	seen, err = s.Seen("1001")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "test.db")

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(Key("77", KindSummary), "Read chapter four."))
	require.NoError(t, s.MarkSeen("77"))
	require.NoError(t, s.Close())

	// Second "invocation" against the same storage location.
	s2, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer s2.Close()

	v, ok, err := s2.Get(Key("77", KindSummary))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Read chapter four.", v)

	seen, err := s2.Seen("77")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestStatsAndClear(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Put("summary:1", "a"))
	require.NoError(t, s.Put("strategy:abc", "b"))
	require.NoError(t, s.MarkSeen("1"))

	stats, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats["entries"])
	assert.Equal(t, 1, stats["synced"])

	require.NoError(t, s.Clear())
	stats, err = s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats["entries"])
	assert.Equal(t, 0, stats["synced"])
}
