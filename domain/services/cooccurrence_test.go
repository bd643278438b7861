package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Asadaligondal/Identity-Compass/domain/core/valueobjects"
)

func TestExtractPairs(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want int
	}{
		{"empty list", nil, 0},
		{"singleton", []string{"gym"}, 0},
		{"duplicates collapse to singleton", []string{"gym", "GYM", " gym "}, 0},
		{"two tags one pair", []string{"gym", "friends"}, 1},
		{"three tags three pairs", []string{"gym", "friends", "coffee"}, 3},
		{"four tags six pairs", []string{"a", "b", "c", "d"}, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, ExtractPairs(tt.tags), tt.want)
		})
	}
}

func TestExtractPairsSortsKeys(t *testing.T) {
	pairs := ExtractPairs([]string{"zebra", "apple"})
	require.Len(t, pairs, 1)
	assert.Equal(t, valueobjects.Tag("apple"), pairs[0].Source)
	assert.Equal(t, valueobjects.Tag("zebra"), pairs[0].Target)
}

func TestConnectionSetRecord(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("gym friends coffee produces three weight-1 connections", func(t *testing.T) {
		set := NewConnectionSet(nil)
		touched := set.Record(ExtractPairs([]string{"gym", "friends", "coffee"}), now)
		require.Len(t, touched, 3)
		assert.Equal(t, 3, set.Len())
		for _, c := range touched {
			assert.Equal(t, 1, c.Weight())
		}
	})

	t.Run("reversed pair increments instead of duplicating", func(t *testing.T) {
		set := NewConnectionSet(nil)
		set.Record(ExtractPairs([]string{"A", "B"}), now)
		set.Record(ExtractPairs([]string{"B", "A"}), now.Add(time.Hour))

		assert.Equal(t, 1, set.Len())
		pair, err := valueobjects.NewPairKey("a", "b")
		require.NoError(t, err)
		conn := set.Get(pair)
		require.NotNil(t, conn)
		assert.Equal(t, 2, conn.Weight())
		assert.Equal(t, now, conn.CreatedAt())
		assert.Equal(t, now.Add(time.Hour), conn.LastUpdated())
	})

	t.Run("singleton is a no-op", func(t *testing.T) {
		set := NewConnectionSet(nil)
		touched := set.Record(ExtractPairs([]string{"gym"}), now)
		assert.Empty(t, touched)
		assert.Equal(t, 0, set.Len())
	})
}

func TestConnectionsOf(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	set := NewConnectionSet(nil)
	set.Record(ExtractPairs([]string{"gym", "friends"}), now)
	set.Record(ExtractPairs([]string{"gym", "friends"}), now)
	set.Record(ExtractPairs([]string{"gym", "coffee"}), now)

	got := set.ConnectionsOf("gym")
	require.Len(t, got, 2)
	assert.Equal(t, TagWeight{Tag: "friends", Weight: 2}, got[0])
	assert.Equal(t, TagWeight{Tag: "coffee", Weight: 1}, got[1])

	assert.Empty(t, set.ConnectionsOf("unknown"))
}

func TestAllConnections(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	set := NewConnectionSet(nil)
	set.Record(ExtractPairs([]string{"gym", "friends"}), now)
	set.Record(ExtractPairs([]string{"gym", "friends"}), now)
	set.Record(ExtractPairs([]string{"gym", "coffee"}), now)
	set.Record(ExtractPairs([]string{"books", "coffee"}), now)

	all := set.AllConnections(1)
	require.Len(t, all, 3)
	assert.Equal(t, 2, all[0].Weight())

	heavy := set.AllConnections(2)
	require.Len(t, heavy, 1)
	assert.Equal(t, "friends#gym", heavy[0].Pair().String())
}
