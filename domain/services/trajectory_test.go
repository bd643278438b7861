package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Asadaligondal/Identity-Compass/domain/core/entities"
	"github.com/Asadaligondal/Identity-Compass/domain/core/valueobjects"
)

func TestScoreTrajectory(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	resolver := NewDimensionResolver(nil)

	t.Run("sixty forty split", func(t *testing.T) {
		var evs []*entities.Event
		for i := 0; i < 6; i++ {
			evs = append(evs, journalEvent(t, "h"+string(rune('0'+i)), []string{"gym"}, now.Add(-time.Duration(i)*time.Hour)))
		}
		for i := 0; i < 4; i++ {
			evs = append(evs, journalEvent(t, "c"+string(rune('0'+i)), []string{"work"}, now.Add(-time.Duration(i)*time.Hour)))
		}

		got := ScoreTrajectory(evs, resolver, now, 30)
		require.True(t, got.HasData)
		assert.Equal(t, 6, got.WeightedScores[valueobjects.DimensionHealth])
		assert.Equal(t, 4, got.WeightedScores[valueobjects.DimensionCareer])
		assert.Equal(t, 60, got.Percentages[valueobjects.DimensionHealth])
		assert.Equal(t, 40, got.Percentages[valueobjects.DimensionCareer])
		assert.Equal(t, valueobjects.DimensionHealth, got.Dominant)
		assert.Contains(t, got.Insight, "heavily focused")
	})

	t.Run("no data result is distinct from zero scores", func(t *testing.T) {
		got := ScoreTrajectory(nil, resolver, now, 30)
		assert.False(t, got.HasData)
		assert.NotEmpty(t, got.Message)
		assert.Empty(t, got.Percentages)
		assert.Equal(t, valueobjects.DimensionUnassigned, got.Dominant)
	})

	t.Run("events outside the window are ignored", func(t *testing.T) {
		evs := []*entities.Event{
			journalEvent(t, "old", []string{"gym"}, now.AddDate(0, 0, -31)),
			journalEvent(t, "future", []string{"gym"}, now.Add(time.Hour)),
		}
		got := ScoreTrajectory(evs, resolver, now, 30)
		assert.False(t, got.HasData)
	})

	t.Run("window boundary is inclusive", func(t *testing.T) {
		evs := []*entities.Event{
			journalEvent(t, "edge", []string{"gym"}, now.AddDate(0, 0, -30)),
		}
		got := ScoreTrajectory(evs, resolver, now, 30)
		require.True(t, got.HasData)
		assert.Equal(t, 100, got.Percentages[valueobjects.DimensionHealth])
	})

	t.Run("unassigned events count as data but not score", func(t *testing.T) {
		evs := []*entities.Event{
			journalEvent(t, "u1", []string{"xyzzy"}, now),
		}
		got := ScoreTrajectory(evs, resolver, now, 30)
		assert.True(t, got.HasData)
		assert.Empty(t, got.WeightedScores)
		assert.Empty(t, got.Percentages)
		assert.Equal(t, valueobjects.DimensionUnassigned, got.Dominant)
	})

	t.Run("percentages sum to one hundred", func(t *testing.T) {
		evs := []*entities.Event{
			journalEvent(t, "a", []string{"gym"}, now),
			journalEvent(t, "b", []string{"work"}, now),
			journalEvent(t, "c", []string{"movie"}, now),
		}
		got := ScoreTrajectory(evs, resolver, now, 30)
		sum := 0
		for _, p := range got.Percentages {
			sum += p
		}
		// 3 × 33 rounds to 99; ±1 per-dimension drift is accepted.
		assert.InDelta(t, 100, sum, 1)
	})

	t.Run("override mappings steer scoring", func(t *testing.T) {
		r := NewDimensionResolver([]*entities.TagMapping{
			mapping(t, "gym", valueobjects.DimensionCareer),
		})
		evs := []*entities.Event{
			journalEvent(t, "a", []string{"gym"}, now),
		}
		got := ScoreTrajectory(evs, r, now, 30)
		assert.Equal(t, valueobjects.DimensionCareer, got.Dominant)
	})
}

func TestInsightBanding(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	resolver := NewDimensionResolver(nil)

	build := func(counts map[string]int) []*entities.Event {
		var evs []*entities.Event
		id := 0
		for _, tag := range []string{"gym", "work", "friends", "movie"} {
			for i := 0; i < counts[tag]; i++ {
				id++
				evs = append(evs, journalEvent(t, string(rune('a'+id)), []string{tag}, now))
			}
		}
		return evs
	}

	tests := []struct {
		name   string
		counts map[string]int
		want   string
	}{
		{"over fifty is heavy focus", map[string]int{"gym": 6, "work": 4}, "heavily focused"},
		{"thirty to fifty is primary focus", map[string]int{"gym": 4, "work": 3, "friends": 3}, "primary focus"},
		{"under thirty is balanced", map[string]int{"gym": 1, "work": 1, "friends": 1, "movie": 1}, "well-distributed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreTrajectory(build(tt.counts), resolver, now, 30)
			assert.Contains(t, got.Insight, tt.want)
		})
	}
}
