package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Asadaligondal/Identity-Compass/application/queries"
	"github.com/Asadaligondal/Identity-Compass/domain/core/entities"
	"github.com/Asadaligondal/Identity-Compass/domain/core/valueobjects"
	"github.com/Asadaligondal/Identity-Compass/domain/services"
	"github.com/Asadaligondal/Identity-Compass/infrastructure/persistence/memory"
)

func seedEntry(t *testing.T, repo *memory.EventRepository, id string, tags []string, at time.Time) {
	t.Helper()
	ev, err := entities.ReconstructEvent(
		id, "user-1", entities.EventKindJournal,
		"", valueobjects.NormalizeTags(tags), "",
		valueobjects.DimensionUnassigned, at, at, at,
	)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), ev))
}

func seedImported(t *testing.T, repo *memory.EventRepository, id, title string, dim valueobjects.Dimension, at time.Time) {
	t.Helper()
	ev, err := entities.ReconstructEvent(
		id, "user-1", entities.EventKindImported,
		"", nil, title, dim, at, at, at,
	)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), ev))
}

func TestGetGraphDataHandler(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)

	events := memory.NewEventRepository()
	mappings := memory.NewTagMappingRepository()
	seedEntry(t, events, "j1", []string{"gym", "running"}, at)
	seedEntry(t, events, "j2", []string{"gym"}, at.Add(time.Hour))
	seedImported(t, events, "i1", "First Video", valueobjects.DimensionEntertainment, at)
	seedImported(t, events, "i2", "Second Video", valueobjects.DimensionEntertainment, at.Add(10*time.Minute))

	h := NewGetGraphDataHandler(events, mappings, zap.NewNop())

	t.Run("returns filtered graph with stats", func(t *testing.T) {
		result, err := h.Handle(ctx, queries.GetGraphDataQuery{UserID: "user-1"})
		require.NoError(t, err)

		// Default min frequency 2 drops the singleton running tag.
		ids := make(map[string]bool)
		for _, n := range result.Nodes {
			ids[n.ID] = true
		}
		assert.True(t, ids[services.TagNodeID("gym")])
		assert.False(t, ids[services.TagNodeID("running")])
		assert.True(t, ids[services.ItemNodeID("i1")])

		assert.Equal(t, len(result.Nodes), result.Stats.NodeCount)
		assert.Equal(t, len(result.Edges), result.Stats.EdgeCount)
		assert.Greater(t, result.Stats.Density, 0.0)

		for _, e := range result.Edges {
			assert.True(t, ids[e.Source])
			assert.True(t, ids[e.Target])
		}
	})

	t.Run("empty users get an empty graph", func(t *testing.T) {
		empty := NewGetGraphDataHandler(memory.NewEventRepository(), mappings, zap.NewNop())
		result, err := empty.Handle(ctx, queries.GetGraphDataQuery{UserID: "user-1"})
		require.NoError(t, err)
		assert.Empty(t, result.Nodes)
		assert.Empty(t, result.Edges)
		assert.Zero(t, result.Stats.Density)
	})
}

func TestGetConnectionsHandler(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	conns := memory.NewConnectionRepository()
	require.NoError(t, conns.IncrementWeights(ctx, "user-1", services.ExtractPairs([]string{"gym", "friends"}), now))
	require.NoError(t, conns.IncrementWeights(ctx, "user-1", services.ExtractPairs([]string{"gym", "friends"}), now))
	require.NoError(t, conns.IncrementWeights(ctx, "user-1", services.ExtractPairs([]string{"gym", "coffee"}), now))

	h := NewGetConnectionsHandler(conns, zap.NewNop())

	t.Run("lists all connections weight descending", func(t *testing.T) {
		result, err := h.Handle(ctx, queries.GetConnectionsQuery{UserID: "user-1"})
		require.NoError(t, err)
		require.Len(t, result.Connections, 2)
		assert.Equal(t, 2, result.Connections[0].Weight)
	})

	t.Run("min weight filters", func(t *testing.T) {
		result, err := h.Handle(ctx, queries.GetConnectionsQuery{UserID: "user-1", MinWeight: 2})
		require.NoError(t, err)
		assert.Len(t, result.Connections, 1)
	})

	t.Run("tag neighbourhood", func(t *testing.T) {
		result, err := h.Handle(ctx, queries.GetConnectionsQuery{UserID: "user-1", Tag: " GYM "})
		require.NoError(t, err)
		require.Len(t, result.Neighbours, 2)
		assert.Equal(t, valueobjects.Tag("friends"), result.Neighbours[0].Tag)
	})
}

func TestGetTrajectoryHandler(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	events := memory.NewEventRepository()
	mappings := memory.NewTagMappingRepository()
	for i := 0; i < 6; i++ {
		seedEntry(t, events, "h"+string(rune('0'+i)), []string{"gym"}, now.Add(-time.Duration(i)*time.Hour))
	}
	for i := 0; i < 4; i++ {
		seedEntry(t, events, "c"+string(rune('0'+i)), []string{"work"}, now.Add(-time.Duration(i)*time.Hour))
	}

	h := NewGetTrajectoryHandler(events, mappings, zap.NewNop())
	h.now = func() time.Time { return now }

	score, err := h.Handle(ctx, queries.GetTrajectoryQuery{UserID: "user-1"})
	require.NoError(t, err)
	assert.True(t, score.HasData)
	assert.Equal(t, 60, score.Percentages[valueobjects.DimensionHealth])
	assert.Equal(t, 40, score.Percentages[valueobjects.DimensionCareer])
	assert.Equal(t, valueobjects.DimensionHealth, score.Dominant)
}

func TestGetTrendsHandler(t *testing.T) {
	ctx := context.Background()
	jan := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	mar := time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)

	events := memory.NewEventRepository()
	mappings := memory.NewTagMappingRepository()
	seedEntry(t, events, "a", []string{"gym"}, jan)
	seedEntry(t, events, "b", []string{"gym"}, mar)
	seedEntry(t, events, "c", []string{"work"}, mar)

	h := NewGetTrendsHandler(events, mappings, zap.NewNop())
	result, err := h.Handle(ctx, queries.GetTrendsQuery{UserID: "user-1"})
	require.NoError(t, err)

	require.Len(t, result.Buckets, 2)
	assert.Equal(t, "2024-01", result.Buckets[0].Label)
	assert.Equal(t, "Warrior", result.Archetype)
	require.Len(t, result.Totals, 2)
}

func TestListEntriesHandler(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	events := memory.NewEventRepository()
	seedEntry(t, events, "a", []string{"gym"}, at)
	seedEntry(t, events, "b", []string{"coffee"}, at.Add(time.Hour))

	h := NewListEntriesHandler(events, zap.NewNop())

	t.Run("newest first", func(t *testing.T) {
		views, err := h.Handle(ctx, queries.ListEntriesQuery{UserID: "user-1"})
		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, "b", views[0].ID)
	})

	t.Run("limit applies", func(t *testing.T) {
		views, err := h.Handle(ctx, queries.ListEntriesQuery{UserID: "user-1", Limit: 1})
		require.NoError(t, err)
		assert.Len(t, views, 1)
	})
}

func TestGetTagMappingsHandler(t *testing.T) {
	ctx := context.Background()
	mappings := memory.NewTagMappingRepository()

	gym, err := entities.NewTagMapping("gym", valueobjects.DimensionHealth, entities.TagTypeConcept)
	require.NoError(t, err)
	require.NoError(t, mappings.Put(ctx, "user-1", gym))
	book, err := entities.NewTagMapping("atomic habits", valueobjects.DimensionIntellectual, entities.TagTypeBook)
	require.NoError(t, err)
	require.NoError(t, mappings.Put(ctx, "user-1", book))

	h := NewGetTagMappingsHandler(mappings, zap.NewNop())
	views, err := h.Handle(ctx, queries.GetTagMappingsQuery{UserID: "user-1"})
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "atomic habits", views[0].Tag)
	assert.Equal(t, "health", views[1].Dimension)
}
