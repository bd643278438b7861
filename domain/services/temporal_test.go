package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Asadaligondal/Identity-Compass/domain/core/aggregates"
	"github.com/Asadaligondal/Identity-Compass/domain/core/entities"
	"github.com/Asadaligondal/Identity-Compass/domain/core/valueobjects"
)

func TestLinkByTime(t *testing.T) {
	base := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)

	t.Run("links within window, skips beyond", func(t *testing.T) {
		items := []*entities.Event{
			importedEvent(t, "a", "First Video", valueobjects.DimensionEntertainment, base),
			importedEvent(t, "b", "Second Video", valueobjects.DimensionEntertainment, base.Add(5*time.Minute)),
			importedEvent(t, "c", "Late Video", valueobjects.DimensionEntertainment, base.Add(50*time.Minute)),
		}
		edges := LinkByTime(items, 30*time.Minute)
		require.Len(t, edges, 1)

		// a-b are 5 minutes apart; c is 45 past b and links to nothing.
		assert.Equal(t, ItemNodeID("a"), edges[0].Source)
		assert.Equal(t, ItemNodeID("b"), edges[0].Target)
		assert.Equal(t, aggregates.EdgeKindTemporal, edges[0].Kind)
		assert.Equal(t, TemporalLinkWeight, edges[0].Weight)
	})

	t.Run("never links farther than the window", func(t *testing.T) {
		items := []*entities.Event{
			importedEvent(t, "a", "A", valueobjects.DimensionEntertainment, base),
			importedEvent(t, "b", "B", valueobjects.DimensionEntertainment, base.Add(31*time.Minute)),
		}
		assert.Empty(t, LinkByTime(items, 30*time.Minute))
	})

	t.Run("unsorted input is handled", func(t *testing.T) {
		items := []*entities.Event{
			importedEvent(t, "b", "B", valueobjects.DimensionEntertainment, base.Add(10*time.Minute)),
			importedEvent(t, "a", "A", valueobjects.DimensionEntertainment, base),
		}
		edges := LinkByTime(items, 30*time.Minute)
		require.Len(t, edges, 1)
		assert.Equal(t, ItemNodeID("a"), edges[0].Source)
		assert.Equal(t, ItemNodeID("b"), edges[0].Target)
	})

	t.Run("no reverse duplicates", func(t *testing.T) {
		items := []*entities.Event{
			importedEvent(t, "a", "A", valueobjects.DimensionEntertainment, base),
			importedEvent(t, "b", "B", valueobjects.DimensionEntertainment, base.Add(time.Minute)),
		}
		edges := LinkByTime(items, 30*time.Minute)
		assert.Len(t, edges, 1)
	})

	t.Run("identical timestamps never link", func(t *testing.T) {
		items := []*entities.Event{
			importedEvent(t, "a", "A", valueobjects.DimensionEntertainment, base),
			importedEvent(t, "b", "B", valueobjects.DimensionEntertainment, base),
		}
		assert.Empty(t, LinkByTime(items, 30*time.Minute))
	})

	t.Run("later items behind a same-instant pair still link", func(t *testing.T) {
		items := []*entities.Event{
			importedEvent(t, "a", "A", valueobjects.DimensionEntertainment, base),
			importedEvent(t, "b", "B", valueobjects.DimensionEntertainment, base),
			importedEvent(t, "c", "C", valueobjects.DimensionEntertainment, base.Add(5*time.Minute)),
		}
		edges := LinkByTime(items, 30*time.Minute)
		// a-c and b-c link; a-b share an instant and do not.
		require.Len(t, edges, 2)
		for _, e := range edges {
			assert.Equal(t, ItemNodeID("c"), e.Target)
		}
	})

	t.Run("items without timestamps are excluded", func(t *testing.T) {
		items := []*entities.Event{
			importedEvent(t, "a", "A", valueobjects.DimensionEntertainment, time.Time{}),
			importedEvent(t, "b", "B", valueobjects.DimensionEntertainment, base),
		}
		assert.Empty(t, LinkByTime(items, 30*time.Minute))
	})

	t.Run("journal entries never temporally link", func(t *testing.T) {
		items := []*entities.Event{
			journalEvent(t, "j1", []string{"gym"}, base),
			journalEvent(t, "j2", []string{"coffee"}, base.Add(time.Minute)),
		}
		assert.Empty(t, LinkByTime(items, 30*time.Minute))
	})
}

func TestLinkByTimeClusterIsFullyConnected(t *testing.T) {
	base := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	items := []*entities.Event{
		importedEvent(t, "a", "A", valueobjects.DimensionEntertainment, base),
		importedEvent(t, "b", "B", valueobjects.DimensionEntertainment, base.Add(5*time.Minute)),
		importedEvent(t, "c", "C", valueobjects.DimensionEntertainment, base.Add(10*time.Minute)),
	}
	edges := LinkByTime(items, 30*time.Minute)
	assert.Len(t, edges, 3)
}
