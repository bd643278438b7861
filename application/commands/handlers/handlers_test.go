package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Asadaligondal/Identity-Compass/application/commands"
	"github.com/Asadaligondal/Identity-Compass/application/ports"
	"github.com/Asadaligondal/Identity-Compass/domain/core/entities"
	"github.com/Asadaligondal/Identity-Compass/domain/core/valueobjects"
	"github.com/Asadaligondal/Identity-Compass/infrastructure/classification"
	"github.com/Asadaligondal/Identity-Compass/infrastructure/persistence/memory"
)

type fixtures struct {
	events    *memory.EventRepository
	conns     *memory.ConnectionRepository
	mappings  *memory.TagMappingRepository
	publisher *memory.EventPublisher
}

func newFixtures() *fixtures {
	return &fixtures{
		events:    memory.NewEventRepository(),
		conns:     memory.NewConnectionRepository(),
		mappings:  memory.NewTagMappingRepository(),
		publisher: memory.NewEventPublisher(),
	}
}

func TestRecordEntryHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("saves entry and records connections", func(t *testing.T) {
		f := newFixtures()
		h := NewRecordEntryHandler(f.events, f.conns, f.mappings, f.publisher, zap.NewNop())

		entry, err := h.Handle(ctx, commands.RecordEntryCommand{
			EntryID: uuid.New().String(),
			UserID:  "user-1",
			Text:    "leg day then coffee",
			Tags:    []string{"Gym", "Friends", "coffee"},
		})
		require.NoError(t, err)
		assert.Len(t, entry.Tags(), 3)

		conns, err := f.conns.GetByUserID(ctx, "user-1")
		require.NoError(t, err)
		assert.Len(t, conns, 3)

		saved, err := f.events.GetByUserID(ctx, "user-1")
		require.NoError(t, err)
		assert.Len(t, saved, 1)

		require.Len(t, f.publisher.Published(), 1)
		assert.Equal(t, "compass.entry.recorded", f.publisher.Published()[0].EventType())
	})

	t.Run("seeds mappings for new tags", func(t *testing.T) {
		f := newFixtures()
		h := NewRecordEntryHandler(f.events, f.conns, f.mappings, f.publisher, zap.NewNop())

		_, err := h.Handle(ctx, commands.RecordEntryCommand{
			EntryID: uuid.New().String(),
			UserID:  "user-1",
			Tags:    []string{"gym", "xyzzy"},
		})
		require.NoError(t, err)

		gym, err := f.mappings.Get(ctx, "user-1", "gym")
		require.NoError(t, err)
		require.NotNil(t, gym)
		assert.Equal(t, valueobjects.DimensionHealth, gym.Dimension())

		unknown, err := f.mappings.Get(ctx, "user-1", "xyzzy")
		require.NoError(t, err)
		require.NotNil(t, unknown)
		assert.Equal(t, valueobjects.DimensionUnassigned, unknown.Dimension())
	})

	t.Run("connection failure does not fail the save", func(t *testing.T) {
		f := newFixtures()
		h := NewRecordEntryHandler(f.events, failingConnRepo{}, f.mappings, f.publisher, zap.NewNop())

		_, err := h.Handle(ctx, commands.RecordEntryCommand{
			EntryID: uuid.New().String(),
			UserID:  "user-1",
			Tags:    []string{"gym", "friends"},
		})
		require.NoError(t, err)

		saved, err := f.events.GetByUserID(ctx, "user-1")
		require.NoError(t, err)
		assert.Len(t, saved, 1)
	})

	t.Run("rejects empty commands", func(t *testing.T) {
		f := newFixtures()
		h := NewRecordEntryHandler(f.events, f.conns, f.mappings, f.publisher, zap.NewNop())
		_, err := h.Handle(ctx, commands.RecordEntryCommand{EntryID: uuid.New().String(), UserID: "user-1"})
		assert.Error(t, err)
	})
}

func TestUpdateEntryHandler(t *testing.T) {
	ctx := context.Background()
	f := newFixtures()
	record := NewRecordEntryHandler(f.events, f.conns, f.mappings, f.publisher, zap.NewNop())
	update := NewUpdateEntryHandler(f.events, f.conns, f.publisher, zap.NewNop())

	entryID := uuid.New().String()
	_, err := record.Handle(ctx, commands.RecordEntryCommand{
		EntryID: entryID,
		UserID:  "user-1",
		Tags:    []string{"gym", "friends"},
	})
	require.NoError(t, err)

	t.Run("replaces tags without retracting old weight", func(t *testing.T) {
		entry, err := update.Handle(ctx, commands.UpdateEntryCommand{
			EntryID: entryID,
			UserID:  "user-1",
			Tags:    []string{"books", "coffee"},
		})
		require.NoError(t, err)
		assert.Equal(t, []valueobjects.Tag{"books", "coffee"}, entry.Tags())

		// Old gym-friends weight stays, new pair appears.
		conns, err := f.conns.GetByUserID(ctx, "user-1")
		require.NoError(t, err)
		assert.Len(t, conns, 2)
	})

	t.Run("rejects foreign entries", func(t *testing.T) {
		_, err := update.Handle(ctx, commands.UpdateEntryCommand{
			EntryID: entryID,
			UserID:  "someone-else",
			Tags:    []string{"books"},
		})
		assert.Error(t, err)
	})

	t.Run("unknown entry is not found", func(t *testing.T) {
		_, err := update.Handle(ctx, commands.UpdateEntryCommand{
			EntryID: uuid.New().String(),
			UserID:  "user-1",
			Tags:    []string{"books"},
		})
		assert.Error(t, err)
	})
}

func TestImportHistoryHandler(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)

	records := []commands.ImportedRecord{
		{Title: "Morning Workout Routine", OccurredAt: base, HasTime: true},
		{Title: "Jazz Concert Highlights", OccurredAt: base.Add(5 * time.Minute), HasTime: true},
		{Title: "   ", HasTime: false},
	}

	t.Run("imports, classifies and links", func(t *testing.T) {
		f := newFixtures()
		h := NewImportHistoryHandler(f.events, f.mappings, classification.NewMockClassifier(), f.publisher, zap.NewNop())

		result, err := h.Handle(ctx, commands.ImportHistoryCommand{
			BatchID: uuid.New().String(),
			UserID:  "user-1",
			Records: records,
		})
		require.NoError(t, err)
		assert.Equal(t, 2, result.Imported)
		assert.Equal(t, 1, result.Skipped)
		assert.Equal(t, 1, result.Linked)

		saved, err := f.events.GetByUserID(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, saved, 2)
		assert.Equal(t, valueobjects.DimensionHealth, saved[0].Category())
		assert.Equal(t, valueobjects.DimensionEntertainment, saved[1].Category())

		// Title mappings were seeded by the classification run.
		m, err := f.mappings.Get(ctx, "user-1", "morning workout routine")
		require.NoError(t, err)
		require.NotNil(t, m)
		assert.Equal(t, valueobjects.DimensionHealth, m.Dimension())
	})

	t.Run("re-import is idempotent at the item level", func(t *testing.T) {
		f := newFixtures()
		h := NewImportHistoryHandler(f.events, f.mappings, classification.NewMockClassifier(), f.publisher, zap.NewNop())

		for i := 0; i < 2; i++ {
			_, err := h.Handle(ctx, commands.ImportHistoryCommand{
				BatchID: uuid.New().String(),
				UserID:  "user-1",
				Records: records,
			})
			require.NoError(t, err)
		}
		saved, err := f.events.GetByUserID(ctx, "user-1")
		require.NoError(t, err)
		assert.Len(t, saved, 2)
	})

	t.Run("retries rate limits then succeeds", func(t *testing.T) {
		f := newFixtures()
		flaky := &flakyClassifier{failures: 2}
		h := NewImportHistoryHandler(f.events, f.mappings, flaky, f.publisher, zap.NewNop())
		h.retryDelay = time.Millisecond

		result, err := h.Handle(ctx, commands.ImportHistoryCommand{
			BatchID: uuid.New().String(),
			UserID:  "user-1",
			Records: records[:2],
		})
		require.NoError(t, err)
		assert.Equal(t, 2, result.Imported)
		assert.Equal(t, 3, flaky.calls)
	})

	t.Run("persistent rate limit is a terminal error", func(t *testing.T) {
		f := newFixtures()
		flaky := &flakyClassifier{failures: 10}
		h := NewImportHistoryHandler(f.events, f.mappings, flaky, f.publisher, zap.NewNop())
		h.retryDelay = time.Millisecond

		_, err := h.Handle(ctx, commands.ImportHistoryCommand{
			BatchID: uuid.New().String(),
			UserID:  "user-1",
			Records: records[:2],
		})
		require.Error(t, err)

		// No partial writes on classification failure.
		saved, repoErr := f.events.GetByUserID(ctx, "user-1")
		require.NoError(t, repoErr)
		assert.Empty(t, saved)
	})
}

func TestUpdateTagMappingHandler(t *testing.T) {
	ctx := context.Background()
	f := newFixtures()
	h := NewUpdateTagMappingHandler(f.mappings, f.publisher, zap.NewNop())

	t.Run("creates missing mapping", func(t *testing.T) {
		m, err := h.Handle(ctx, commands.UpdateTagMappingCommand{
			UserID:    "user-1",
			Tag:       "  Sidequest ",
			Dimension: "career",
		})
		require.NoError(t, err)
		assert.Equal(t, valueobjects.Tag("sidequest"), m.Tag())
		assert.Equal(t, valueobjects.DimensionCareer, m.Dimension())
	})

	t.Run("reassigns existing mapping", func(t *testing.T) {
		m, err := h.Handle(ctx, commands.UpdateTagMappingCommand{
			UserID:    "user-1",
			Tag:       "sidequest",
			Dimension: "intellectual",
			TagType:   "project",
		})
		require.NoError(t, err)
		assert.Equal(t, valueobjects.DimensionIntellectual, m.Dimension())
	})

	t.Run("rejects unknown dimensions", func(t *testing.T) {
		_, err := h.Handle(ctx, commands.UpdateTagMappingCommand{
			UserID:    "user-1",
			Tag:       "sidequest",
			Dimension: "gardening",
		})
		assert.Error(t, err)
	})
}

type failingConnRepo struct{}

func (failingConnRepo) GetByUserID(context.Context, string) ([]*entities.Connection, error) {
	return nil, errors.New("boom")
}

func (failingConnRepo) IncrementWeights(context.Context, string, []valueobjects.PairKey, time.Time) error {
	return errors.New("boom")
}

type flakyClassifier struct {
	failures int
	calls    int
}

func (c *flakyClassifier) Classify(ctx context.Context, titles []string) ([]valueobjects.Dimension, error) {
	c.calls++
	if c.calls <= c.failures {
		return nil, ports.ErrRateLimited
	}
	return classification.NewMockClassifier().Classify(ctx, titles)
}
