// Package handlers implements the write-side command handlers.
package handlers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Asadaligondal/Identity-Compass/application/commands"
	"github.com/Asadaligondal/Identity-Compass/application/ports"
	"github.com/Asadaligondal/Identity-Compass/domain/core/entities"
	"github.com/Asadaligondal/Identity-Compass/domain/core/valueobjects"
	"github.com/Asadaligondal/Identity-Compass/domain/events"
	"github.com/Asadaligondal/Identity-Compass/domain/services"
)

// RecordEntryHandler saves a journal entry and feeds its tag pairs
// into the connection graph.
type RecordEntryHandler struct {
	eventRepo   ports.EventRepository
	connRepo    ports.ConnectionRepository
	mappingRepo ports.TagMappingRepository
	publisher   ports.EventPublisher
	logger      *zap.Logger
}

// NewRecordEntryHandler creates the handler.
func NewRecordEntryHandler(
	eventRepo ports.EventRepository,
	connRepo ports.ConnectionRepository,
	mappingRepo ports.TagMappingRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *RecordEntryHandler {
	return &RecordEntryHandler{
		eventRepo:   eventRepo,
		connRepo:    connRepo,
		mappingRepo: mappingRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

// Handle saves the entry, then records co-occurrence and lazy
// mappings best-effort: a failure there is logged but never fails the
// save itself.
func (h *RecordEntryHandler) Handle(ctx context.Context, cmd commands.RecordEntryCommand) (*entities.Event, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("invalid command: %w", err)
	}

	entry, err := entities.NewJournalEntryWithID(cmd.EntryID, cmd.UserID, cmd.Text, cmd.Tags, cmd.OccurredAt)
	if err != nil {
		return nil, err
	}
	if err := h.eventRepo.Save(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save entry: %w", err)
	}

	pairs := services.ExtractPairs(cmd.Tags)
	if len(pairs) > 0 {
		if err := h.connRepo.IncrementWeights(ctx, cmd.UserID, pairs, time.Now()); err != nil {
			h.logger.Warn("failed to record co-occurrence",
				zap.String("entryID", entry.ID()),
				zap.Int("pairs", len(pairs)),
				zap.Error(err),
			)
		}
	}

	h.ensureMappings(ctx, entry)

	tagStrings := make([]string, 0, len(entry.Tags()))
	for _, t := range entry.Tags() {
		tagStrings = append(tagStrings, t.String())
	}
	evt := events.NewEntryRecorded(entry.ID(), cmd.UserID, tagStrings, len(pairs))
	if err := h.publisher.Publish(ctx, evt); err != nil {
		h.logger.Warn("failed to publish entry recorded event", zap.Error(err))
	}

	h.logger.Info("entry recorded",
		zap.String("entryID", entry.ID()),
		zap.String("userID", cmd.UserID),
		zap.Int("tags", len(entry.Tags())),
	)
	return entry, nil
}

// ensureMappings lazily creates an unpinned mapping for every tag
// seen for the first time, so the mapping list shows each tag even
// before the user assigns it.
func (h *RecordEntryHandler) ensureMappings(ctx context.Context, entry *entities.Event) {
	var missing []*entities.TagMapping
	for _, tag := range entry.Tags() {
		existing, err := h.mappingRepo.Get(ctx, entry.UserID(), tag)
		if err != nil || existing != nil {
			continue
		}
		dim, ok := valueobjects.KeywordDimension(tag.String())
		if !ok {
			dim = valueobjects.DimensionUnassigned
		}
		m, err := entities.NewTagMapping(tag, dim, entities.TagTypeConcept)
		if err != nil {
			continue
		}
		missing = append(missing, m)
	}
	if len(missing) == 0 {
		return
	}
	if err := h.mappingRepo.PutBatch(ctx, entry.UserID(), missing); err != nil {
		h.logger.Warn("failed to seed tag mappings", zap.Error(err))
	}
}
