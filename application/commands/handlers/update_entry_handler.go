package handlers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Asadaligondal/Identity-Compass/application/commands"
	"github.com/Asadaligondal/Identity-Compass/application/ports"
	"github.com/Asadaligondal/Identity-Compass/domain/core/entities"
	"github.com/Asadaligondal/Identity-Compass/domain/events"
	"github.com/Asadaligondal/Identity-Compass/domain/services"
	pkgerrors "github.com/Asadaligondal/Identity-Compass/pkg/errors"
)

// UpdateEntryHandler edits a journal entry in place. The new tag set
// feeds co-occurrence again; weight contributed by the old tag set is
// not retracted, a known accepted limitation.
type UpdateEntryHandler struct {
	eventRepo ports.EventRepository
	connRepo  ports.ConnectionRepository
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewUpdateEntryHandler creates the handler.
func NewUpdateEntryHandler(
	eventRepo ports.EventRepository,
	connRepo ports.ConnectionRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *UpdateEntryHandler {
	return &UpdateEntryHandler{
		eventRepo: eventRepo,
		connRepo:  connRepo,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle applies the edit.
func (h *UpdateEntryHandler) Handle(ctx context.Context, cmd commands.UpdateEntryCommand) (*entities.Event, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("invalid command: %w", err)
	}

	entry, err := h.eventRepo.GetByID(ctx, cmd.UserID, cmd.EntryID)
	if err != nil {
		return nil, err
	}
	if entry.UserID() != cmd.UserID {
		return nil, pkgerrors.NewUnauthorizedError("entry does not belong to user")
	}
	if err := entry.UpdateEntry(cmd.Text, cmd.Tags); err != nil {
		return nil, err
	}
	if err := h.eventRepo.Save(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save entry: %w", err)
	}

	pairs := services.ExtractPairs(cmd.Tags)
	if len(pairs) > 0 {
		if err := h.connRepo.IncrementWeights(ctx, cmd.UserID, pairs, time.Now()); err != nil {
			h.logger.Warn("failed to record co-occurrence for edited entry",
				zap.String("entryID", entry.ID()),
				zap.Error(err),
			)
		}
	}

	tagStrings := make([]string, 0, len(entry.Tags()))
	for _, t := range entry.Tags() {
		tagStrings = append(tagStrings, t.String())
	}
	if err := h.publisher.Publish(ctx, events.NewEntryUpdated(entry.ID(), cmd.UserID, tagStrings)); err != nil {
		h.logger.Warn("failed to publish entry updated event", zap.Error(err))
	}

	h.logger.Info("entry updated",
		zap.String("entryID", entry.ID()),
		zap.String("userID", cmd.UserID),
	)
	return entry, nil
}
