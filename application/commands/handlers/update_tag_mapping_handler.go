package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Asadaligondal/Identity-Compass/application/commands"
	"github.com/Asadaligondal/Identity-Compass/application/ports"
	"github.com/Asadaligondal/Identity-Compass/domain/core/entities"
	"github.com/Asadaligondal/Identity-Compass/domain/core/valueobjects"
	"github.com/Asadaligondal/Identity-Compass/domain/events"
	pkgerrors "github.com/Asadaligondal/Identity-Compass/pkg/errors"
)

// UpdateTagMappingHandler pins a tag to a dimension, creating the
// mapping lazily when the tag was never seen before.
type UpdateTagMappingHandler struct {
	mappingRepo ports.TagMappingRepository
	publisher   ports.EventPublisher
	logger      *zap.Logger
}

// NewUpdateTagMappingHandler creates the handler.
func NewUpdateTagMappingHandler(
	mappingRepo ports.TagMappingRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *UpdateTagMappingHandler {
	return &UpdateTagMappingHandler{
		mappingRepo: mappingRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

// Handle applies the mapping change.
func (h *UpdateTagMappingHandler) Handle(ctx context.Context, cmd commands.UpdateTagMappingCommand) (*entities.TagMapping, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("invalid command: %w", err)
	}

	dim, ok := valueobjects.DimensionFromLabel(cmd.Dimension)
	if !ok {
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("unknown dimension %q", cmd.Dimension))
	}
	tag := valueobjects.NormalizeTag(cmd.Tag)
	if tag.IsEmpty() {
		return nil, pkgerrors.NewValidationError("tag cannot be empty")
	}

	mapping, err := h.mappingRepo.Get(ctx, cmd.UserID, tag)
	if err != nil {
		return nil, err
	}
	if mapping == nil {
		mapping, err = entities.NewTagMapping(tag, dim, entities.TagType(cmd.TagType))
		if err != nil {
			return nil, err
		}
	} else if err := mapping.Reassign(dim, entities.TagType(cmd.TagType)); err != nil {
		return nil, err
	}

	if err := h.mappingRepo.Put(ctx, cmd.UserID, mapping); err != nil {
		return nil, fmt.Errorf("failed to save mapping: %w", err)
	}

	evt := events.NewTagMappingUpdated(cmd.UserID, tag.String(), string(dim))
	if err := h.publisher.Publish(ctx, evt); err != nil {
		h.logger.Warn("failed to publish mapping updated event", zap.Error(err))
	}

	h.logger.Info("tag mapping updated",
		zap.String("userID", cmd.UserID),
		zap.String("tag", tag.String()),
		zap.String("dimension", string(dim)),
	)
	return mapping, nil
}
