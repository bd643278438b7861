package handlers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Asadaligondal/Identity-Compass/application/ports"
	"github.com/Asadaligondal/Identity-Compass/application/queries"
	"github.com/Asadaligondal/Identity-Compass/domain/services"
)

// GetTrajectoryHandler computes the trailing-window dimension
// snapshot.
type GetTrajectoryHandler struct {
	eventRepo   ports.EventRepository
	mappingRepo ports.TagMappingRepository
	logger      *zap.Logger
	now         func() time.Time
}

// NewGetTrajectoryHandler creates the handler.
func NewGetTrajectoryHandler(
	eventRepo ports.EventRepository,
	mappingRepo ports.TagMappingRepository,
	logger *zap.Logger,
) *GetTrajectoryHandler {
	return &GetTrajectoryHandler{
		eventRepo:   eventRepo,
		mappingRepo: mappingRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// Handle scores the window.
func (h *GetTrajectoryHandler) Handle(ctx context.Context, q queries.GetTrajectoryQuery) (*services.DimensionScore, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	events, err := h.eventRepo.GetByUserID(ctx, q.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	mappings, err := h.mappingRepo.GetByUserID(ctx, q.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load mappings: %w", err)
	}

	windowDays := q.WindowDays
	if windowDays == 0 {
		windowDays = services.DefaultTrajectoryWindowDays
	}
	score := services.ScoreTrajectory(events, services.NewDimensionResolver(mappings), h.now(), windowDays)
	return &score, nil
}
