package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Asadaligondal/Identity-Compass/application/ports"
	"github.com/Asadaligondal/Identity-Compass/application/queries"
	"github.com/Asadaligondal/Identity-Compass/domain/services"
)

// GetTrendsHandler produces the monthly series, composition totals
// and archetype for the dashboard.
type GetTrendsHandler struct {
	eventRepo   ports.EventRepository
	mappingRepo ports.TagMappingRepository
	logger      *zap.Logger
}

// NewGetTrendsHandler creates the handler.
func NewGetTrendsHandler(
	eventRepo ports.EventRepository,
	mappingRepo ports.TagMappingRepository,
	logger *zap.Logger,
) *GetTrendsHandler {
	return &GetTrendsHandler{
		eventRepo:   eventRepo,
		mappingRepo: mappingRepo,
		logger:      logger,
	}
}

// Handle computes the trends payload.
func (h *GetTrendsHandler) Handle(ctx context.Context, q queries.GetTrendsQuery) (*queries.TrendsResult, error) {
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

	resolver := services.NewDimensionResolver(mappings)
	totals := services.DimensionTotals(events, resolver)
	return &queries.TrendsResult{
		Buckets:   services.MonthlyTrends(events, resolver),
		Totals:    totals,
		Archetype: services.ArchetypeFor(totals),
	}, nil
}
