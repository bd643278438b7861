// Package handlers implements the read-side query handlers. Each one
// loads snapshots from the repositories and runs the pure domain
// engines over them; nothing here writes.
package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Asadaligondal/Identity-Compass/application/ports"
	"github.com/Asadaligondal/Identity-Compass/application/queries"
	"github.com/Asadaligondal/Identity-Compass/domain/core/aggregates"
	"github.com/Asadaligondal/Identity-Compass/domain/services"
)

// GetGraphDataHandler assembles the filtered rendering graph.
type GetGraphDataHandler struct {
	eventRepo   ports.EventRepository
	mappingRepo ports.TagMappingRepository
	logger      *zap.Logger
}

// NewGetGraphDataHandler creates the handler.
func NewGetGraphDataHandler(
	eventRepo ports.EventRepository,
	mappingRepo ports.TagMappingRepository,
	logger *zap.Logger,
) *GetGraphDataHandler {
	return &GetGraphDataHandler{
		eventRepo:   eventRepo,
		mappingRepo: mappingRepo,
		logger:      logger,
	}
}

// Handle builds, temporally links and filters the graph. An empty
// event set yields an empty graph, not an error.
func (h *GetGraphDataHandler) Handle(ctx context.Context, q queries.GetGraphDataQuery) (*queries.GraphDataResult, error) {
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

	minFreq := q.MinFrequency
	if minFreq == 0 {
		minFreq = services.DefaultMinFrequency
	}
	nodeCap := q.NodeCap
	if nodeCap == 0 {
		nodeCap = services.DefaultNodeBudget
	}

	resolver := services.NewDimensionResolver(mappings)
	var temporal []aggregates.GraphEdge
	if !q.SkipTemporalLinks {
		temporal = services.LinkByTime(events, services.DefaultTemporalWindow)
	}
	graph := services.FilterNoise(services.BuildGraph(events, resolver, temporal), minFreq, nodeCap)

	nodes := graph.Nodes()
	edges := graph.Edges()
	density := 0.0
	if n := len(nodes); n > 1 {
		density = 2 * float64(len(edges)) / float64(n*(n-1))
	}

	h.logger.Debug("graph data assembled",
		zap.String("userID", q.UserID),
		zap.Int("nodes", len(nodes)),
		zap.Int("edges", len(edges)),
	)
	return &queries.GraphDataResult{
		Nodes: nodes,
		Edges: edges,
		Stats: queries.GraphStats{
			NodeCount: len(nodes),
			EdgeCount: len(edges),
			Density:   density,
		},
	}, nil
}
