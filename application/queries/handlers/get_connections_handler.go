package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Asadaligondal/Identity-Compass/application/ports"
	"github.com/Asadaligondal/Identity-Compass/application/queries"
	"github.com/Asadaligondal/Identity-Compass/domain/core/valueobjects"
	"github.com/Asadaligondal/Identity-Compass/domain/services"
)

// GetConnectionsHandler lists connections, whole-set or around one
// tag.
type GetConnectionsHandler struct {
	connRepo ports.ConnectionRepository
	logger   *zap.Logger
}

// NewGetConnectionsHandler creates the handler.
func NewGetConnectionsHandler(connRepo ports.ConnectionRepository, logger *zap.Logger) *GetConnectionsHandler {
	return &GetConnectionsHandler{connRepo: connRepo, logger: logger}
}

// Handle answers the listing. With a tag set, the result is that
// tag's neighbourhood sorted by weight; otherwise every connection at
// or above the weight floor.
func (h *GetConnectionsHandler) Handle(ctx context.Context, q queries.GetConnectionsQuery) (*queries.ConnectionsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	conns, err := h.connRepo.GetByUserID(ctx, q.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load connections: %w", err)
	}
	set := services.NewConnectionSet(conns)

	if q.Tag != "" {
		tag := valueobjects.NormalizeTag(q.Tag)
		return &queries.ConnectionsResult{Neighbours: set.ConnectionsOf(tag)}, nil
	}

	minWeight := q.MinWeight
	if minWeight < 1 {
		minWeight = 1
	}
	all := set.AllConnections(minWeight)
	views := make([]queries.ConnectionView, 0, len(all))
	for _, c := range all {
		views = append(views, queries.ConnectionView{
			Source: c.Source(),
			Target: c.Target(),
			Weight: c.Weight(),
		})
	}
	return &queries.ConnectionsResult{Connections: views}, nil
}
