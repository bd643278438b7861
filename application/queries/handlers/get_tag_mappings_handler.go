package handlers

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/Asadaligondal/Identity-Compass/application/ports"
	"github.com/Asadaligondal/Identity-Compass/application/queries"
)

// GetTagMappingsHandler lists a user's tag mappings.
type GetTagMappingsHandler struct {
	mappingRepo ports.TagMappingRepository
	logger      *zap.Logger
}

// NewGetTagMappingsHandler creates the handler.
func NewGetTagMappingsHandler(mappingRepo ports.TagMappingRepository, logger *zap.Logger) *GetTagMappingsHandler {
	return &GetTagMappingsHandler{mappingRepo: mappingRepo, logger: logger}
}

// Handle answers the listing, sorted by tag for stable output.
func (h *GetTagMappingsHandler) Handle(ctx context.Context, q queries.GetTagMappingsQuery) ([]queries.TagMappingView, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	mappings, err := h.mappingRepo.GetByUserID(ctx, q.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load mappings: %w", err)
	}

	views := make([]queries.TagMappingView, 0, len(mappings))
	for _, m := range mappings {
		views = append(views, queries.TagMappingView{
			Tag:       m.Tag().String(),
			Dimension: string(m.Dimension()),
			Type:      string(m.Type()),
			UpdatedAt: m.UpdatedAt().UTC().Format(time.RFC3339),
		})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Tag < views[j].Tag })
	return views, nil
}
