package memory

import (
	"context"
	"sync"

	"github.com/Asadaligondal/Identity-Compass/domain/core/entities"
	"github.com/Asadaligondal/Identity-Compass/domain/core/valueobjects"
	pkgerrors "github.com/Asadaligondal/Identity-Compass/pkg/errors"
)

// TagMappingRepository stores tag mappings per user in memory.
type TagMappingRepository struct {
	mu     sync.RWMutex
	byUser map[string]map[valueobjects.Tag]*entities.TagMapping
}

// NewTagMappingRepository creates an empty store.
func NewTagMappingRepository() *TagMappingRepository {
	return &TagMappingRepository{byUser: make(map[string]map[valueobjects.Tag]*entities.TagMapping)}
}

// Get retrieves one mapping, nil when the tag is unmapped.
func (r *TagMappingRepository) Get(_ context.Context, userID string, tag valueobjects.Tag) (*entities.TagMapping, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byUser[userID][tag], nil
}

// GetByUserID loads the user's full mapping snapshot.
func (r *TagMappingRepository) GetByUserID(_ context.Context, userID string) ([]*entities.TagMapping, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entities.TagMapping, 0, len(r.byUser[userID]))
	for _, m := range r.byUser[userID] {
		out = append(out, m)
	}
	return out, nil
}

// Put upserts one mapping.
func (r *TagMappingRepository) Put(_ context.Context, userID string, mapping *entities.TagMapping) error {
	if mapping == nil {
		return pkgerrors.NewValidationError("mapping cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byUser[userID] == nil {
		r.byUser[userID] = make(map[valueobjects.Tag]*entities.TagMapping)
	}
	r.byUser[userID][mapping.Tag()] = mapping
	return nil
}

// PutBatch upserts many mappings, honoring cancellation between
// items.
func (r *TagMappingRepository) PutBatch(ctx context.Context, userID string, mappings []*entities.TagMapping) error {
	for _, m := range mappings {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := r.Put(ctx, userID, m); err != nil {
			return err
		}
	}
	return nil
}
