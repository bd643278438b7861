// Package memory provides in-memory repository implementations used
// by tests and the local development mode. They mirror the DynamoDB
// repositories' semantics, including atomic weight increments.
package memory

import (
	"context"
	"sync"

	"github.com/Asadaligondal/Identity-Compass/domain/core/entities"
	pkgerrors "github.com/Asadaligondal/Identity-Compass/pkg/errors"
)

// EventRepository stores events per user in memory.
type EventRepository struct {
	mu     sync.RWMutex
	byUser map[string]map[string]*entities.Event
	order  map[string][]string
}

// NewEventRepository creates an empty store.
func NewEventRepository() *EventRepository {
	return &EventRepository{
		byUser: make(map[string]map[string]*entities.Event),
		order:  make(map[string][]string),
	}
}

// Save persists one event, overwriting by id.
func (r *EventRepository) Save(_ context.Context, event *entities.Event) error {
	if event == nil {
		return pkgerrors.NewValidationError("event cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveLocked(event)
	return nil
}

// SaveBatch persists many events, honoring cancellation between
// items.
func (r *EventRepository) SaveBatch(ctx context.Context, _ string, events []*entities.Event) error {
	for _, ev := range events {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := r.Save(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

func (r *EventRepository) saveLocked(event *entities.Event) {
	userID := event.UserID()
	if r.byUser[userID] == nil {
		r.byUser[userID] = make(map[string]*entities.Event)
	}
	if _, exists := r.byUser[userID][event.ID()]; !exists {
		r.order[userID] = append(r.order[userID], event.ID())
	}
	r.byUser[userID][event.ID()] = event
}

// GetByID retrieves one event.
func (r *EventRepository) GetByID(_ context.Context, userID, eventID string) (*entities.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ev, ok := r.byUser[userID][eventID]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("entry")
	}
	return ev, nil
}

// GetByUserID retrieves every event for a user in insertion order.
func (r *EventRepository) GetByUserID(_ context.Context, userID string) ([]*entities.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entities.Event, 0, len(r.order[userID]))
	for _, id := range r.order[userID] {
		out = append(out, r.byUser[userID][id])
	}
	return out, nil
}
