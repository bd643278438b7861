// Package ports declares the interfaces the application layer needs
// from infrastructure. Implementations live under infrastructure and
// are bound by the DI container.
package ports

import (
	"context"
	"time"

	"github.com/Asadaligondal/Identity-Compass/domain/core/entities"
	"github.com/Asadaligondal/Identity-Compass/domain/core/valueobjects"
	"github.com/Asadaligondal/Identity-Compass/domain/events"
)

// EventRepository persists activity events.
type EventRepository interface {
	// Save persists one event, overwriting any event with the same id.
	Save(ctx context.Context, event *entities.Event) error

	// SaveBatch persists many events, chunked to the store's batch
	// limit. Chunks are applied sequentially and are interruptible
	// between chunks; a crash leaves a committed prefix.
	SaveBatch(ctx context.Context, userID string, events []*entities.Event) error

	// GetByID retrieves one event, NotFound error when absent.
	GetByID(ctx context.Context, userID, eventID string) (*entities.Event, error)

	// GetByUserID retrieves every event owned by the user.
	GetByUserID(ctx context.Context, userID string) ([]*entities.Event, error)
}

// ConnectionRepository persists the co-occurrence edge set.
type ConnectionRepository interface {
	// GetByUserID loads the user's full connection snapshot.
	GetByUserID(ctx context.Context, userID string) ([]*entities.Connection, error)

	// IncrementWeights applies +1 to every pair, creating absent
	// connections with weight 1. The store must use an atomic
	// increment so concurrent writers never lose updates.
	IncrementWeights(ctx context.Context, userID string, pairs []valueobjects.PairKey, now time.Time) error
}

// TagMappingRepository persists per-user tag-to-dimension mappings.
type TagMappingRepository interface {
	// Get retrieves one mapping, nil when the tag is unmapped.
	Get(ctx context.Context, userID string, tag valueobjects.Tag) (*entities.TagMapping, error)

	// GetByUserID loads the user's full mapping snapshot.
	GetByUserID(ctx context.Context, userID string) ([]*entities.TagMapping, error)

	// Put upserts one mapping.
	Put(ctx context.Context, userID string, mapping *entities.TagMapping) error

	// PutBatch upserts many mappings, chunked to the store's limit.
	PutBatch(ctx context.Context, userID string, mappings []*entities.TagMapping) error
}

// EventPublisher pushes domain events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event events.DomainEvent) error
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// Cache is the read-path cache used by the query bus.
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, ttl int) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
