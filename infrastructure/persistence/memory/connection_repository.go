package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Asadaligondal/Identity-Compass/domain/core/entities"
	"github.com/Asadaligondal/Identity-Compass/domain/core/valueobjects"
)

// ConnectionRepository stores the co-occurrence edge set in memory.
// Increments happen under one lock, matching the atomic ADD semantics
// of the DynamoDB implementation.
type ConnectionRepository struct {
	mu     sync.RWMutex
	byUser map[string]map[string]*entities.Connection
}

// NewConnectionRepository creates an empty store.
func NewConnectionRepository() *ConnectionRepository {
	return &ConnectionRepository{byUser: make(map[string]map[string]*entities.Connection)}
}

// GetByUserID loads the user's full connection snapshot.
func (r *ConnectionRepository) GetByUserID(_ context.Context, userID string) ([]*entities.Connection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entities.Connection, 0, len(r.byUser[userID]))
	for _, c := range r.byUser[userID] {
		out = append(out, c)
	}
	return out, nil
}

// IncrementWeights applies +1 per pair, creating absent connections
// with weight 1.
func (r *ConnectionRepository) IncrementWeights(ctx context.Context, userID string, pairs []valueobjects.PairKey, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.byUser[userID] == nil {
		r.byUser[userID] = make(map[string]*entities.Connection)
	}
	for _, pair := range pairs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if existing := r.byUser[userID][pair.String()]; existing != nil {
			existing.Increment(now)
			continue
		}
		conn, err := entities.NewConnection(pair, now)
		if err != nil {
			return err
		}
		r.byUser[userID][pair.String()] = conn
	}
	return nil
}
