package entities

import (
	"time"

	"github.com/Asadaligondal/Identity-Compass/domain/core/valueobjects"
	pkgerrors "github.com/Asadaligondal/Identity-Compass/pkg/errors"
)

// Connection is the weighted undirected edge between two tags that
// records how often they co-occurred. It is keyed by the sorted pair,
// so (A,B) and (B,A) are the same connection. Weight only ever grows.
type Connection struct {
	pair        valueobjects.PairKey
	weight      int
	createdAt   time.Time
	lastUpdated time.Time
}

// NewConnection creates a connection with weight 1 for its first
// co-occurrence.
func NewConnection(pair valueobjects.PairKey, now time.Time) (*Connection, error) {
	if pair.Source.IsEmpty() || pair.Target.IsEmpty() {
		return nil, pkgerrors.NewValidationError("connection requires a complete pair key")
	}
	return &Connection{
		pair:        pair,
		weight:      1,
		createdAt:   now,
		lastUpdated: now,
	}, nil
}

// ReconstructConnection rebuilds a connection from repository data.
func ReconstructConnection(pair valueobjects.PairKey, weight int, createdAt, lastUpdated time.Time) (*Connection, error) {
	if weight < 1 {
		return nil, pkgerrors.NewValidationError("connection weight must be at least 1")
	}
	return &Connection{
		pair:        pair,
		weight:      weight,
		createdAt:   createdAt,
		lastUpdated: lastUpdated,
	}, nil
}

// Increment records one more co-occurrence of the pair.
func (c *Connection) Increment(now time.Time) {
	c.weight++
	c.lastUpdated = now
}

// Pair returns the sorted pair key.
func (c *Connection) Pair() valueobjects.PairKey { return c.pair }

// Source returns the lexicographically smaller tag of the pair.
func (c *Connection) Source() valueobjects.Tag { return c.pair.Source }

// Target returns the lexicographically larger tag of the pair.
func (c *Connection) Target() valueobjects.Tag { return c.pair.Target }

// Weight returns the accumulated co-occurrence count.
func (c *Connection) Weight() int { return c.weight }

// CreatedAt returns when the pair first co-occurred.
func (c *Connection) CreatedAt() time.Time { return c.createdAt }

// LastUpdated returns when the pair last co-occurred.
func (c *Connection) LastUpdated() time.Time { return c.lastUpdated }
