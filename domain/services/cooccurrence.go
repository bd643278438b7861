// Package services holds the pure aggregation engines: co-occurrence
// pair extraction, temporal linking, graph construction, noise
// filtering and trajectory/trend scoring. Every function here operates
// on explicit snapshots passed in by the caller; nothing in this
// package keeps mutable state between calls.
package services

import (
	"sort"
	"time"

	"github.com/Asadaligondal/Identity-Compass/domain/core/entities"
	"github.com/Asadaligondal/Identity-Compass/domain/core/valueobjects"
)

// ExtractPairs normalizes and deduplicates a raw tag list and emits
// every unordered pair of distinct tags, keyed canonically. Lists
// with fewer than two distinct normalized tags produce no pairs, so
// recording them is a no-op.
func ExtractPairs(rawTags []string) []valueobjects.PairKey {
	tags := valueobjects.NormalizeTags(rawTags)
	if len(tags) < 2 {
		return nil
	}
	pairs := make([]valueobjects.PairKey, 0, len(tags)*(len(tags)-1)/2)
	for i := 0; i < len(tags); i++ {
		for j := i + 1; j < len(tags); j++ {
			pair, err := valueobjects.NewPairKey(tags[i], tags[j])
			if err != nil {
				continue
			}
			pairs = append(pairs, pair)
		}
	}
	return pairs
}

// ConnectionSet is a snapshot of a user's connections keyed by pair.
// It is built from repository data, mutated in memory by Record, and
// the touched connections are handed back for persistence.
type ConnectionSet struct {
	byPair map[string]*entities.Connection
}

// NewConnectionSet builds a snapshot from loaded connections.
func NewConnectionSet(conns []*entities.Connection) *ConnectionSet {
	set := &ConnectionSet{byPair: make(map[string]*entities.Connection, len(conns))}
	for _, c := range conns {
		set.byPair[c.Pair().String()] = c
	}
	return set
}

// Get returns the connection for a pair, or nil.
func (s *ConnectionSet) Get(pair valueobjects.PairKey) *entities.Connection {
	return s.byPair[pair.String()]
}

// Len returns the number of connections in the set.
func (s *ConnectionSet) Len() int { return len(s.byPair) }

// Record applies one event's pair set to the snapshot: absent pairs
// are created with weight 1, present pairs are incremented by exactly
// 1. It returns the touched connections. All updates from one call
// are applied together.
func (s *ConnectionSet) Record(pairs []valueobjects.PairKey, now time.Time) []*entities.Connection {
	touched := make([]*entities.Connection, 0, len(pairs))
	for _, pair := range pairs {
		if existing := s.byPair[pair.String()]; existing != nil {
			existing.Increment(now)
			touched = append(touched, existing)
			continue
		}
		conn, err := entities.NewConnection(pair, now)
		if err != nil {
			continue
		}
		s.byPair[pair.String()] = conn
		touched = append(touched, conn)
	}
	return touched
}

// TagWeight is one resolved neighbour of a tag.
type TagWeight struct {
	Tag    valueobjects.Tag `json:"tag"`
	Weight int              `json:"weight"`
}

// ConnectionsOf returns every connection touching the given tag,
// resolved to the counterpart tag and weight, sorted by weight
// descending. Ties sort by tag ascending so output is stable.
func (s *ConnectionSet) ConnectionsOf(tag valueobjects.Tag) []TagWeight {
	var out []TagWeight
	for _, c := range s.byPair {
		if !c.Pair().Touches(tag) {
			continue
		}
		out = append(out, TagWeight{Tag: c.Pair().Other(tag), Weight: c.Weight()})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}

// AllConnections returns every connection with weight >= minWeight,
// sorted by weight descending, ties by pair key ascending.
func (s *ConnectionSet) AllConnections(minWeight int) []*entities.Connection {
	var out []*entities.Connection
	for _, c := range s.byPair {
		if c.Weight() >= minWeight {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight() != out[j].Weight() {
			return out[i].Weight() > out[j].Weight()
		}
		return out[i].Pair().String() < out[j].Pair().String()
	})
	return out
}
