// Package queries defines the read-side requests and their result
// shapes. Results are plain data for the HTTP layer to serialize.
package queries

import (
	"errors"

	"github.com/Asadaligondal/Identity-Compass/domain/core/aggregates"
	"github.com/Asadaligondal/Identity-Compass/domain/core/valueobjects"
	"github.com/Asadaligondal/Identity-Compass/domain/services"
)

// GetGraphDataQuery asks for the filtered rendering graph.
type GetGraphDataQuery struct {
	UserID       string `json:"user_id"`
	MinFrequency int    `json:"min_frequency"`
	NodeCap      int    `json:"node_cap"`
	// SkipTemporalLinks leaves session edges out of the graph.
	SkipTemporalLinks bool `json:"skip_temporal_links"`
}

// Validate checks query invariants.
func (q GetGraphDataQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user id is required")
	}
	if q.MinFrequency < 0 || q.NodeCap < 0 {
		return errors.New("filter parameters cannot be negative")
	}
	return nil
}

// GraphStats summarizes the filtered graph.
type GraphStats struct {
	NodeCount int     `json:"nodeCount"`
	EdgeCount int     `json:"edgeCount"`
	Density   float64 `json:"density"`
}

// GraphDataResult is the rendering payload.
type GraphDataResult struct {
	Nodes []aggregates.GraphNode `json:"nodes"`
	Edges []aggregates.GraphEdge `json:"edges"`
	Stats GraphStats             `json:"stats"`
}

// GetConnectionsQuery asks for the connection list, optionally
// restricted to one tag's neighbourhood.
type GetConnectionsQuery struct {
	UserID    string `json:"user_id"`
	Tag       string `json:"tag"`
	MinWeight int    `json:"min_weight"`
}

// Validate checks query invariants.
func (q GetConnectionsQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user id is required")
	}
	if q.MinWeight < 0 {
		return errors.New("min weight cannot be negative")
	}
	return nil
}

// ConnectionView is one connection resolved for display.
type ConnectionView struct {
	Source valueobjects.Tag `json:"source"`
	Target valueobjects.Tag `json:"target"`
	Weight int              `json:"weight"`
}

// ConnectionsResult is the connection listing payload.
type ConnectionsResult struct {
	Connections []ConnectionView     `json:"connections,omitempty"`
	Neighbours  []services.TagWeight `json:"neighbours,omitempty"`
}

// GetTrajectoryQuery asks for the trailing-window dimension snapshot.
type GetTrajectoryQuery struct {
	UserID     string `json:"user_id"`
	WindowDays int    `json:"window_days"`
}

// Validate checks query invariants.
func (q GetTrajectoryQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user id is required")
	}
	if q.WindowDays < 0 {
		return errors.New("window days cannot be negative")
	}
	return nil
}

// GetTrendsQuery asks for the monthly trend series, composition
// totals and archetype.
type GetTrendsQuery struct {
	UserID string `json:"user_id"`
}

// Validate checks query invariants.
func (q GetTrendsQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user id is required")
	}
	return nil
}

// TrendsResult is the dashboard payload.
type TrendsResult struct {
	Buckets   []services.TrendBucket    `json:"buckets"`
	Totals    []services.DimensionTotal `json:"totals"`
	Archetype string                    `json:"archetype"`
}

// ListEntriesQuery asks for the user's activity log.
type ListEntriesQuery struct {
	UserID string `json:"user_id"`
	Limit  int    `json:"limit"`
}

// Validate checks query invariants.
func (q ListEntriesQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user id is required")
	}
	if q.Limit < 0 {
		return errors.New("limit cannot be negative")
	}
	return nil
}

// EntryView is one event flattened for display.
type EntryView struct {
	ID         string   `json:"id"`
	Kind       string   `json:"kind"`
	Text       string   `json:"text,omitempty"`
	Title      string   `json:"title,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Category   string   `json:"category"`
	OccurredAt string   `json:"occurredAt,omitempty"`
	CreatedAt  string   `json:"createdAt"`
}

// GetTagMappingsQuery asks for the user's tag mapping list.
type GetTagMappingsQuery struct {
	UserID string `json:"user_id"`
}

// Validate checks query invariants.
func (q GetTagMappingsQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user id is required")
	}
	return nil
}

// TagMappingView is one mapping flattened for display.
type TagMappingView struct {
	Tag       string `json:"tag"`
	Dimension string `json:"dimension"`
	Type      string `json:"type"`
	UpdatedAt string `json:"updatedAt"`
}
