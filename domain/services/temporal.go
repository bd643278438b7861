package services

import (
	"sort"
	"time"

	"github.com/Asadaligondal/Identity-Compass/domain/core/aggregates"
	"github.com/Asadaligondal/Identity-Compass/domain/core/entities"
)

// DefaultTemporalWindow is how close together two imported items must
// be watched to earn a temporal link.
const DefaultTemporalWindow = 30 * time.Minute

// TemporalLinkWeight is the fixed weight of a temporal edge. Temporal
// links outrank single co-occurrences but are never incremented.
const TemporalLinkWeight = 2

// LinkByTime scans imported items sorted by activity time and links
// every pair watched within the window. Items without a timestamp are
// skipped entirely. The inner scan stops at the first item past the
// window, so runtime stays near-linear for sparse histories. Edges are
// deduplicated against their reverse direction.
func LinkByTime(items []*entities.Event, window time.Duration) []aggregates.GraphEdge {
	if window <= 0 {
		window = DefaultTemporalWindow
	}

	timed := make([]*entities.Event, 0, len(items))
	for _, it := range items {
		if it.Kind() == entities.EventKindImported && it.HasTimestamp() {
			timed = append(timed, it)
		}
	}
	if len(timed) < 2 {
		return nil
	}
	sort.SliceStable(timed, func(i, j int) bool {
		return timed[i].OccurredAt().Before(timed[j].OccurredAt())
	})

	seen := make(map[string]bool)
	var edges []aggregates.GraphEdge
	for i := 0; i < len(timed)-1; i++ {
		for j := i + 1; j < len(timed); j++ {
			delta := timed[j].OccurredAt().Sub(timed[i].OccurredAt())
			if delta > window {
				break
			}
			// A link needs strictly increasing time; items stamped at
			// the same instant stay unlinked, but later items at that
			// instant must still be scanned.
			if delta == 0 {
				continue
			}
			src, dst := ItemNodeID(timed[i].ID()), ItemNodeID(timed[j].ID())
			if src == dst {
				continue
			}
			a, b := src, dst
			if a > b {
				a, b = b, a
			}
			key := a + "->" + b
			if seen[key] {
				continue
			}
			seen[key] = true
			edges = append(edges, aggregates.GraphEdge{
				Source: src,
				Target: dst,
				Kind:   aggregates.EdgeKindTemporal,
				Weight: TemporalLinkWeight,
			})
		}
	}
	return edges
}
