package services

import (
	"sort"

	"github.com/Asadaligondal/Identity-Compass/domain/core/aggregates"
)

// DefaultNodeBudget is the soft ceiling on rendered nodes. Exempt
// nodes (main and item leaves) are never truncated, so the real count
// can exceed it when exemptions alone do.
const DefaultNodeBudget = 300

// DefaultMinFrequency keeps singleton tags out of the rendered graph.
const DefaultMinFrequency = 2

// FilterNoise returns a new graph with low-signal nodes removed.
// Main nodes and item leaves are always kept. Other nodes survive
// only with frequency >= minFrequency, and if the kept set still
// exceeds the cap the lowest-frequency non-exempt nodes are dropped
// first. Edges touching a dropped node go with it. Filtering an
// already-filtered graph with the same parameters is a no-op.
func FilterNoise(g *aggregates.Graph, minFrequency, cap int) *aggregates.Graph {
	if g == nil {
		return aggregates.NewGraph()
	}
	if cap <= 0 {
		cap = DefaultNodeBudget
	}

	exemptCount := 0
	var candidates []aggregates.GraphNode
	for _, n := range g.Nodes() {
		if n.Main || n.Kind == aggregates.NodeKindItem {
			exemptCount++
			continue
		}
		if n.Frequency >= minFrequency {
			candidates = append(candidates, n)
		}
	}

	keepNonExempt := len(candidates)
	if exemptCount+keepNonExempt > cap {
		keepNonExempt = cap - exemptCount
		if keepNonExempt < 0 {
			keepNonExempt = 0
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			if candidates[i].Frequency != candidates[j].Frequency {
				return candidates[i].Frequency > candidates[j].Frequency
			}
			return candidates[i].ID < candidates[j].ID
		})
	}
	kept := make(map[string]bool, exemptCount+keepNonExempt)
	for _, n := range candidates[:keepNonExempt] {
		kept[n.ID] = true
	}

	out := aggregates.NewGraph()
	for _, n := range g.Nodes() {
		if n.Main || n.Kind == aggregates.NodeKindItem || kept[n.ID] {
			out.AddNode(n)
		}
	}
	for _, e := range g.Edges() {
		if out.HasNode(e.Source) && out.HasNode(e.Target) {
			out.AddEdge(e)
		}
	}
	return out
}
