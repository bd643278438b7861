package services

import (
	"strings"

	"github.com/Asadaligondal/Identity-Compass/domain/core/aggregates"
	"github.com/Asadaligondal/Identity-Compass/domain/core/entities"
	"github.com/Asadaligondal/Identity-Compass/domain/core/valueobjects"
)

// Node sizing. Category nodes scale faster than leaves so the main
// nodes stay visually dominant at any activity level.
const (
	categorySizeMultiplier = 10
	tagSizeMultiplier      = 4
	itemNodeSize           = 5
)

// CategoryNodeID returns the node id for a dimension's main node.
// Ids are prefixed per kind so a tag named like a category can never
// collide with the category node itself.
func CategoryNodeID(d valueobjects.Dimension) string { return "cat:" + string(d) }

// TagNodeID returns the node id for a tag leaf.
func TagNodeID(t valueobjects.Tag) string { return "tag:" + string(t) }

// ItemNodeID returns the node id for an imported item leaf.
func ItemNodeID(eventID string) string { return "item:" + eventID }

// BuildGraph assembles the rendering graph from an event snapshot:
// one main node per category present, one leaf per distinct tag and
// per imported item, membership edges from each leaf to its category,
// plus any temporal edges passed in. Edge endpoints that name no node
// get a minimal synthesized node so the output never contains a
// dangling edge.
func BuildGraph(evs []*entities.Event, resolver *DimensionResolver, temporal []aggregates.GraphEdge) *aggregates.Graph {
	if resolver == nil {
		resolver = NewDimensionResolver(nil)
	}
	g := aggregates.NewGraph()

	// Pass 1: tally per-category event counts and per-tag frequencies.
	categoryCounts := make(map[valueobjects.Dimension]int)
	eventDims := make(map[string]valueobjects.Dimension, len(evs))
	tagFreq := make(map[valueobjects.Tag]int)
	var tagOrder []valueobjects.Tag
	for _, ev := range evs {
		dim, _ := resolver.ResolveEvent(ev)
		eventDims[ev.ID()] = dim
		categoryCounts[dim]++
		for _, t := range ev.Tags() {
			if tagFreq[t] == 0 {
				tagOrder = append(tagOrder, t)
			}
			tagFreq[t]++
		}
	}

	// Category nodes in enumeration order, Unassigned last.
	for _, d := range append(valueobjects.ScorableDimensions(), valueobjects.DimensionUnassigned) {
		count := categoryCounts[d]
		if count == 0 {
			continue
		}
		g.AddNode(aggregates.GraphNode{
			ID:        CategoryNodeID(d),
			Label:     titleLabel(string(d)),
			Kind:      aggregates.NodeKindCategory,
			Category:  d,
			Color:     d.Color(),
			Size:      categorySizeMultiplier * count,
			Frequency: count,
			Main:      true,
		})
	}

	// Tag leaves in first-seen order, each hanging off its own
	// resolved category rather than the owning event's.
	for _, t := range tagOrder {
		dim, _ := resolver.ResolveTag(t)
		g.AddNode(aggregates.GraphNode{
			ID:        TagNodeID(t),
			Label:     string(t),
			Kind:      aggregates.NodeKindTag,
			Category:  dim,
			Color:     dim.Color(),
			Size:      tagSizeMultiplier * tagFreq[t],
			Frequency: tagFreq[t],
		})
		g.AddEdge(aggregates.GraphEdge{
			Source: TagNodeID(t),
			Target: CategoryNodeID(dim),
			Kind:   aggregates.EdgeKindMembership,
			Weight: 1,
		})
	}

	// Item leaves in event order, fixed size.
	for _, ev := range evs {
		if ev.Kind() != entities.EventKindImported {
			continue
		}
		dim := eventDims[ev.ID()]
		g.AddNode(aggregates.GraphNode{
			ID:        ItemNodeID(ev.ID()),
			Label:     ev.Title(),
			Kind:      aggregates.NodeKindItem,
			Category:  dim,
			Color:     dim.Color(),
			Size:      itemNodeSize,
			Frequency: 1,
		})
		g.AddEdge(aggregates.GraphEdge{
			Source: ItemNodeID(ev.ID()),
			Target: CategoryNodeID(dim),
			Kind:   aggregates.EdgeKindMembership,
			Weight: 1,
		})
	}

	for _, e := range temporal {
		g.AddEdge(e)
	}

	for _, id := range g.DanglingEndpoints() {
		g.AddNode(synthesizeNode(id))
	}
	g.PruneInvalidEdges()
	return g
}

// titleLabel upper-cases the first letter of a dimension key for
// display.
func titleLabel(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// synthesizeNode builds a minimal stand-in node for an edge endpoint
// that was never explicitly created. The kind is inferred from the id
// prefix; anything unrecognized is treated as a tag leaf.
func synthesizeNode(id string) aggregates.GraphNode {
	n := aggregates.GraphNode{
		ID:        id,
		Label:     id,
		Kind:      aggregates.NodeKindTag,
		Category:  valueobjects.DimensionUnassigned,
		Color:     valueobjects.DimensionUnassigned.Color(),
		Size:      tagSizeMultiplier,
		Frequency: 1,
	}
	switch {
	case strings.HasPrefix(id, "cat:"):
		d := valueobjects.Dimension(strings.TrimPrefix(id, "cat:"))
		if d.Valid() {
			n.Category = d
			n.Color = d.Color()
		}
		n.Kind = aggregates.NodeKindCategory
		n.Label = titleLabel(strings.TrimPrefix(id, "cat:"))
		n.Size = categorySizeMultiplier
		n.Main = true
	case strings.HasPrefix(id, "item:"):
		n.Kind = aggregates.NodeKindItem
		n.Label = strings.TrimPrefix(id, "item:")
		n.Size = itemNodeSize
	case strings.HasPrefix(id, "tag:"):
		n.Label = strings.TrimPrefix(id, "tag:")
	}
	return n
}
