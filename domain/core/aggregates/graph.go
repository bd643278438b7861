package aggregates

import (
	"github.com/Asadaligondal/Identity-Compass/domain/core/valueobjects"
)

// NodeKind distinguishes the node types in the rendered graph.
type NodeKind string

const (
	// NodeKindCategory is a main node representing one life dimension.
	NodeKindCategory NodeKind = "category"
	// NodeKindTag is a leaf node for one distinct journal tag.
	NodeKindTag NodeKind = "tag"
	// NodeKindItem is a leaf node for one distinct imported item.
	NodeKindItem NodeKind = "item"
)

// EdgeKind distinguishes the rendering-level edge types.
type EdgeKind string

const (
	// EdgeKindMembership links a leaf to its owning category, weight 1.
	EdgeKindMembership EdgeKind = "membership"
	// EdgeKindTemporal links two items watched within the temporal
	// window, weight 2.
	EdgeKindTemporal EdgeKind = "temporal"
)

// GraphNode is one node of the rendered graph. Identity is the id.
type GraphNode struct {
	ID        string                  `json:"id"`
	Label     string                  `json:"label"`
	Kind      NodeKind                `json:"kind"`
	Category  valueobjects.Dimension  `json:"category"`
	Color     string                  `json:"color"`
	Size      int                     `json:"size"`
	Frequency int                     `json:"frequency"`
	Main      bool                    `json:"main"`
}

// GraphEdge is one rendering-level edge. Identity is the unordered
// pair of endpoint ids.
type GraphEdge struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Kind   EdgeKind `json:"kind"`
	Weight int      `json:"weight"`
}

// key returns the canonical unordered identity of the edge, so an
// edge and its reverse deduplicate to one.
func (e GraphEdge) key() string {
	a, b := e.Source, e.Target
	if a > b {
		a, b = b, a
	}
	return a + "->" + b
}

// Graph is the deduplicated node/edge set handed to the layout
// engine. Insertion order is preserved so output is deterministic.
type Graph struct {
	nodes     map[string]*GraphNode
	nodeOrder []string
	edges     map[string]*GraphEdge
	edgeOrder []string
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]*GraphNode),
		edges: make(map[string]*GraphEdge),
	}
}

// AddNode inserts a node, keeping the first occurrence on duplicate
// ids.
func (g *Graph) AddNode(n GraphNode) {
	if n.ID == "" {
		return
	}
	if _, exists := g.nodes[n.ID]; exists {
		return
	}
	node := n
	g.nodes[n.ID] = &node
	g.nodeOrder = append(g.nodeOrder, n.ID)
}

// HasNode reports whether a node with the given id exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id string) *GraphNode {
	return g.nodes[id]
}

// AddEdge inserts an edge, deduplicating against its reverse
// direction. The first occurrence wins.
func (g *Graph) AddEdge(e GraphEdge) {
	if e.Source == "" || e.Target == "" || e.Source == e.Target {
		return
	}
	k := e.key()
	if _, exists := g.edges[k]; exists {
		return
	}
	edge := e
	g.edges[k] = &edge
	g.edgeOrder = append(g.edgeOrder, k)
}

// Nodes returns the node set in insertion order.
func (g *Graph) Nodes() []GraphNode {
	out := make([]GraphNode, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		out = append(out, *g.nodes[id])
	}
	return out
}

// Edges returns the edge set in insertion order.
func (g *Graph) Edges() []GraphEdge {
	out := make([]GraphEdge, 0, len(g.edgeOrder))
	for _, k := range g.edgeOrder {
		out = append(out, *g.edges[k])
	}
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// DanglingEndpoints returns every edge endpoint id that has no
// corresponding node, in first-seen order.
func (g *Graph) DanglingEndpoints() []string {
	seen := make(map[string]bool)
	var out []string
	for _, k := range g.edgeOrder {
		e := g.edges[k]
		for _, id := range []string{e.Source, e.Target} {
			if !g.HasNode(id) && !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}

// PruneInvalidEdges silently drops every edge whose source or target
// id is not present in the node set.
func (g *Graph) PruneInvalidEdges() {
	kept := make([]string, 0, len(g.edgeOrder))
	for _, k := range g.edgeOrder {
		e := g.edges[k]
		if g.HasNode(e.Source) && g.HasNode(e.Target) {
			kept = append(kept, k)
			continue
		}
		delete(g.edges, k)
	}
	g.edgeOrder = kept
}
