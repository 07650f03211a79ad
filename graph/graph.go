// Package graph implements the in-memory SBOM dependency graph: the typed
// node/edge model (C2), the database loader that builds one from the
// relational store (C3), and the per-load string interner (C3) that keeps
// repeated high-cardinality fields from being allocated once per node.
package graph

import "github.com/google/uuid"

// Graph is a directed multigraph: nodes are unique by NodeID, but edges
// between a given pair of nodes are not deduplicated, since spec.md §4.2
// requires preserving every relationship a data source asserts.
type Graph struct {
	SbomID uuid.UUID

	nodes []Node
	index map[NodeID]int

	edges []Edge
	out   [][]int // out[i] = indices into edges, for node i
	in    [][]int // in[i] = indices into edges, for node i
}

// New returns an empty graph scoped to sbomID.
func New(sbomID uuid.UUID) *Graph {
	return &Graph{
		SbomID: sbomID,
		index:  make(map[NodeID]int),
	}
}

// AddNode inserts n, keyed by its NodeID. Re-adding the same NodeID is a
// no-op: the loader's node pass builds a set of already-seen ids before
// calling AddNode, exactly as the relational query can surface the same
// logical row more than once across its joins.
func (g *Graph) AddNode(n Node) {
	if _, ok := g.index[n.ID()]; ok {
		return
	}
	idx := len(g.nodes)
	g.nodes = append(g.nodes, n)
	g.out = append(g.out, nil)
	g.in = append(g.in, nil)
	g.index[n.ID()] = idx
}

// AddEdge appends an edge between two already-added nodes. Edges whose
// endpoints are not present in the graph are silently dropped, mirroring the
// loader's behaviour of ignoring relationship rows pointing at unknown node
// ids (original_source's get_relationships "if let (Some(left), Some(right))"
// guard).
func (g *Graph) AddEdge(e Edge) {
	li, ok := g.index[e.Left]
	if !ok {
		return
	}
	ri, ok := g.index[e.Right]
	if !ok {
		return
	}
	ei := len(g.edges)
	g.edges = append(g.edges, e)
	g.out[li] = append(g.out[li], ei)
	g.in[ri] = append(g.in[ri], ei)
}

// NodeByID returns the node with the given id, and whether it was found.
func (g *Graph) NodeByID(id NodeID) (Node, bool) {
	idx, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return g.nodes[idx], true
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int { return len(g.nodes) }

// Out returns the outgoing edges of the node with the given id.
func (g *Graph) Out(id NodeID) []Edge {
	idx, ok := g.index[id]
	if !ok {
		return nil
	}
	return g.edgesAt(g.out[idx])
}

// In returns the incoming edges of the node with the given id.
func (g *Graph) In(id NodeID) []Edge {
	idx, ok := g.index[id]
	if !ok {
		return nil
	}
	return g.edgesAt(g.in[idx])
}

func (g *Graph) edgesAt(idxs []int) []Edge {
	if len(idxs) == 0 {
		return nil
	}
	out := make([]Edge, len(idxs))
	for i, ei := range idxs {
		out[i] = g.edges[ei]
	}
	return out
}

// Nodes returns every node in the graph, in insertion order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// DetectCycle is a diagnostic, non-fatal check for whether the graph
// contains a directed cycle. It exists for tests and operational tooling;
// traversal itself never assumes acyclicity (spec.md §9: "do not rely on
// topological order").
func (g *Graph) DetectCycle() bool {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make([]int, len(g.nodes))
	var visit func(idx int) bool
	visit = func(idx int) bool {
		color[idx] = gray
		for _, ei := range g.out[idx] {
			e := g.edges[ei]
			ni, ok := g.index[e.Right]
			if !ok {
				continue
			}
			switch color[ni] {
			case gray:
				return true
			case white:
				if visit(ni) {
					return true
				}
			}
		}
		color[idx] = black
		return false
	}
	for i := range g.nodes {
		if color[i] == white && visit(i) {
			return true
		}
	}
	return false
}
