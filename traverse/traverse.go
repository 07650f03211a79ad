package traverse

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	trustify "github.com/trustify-project/analysis-engine"
	"github.com/trustify-project/analysis-engine/externalref"
	"github.com/trustify-project/analysis-engine/graph"
)

// Direction selects which edge orientation a walk follows.
type Direction int

const (
	// DirectionDescendants follows outgoing edges.
	DirectionDescendants Direction = iota
	// DirectionAncestors follows incoming edges, and additionally expands
	// across external references that point into the current node.
	DirectionAncestors
)

// ResultNode is one node reached by a walk, carrying the relationship that
// led to it and, if the walk continued past it, the nested results in the
// same direction.
type ResultNode struct {
	Base            graph.BaseNode
	Kind            graph.NodeKind
	ViaRelationship graph.Relationship
	Ancestors       []ResultNode
	Descendants     []ResultNode
	// Warnings records non-fatal problems encountered expanding this node's
	// own children, e.g. an external reference that could not be resolved
	// (spec.md §7: Unresolved is attached per node, not failed as a whole).
	// The walk that reached this node still succeeds; its absence of further
	// children is explained here rather than silently.
	Warnings []string
}

// ExternalAncestor is one row naming an SBOM/node pair whose
// sbom_external_node entry points at the (sbomID, nodeID) pair it was
// queried with — i.e. a document that reaches this node through an external
// reference, and is therefore its ancestor across that boundary.
type ExternalAncestor struct {
	SbomID uuid.UUID
	NodeID string
}

// AncestorStore resolves the reverse direction of an external reference: who
// points at a given node, rather than what a given external node points at.
type AncestorStore interface {
	ExternalAncestors(ctx context.Context, sbomID uuid.UUID, nodeID string) ([]ExternalAncestor, error)
}

// GraphSource loads (or serves from cache) the graph for an SBOM.
type GraphSource interface {
	Graph(ctx context.Context, sbomID uuid.UUID) (*graph.Graph, error)
}

// Engine walks one or more SBOM graphs, crossing external references via
// Resolver and Ancestors as needed.
type Engine struct {
	Graphs      GraphSource
	Resolver    *externalref.Resolver
	Ancestors   AncestorStore
	Concurrency int // fan-out bound per level; defaults to 8 if <= 0
}

// NewEngine returns an Engine reading graphs from graphs, external
// references from resolver, and reverse external references from ancestors.
func NewEngine(graphs GraphSource, resolver *externalref.Resolver, ancestors AncestorStore) *Engine {
	return &Engine{Graphs: graphs, Resolver: resolver, Ancestors: ancestors}
}

func (e *Engine) concurrency() int {
	if e.Concurrency > 0 {
		return e.Concurrency
	}
	return 8
}

// CollectDescendants implements spec.md §4.8's collect_descendants: the
// nodes reachable from start by following outgoing edges up to depth levels.
func (e *Engine) CollectDescendants(ctx context.Context, sbomID uuid.UUID, start graph.NodeID, depth int, filter graph.RelationshipFilter) ([]ResultNode, error) {
	return e.collect(ctx, sbomID, start, DirectionDescendants, depth, filter)
}

// CollectAncestors implements spec.md §4.8's collect_ancestors: the nodes
// reachable from start by following incoming edges, additionally crossing
// into SBOMs whose external references point at nodes visited along the way.
func (e *Engine) CollectAncestors(ctx context.Context, sbomID uuid.UUID, start graph.NodeID, depth int, filter graph.RelationshipFilter) ([]ResultNode, error) {
	return e.collect(ctx, sbomID, start, DirectionAncestors, depth, filter)
}

func (e *Engine) collect(ctx context.Context, sbomID uuid.UUID, start graph.NodeID, dir Direction, depth int, filter graph.RelationshipFilter) ([]ResultNode, error) {
	g, err := e.Graphs.Graph(ctx, sbomID)
	if err != nil {
		return nil, fmt.Errorf("traverse: loading graph %s: %w", sbomID, err)
	}
	n, ok := g.NodeByID(start)
	if !ok {
		return nil, &trustify.Error{Op: "traverse.Collect", Kind: trustify.ErrNotFound, Message: fmt.Sprintf("node %s not found in sbom %s", start, sbomID)}
	}

	st := newVisited()
	st.visit(sbomID, start)
	// A warning surfacing from the start node itself (an unresolved external
	// reference as the query's own target) has no ResultNode to attach to at
	// this level; it is dropped the same way an empty result would be.
	out, _, err := e.dispatch(ctx, st, g, sbomID, n, dir, depth, filter)
	return out, err
}

// dispatch classifies n and applies its per-kind traversal rule (spec.md
// §4.8 step 3). It is shared by the collect entry point, for the start
// node, and by enter, for every node reached through an edge. The warning
// return is non-empty only when n is an external node whose reference could
// not be resolved.
func (e *Engine) dispatch(ctx context.Context, st *visited, g *graph.Graph, sbomID uuid.UUID, n graph.Node, dir Direction, depth int, filter graph.RelationshipFilter) ([]ResultNode, string, error) {
	switch node := n.(type) {
	case graph.ExternalNode:
		return e.enterExternal(ctx, st, node, dir, depth, filter)
	case graph.PackageNode:
		out, err := e.enterPackage(ctx, st, g, sbomID, node, dir, depth, filter)
		return out, "", err
	default:
		out, err := e.collectGraph(ctx, st, g, sbomID, n.ID(), dir, depth, filter)
		return out, "", err
	}
}

// visited is the cross-graph visited set spec.md §9 calls for: a node
// reached through one path must not be expanded again through another, even
// across a traversal that crosses into other SBOMs' graphs.
type visited struct {
	mu   sync.Mutex
	seen map[uuid.UUID]map[graph.NodeID]bool
}

func newVisited() *visited {
	return &visited{seen: make(map[uuid.UUID]map[graph.NodeID]bool)}
}

// visit reports whether (sbomID, id) had not yet been seen, marking it seen
// as a side effect.
func (v *visited) visit(sbomID uuid.UUID, id graph.NodeID) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	m, ok := v.seen[sbomID]
	if !ok {
		m = make(map[graph.NodeID]bool)
		v.seen[sbomID] = m
	}
	if m[id] {
		return false
	}
	m[id] = true
	return true
}

// collectGraph fans out, bounded by Engine.Concurrency, across nodeID's
// edges in dir, building one ResultNode per edge whose relationship passes
// filter. It corresponds to collector.rs's collect_graph.
func (e *Engine) collectGraph(ctx context.Context, st *visited, g *graph.Graph, sbomID uuid.UUID, nodeID graph.NodeID, dir Direction, depth int, filter graph.RelationshipFilter) ([]ResultNode, error) {
	if err := ctx.Err(); err != nil {
		return nil, &trustify.Error{Op: "traverse.Collect", Kind: trustify.ErrCancelled, Inner: err}
	}

	var edges []graph.Edge
	if dir == DirectionAncestors {
		edges = g.In(nodeID)
	} else {
		edges = g.Out(nodeID)
	}

	results := make([]*ResultNode, len(edges))
	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(e.concurrency())

	for i, edge := range edges {
		if !filter.Allows(edge.Relationship) {
			continue
		}
		i, edge := i, edge
		eg.Go(func() error {
			rn, err := e.collectEdge(egctx, st, g, sbomID, edge, dir, depth, filter)
			if err != nil {
				return err
			}
			results[i] = rn
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var out []ResultNode
	for _, rn := range results {
		if rn != nil {
			out = append(out, *rn)
		}
	}
	return out, nil
}

// collectEdge builds the ResultNode for one edge's far endpoint, recursing
// into it (decrementing depth) to fill in its own nested Ancestors or
// Descendants.
func (e *Engine) collectEdge(ctx context.Context, st *visited, g *graph.Graph, sbomID uuid.UUID, edge graph.Edge, dir Direction, depth int, filter graph.RelationshipFilter) (*ResultNode, error) {
	farID := edge.Right
	if dir == DirectionAncestors {
		farID = edge.Left
	}
	far, ok := g.NodeByID(farID)
	if !ok {
		return nil, nil
	}

	rn := &ResultNode{Base: far.Base(), Kind: far.Kind(), ViaRelationship: edge.Relationship}

	children, warning, err := e.enter(ctx, st, g, sbomID, far, dir, depth-1, filter)
	if err != nil {
		return nil, err
	}
	if warning != "" {
		rn.Warnings = append(rn.Warnings, warning)
	}
	if dir == DirectionAncestors {
		rn.Ancestors = children
	} else {
		rn.Descendants = children
	}
	return rn, nil
}

// enter implements spec.md §4.8 step 2-3: the depth/visited checks that gate
// whether a node's own children get computed, followed by the per-kind
// traversal rule.
func (e *Engine) enter(ctx context.Context, st *visited, g *graph.Graph, sbomID uuid.UUID, n graph.Node, dir Direction, depth int, filter graph.RelationshipFilter) ([]ResultNode, string, error) {
	if depth <= 0 {
		return nil, "", nil // depth-exhausted: a normal outcome, not an error
	}
	if !st.visit(sbomID, n.ID()) {
		return nil, "", nil // already-visited: same contract as depth-exhausted
	}
	if err := ctx.Err(); err != nil {
		return nil, "", &trustify.Error{Op: "traverse.Collect", Kind: trustify.ErrCancelled, Inner: err}
	}

	return e.dispatch(ctx, st, g, sbomID, n, dir, depth, filter)
}

// enterExternal resolves the external node to its target SBOM and continues
// the walk there. An external reference that cannot be resolved is not an
// error: the node simply has no children, with the reason returned as a
// warning for the caller to attach to the ResultNode it is building for this
// node (spec.md §7: Unresolved is accumulated per node, not failed outright).
func (e *Engine) enterExternal(ctx context.Context, st *visited, n graph.ExternalNode, dir Direction, depth int, filter graph.RelationshipFilter) ([]ResultNode, string, error) {
	target, err := e.Resolver.Resolve(ctx, externalref.RefOf(n))
	if err != nil {
		if errors.Is(err, trustify.ErrUnresolved) {
			return nil, fmt.Sprintf("unresolved external reference %s/%s", n.ExternalDocumentReference, n.ExternalNodeID), nil
		}
		return nil, "", fmt.Errorf("traverse: resolving external node %s/%s: %w", n.ExternalDocumentReference, n.ExternalNodeID, err)
	}

	eg, err := e.Graphs.Graph(ctx, target.SbomID)
	if err != nil {
		return nil, "", fmt.Errorf("traverse: loading external graph %s: %w", target.SbomID, err)
	}
	extID := graph.NodeID(n.ExternalNodeID)
	if _, ok := eg.NodeByID(extID); !ok {
		return nil, fmt.Sprintf("external reference %s/%s resolved to sbom %s but node was not found", n.ExternalDocumentReference, n.ExternalNodeID, target.SbomID), nil
	}
	out, err := e.collectGraph(ctx, st, eg, target.SbomID, extID, dir, depth, filter)
	return out, "", err
}

// enterPackage walks the package's own edges and, for ancestor walks, also
// discovers external SBOMs whose sbom_external_node entries point into this
// node, continuing the walk in each of them (spec.md §4.8 step 3's "Package"
// rule).
func (e *Engine) enterPackage(ctx context.Context, st *visited, g *graph.Graph, sbomID uuid.UUID, n graph.PackageNode, dir Direction, depth int, filter graph.RelationshipFilter) ([]ResultNode, error) {
	out, err := e.collectGraph(ctx, st, g, sbomID, n.ID(), dir, depth, filter)
	if err != nil {
		return nil, err
	}
	if dir != DirectionAncestors || e.Ancestors == nil {
		return out, nil
	}

	externalAncestors, err := e.Ancestors.ExternalAncestors(ctx, sbomID, string(n.ID()))
	if err != nil {
		return nil, fmt.Errorf("traverse: external ancestors of %s/%s: %w", sbomID, n.ID(), err)
	}

	for _, anc := range externalAncestors {
		if anc.SbomID == sbomID {
			continue // not a cross-document ancestor
		}
		ag, err := e.Graphs.Graph(ctx, anc.SbomID)
		if err != nil {
			return nil, fmt.Errorf("traverse: loading ancestor graph %s: %w", anc.SbomID, err)
		}
		ancID := graph.NodeID(anc.NodeID)
		ancNode, ok := ag.NodeByID(ancID)
		if !ok {
			continue
		}
		// The ancestor root itself appears in the result (spec.md §8 scenario
		// 4: "the product SBOM's describes-root appears as an ancestor,
		// carried across the external edge"); its own further ancestors come
		// from its edges, at the same depth, mirroring how enterExternal
		// crosses a document boundary without charging the depth budget.
		children, err := e.collectGraph(ctx, st, ag, anc.SbomID, ancID, dir, depth, filter)
		if err != nil {
			return nil, err
		}
		rn := ResultNode{Base: ancNode.Base(), Kind: ancNode.Kind()}
		if dir == DirectionAncestors {
			rn.Ancestors = children
		} else {
			rn.Descendants = children
		}
		out = append(out, rn)
	}
	return out, nil
}
