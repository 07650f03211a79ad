package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/trustify-project/analysis-engine/cpeid"
	"github.com/trustify-project/analysis-engine/purl"
)

// NodeRow is the flattened shape of one row of the wide node query described
// in SPEC_FULL.md §4.3: one sbom joined to its node, optional package row,
// aggregated PURLs/CPEs, optional external-node row, and the owning
// product's name/version. It mirrors original_source's service/load.rs
// Node struct field-for-field.
type NodeRow struct {
	SbomID     uuid.UUID
	DocumentID *string
	Published  time.Time

	NodeID   string
	NodeName string

	PackageNodeID  *string
	PackageVersion *string
	Purls          []string
	CPEs           []string

	ExtNodeID              *string
	ExtExternalDocumentRef *string
	ExtExternalNodeID      *string

	ProductName    *string
	ProductVersion *string
}

// EdgeRow is one row of package_relates_to_package scoped to a single SBOM.
type EdgeRow struct {
	LeftNodeID   string
	Relationship Relationship
	RightNodeID  string
}

// Queryer is the narrow read-only interface the loader needs from the
// relational store (SPEC_FULL.md §6.2's datastore.Queryer contract, graph
// half). datastore/postgres implements it.
type Queryer interface {
	GraphNodes(ctx context.Context, sbomID uuid.UUID) ([]NodeRow, error)
	GraphEdges(ctx context.Context, sbomID uuid.UUID) ([]EdgeRow, error)
}

// Loader materialises one SBOM's Graph from the relational store.
type Loader struct {
	Store Queryer
}

// NewLoader returns a Loader reading from store.
func NewLoader(store Queryer) *Loader {
	return &Loader{Store: store}
}

// Load builds the graph for sbomID, per SPEC_FULL.md §4.3:
//
//  1. fetch every node row and convert each to a typed Node, deduplicating by
//     node id and interning high-cardinality strings;
//  2. fetch every relationship row and add edges between already-known
//     nodes, tracking which nodes are the left side of a describes edge and which
//     nodes received no edge at all;
//  3. for every untouched node, add a synthetic Undefined edge from each
//     describes-root to it (the documented universal invariant).
func (l *Loader) Load(ctx context.Context, sbomID uuid.UUID) (*Graph, error) {
	rows, err := l.Store.GraphNodes(ctx, sbomID)
	if err != nil {
		return nil, fmt.Errorf("graph: loading nodes for %s: %w", sbomID, err)
	}

	g := New(sbomID)
	ic := newInterner()
	untouched := make(map[NodeID]struct{}, len(rows))

	for _, r := range rows {
		id := NodeID(r.NodeID)
		if _, ok := g.NodeByID(id); ok {
			continue
		}
		g.AddNode(rowToNode(r, ic))
		untouched[id] = struct{}{}
	}

	edges, err := l.Store.GraphEdges(ctx, sbomID)
	if err != nil {
		return nil, fmt.Errorf("graph: loading edges for %s: %w", sbomID, err)
	}

	var describesRoots []NodeID
	isRoot := make(map[NodeID]bool)
	for _, e := range edges {
		left, right := NodeID(e.LeftNodeID), NodeID(e.RightNodeID)
		if _, ok := g.NodeByID(left); !ok {
			continue
		}
		if _, ok := g.NodeByID(right); !ok {
			continue
		}
		if e.Relationship == RelDescribes && !isRoot[left] {
			isRoot[left] = true
			describesRoots = append(describesRoots, left)
		}
		delete(untouched, left)
		delete(untouched, right)
		g.AddEdge(Edge{Left: left, Right: right, Relationship: e.Relationship})
	}

	if len(describesRoots) > 0 {
		for id := range untouched {
			for _, root := range describesRoots {
				g.AddEdge(Edge{Left: root, Right: id, Relationship: RelUndefined})
			}
		}
	}

	return g, nil
}

func rowToNode(r NodeRow, ic *interner) Node {
	base := BaseNode{
		SbomID:         r.SbomID,
		NodeID:         NodeID(r.NodeID),
		Name:           r.NodeName,
		Published:      r.Published,
		DocumentID:     ic.internOptional(r.DocumentID),
		ProductName:    ic.internOptional(r.ProductName),
		ProductVersion: ic.internOptional(r.ProductVersion),
	}

	switch {
	case r.PackageNodeID != nil:
		var version string
		if r.PackageVersion != nil {
			version = *r.PackageVersion
		}
		return PackageNode{
			BaseNode: base,
			Version:  version,
			Purl:     parsePurls(r.Purls),
			CPE:      parseCPEs(r.CPEs),
		}
	case r.ExtNodeID != nil:
		var docRef, nodeID string
		if r.ExtExternalDocumentRef != nil {
			docRef = *r.ExtExternalDocumentRef
		}
		if r.ExtExternalNodeID != nil {
			nodeID = *r.ExtExternalNodeID
		}
		return ExternalNode{
			BaseNode:                  base,
			ExternalDocumentReference: docRef,
			ExternalNodeID:            nodeID,
		}
	default:
		return UnknownNode{BaseNode: base}
	}
}

// parsePurls and parseCPEs skip entries that fail to parse rather than
// failing the whole load: a single malformed stored identifier should not
// make an entire SBOM unloadable.
func parsePurls(ss []string) []purl.Purl {
	if len(ss) == 0 {
		return nil
	}
	out := make([]purl.Purl, 0, len(ss))
	for _, s := range ss {
		p, err := purl.Parse(s)
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	return out
}

func parseCPEs(ss []string) []cpeid.CPE {
	if len(ss) == 0 {
		return nil
	}
	out := make([]cpeid.CPE, 0, len(ss))
	for _, s := range ss {
		c, err := cpeid.Parse(s)
		if err != nil {
			continue
		}
		out = append(out, c)
	}
	return out
}
