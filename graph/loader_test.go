package graph

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeQueryer struct {
	nodes []NodeRow
	edges []EdgeRow
}

func (f *fakeQueryer) GraphNodes(_ context.Context, _ uuid.UUID) ([]NodeRow, error) {
	return f.nodes, nil
}

func (f *fakeQueryer) GraphEdges(_ context.Context, _ uuid.UUID) ([]EdgeRow, error) {
	return f.edges, nil
}

func strp(s string) *string { return &s }

// TestLoadUndefinedEdgeInvariant exercises the universal invariant from
// spec.md §8: a package node with no explicit edge to any describes-root
// gets a synthetic Undefined edge from every describes-root.
func TestLoadUndefinedEdgeInvariant(t *testing.T) {
	sbomID := uuid.New()
	now := time.Now()
	q := &fakeQueryer{
		nodes: []NodeRow{
			{SbomID: sbomID, NodeID: "doc", NodeName: "doc", Published: now},
			{SbomID: sbomID, NodeID: "AA", NodeName: "AA", Published: now, PackageNodeID: strp("AA")},
			{SbomID: sbomID, NodeID: "orphan", NodeName: "orphan", Published: now, PackageNodeID: strp("orphan")},
		},
		edges: []EdgeRow{
			{LeftNodeID: "doc", Relationship: RelDescribes, RightNodeID: "AA"},
		},
	}
	l := NewLoader(q)
	g, err := l.Load(context.Background(), sbomID)
	if err != nil {
		t.Fatal(err)
	}
	if g.Len() != 3 {
		t.Fatalf("expected 3 nodes, got %d", g.Len())
	}

	out := g.Out("doc")
	var sawUndefinedToOrphan bool
	for _, e := range out {
		if e.Right == "orphan" && e.Relationship == RelUndefined {
			sawUndefinedToOrphan = true
		}
	}
	if !sawUndefinedToOrphan {
		t.Fatal("expected synthetic undefined edge from describes-root to orphan node")
	}

	// AA was explicitly connected, so it must not also receive a synthetic edge.
	for _, e := range out {
		if e.Right == "AA" && e.Relationship == RelUndefined {
			t.Fatal("did not expect synthetic edge to an explicitly connected node")
		}
	}
}

func TestLoadDropsEdgesToUnknownNodes(t *testing.T) {
	sbomID := uuid.New()
	now := time.Now()
	q := &fakeQueryer{
		nodes: []NodeRow{
			{SbomID: sbomID, NodeID: "a", NodeName: "a", Published: now},
		},
		edges: []EdgeRow{
			{LeftNodeID: "a", Relationship: RelContains, RightNodeID: "ghost"},
		},
	}
	l := NewLoader(q)
	g, err := l.Load(context.Background(), sbomID)
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Out("a")) != 0 {
		t.Fatal("expected edge to unknown node to be dropped")
	}
}

func TestLoadNoDescribesRootLeavesOrphansUnconnected(t *testing.T) {
	sbomID := uuid.New()
	now := time.Now()
	q := &fakeQueryer{
		nodes: []NodeRow{
			{SbomID: sbomID, NodeID: "a", NodeName: "a", Published: now},
		},
	}
	l := NewLoader(q)
	g, err := l.Load(context.Background(), sbomID)
	if err != nil {
		t.Fatal(err)
	}
	if g.Len() != 1 {
		t.Fatalf("expected 1 node, got %d", g.Len())
	}
	if len(g.Out("a"))+len(g.In("a")) != 0 {
		t.Fatal("expected node with no describes-root to remain unconnected")
	}
}

func TestLoadDeduplicatesNodeRows(t *testing.T) {
	sbomID := uuid.New()
	now := time.Now()
	q := &fakeQueryer{
		nodes: []NodeRow{
			{SbomID: sbomID, NodeID: "a", NodeName: "a", Published: now},
			{SbomID: sbomID, NodeID: "a", NodeName: "a", Published: now},
		},
	}
	l := NewLoader(q)
	g, err := l.Load(context.Background(), sbomID)
	if err != nil {
		t.Fatal(err)
	}
	if g.Len() != 1 {
		t.Fatalf("expected duplicate rows to collapse to 1 node, got %d", g.Len())
	}
}

func TestLoadClassifiesNodeKinds(t *testing.T) {
	sbomID := uuid.New()
	now := time.Now()
	q := &fakeQueryer{
		nodes: []NodeRow{
			{SbomID: sbomID, NodeID: "pkg", NodeName: "pkg", Published: now, PackageNodeID: strp("pkg"), Purls: []string{"pkg:rpm/redhat/foo@1.0"}},
			{SbomID: sbomID, NodeID: "ext", NodeName: "ext", Published: now, ExtNodeID: strp("ext"), ExtExternalDocumentRef: strp("docref"), ExtExternalNodeID: strp("extnode")},
			{SbomID: sbomID, NodeID: "unk", NodeName: "unk", Published: now},
		},
	}
	l := NewLoader(q)
	g, err := l.Load(context.Background(), sbomID)
	if err != nil {
		t.Fatal(err)
	}

	pkg, _ := g.NodeByID("pkg")
	if pkg.Kind() != KindPackage {
		t.Fatalf("expected package kind, got %v", pkg.Kind())
	}
	if len(pkg.(PackageNode).Purl) != 1 {
		t.Fatal("expected parsed purl on package node")
	}

	ext, _ := g.NodeByID("ext")
	if ext.Kind() != KindExternal {
		t.Fatalf("expected external kind, got %v", ext.Kind())
	}

	unk, _ := g.NodeByID("unk")
	if unk.Kind() != KindUnknown {
		t.Fatalf("expected unknown kind, got %v", unk.Kind())
	}
}
