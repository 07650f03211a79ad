package rank

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"

	"github.com/trustify-project/analysis-engine/query"
	mock_rank "github.com/trustify-project/analysis-engine/test/mock/rank"
)

// rankFixture backs a mock_rank.MockStore with the same map-based lookups
// the hand-written fake used to provide directly, via DoAndReturn: the
// maps are the fixture, the mock is the interface boundary the Ranker
// actually depends on.
type rankFixture struct {
	containing map[string][]Edge // key: sbomID.String()+"/"+nodeID
	external   map[string][]Edge
	cpes       map[uuid.UUID][]uuid.UUID
}

func key(sbomID uuid.UUID, nodeID string) string { return sbomID.String() + "/" + nodeID }

func newRankFixture() *rankFixture {
	return &rankFixture{
		containing: make(map[string][]Edge),
		external:   make(map[string][]Edge),
		cpes:       make(map[uuid.UUID][]uuid.UUID),
	}
}

func (f *rankFixture) newStore(ctrl *gomock.Controller) Store {
	store := mock_rank.NewMockStore(ctrl)
	store.EXPECT().ContainingEdges(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, sbomID uuid.UUID, nodeID string) ([]Edge, error) {
			return f.containing[key(sbomID, nodeID)], nil
		}).AnyTimes()
	store.EXPECT().ExternalAncestors(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, sbomID uuid.UUID, nodeID string) ([]Edge, error) {
			return f.external[key(sbomID, nodeID)], nil
		}).AnyTimes()
	store.EXPECT().AuthoritativeCPEs(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, sbomID uuid.UUID) ([]uuid.UUID, error) {
			return f.cpes[sbomID], nil
		}).AnyTimes()
	return store
}

func TestRankNoAncestorUsesOwnSbomCPEs(t *testing.T) {
	ctrl := gomock.NewController(t)
	sbomID := uuid.New()
	cpeID := uuid.New()
	fx := newRankFixture()
	fx.cpes[sbomID] = []uuid.UUID{cpeID}

	r := NewRanker(fx.newStore(ctrl))
	now := time.Now()
	matches := []query.Match{{SbomID: sbomID, NodeID: "AA", Name: "foo", Published: now}}

	ranked, err := r.Rank(context.Background(), matches, query.ShapeFreeText)
	if err != nil {
		t.Fatal(err)
	}
	if len(ranked) != 1 {
		t.Fatalf("expected 1 ranked row, got %d", len(ranked))
	}
	if ranked[0].CPEID != cpeID {
		t.Fatalf("expected cpe %s, got %s", cpeID, ranked[0].CPEID)
	}
	if ranked[0].Rank != 1 {
		t.Fatalf("expected rank 1, got %d", ranked[0].Rank)
	}
}

func TestRankNoAuthoritativeCPEIsSingleton(t *testing.T) {
	ctrl := gomock.NewController(t)
	sbomA, sbomB := uuid.New(), uuid.New()
	fx := newRankFixture()
	r := NewRanker(fx.newStore(ctrl))

	now := time.Now()
	matches := []query.Match{
		{SbomID: sbomA, NodeID: "AA", Name: "foo", Published: now},
		{SbomID: sbomB, NodeID: "BB", Name: "bar", Published: now},
	}

	ranked, err := r.Rank(context.Background(), matches, query.ShapeFreeText)
	if err != nil {
		t.Fatal(err)
	}
	if len(ranked) != 2 {
		t.Fatalf("expected 2 singleton rows, got %d", len(ranked))
	}
	if ranked[0].CPEID == ranked[1].CPEID {
		t.Fatal("expected distinct synthetic cpe ids for unrelated matches with no authoritative cpe")
	}
	for _, row := range ranked {
		if row.Rank != 1 {
			t.Fatalf("singleton partition must rank 1, got %d", row.Rank)
		}
	}
}

func TestRankPartitionsByPublishedDesc(t *testing.T) {
	ctrl := gomock.NewController(t)
	sbomOld, sbomNew := uuid.New(), uuid.New()
	cpeID := uuid.New()
	fx := newRankFixture()
	fx.cpes[sbomOld] = []uuid.UUID{cpeID}
	fx.cpes[sbomNew] = []uuid.UUID{cpeID}

	r := NewRanker(fx.newStore(ctrl))
	older := time.Date(2025, 2, 24, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)
	matches := []query.Match{
		{SbomID: sbomOld, NodeID: "AA", Name: "foo", Published: older},
		{SbomID: sbomNew, NodeID: "AA", Name: "foo", Published: newer},
	}

	ranked, err := r.Rank(context.Background(), matches, query.ShapeFreeText)
	if err != nil {
		t.Fatal(err)
	}
	if len(ranked) != 2 {
		t.Fatalf("expected 2 ranked rows, got %d", len(ranked))
	}
	var rank1, rank2 *Ranked
	for i := range ranked {
		switch ranked[i].Rank {
		case 1:
			rank1 = &ranked[i]
		case 2:
			rank2 = &ranked[i]
		}
	}
	if rank1 == nil || rank2 == nil {
		t.Fatalf("expected ranks 1 and 2, got %+v", ranked)
	}
	if rank1.MatchedSbomID != sbomNew {
		t.Fatalf("expected newer sbom to rank 1, got %s", rank1.MatchedSbomID)
	}
	if rank2.MatchedSbomID != sbomOld {
		t.Fatalf("expected older sbom to rank 2, got %s", rank2.MatchedSbomID)
	}
}

func TestRankTiedPublishedShareRank(t *testing.T) {
	ctrl := gomock.NewController(t)
	sbomA, sbomB := uuid.New(), uuid.New()
	cpeID := uuid.New()
	fx := newRankFixture()
	fx.cpes[sbomA] = []uuid.UUID{cpeID}
	fx.cpes[sbomB] = []uuid.UUID{cpeID}

	r := NewRanker(fx.newStore(ctrl))
	same := time.Now()
	matches := []query.Match{
		{SbomID: sbomA, NodeID: "AA", Name: "foo", Published: same},
		{SbomID: sbomB, NodeID: "BB", Name: "foo", Published: same},
	}

	ranked, err := r.Rank(context.Background(), matches, query.ShapeFreeText)
	if err != nil {
		t.Fatal(err)
	}
	if ranked[0].Rank != 1 || ranked[1].Rank != 1 {
		t.Fatalf("expected both tied rows at rank 1, got %+v", ranked)
	}
}

func TestRankCPEShapePartitionsIncludeName(t *testing.T) {
	ctrl := gomock.NewController(t)
	sbomA, sbomB := uuid.New(), uuid.New()
	cpeID := uuid.New()
	fx := newRankFixture()
	fx.cpes[sbomA] = []uuid.UUID{cpeID}
	fx.cpes[sbomB] = []uuid.UUID{cpeID}

	r := NewRanker(fx.newStore(ctrl))
	now := time.Now()
	matches := []query.Match{
		{SbomID: sbomA, NodeID: "AA", Name: "foo", Published: now},
		{SbomID: sbomB, NodeID: "BB", Name: "bar", Published: now},
	}

	ranked, err := r.Rank(context.Background(), matches, query.ShapeCPE)
	if err != nil {
		t.Fatal(err)
	}
	for _, row := range ranked {
		if row.Rank != 1 {
			t.Fatalf("distinct names sharing a cpe must each rank 1 under a cpe-shaped query, got %+v", ranked)
		}
	}
}

func TestRankWalksExternalAncestorsForCPEs(t *testing.T) {
	ctrl := gomock.NewController(t)
	leafSbom := uuid.New()
	productSbom := uuid.New()
	cpeID := uuid.New()

	fx := newRankFixture()
	fx.containing[key(leafSbom, "AA")] = []Edge{{SbomID: leafSbom, NodeID: "root"}}
	fx.external[key(leafSbom, "root")] = []Edge{{SbomID: productSbom, NodeID: "product-root"}}
	fx.cpes[productSbom] = []uuid.UUID{cpeID}

	r := NewRanker(fx.newStore(ctrl))
	matches := []query.Match{{SbomID: leafSbom, NodeID: "AA", Name: "leaf", Published: time.Now()}}

	ranked, err := r.Rank(context.Background(), matches, query.ShapeFreeText)
	if err != nil {
		t.Fatal(err)
	}
	if len(ranked) != 1 {
		t.Fatalf("expected 1 ranked row, got %d", len(ranked))
	}
	if ranked[0].CPEID != cpeID {
		t.Fatalf("expected cpe resolved from external product ancestor, got %s", ranked[0].CPEID)
	}
	if ranked[0].AncestorSbomID != productSbom {
		t.Fatalf("expected ancestor sbom to be product sbom, got %s", ranked[0].AncestorSbomID)
	}
}

func TestRankResetsTopAncestorPerContainingEdge(t *testing.T) {
	ctrl := gomock.NewController(t)
	leafSbom := uuid.New()
	productSbom := uuid.New()
	cpeOwn := uuid.New()
	cpeProduct := uuid.New()

	fx := newRankFixture()
	// Two containing edges for the same match: the first resolves to an
	// external product ancestor, the second has no ancestors of its own and
	// must fall back to the match's own SBOM rather than reusing the first
	// edge's resolved ancestor.
	fx.containing[key(leafSbom, "AA")] = []Edge{
		{SbomID: leafSbom, NodeID: "c1"},
		{SbomID: leafSbom, NodeID: "c2"},
	}
	fx.external[key(leafSbom, "c1")] = []Edge{{SbomID: productSbom, NodeID: "product-root"}}
	fx.cpes[productSbom] = []uuid.UUID{cpeProduct}
	fx.cpes[leafSbom] = []uuid.UUID{cpeOwn}

	r := NewRanker(fx.newStore(ctrl))
	matches := []query.Match{{SbomID: leafSbom, NodeID: "AA", Name: "leaf", Published: time.Now()}}

	ranked, err := r.Rank(context.Background(), matches, query.ShapeFreeText)
	if err != nil {
		t.Fatal(err)
	}
	if len(ranked) != 2 {
		t.Fatalf("expected 2 ranked rows (own cpe + product cpe), got %d: %+v", len(ranked), ranked)
	}
	seen := make(map[uuid.UUID]bool)
	for _, row := range ranked {
		seen[row.CPEID] = true
	}
	if !seen[cpeOwn] {
		t.Fatalf("expected the second containing edge's empty ancestor chain to fall back to the match's own sbom cpe, got %+v", ranked)
	}
	if !seen[cpeProduct] {
		t.Fatalf("expected the first containing edge's resolved product ancestor cpe to still be present, got %+v", ranked)
	}
}

func TestRankCycleResilient(t *testing.T) {
	ctrl := gomock.NewController(t)
	a, b := uuid.New(), uuid.New()
	fx := newRankFixture()
	// a's node references b externally, b's containing edge references
	// back into a's root, forming a cycle.
	fx.containing[key(a, "AA")] = []Edge{{SbomID: a, NodeID: "root"}}
	fx.external[key(a, "root")] = []Edge{{SbomID: b, NodeID: "broot"}}
	fx.containing[key(b, "broot")] = []Edge{{SbomID: b, NodeID: "root"}}
	fx.external[key(b, "root")] = []Edge{{SbomID: a, NodeID: "root"}}

	r := NewRanker(fx.newStore(ctrl))
	matches := []query.Match{{SbomID: a, NodeID: "AA", Name: "foo", Published: time.Now()}}

	done := make(chan struct{})
	var err error
	go func() {
		_, err = r.Rank(context.Background(), matches, query.ShapeFreeText)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Rank did not terminate on a cyclic ancestor chain")
	}
	if err != nil {
		t.Fatal(err)
	}
}
