package rank

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/trustify-project/analysis-engine/query"
)

// nsNoAuthoritativeCPE namespaces the synthetic partition key assigned to a
// match with no authoritative CPE, so that distinct such matches never land
// in the same "singleton" partition (spec.md §4.7's edge case).
var nsNoAuthoritativeCPE = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:trustify:rank:no-authoritative-cpe"))

// Edge is a single package_relates_to_package row, identified only by its
// endpoints; the ranker doesn't care which relationship it carries, matching
// rank.rs's resolve_all_ancestors, which filters solely on (sbom_id,
// right_node_id).
type Edge struct {
	SbomID uuid.UUID
	NodeID string
}

// Store is the narrow read interface the ranker needs from the relational
// store.
type Store interface {
	// ContainingEdges returns the left endpoint of every edge whose right
	// endpoint is (sbomID, nodeID) — i.e. the packages that directly
	// contain it, regardless of relationship kind.
	ContainingEdges(ctx context.Context, sbomID uuid.UUID, nodeID string) ([]Edge, error)

	// ExternalAncestors returns, for the document/node pair (sbomID,
	// nodeID), every other SBOM whose sbom_external_node names this pair as
	// its external_doc_ref/external_node_id — the SBOMs that "contain" this
	// one via an external reference, i.e. its ancestors across a document
	// boundary.
	ExternalAncestors(ctx context.Context, sbomID uuid.UUID, nodeID string) ([]Edge, error)

	// AuthoritativeCPEs returns the cpe_id set recorded against the given
	// SBOM's describing package.
	AuthoritativeCPEs(ctx context.Context, sbomID uuid.UUID) ([]uuid.UUID, error)
}

// Ranked is one (match, cpe) row, ported field-for-field from rank.rs's
// RankedSbom, with Rank filled in once applyRank (called internally by
// Rank) has run.
type Ranked struct {
	MatchedSbomID  uuid.UUID
	MatchedNodeID  string
	MatchedName    string
	AncestorSbomID uuid.UUID
	CPEID          uuid.UUID
	Published      int64 // unix nanoseconds; see externalref.Candidate for the same convention
	Rank           int
}

// Ranker resolves authoritative CPEs and assigns latest-rank to query
// matches.
type Ranker struct {
	Store Store
}

// NewRanker returns a Ranker reading from store.
func NewRanker(store Store) *Ranker {
	return &Ranker{Store: store}
}

// Rank implements spec.md §4.7: for each match, resolve its authoritative
// CPE(s) via a recursive cross-SBOM ancestor walk, then assign rank by
// partitioning on cpe_id (or (name, cpe_id) when shape is a CPE query) and
// ordering by Published descending within each partition.
func (r *Ranker) Rank(ctx context.Context, matches []query.Match, shape query.Shape) ([]Ranked, error) {
	visited := make(map[uuid.UUID]bool)
	var out []Ranked

	for _, m := range matches {
		containing, err := r.Store.ContainingEdges(ctx, m.SbomID, m.NodeID)
		if err != nil {
			return nil, fmt.Errorf("rank: containing edges of %s/%s: %w", m.SbomID, m.NodeID, err)
		}

		cpes := make(map[uuid.UUID]struct{})
		topAncestor := m.SbomID

		for _, c := range containing {
			ancestors, err := r.resolveAllAncestors(ctx, c.SbomID, c.NodeID, visited)
			if err != nil {
				return nil, err
			}
			// Reset every iteration, matching rank.rs's resolve_sbom_cpes:
			// topAncestor only follows this containing-edge's own ancestor
			// chain, falling back to the match's own SBOM when this
			// iteration found none, rather than leaking a prior iteration's
			// value forward.
			if len(ancestors) > 0 {
				topAncestor = ancestors[len(ancestors)-1].SbomID
			} else {
				topAncestor = m.SbomID
			}
			ids, err := r.Store.AuthoritativeCPEs(ctx, topAncestor)
			if err != nil {
				return nil, fmt.Errorf("rank: authoritative cpes of %s: %w", topAncestor, err)
			}
			for _, id := range ids {
				cpes[id] = struct{}{}
			}
		}

		if len(cpes) == 0 {
			// No authoritative CPE: emit a singleton partition keyed on the
			// match itself, so "latest" filtering never hides it.
			out = append(out, Ranked{
				MatchedSbomID:  m.SbomID,
				MatchedNodeID:  m.NodeID,
				MatchedName:    m.Name,
				AncestorSbomID: topAncestor,
				CPEID:          uuid.NewSHA1(nsNoAuthoritativeCPE, []byte(m.SbomID.String()+"/"+m.NodeID)),
				Published:      m.Published.UnixNano(),
			})
			continue
		}

		for id := range cpes {
			out = append(out, Ranked{
				MatchedSbomID:  m.SbomID,
				MatchedNodeID:  m.NodeID,
				MatchedName:    m.Name,
				AncestorSbomID: topAncestor,
				CPEID:          id,
				Published:      m.Published.UnixNano(),
			})
		}
	}

	applyRank(out, shape)
	return out, nil
}

// resolveAllAncestors walks the external-reference chain outward from
// (sbomID, nodeID), collecting every ancestor SBOM it passes through, guarded
// against cycles by visited (shared across the whole Rank call, matching
// rank.rs's single HashSet threaded through the recursion).
func (r *Ranker) resolveAllAncestors(ctx context.Context, sbomID uuid.UUID, nodeID string, visited map[uuid.UUID]bool) ([]Edge, error) {
	if visited[sbomID] {
		return nil, nil
	}
	visited[sbomID] = true

	direct, err := r.Store.ExternalAncestors(ctx, sbomID, nodeID)
	if err != nil {
		return nil, fmt.Errorf("rank: external ancestors of %s/%s: %w", sbomID, nodeID, err)
	}

	var all []Edge
	for _, anc := range direct {
		all = append(all, anc)

		containing, err := r.Store.ContainingEdges(ctx, anc.SbomID, anc.NodeID)
		if err != nil {
			return nil, fmt.Errorf("rank: containing edges of %s/%s: %w", anc.SbomID, anc.NodeID, err)
		}
		for _, c := range containing {
			deep, err := r.resolveAllAncestors(ctx, c.SbomID, c.NodeID, visited)
			if err != nil {
				return nil, err
			}
			all = append(all, deep...)
		}
	}
	return all, nil
}

// applyRank sorts items by partition key then Published descending, and
// assigns a dense rank within each partition: ties in Published share a
// rank, and the rank only advances when Published actually changes, matching
// rank.rs's apply_rank exactly.
//
// The partition key is (name, cpe_id) for a CPE-shaped query and cpe_id
// alone otherwise (spec.md §4.7(4)): a CPE can cover many components, so a
// CPE query must not merge hits that share a CPE but differ in component
// name, while a PURL/name query is already name-constrained and merging on
// cpe_id alone is correct there.
func applyRank(items []Ranked, shape query.Shape) {
	keyName := shape == query.ShapeCPE

	sort.Slice(items, func(i, j int) bool {
		if keyName && items[i].MatchedName != items[j].MatchedName {
			return items[i].MatchedName < items[j].MatchedName
		}
		if items[i].CPEID != items[j].CPEID {
			return items[i].CPEID.String() < items[j].CPEID.String()
		}
		return items[i].Published > items[j].Published // DESC
	})

	currentRank := 1
	for i := range items {
		if i == 0 {
			items[i].Rank = 1
			continue
		}
		prev, curr := items[i-1], items[i]
		samePartition := curr.CPEID == prev.CPEID && (!keyName || curr.MatchedName == prev.MatchedName)
		switch {
		case !samePartition:
			currentRank = 1
			items[i].Rank = 1
		case curr.Published == prev.Published:
			items[i].Rank = prev.Rank
		default:
			currentRank++
			items[i].Rank = currentRank
		}
	}
}
