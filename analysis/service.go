// Package analysis wires components C1-C8 into the embeddable service
// described in SPEC_FULL.md §1: a Postgres pool, a bounded graph cache, and
// the resolver/router/ranker/traversal stack behind Status, Analyze, and
// SetLabels, in the shape of the teacher's libvuln.Libvuln.
package analysis

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quay/zlog"

	trustify "github.com/trustify-project/analysis-engine"
	"github.com/trustify-project/analysis-engine/cache"
	"github.com/trustify-project/analysis-engine/internal/baggageutil"
	"github.com/trustify-project/analysis-engine/datastore/postgres"
	"github.com/trustify-project/analysis-engine/externalref"
	"github.com/trustify-project/analysis-engine/graph"
	"github.com/trustify-project/analysis-engine/query"
	"github.com/trustify-project/analysis-engine/rank"
	"github.com/trustify-project/analysis-engine/traverse"
)

// Backend is every outbound method the Service needs from the relational
// store: the union of graph.Queryer, externalref.Store, query.Store,
// rank.Store, plus status/label support. *postgres.Store satisfies it;
// Options.Backend lets tests substitute a fake without a live database.
type Backend interface {
	graph.Queryer
	externalref.Store
	query.Store
	rank.Store
	CountSBOMs(ctx context.Context) (int64, error)
	SetLabels(ctx context.Context, sbomID uuid.UUID, labels map[string]string) error
}

// Service is the SBOM analysis graph engine: Status/Analyze/SetLabels over
// components C1-C8, matching spec.md §6.1 verbatim.
type Service struct {
	pool    *pgxpool.Pool
	backend Backend
	owned   bool // true if Service dialed pool itself and must close it
	graphs  *cache.Graphs
	loader  *graph.Loader

	resolver *externalref.Resolver
	router   *query.Router
	ranker   *rank.Ranker
	engine   *traverse.Engine

	defaultDepth   int
	requestTimeout time.Duration
}

// New wires a Service per Options, following the teacher's libvuln.New
// pattern: required fields are validated, optional fields get defaults, and
// every collaborator is constructed here rather than injected piecemeal, so
// that this is the single place the outbound stack (C3-C8) is assembled.
func New(ctx context.Context, opts Options) (*Service, error) {
	opts.setDefaults()
	ctx = zlog.ContextWithValues(ctx, "component", "analysis/New")

	backend := opts.Backend
	pool := opts.Pool
	owned := false
	if backend == nil {
		if pool == nil {
			if opts.ConnString == "" {
				return nil, fmt.Errorf("analysis: one of Options.Pool, Options.Backend, or Options.ConnString is required")
			}
			p, err := postgres.Connect(ctx, opts.ConnString, opts.ApplicationName, opts.MaxConnPool)
			if err != nil {
				return nil, fmt.Errorf("analysis: connecting to postgres: %w", err)
			}
			pool = p
			owned = true
		}
		backend = postgres.NewStore(pool)
	}

	graphs, err := cache.NewGraphs(opts.CacheCapacity)
	if err != nil {
		return nil, fmt.Errorf("analysis: constructing graph cache: %w", err)
	}
	loader := graph.NewLoader(backend)

	resolver := externalref.NewResolver(backend)
	router := query.NewRouter(backend)
	ranker := rank.NewRanker(backend)

	svc := &Service{
		pool:         pool,
		backend:      backend,
		owned:        owned,
		graphs:       graphs,
		loader:       loader,
		resolver:     resolver,
		router:       router,
		ranker:         ranker,
		defaultDepth:   opts.DefaultDepth,
		requestTimeout: opts.RequestTimeout,
	}

	engine := traverse.NewEngine(graphSource{svc}, resolver, ancestorsAdapter{backend})
	engine.Concurrency = opts.TraversalConcurrency
	svc.engine = engine

	zlog.Info(ctx).Msg("analysis service initialized")
	return svc, nil
}

// ancestorsAdapter adapts any rank.Store to traverse.AncestorStore, letting
// Service depend on the narrow Backend interface rather than a concrete
// *postgres.Store for the traversal engine's external-ancestors lookup. This
// plays the same role as postgres.TraverseAncestors but at the Service's
// level of abstraction, converting rank.Edge to traverse.ExternalAncestor.
type ancestorsAdapter struct{ store rank.Store }

func (a ancestorsAdapter) ExternalAncestors(ctx context.Context, sbomID uuid.UUID, nodeID string) ([]traverse.ExternalAncestor, error) {
	edges, err := a.store.ExternalAncestors(ctx, sbomID, nodeID)
	if err != nil {
		return nil, err
	}
	out := make([]traverse.ExternalAncestor, len(edges))
	for i, e := range edges {
		out[i] = traverse.ExternalAncestor{SbomID: e.SbomID, NodeID: e.NodeID}
	}
	return out, nil
}

// Close releases the pool if the Service dialed it itself; a caller-supplied
// Options.Pool remains the caller's responsibility.
func (s *Service) Close() {
	if s.owned {
		s.pool.Close()
	}
}

// graphSource adapts Service's cache+loader pair to traverse.GraphSource,
// so the traversal engine depends only on the narrow interface it declares.
type graphSource struct{ s *Service }

func (g graphSource) Graph(ctx context.Context, sbomID uuid.UUID) (*graph.Graph, error) {
	return g.s.graphs.Get(ctx, sbomID, g.s.loader.Load)
}

// StatusResult answers spec.md §6.1's status() operation.
type StatusResult struct {
	SbomCount        int64
	CachedGraphCount int
}

// Status implements spec.md's status() operation.
func (s *Service) Status(ctx context.Context) (StatusResult, error) {
	count, err := s.backend.CountSBOMs(ctx)
	if err != nil {
		return StatusResult{}, fmt.Errorf("analysis: status: %w", err)
	}
	return StatusResult{
		SbomCount:        count,
		CachedGraphCount: s.graphs.Len(),
	}, nil
}

// SetLabels implements spec.md's set_labels(sbom_id, labels), delegated
// opaquely to storage per §6.1.
func (s *Service) SetLabels(ctx context.Context, sbomID uuid.UUID, labels map[string]string) error {
	if err := s.backend.SetLabels(ctx, sbomID, labels); err != nil {
		return fmt.Errorf("analysis: set labels for %s: %w", sbomID, err)
	}
	return nil
}

// AnalyzeOptions configures one Analyze call, matching the {latest,
// ancestors_depth, descendants_depth, relationship_filter} record spec.md
// §6.1 names. AncestorsDepth/DescendantsDepth of zero skips that direction
// entirely; a negative value requests the Service's configured default
// depth (spec.md §4.8: "a sensible default is 10").
type AnalyzeOptions struct {
	Latest             bool
	AncestorsDepth     int
	DescendantsDepth   int
	RelationshipFilter graph.RelationshipFilter
}

func (o AnalyzeOptions) resolveDepth(d, def int) int {
	if d < 0 {
		return def
	}
	return d
}

// Pagination bounds one page of an Analyze response.
type Pagination struct {
	Offset int
	Limit  int
}

func (p Pagination) normalize() Pagination {
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// AnalyzeNode is one matched node in an Analyze response, carrying its rank
// and the ancestor/descendant trees the caller asked for.
type AnalyzeNode struct {
	SbomID      uuid.UUID
	NodeID      graph.NodeID
	Name        string
	Kind        graph.NodeKind
	Rank        int
	Ancestors   []traverse.ResultNode
	Descendants []traverse.ResultNode
}

// PaginatedResults is the generic envelope every Analyze response is wrapped
// in: Total reflects the full matched-and-ranked set, independent of the
// page actually returned (spec.md §7: "paginated responses still include
// total even under partial traversal").
type PaginatedResults[T any] struct {
	Items []T
	Total int
}

// Analyze implements spec.md's analyze(query, options, pagination)
// operation: resolve query to matches via C6, rank them via C7, apply
// latest-filtering and pagination, then expand each page item's
// ancestors/descendants via C8.
func (s *Service) Analyze(ctx context.Context, q string, opts AnalyzeOptions, page Pagination) (PaginatedResults[AnalyzeNode], error) {
	ctx = baggageutil.ContextWithValues(ctx, "trustify.query", q)
	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}
	page = page.normalize()

	matches, shape, err := s.router.Resolve(ctx, q)
	if err != nil {
		return PaginatedResults[AnalyzeNode]{}, err
	}
	if len(matches) == 0 {
		return PaginatedResults[AnalyzeNode]{}, &trustify.Error{
			Op:      "analysis.Analyze",
			Kind:    trustify.ErrNotFound,
			Message: fmt.Sprintf("no match for %q", q),
		}
	}

	ranked, err := s.ranker.Rank(ctx, matches, shape)
	if err != nil {
		return PaginatedResults[AnalyzeNode]{}, fmt.Errorf("analysis: ranking matches: %w", err)
	}

	if opts.Latest {
		ranked = filterLatest(ranked)
	}
	total := len(ranked)

	start := page.Offset
	if start > len(ranked) {
		start = len(ranked)
	}
	end := start + page.Limit
	if end > len(ranked) {
		end = len(ranked)
	}
	pageItems := ranked[start:end]

	ancestorsDepth := opts.resolveDepth(opts.AncestorsDepth, s.defaultDepth)
	descendantsDepth := opts.resolveDepth(opts.DescendantsDepth, s.defaultDepth)

	items := make([]AnalyzeNode, 0, len(pageItems))
	for _, r := range pageItems {
		node, err := s.expand(ctx, r, ancestorsDepth, descendantsDepth, opts)
		if err != nil {
			return PaginatedResults[AnalyzeNode]{}, err
		}
		items = append(items, node)
	}

	return PaginatedResults[AnalyzeNode]{Items: items, Total: total}, nil
}

// expand loads the matched node's own graph and walks ancestors/descendants
// from it, per spec.md §4.8.
func (s *Service) expand(ctx context.Context, r rank.Ranked, ancestorsDepth, descendantsDepth int, opts AnalyzeOptions) (AnalyzeNode, error) {
	g, err := s.graphs.Get(ctx, r.MatchedSbomID, s.loader.Load)
	if err != nil {
		return AnalyzeNode{}, fmt.Errorf("analysis: loading graph %s: %w", r.MatchedSbomID, err)
	}
	id := graph.NodeID(r.MatchedNodeID)
	n, ok := g.NodeByID(id)
	if !ok {
		return AnalyzeNode{}, &trustify.Error{
			Op:      "analysis.Analyze",
			Kind:    trustify.ErrInternal,
			Message: fmt.Sprintf("matched node %s/%s missing from its own freshly loaded graph", r.MatchedSbomID, id),
		}
	}

	out := AnalyzeNode{
		SbomID: r.MatchedSbomID,
		NodeID: id,
		Name:   r.MatchedName,
		Kind:   n.Kind(),
		Rank:   r.Rank,
	}

	if ancestorsDepth > 0 {
		ancestors, err := s.engine.CollectAncestors(ctx, r.MatchedSbomID, id, ancestorsDepth, opts.RelationshipFilter)
		if err != nil {
			return AnalyzeNode{}, fmt.Errorf("analysis: collecting ancestors of %s/%s: %w", r.MatchedSbomID, id, err)
		}
		out.Ancestors = ancestors
	}
	if descendantsDepth > 0 {
		descendants, err := s.engine.CollectDescendants(ctx, r.MatchedSbomID, id, descendantsDepth, opts.RelationshipFilter)
		if err != nil {
			return AnalyzeNode{}, fmt.Errorf("analysis: collecting descendants of %s/%s: %w", r.MatchedSbomID, id, err)
		}
		out.Descendants = descendants
	}
	return out, nil
}

// filterLatest keeps only rank-1 rows (spec.md §8: rank-1 rows form a
// partition cover) and orders them newest Published first; rows with equal
// Published keep the ranker's relative order.
func filterLatest(ranked []rank.Ranked) []rank.Ranked {
	out := make([]rank.Ranked, 0, len(ranked))
	for _, r := range ranked {
		if r.Rank == 1 {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Published > out[j].Published })
	return out
}
