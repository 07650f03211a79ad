package postgres

import (
	"context"

	"github.com/doug-martin/goqu/v8"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/trustify-project/analysis-engine/query"
)

// matchColumns is the fixed four-column projection every lookup strategy
// returns, matching query.Match field-for-field.
var matchColumns = []interface{}{
	goqu.I("sbom.sbom_id"),
	goqu.I("sbom_node.node_id"),
	goqu.I("sbom_node.name"),
	goqu.I("sbom.published"),
}

func (s *Store) runMatch(ctx context.Context, op string, ds *goqu.SelectDataset) ([]query.Match, error) {
	sql, args, err := toSQL(op, ds)
	if err != nil {
		return nil, err
	}
	var out []query.Match
	err = s.query(ctx, op, sql, args, func(rows pgx.Rows) error {
		var m query.Match
		if err := rows.Scan(&m.SbomID, &m.NodeID, &m.Name, &m.Published); err != nil {
			return err
		}
		out = append(out, m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// matchNodeIDDataset implements query.Store's node-id shape: equality on
// sbom_node.node_id (spec.md §4.6's dispatch table). Split out from
// MatchNodeID so the query shape can be asserted on without a live pool.
func matchNodeIDDataset(nodeID string) *goqu.SelectDataset {
	return psql.From("sbom_node").
		Join(goqu.T("sbom"), goqu.On(goqu.Ex{"sbom.sbom_id": goqu.I("sbom_node.sbom_id")})).
		Select(matchColumns...).
		Where(goqu.I("sbom_node.node_id").Eq(nodeID))
}

// MatchNodeID implements query.Store for the node-id shape.
func (s *Store) MatchNodeID(ctx context.Context, nodeID string) ([]query.Match, error) {
	const op = "datastore/postgres.Store.MatchNodeID"
	return s.runMatch(ctx, op, matchNodeIDDataset(nodeID))
}

// matchPurlDataset implements query.Store's PURL shape: equality on the
// qualified-PURL UUID.
func matchPurlDataset(qualifiedPurlID uuid.UUID) *goqu.SelectDataset {
	return psql.From("sbom_package_purl_ref").
		Join(goqu.T("sbom_node"), goqu.On(goqu.Ex{
			"sbom_node.sbom_id": goqu.I("sbom_package_purl_ref.sbom_id"),
			"sbom_node.node_id": goqu.I("sbom_package_purl_ref.node_id"),
		})).
		Join(goqu.T("sbom"), goqu.On(goqu.Ex{"sbom.sbom_id": goqu.I("sbom_node.sbom_id")})).
		Select(matchColumns...).
		Distinct().
		Where(goqu.I("sbom_package_purl_ref.qualified_purl_id").Eq(qualifiedPurlID))
}

// MatchPurl implements query.Store for the PURL shape.
func (s *Store) MatchPurl(ctx context.Context, qualifiedPurlID uuid.UUID) ([]query.Match, error) {
	const op = "datastore/postgres.Store.MatchPurl"
	return s.runMatch(ctx, op, matchPurlDataset(qualifiedPurlID))
}

// matchCPEDataset implements query.Store's CPE shape: equality on the CPE
// UUID, excluding nodes whose name begins with "pkg:" so that a CPE search
// never matches a PURL-named node (spec.md §4.6).
func matchCPEDataset(cpeID uuid.UUID) *goqu.SelectDataset {
	return psql.From("sbom_package_cpe_ref").
		Join(goqu.T("sbom_node"), goqu.On(goqu.Ex{
			"sbom_node.sbom_id": goqu.I("sbom_package_cpe_ref.sbom_id"),
			"sbom_node.node_id": goqu.I("sbom_package_cpe_ref.node_id"),
		})).
		Join(goqu.T("sbom"), goqu.On(goqu.Ex{"sbom.sbom_id": goqu.I("sbom_node.sbom_id")})).
		Select(matchColumns...).
		Distinct().
		Where(
			goqu.I("sbom_package_cpe_ref.cpe_id").Eq(cpeID),
			goqu.I("sbom_node.name").NotLike("pkg:%"),
		)
}

// MatchCPE implements query.Store for the CPE shape.
func (s *Store) MatchCPE(ctx context.Context, cpeID uuid.UUID) ([]query.Match, error) {
	const op = "datastore/postgres.Store.MatchCPE"
	return s.runMatch(ctx, op, matchCPEDataset(cpeID))
}

// matchExprDataset implements query.Store's free-text/q= shape: expr may
// reference any column query/columns.go exposes, so every table a field can
// resolve to is left-joined in, and duplicate rows from the fan-out across
// multiple PURLs/CPEs per node are collapsed with Distinct.
func matchExprDataset(expr goqu.Expression) *goqu.SelectDataset {
	return psql.From("sbom_node").
		Join(goqu.T("sbom"), goqu.On(goqu.Ex{"sbom.sbom_id": goqu.I("sbom_node.sbom_id")})).
		LeftJoin(goqu.T("sbom_package"), goqu.On(goqu.Ex{
			"sbom_package.sbom_id": goqu.I("sbom_node.sbom_id"),
			"sbom_package.node_id": goqu.I("sbom_node.node_id"),
		})).
		LeftJoin(goqu.T("sbom_package_purl_ref"), goqu.On(goqu.Ex{
			"sbom_package_purl_ref.sbom_id": goqu.I("sbom_node.sbom_id"),
			"sbom_package_purl_ref.node_id": goqu.I("sbom_node.node_id"),
		})).
		LeftJoin(goqu.T("qualified_purl"), goqu.On(goqu.Ex{
			"qualified_purl.id": goqu.I("sbom_package_purl_ref.qualified_purl_id"),
		})).
		LeftJoin(goqu.T("sbom_package_cpe_ref"), goqu.On(goqu.Ex{
			"sbom_package_cpe_ref.sbom_id": goqu.I("sbom_node.sbom_id"),
			"sbom_package_cpe_ref.node_id": goqu.I("sbom_node.node_id"),
		})).
		LeftJoin(goqu.T("cpe"), goqu.On(goqu.Ex{"cpe.id": goqu.I("sbom_package_cpe_ref.cpe_id")})).
		Select(matchColumns...).
		Distinct().
		Where(expr)
}

// MatchExpr implements query.Store for the q= expression shape.
func (s *Store) MatchExpr(ctx context.Context, expr goqu.Expression) ([]query.Match, error) {
	const op = "datastore/postgres.Store.MatchExpr"
	return s.runMatch(ctx, op, matchExprDataset(expr))
}
