package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/trustify-project/analysis-engine/rank"
)

const containingEdgesQuery = `
SELECT left_node_id
FROM package_relates_to_package
WHERE sbom_id = $1 AND right_node_id = $2
`

// ContainingEdges implements rank.Store, porting rank.rs's
// top_package_of_sbom query: the packages in the same SBOM that directly
// relate to (sbomID, nodeID) as their right-hand side.
func (s *Store) ContainingEdges(ctx context.Context, sbomID uuid.UUID, nodeID string) ([]rank.Edge, error) {
	const op = "datastore/postgres.Store.ContainingEdges"
	var out []rank.Edge
	err := s.query(ctx, op, containingEdgesQuery, []interface{}{sbomID, nodeID}, func(rows pgx.Rows) error {
		var leftNodeID string
		if err := rows.Scan(&leftNodeID); err != nil {
			return err
		}
		out = append(out, rank.Edge{SbomID: sbomID, NodeID: leftNodeID})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

const externalAncestorsQuery = `
SELECT sen.sbom_id, sen.node_id
FROM sbom_external_node sen
JOIN sbom target ON target.sbom_id = $1
WHERE sen.external_doc_ref = target.document_id AND sen.external_node_ref = $2
`

// ExternalAncestors implements rank.Store: it finds every SBOM whose
// sbom_external_node names (sbomID, nodeID) as its external target, i.e.
// the inverse of externalref.Store.ResolveExternalReference — "who points
// at me" rather than "who do I point at" (grounded on
// original_source/modules/analysis/src/service/collector.rs's
// resolve_rh_external_sbom_ancestors usage, whose own query body wasn't
// present in the retrieved original source; this is the query its call
// sites require).
func (s *Store) ExternalAncestors(ctx context.Context, sbomID uuid.UUID, nodeID string) ([]rank.Edge, error) {
	const op = "datastore/postgres.Store.ExternalAncestors"
	var out []rank.Edge
	err := s.query(ctx, op, externalAncestorsQuery, []interface{}{sbomID, nodeID}, func(rows pgx.Rows) error {
		var e rank.Edge
		if err := rows.Scan(&e.SbomID, &e.NodeID); err != nil {
			return err
		}
		out = append(out, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

const authoritativeCPEsQuery = `
SELECT cr.cpe_id
FROM sbom_package_cpe_ref cr
JOIN package_relates_to_package r
  ON r.sbom_id = cr.sbom_id AND r.right_node_id = cr.node_id AND r.relationship = 'describes'
WHERE cr.sbom_id = $1
`

// AuthoritativeCPEs implements rank.Store, porting resolve_sbom_cpes'
// inner query: every CPE recorded against the package(s) that the top
// ancestor SBOM's describes-root describes.
func (s *Store) AuthoritativeCPEs(ctx context.Context, sbomID uuid.UUID) ([]uuid.UUID, error) {
	const op = "datastore/postgres.Store.AuthoritativeCPEs"
	var out []uuid.UUID
	err := s.query(ctx, op, authoritativeCPEsQuery, []interface{}{sbomID}, func(rows pgx.Rows) error {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return err
		}
		out = append(out, id)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
