package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/trustify-project/analysis-engine/traverse"
)

// TraverseAncestors adapts Store to traverse.AncestorStore. It is a
// separate type rather than a second method on Store itself because
// rank.Store also declares an ExternalAncestors method with the identical
// query but a different result type (rank.Edge vs traverse.ExternalAncestor)
// — Go can't overload a method name on one receiver by return type, and the
// two packages have no reason to share a result type across an otherwise
// unrelated dependency edge.
type TraverseAncestors struct {
	Store *Store
}

// ExternalAncestors implements traverse.AncestorStore, answering "who
// points at (sbomID, nodeID) via an external reference" — the same query
// rank.Store.ExternalAncestors runs (see externalAncestorsQuery in
// rank.go), scanned into the traverse package's own result type.
func (a TraverseAncestors) ExternalAncestors(ctx context.Context, sbomID uuid.UUID, nodeID string) ([]traverse.ExternalAncestor, error) {
	const op = "datastore/postgres.TraverseAncestors.ExternalAncestors"
	var out []traverse.ExternalAncestor
	err := a.Store.query(ctx, op, externalAncestorsQuery, []interface{}{sbomID, nodeID}, func(rows pgx.Rows) error {
		var e traverse.ExternalAncestor
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
