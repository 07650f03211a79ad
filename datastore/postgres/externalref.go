package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/trustify-project/analysis-engine/externalref"
)

const resolveExternalReferenceQuery = `
SELECT sbom_id, published
FROM sbom
WHERE document_id = $1
`

// ResolveExternalReference implements externalref.Store. An ExternalNode
// names its target by the target document's document_id; sbom.document_id
// is not unique across re-ingests of the same document, so this can return
// more than one candidate SBOM, which externalref.Resolver then picks the
// latest of (spec.md §4.5). ref.ExternalNodeID isn't used here: it selects
// a node *within* whichever SBOM wins, a concern of the traversal engine
// once it has loaded that SBOM's graph, not of resolution itself.
func (s *Store) ResolveExternalReference(ctx context.Context, ref externalref.Ref) ([]externalref.Candidate, error) {
	const op = "datastore/postgres.Store.ResolveExternalReference"
	var out []externalref.Candidate
	err := s.query(ctx, op, resolveExternalReferenceQuery, []interface{}{ref.ExternalDocumentReference}, func(rows pgx.Rows) error {
		var c externalref.Candidate
		var published time.Time
		if err := rows.Scan(&c.SbomID, &published); err != nil {
			return err
		}
		c.Published = published.UnixNano()
		out = append(out, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
