// Package externalref resolves cross-document SBOM references (component
// C5): an external node in one SBOM's graph names a node in some other
// SBOM document by its external document reference and node id, and this
// package finds the concrete SBOM that currently answers to that reference.
package externalref

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	trustify "github.com/trustify-project/analysis-engine"
	"github.com/trustify-project/analysis-engine/graph"
)

// Ref identifies an external node as it appears inside an owning SBOM's
// graph: a document-level reference plus the referenced document's own
// local node id.
type Ref struct {
	ExternalDocumentReference string
	ExternalNodeID            string
}

// RefOf builds a Ref from an ExternalNode.
func RefOf(n graph.ExternalNode) Ref {
	return Ref{
		ExternalDocumentReference: n.ExternalDocumentReference,
		ExternalNodeID:            n.ExternalNodeID,
	}
}

// Target is the SBOM a Ref resolves to.
type Target struct {
	SbomID uuid.UUID
}

// Store is the narrow read interface the resolver needs.
type Store interface {
	// ResolveExternalReference returns every SBOM whose document_id equals
	// ref's document reference, each paired with its published timestamp,
	// in no particular order. Choosing among them, including breaking ties
	// in published on the greater sbom_id, is left to Resolver.Resolve.
	ResolveExternalReference(ctx context.Context, ref Ref) ([]Candidate, error)
}

// Candidate is one row of a reference resolution before rank is applied.
type Candidate struct {
	SbomID    uuid.UUID
	Published int64 // unix nanoseconds, to keep this package free of a time import dependency on the store's representation
}

// Resolver resolves external references to the concrete SBOM they currently
// point at.
type Resolver struct {
	Store Store
}

// NewResolver returns a Resolver reading from store.
func NewResolver(store Store) *Resolver {
	return &Resolver{Store: store}
}

// Resolve picks the candidate SBOM with the greatest Published timestamp,
// breaking ties on the greatest SbomID.
func (r *Resolver) Resolve(ctx context.Context, ref Ref) (Target, error) {
	candidates, err := r.Store.ResolveExternalReference(ctx, ref)
	if err != nil {
		return Target{}, fmt.Errorf("externalref: resolving %+v: %w", ref, err)
	}
	if len(candidates) == 0 {
		return Target{}, &trustify.Error{
			Op:      "externalref.Resolve",
			Kind:    trustify.ErrUnresolved,
			Message: fmt.Sprintf("no sbom resolves reference %s/%s", ref.ExternalDocumentReference, ref.ExternalNodeID),
		}
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Published > best.Published {
			best = c
			continue
		}
		if c.Published == best.Published && greaterUUID(c.SbomID, best.SbomID) {
			best = c
		}
	}
	return Target{SbomID: best.SbomID}, nil
}

func greaterUUID(a, b uuid.UUID) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] > b[i]
		}
	}
	return false
}
