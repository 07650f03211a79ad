// Package query implements the query router (C6): dispatching one of four
// identifier shapes to the right lookup strategy, and the `q=` structured
// filter grammar (§6.3) that backs the free-text shape.
package query

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v8"
	"github.com/google/uuid"

	"github.com/trustify-project/analysis-engine/cpeid"
	"github.com/trustify-project/analysis-engine/purl"
)

// Shape is the detected kind of an input identifier.
type Shape int

const (
	ShapeNodeID Shape = iota
	ShapePurl
	ShapeCPE
	ShapeFreeText
)

func (s Shape) String() string {
	switch s {
	case ShapeNodeID:
		return "node-id"
	case ShapePurl:
		return "purl"
	case ShapeCPE:
		return "cpe"
	default:
		return "free-text"
	}
}

// DetectShape classifies raw per SPEC_FULL.md §4.6's dispatch table.
func DetectShape(raw string) Shape {
	switch {
	case strings.HasPrefix(raw, "pkg:"):
		if _, err := purl.Parse(raw); err == nil {
			return ShapePurl
		}
	case strings.HasPrefix(raw, "cpe:/"), strings.HasPrefix(raw, "cpe:2.3:"):
		if _, err := cpeid.Parse(raw); err == nil {
			return ShapeCPE
		}
	}
	if _, err := uuid.Parse(raw); err == nil {
		return ShapeFreeText
	}
	if looksLikeNodeID(raw) {
		return ShapeNodeID
	}
	return ShapeFreeText
}

// looksLikeNodeID reports whether raw lacks any of the recognisable
// identifier prefixes and any q= operator, which per spec.md §4.6 makes it
// an SPDX/CycloneDX node id rather than a filter expression.
func looksLikeNodeID(raw string) bool {
	if strings.HasPrefix(raw, "pkg:") || strings.HasPrefix(raw, "cpe:/") || strings.HasPrefix(raw, "cpe:2.3:") {
		return false
	}
	if idx, _ := findOp(raw); idx >= 0 {
		return false
	}
	return true
}

// Match pairs a matching node with the SBOM that contains it. Name and
// Published mirror the columns the ranker (C7) needs and come for free from
// the same sbom_node/sbom join every one of the four lookup strategies
// already performs.
type Match struct {
	SbomID    uuid.UUID
	NodeID    string
	Name      string
	Published time.Time
}

// Store is the narrow read interface the router needs from the relational
// store for each of the four lookup strategies.
type Store interface {
	MatchNodeID(ctx context.Context, nodeID string) ([]Match, error)
	MatchPurl(ctx context.Context, qualifiedPurlID uuid.UUID) ([]Match, error)
	MatchCPE(ctx context.Context, cpeID uuid.UUID) ([]Match, error)
	MatchExpr(ctx context.Context, expr goqu.Expression) ([]Match, error)
}

// Router dispatches a raw identifier or q= expression to the matching
// lookup strategy.
type Router struct {
	Store Store
}

// NewRouter returns a Router reading from store.
func NewRouter(store Store) *Router {
	return &Router{Store: store}
}

// Resolve implements SPEC_FULL.md §4.6: detect the shape of raw, and
// dispatch to the corresponding lookup. It returns the detected shape
// alongside the matches, since the ranker (C7) needs it to choose a
// partition key.
func (r *Router) Resolve(ctx context.Context, raw string) ([]Match, Shape, error) {
	shape := DetectShape(raw)
	switch shape {
	case ShapePurl:
		p, err := purl.Parse(raw)
		if err != nil {
			return nil, shape, fmt.Errorf("query: %w", err)
		}
		matches, err := r.Store.MatchPurl(ctx, p.QualifiedUUID())
		return matches, shape, err
	case ShapeCPE:
		c, err := cpeid.Parse(raw)
		if err != nil {
			return nil, shape, fmt.Errorf("query: %w", err)
		}
		matches, err := r.Store.MatchCPE(ctx, c.UUID())
		return matches, shape, err
	case ShapeNodeID:
		matches, err := r.Store.MatchNodeID(ctx, raw)
		return matches, shape, err
	default:
		expr, err := ParseExpr(raw)
		if err != nil {
			return nil, shape, fmt.Errorf("query: %w", err)
		}
		matches, err := r.Store.MatchExpr(ctx, expr)
		return matches, shape, err
	}
}
