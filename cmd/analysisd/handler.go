package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	trustify "github.com/trustify-project/analysis-engine"
	"github.com/trustify-project/analysis-engine/analysis"
	"github.com/trustify-project/analysis-engine/graph"
)

// newHandler builds the thin A4 HTTP surface: a direct JSON adapter over
// analysis.Service's three operations, plus /metrics for the query-duration
// and pool-stats collectors registered in datastore/postgres. Routing and
// auth are explicitly out of scope (spec.md §1); this exists only so the
// engine is runnable.
func newHandler(svc *analysis.Service) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", statusHandler(svc))
	mux.HandleFunc("/analyze", analyzeHandler(svc))
	mux.HandleFunc("/labels", setLabelsHandler(svc))
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func statusHandler(svc *analysis.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := svc.Status(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, status)
	}
}

type analyzeRequest struct {
	Query              string              `json:"query"`
	Latest             bool                `json:"latest"`
	AncestorsDepth     int                 `json:"ancestors_depth"`
	DescendantsDepth   int                 `json:"descendants_depth"`
	RelationshipFilter []string            `json:"relationship_filter"`
	Offset             int                 `json:"offset"`
	Limit              int                 `json:"limit"`
}

func analyzeHandler(svc *analysis.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, &trustify.Error{Op: "http.Analyze", Kind: trustify.ErrInvalid, Message: "malformed request body", Inner: err})
			return
		}

		result, err := svc.Analyze(r.Context(), req.Query, analysis.AnalyzeOptions{
			Latest:             req.Latest,
			AncestorsDepth:     defaultNegative(req.AncestorsDepth),
			DescendantsDepth:   defaultNegative(req.DescendantsDepth),
			RelationshipFilter: relationshipFilter(req.RelationshipFilter),
		}, analysis.Pagination{Offset: req.Offset, Limit: req.Limit})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

type setLabelsRequest struct {
	SbomID uuid.UUID         `json:"sbom_id"`
	Labels map[string]string `json:"labels"`
}

func setLabelsHandler(svc *analysis.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req setLabelsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, &trustify.Error{Op: "http.SetLabels", Kind: trustify.ErrInvalid, Message: "malformed request body", Inner: err})
			return
		}
		if err := svc.SetLabels(r.Context(), req.SbomID, req.Labels); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// defaultNegative maps the JSON zero value (an omitted field) to -1, so that
// analysis.AnalyzeOptions.resolveDepth treats an absent depth as "use the
// service default" rather than "skip this direction" (analysis.Service's
// own convention for the zero value would otherwise kick in here).
func defaultNegative(depth int) int {
	if depth == 0 {
		return -1
	}
	return depth
}

// relationshipFilter converts the request's relationship name strings into
// graph.RelationshipFilter, skipping names that don't name a known
// relationship rather than failing the whole request over one typo.
func relationshipFilter(names []string) graph.RelationshipFilter {
	rels := make([]graph.Relationship, 0, len(names))
	for _, n := range names {
		r := graph.Relationship(n)
		if r.Valid() {
			rels = append(rels, r)
		}
	}
	return graph.NewRelationshipFilter(rels...)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	var e *trustify.Error
	status := http.StatusInternalServerError
	if errors.As(err, &e) {
		switch e.Kind {
		case trustify.ErrNotFound:
			status = http.StatusNotFound
		case trustify.ErrInvalid:
			status = http.StatusBadRequest
		case trustify.ErrCancelled:
			status = 499
		}
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
