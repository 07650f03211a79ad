package postgres

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v8"
	_ "github.com/doug-martin/goqu/v8/dialect/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	trustify "github.com/trustify-project/analysis-engine"
)

// Store is the postgres-backed implementation of every narrow read
// interface the engine's components declare against the relational store:
// graph.Queryer, externalref.Store, query.Store, rank.Store, and
// traverse.AncestorStore. It reads the tables spec.md §6.2 names:
// sbom, sbom_node, sbom_package, sbom_package_purl_ref,
// sbom_package_cpe_ref, sbom_external_node, package_relates_to_package,
// qualified_purl, cpe; the node query also joins product and
// product_version for the owning product's name and version.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore returns a Store reading from pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

var psql = goqu.Dialect("postgres")

var queryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "trustify",
		Subsystem: "analysis_store",
		Name:      "query_duration_seconds",
		Help:      "The duration of queries issued against the relational store, by method.",
	},
	[]string{"query"},
)

var queryErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "trustify",
		Subsystem: "analysis_store",
		Name:      "query_errors_total",
		Help:      "Total number of relational store queries that returned an error, by method.",
	},
	[]string{"query"},
)

// backendError wraps a raw pgx/goqu error at the system boundary, tagging
// the failing method in op and incrementing the per-method error counter.
func backendError(op string, err error) error {
	queryErrors.WithLabelValues(op).Inc()
	return &trustify.Error{Op: op, Kind: trustify.ErrBackend, Message: "relational store query failed", Inner: err}
}

// query runs sql with args and hands every row to scan, instrumented the way
// the teacher's MatcherStore.Get times and counts its batch query.
func (s *Store) query(ctx context.Context, op string, sql string, args []interface{}, scan func(pgx.Rows) error) error {
	timer := prometheus.NewTimer(queryDuration.WithLabelValues(op))
	defer timer.ObserveDuration()

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return backendError(op, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return backendError(op, err)
		}
	}
	if err := rows.Err(); err != nil {
		return backendError(op, err)
	}
	return nil
}

// toSQL renders a goqu dataset in prepared mode, so that parameter values
// become pgx placeholders rather than inlined literals, unlike the teacher's
// querybuilder.go (which discards args since it only ever runs the result
// through a pgx.Batch that doesn't take separate arguments).
func toSQL(op string, ds *goqu.SelectDataset) (string, []interface{}, error) {
	sql, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("%s: building query: %w", op, err)
	}
	return sql, args, nil
}
