package postgres

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus"

	trustify "github.com/trustify-project/analysis-engine"
)

const countSBOMsQuery = `SELECT count(*) FROM sbom`

// CountSBOMs answers status()'s sbom_count (spec.md §6.1).
func (s *Store) CountSBOMs(ctx context.Context) (int64, error) {
	const op = "datastore/postgres.Store.CountSBOMs"
	var count int64
	err := s.query(ctx, op, countSBOMsQuery, nil, func(rows pgx.Rows) error {
		return rows.Scan(&count)
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// jsonbLabels round-trips a label map through a jsonb column, in the style
// of the teacher's jsonbIndexReport: a narrow wrapper whose Value/Scan
// methods are the only place the json encoding lives.
type jsonbLabels map[string]string

func (l jsonbLabels) Value() (driver.Value, error) {
	if l == nil {
		return []byte("{}"), nil
	}
	b, err := json.Marshal(map[string]string(l))
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (l *jsonbLabels) Scan(src interface{}) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("jsonbLabels: unsupported scan source %T", src)
	}
	return json.Unmarshal(b, (*map[string]string)(l))
}

const setLabelsQuery = `UPDATE sbom SET labels = $2 WHERE sbom_id = $1`

// SetLabels implements set_labels(sbom_id, labels): spec.md §6.1 treats the
// label map as opaque to the engine, so this is a direct replace rather
// than a merge.
func (s *Store) SetLabels(ctx context.Context, sbomID uuid.UUID, labels map[string]string) error {
	const op = "datastore/postgres.Store.SetLabels"
	timer := prometheus.NewTimer(queryDuration.WithLabelValues(op))
	defer timer.ObserveDuration()

	tag, err := s.pool.Exec(ctx, setLabelsQuery, sbomID, jsonbLabels(labels))
	if err != nil {
		return backendError(op, err)
	}
	if tag.RowsAffected() == 0 {
		return &trustify.Error{Op: op, Kind: trustify.ErrNotFound, Message: fmt.Sprintf("sbom %s not found", sbomID)}
	}
	return nil
}
