package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/quay/zlog"

	"github.com/trustify-project/analysis-engine/pkg/poolstats"
)

// Connect initializes a postgres pgxpool.Pool based on the connection
// string. maxConns bounds the pool's connection count; <=0 defaults to 30.
func Connect(ctx context.Context, connString string, applicationName string, maxConns int32) (*pgxpool.Pool, error) {
	// pgx gives more control over the connection pool and a cleaner api
	// around bulk inserts than database/sql.
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ConnString: %v", err)
	}
	if maxConns <= 0 {
		maxConns = 30
	}
	cfg.MaxConns = maxConns
	const appnameKey = `application_name`
	params := cfg.ConnConfig.RuntimeParams
	if _, ok := params[appnameKey]; !ok {
		params[appnameKey] = applicationName
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create ConnPool: %v", err)
	}

	if err := prometheus.Register(poolstats.NewCollector(pool, applicationName)); err != nil {
		zlog.Info(ctx).Msg("pool metrics already registered")
	}

	return pool, nil
}
