package analysis

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	// DefaultMaxConnPool matches the teacher's libvuln default pool size.
	DefaultMaxConnPool = 30
	// DefaultCacheCapacity bounds the graph cache (component C4) when the
	// caller doesn't supply one; sized for a modest single-process deployment.
	DefaultCacheCapacity = 1024
	// DefaultTraversalConcurrency is the traversal engine's per-level
	// fan-out bound (spec.md §4.8 step 5) absent an explicit override.
	DefaultTraversalConcurrency = 8
	// DefaultDepth is the ancestors/descendants depth applied when an
	// analyze call omits one (spec.md §4.8: "a sensible default is 10").
	DefaultDepth = 10
	// DefaultPageSize bounds a paginated analyze response when the caller
	// requests no explicit size.
	DefaultPageSize = 50
	// MaxPageSize is the hard ceiling on a single page of results.
	MaxPageSize = 500
)

// Options configures a Service. Pool, if set, is used directly; otherwise
// ConnString is dialed with postgres.Connect.
type Options struct {
	// ConnString is the postgres connection string used when Pool is nil.
	ConnString string
	// ApplicationName is reported to postgres when dialing ConnString.
	ApplicationName string
	// Pool, if non-nil, is used directly instead of dialing ConnString. This
	// lets tests and cmd/analysisd share one pool across the service and
	// other collaborators (e.g. migrations).
	Pool *pgxpool.Pool
	// Backend, if non-nil, is used directly instead of constructing a
	// postgres.Store from Pool/ConnString. Tests substitute a fake here to
	// exercise Service without a live database.
	Backend Backend

	// MaxConnPool bounds the dialed pool's connection count. Ignored when
	// Pool is set.
	MaxConnPool int32
	// CacheCapacity bounds the number of SBOM graphs (C4) held in memory at
	// once.
	CacheCapacity int
	// TraversalConcurrency bounds the traversal engine's (C8) per-level
	// fan-out of external-reference resolutions.
	TraversalConcurrency int
	// DefaultDepth is used for analyze calls that don't specify an explicit
	// ancestors/descendants depth.
	DefaultDepth int

	// RequestTimeout bounds a single Analyze call, independent of any
	// caller-supplied context deadline. Zero disables the bound.
	RequestTimeout time.Duration
}

func (o *Options) setDefaults() {
	if o.ApplicationName == "" {
		o.ApplicationName = "trustify-analysis"
	}
	if o.MaxConnPool <= 0 {
		o.MaxConnPool = DefaultMaxConnPool
	}
	if o.CacheCapacity <= 0 {
		o.CacheCapacity = DefaultCacheCapacity
	}
	if o.TraversalConcurrency <= 0 {
		o.TraversalConcurrency = DefaultTraversalConcurrency
	}
	if o.DefaultDepth <= 0 {
		o.DefaultDepth = DefaultDepth
	}
}
