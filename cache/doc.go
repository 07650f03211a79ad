// Package cache provides the bounded, single-flighted graph cache (C4): one
// entry per SBOM id, shared by every concurrent caller loading the same
// graph.
package cache
