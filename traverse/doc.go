// Package traverse implements the traversal engine (component C8):
// ancestor/descendant walks over one or more SBOM graphs, following external
// references across document boundaries and guarding against cycles with a
// cross-graph visited set.
//
// It is grounded on
// original_source/modules/analysis/src/service/collector.rs's Collector,
// adapted from its async recursion over a single in-memory petgraph to
// goroutine fan-out over the engine's own graph.Graph, bounded per level by
// golang.org/x/sync/errgroup the way the teacher bounds matcher fan-out in
// internal/matcher/match.go.
package traverse
