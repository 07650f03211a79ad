// Package rank implements the latest-ranker (component C7): resolving the
// authoritative CPE(s) behind a query match via a cross-SBOM ancestor walk,
// then assigning a dense "latest" rank within each CPE partition.
//
// It is ported from original_source/modules/analysis/src/service/load/rank.rs,
// keeping that file's two-phase shape: resolve_sbom_cpes (here, the body of Rank)
// discovers the (match, cpe) rows, and apply_rank (here, applyRank) assigns
// the rank field by sorting and partitioning in place.
package rank
