/*
Package postgres implements every outbound read contract the SBOM analysis
graph engine declares against its relational store: graph.Queryer (C3),
externalref.Store (C5), query.Store (C6), rank.Store (C7), and
traverse.AncestorStore (C8), all against the table set spec.md §6.2 names
(sbom, sbom_node, sbom_package, sbom_package_purl_ref,
sbom_package_cpe_ref, sbom_external_node, package_relates_to_package,
qualified_purl, cpe), plus product and product_version, which the node
query joins.

SQL statements are arranged as constants in the closest scope possible to
where they're used, the way the teacher's own datastore/postgres package
does. Queries endeavor to do work database-side rather than making queries
to construct further queries; the wide, multi-CTE node query (nodes.go) is
the clearest example, grounded on
original_source/modules/analysis/src/service/load.rs's get_nodes.
*/
package postgres
