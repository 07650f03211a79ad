package postgres

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/trustify-project/analysis-engine/query"
)

func TestMatchNodeIDDatasetParameterisesValue(t *testing.T) {
	sql, args, err := toSQL("test", matchNodeIDDataset("SPDXRef-foo"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sql, "node_id") {
		t.Fatalf("expected a node_id predicate, got %q", sql)
	}
	if len(args) != 1 || args[0] != "SPDXRef-foo" {
		t.Fatalf("expected node id bound as a parameter, got %v", args)
	}
}

func TestMatchPurlDatasetJoinsQualifiedPurlRef(t *testing.T) {
	id := uuid.New()
	sql, args, err := toSQL("test", matchPurlDataset(id))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sql, "sbom_package_purl_ref") {
		t.Fatalf("expected a join against sbom_package_purl_ref, got %q", sql)
	}
	if len(args) != 1 || args[0] != id {
		t.Fatalf("expected the qualified purl id bound as a parameter, got %v", args)
	}
}

func TestMatchCPEDatasetExcludesPurlNamedNodes(t *testing.T) {
	id := uuid.New()
	sql, args, err := toSQL("test", matchCPEDataset(id))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sql, "NOT LIKE") {
		t.Fatalf("expected a name NOT LIKE 'pkg:%%' exclusion, got %q", sql)
	}
	if len(args) != 2 {
		t.Fatalf("expected 2 bound parameters (cpe id, pkg: pattern), got %v", args)
	}
}

func TestMatchExprDatasetLeftJoinsEveryFilterableTable(t *testing.T) {
	expr, err := query.ParseExpr("name~foo&purl:type=maven")
	if err != nil {
		t.Fatal(err)
	}
	sql, _, err := toSQL("test", matchExprDataset(expr))
	if err != nil {
		t.Fatal(err)
	}
	for _, table := range []string{"sbom_package", "sbom_package_purl_ref", "qualified_purl", "sbom_package_cpe_ref", "cpe"} {
		if !strings.Contains(sql, table) {
			t.Fatalf("expected a left join against %s, got %q", table, sql)
		}
	}
	if !strings.Contains(sql, "DISTINCT") {
		t.Fatalf("expected DISTINCT to collapse the join fan-out, got %q", sql)
	}
}
