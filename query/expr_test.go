package query

import (
	"testing"

	"github.com/doug-martin/goqu/v8"
	_ "github.com/doug-martin/goqu/v8/dialect/postgres"
)

func toSQL(e goqu.Expression) (string, []interface{}, error) {
	return goqu.Dialect("postgres").From("sbom_node").Where(e).ToSQL()
}

func TestParseExprSimple(t *testing.T) {
	e, err := ParseExpr("name=foo")
	if err != nil {
		t.Fatal(err)
	}
	sql, _, err := toSQL(e)
	if err != nil {
		t.Fatal(err)
	}
	if !containsAll(sql, "sbom_node", "name", "foo") {
		t.Fatalf("unexpected sql: %s", sql)
	}
}

func TestParseExprConjunction(t *testing.T) {
	e, err := ParseExpr("name=foo&version~1.0")
	if err != nil {
		t.Fatal(err)
	}
	sql, _, err := toSQL(e)
	if err != nil {
		t.Fatal(err)
	}
	if !containsAll(sql, "AND", "foo", "1.0") {
		t.Fatalf("unexpected sql: %s", sql)
	}
}

func TestParseExprEscaping(t *testing.T) {
	e, err := ParseExpr(`name=foo\&bar`)
	if err != nil {
		t.Fatal(err)
	}
	sql, _, err := toSQL(e)
	if err != nil {
		t.Fatal(err)
	}
	if !containsAll(sql, "foo&bar") {
		t.Fatalf("expected escaped literal ampersand, got: %s", sql)
	}
}

func TestParseExprFreeText(t *testing.T) {
	e, err := ParseExpr("quarkus")
	if err != nil {
		t.Fatal(err)
	}
	sql, _, err := toSQL(e)
	if err != nil {
		t.Fatal(err)
	}
	if !containsAll(sql, "OR", "quarkus") {
		t.Fatalf("expected free-text OR expression, got: %s", sql)
	}
}

func TestParseExprPurlField(t *testing.T) {
	e, err := ParseExpr("purl~pkg:rpm/redhat/foo@1.0")
	if err != nil {
		t.Fatal(err)
	}
	sql, _, err := toSQL(e)
	if err != nil {
		t.Fatal(err)
	}
	if !containsAll(sql, "rpm", "redhat", "foo", "1.0") {
		t.Fatalf("expected expanded purl fields, got: %s", sql)
	}
}

func TestParseExprCPEField(t *testing.T) {
	e, err := ParseExpr("cpe=cpe:2.3:a:redhat:quarkus:3.2:*:*:*:*:el8:*:*")
	if err != nil {
		t.Fatal(err)
	}
	sql, _, err := toSQL(e)
	if err != nil {
		t.Fatal(err)
	}
	if !containsAll(sql, "redhat", "quarkus") {
		t.Fatalf("expected expanded cpe fields, got: %s", sql)
	}
}

func TestParseExprUnknownField(t *testing.T) {
	if _, err := ParseExpr("bogus=1"); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestParseExprQualifier(t *testing.T) {
	e, err := ParseExpr("purl:qualifiers:arch=src")
	if err != nil {
		t.Fatal(err)
	}
	sql, _, err := toSQL(e)
	if err != nil {
		t.Fatal(err)
	}
	if !containsAll(sql, "qualifiers", "arch", "src") {
		t.Fatalf("unexpected sql: %s", sql)
	}
}

func containsAll(haystack string, needles ...string) bool {
	for _, n := range needles {
		if !contains(haystack, n) {
			return false
		}
	}
	return true
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
