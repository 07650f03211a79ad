package query

import "strings"

// column describes where a q= field lives: which joined table it comes from
// and the SQL column name within it. This mirrors the teacher's
// `q_columns()` field→column table in spirit, reimplemented as a plain Go
// map since there's no Filtering-trait analogue in this corpus.
type column struct {
	table string
	name  string
}

var fieldColumns = map[string]column{
	"name":           {"sbom_node", "name"},
	"version":        {"sbom_package", "version"},
	"sbom_id":        {"sbom", "sbom_id"},
	"node_id":        {"sbom_node", "node_id"},
	"purl":           {"qualified_purl", "purl"},
	"cpe":            {"cpe", "cpe"},
	"purl:type":      {"qualified_purl", "type"},
	"purl:name":      {"qualified_purl", "name"},
	"purl:namespace": {"qualified_purl", "namespace"},
	"purl:version":   {"qualified_purl", "version"},
	"cpe:part":       {"cpe", "part"},
	"cpe:vendor":     {"cpe", "vendor"},
	"cpe:product":    {"cpe", "product"},
	"cpe:version":    {"cpe", "version"},
	"cpe:update":     {"cpe", "update"},
	"cpe:edition":    {"cpe", "edition"},
	"cpe:language":   {"cpe", "language"},
	"published":      {"sbom", "published"},
}

const qualifierPrefix = "purl:qualifiers:"

// columnFor resolves field to its table and column, including the
// dynamically-named `purl:qualifiers:<qk>` family, which indexes into the
// qualified_purl.qualifiers jsonb column rather than a fixed column name.
func columnFor(field string) (table, col string, ok bool) {
	if strings.HasPrefix(field, qualifierPrefix) {
		key := strings.TrimPrefix(field, qualifierPrefix)
		if key == "" {
			return "", "", false
		}
		return "qualified_purl", "qualifiers->>'" + key + "'", true
	}
	c, ok := fieldColumns[field]
	if !ok {
		return "", "", false
	}
	return c.table, c.name, true
}
