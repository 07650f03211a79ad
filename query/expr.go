package query

import (
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v8"
	"github.com/quay/claircore/toolkit/types/cpe"

	"github.com/trustify-project/analysis-engine/cpeid"
	"github.com/trustify-project/analysis-engine/purl"
)

// op is one of the comparison operators spec.md §6.3 defines. They're tried
// longest-first so "!=" and "<=" aren't mistaken for "=" and "<".
var ops = []string{"!=", "<=", ">=", "=", "~", "<", ">"}

// ParseExpr lowers a q= string into a goqu.Expression tree. Ampersand-joined
// terms become a conjunction; a bare term with no recognised field<op>value
// shape is treated as free text and becomes an OR across name and the
// qualified-purl string form.
func ParseExpr(raw string) (goqu.Expression, error) {
	terms, err := splitTerms(raw)
	if err != nil {
		return nil, err
	}
	if len(terms) == 0 {
		return nil, fmt.Errorf("query: empty expression")
	}

	var exprs []goqu.Expression
	for _, t := range terms {
		e, err := parseTerm(t)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	if len(exprs) == 1 {
		return exprs[0], nil
	}
	return goqu.And(exprs...), nil
}

// splitTerms splits raw on unescaped '&' and unescapes \&, \=, \~, \\ within
// each resulting term.
func splitTerms(raw string) ([]string, error) {
	var terms []string
	var cur strings.Builder
	escaped := false
	for _, r := range raw {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '&':
			terms = append(terms, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if escaped {
		return nil, fmt.Errorf("query: dangling escape at end of expression")
	}
	terms = append(terms, cur.String())
	return terms, nil
}

// findOp locates the first unescaped operator in a term, returning its
// index and which operator matched.
func findOp(term string) (idx int, op string) {
	escaped := false
	for i := 0; i < len(term); i++ {
		c := term[i]
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		for _, o := range ops {
			if strings.HasPrefix(term[i:], o) {
				return i, o
			}
		}
	}
	return -1, ""
}

func parseTerm(term string) (goqu.Expression, error) {
	idx, op := findOp(term)
	if idx < 0 {
		return freeText(term), nil
	}
	field, value := term[:idx], term[idx+len(op):]
	if field == "" {
		return freeText(value), nil
	}

	switch field {
	case "purl":
		expanded, err := purl.Translate(op, value)
		if err != nil {
			return nil, fmt.Errorf("query: expanding purl field: %w", err)
		}
		return ParseExpr(expanded)
	case "cpe":
		return cpeExpr(op, value)
	}

	table, col, ok := columnFor(field)
	if !ok {
		return nil, fmt.Errorf("query: unknown field %q", field)
	}
	return compare(table, col, op, value)
}

func freeText(term string) goqu.Expression {
	return goqu.Or(
		goqu.I("sbom_node.name").ILike("%"+term+"%"),
		goqu.I("qualified_purl.purl").ILike("%"+term+"%"),
	)
}

func compare(table, col, op, value string) (goqu.Expression, error) {
	ident := goqu.I(table + "." + col)
	switch op {
	case "=":
		return ident.Eq(value), nil
	case "!=":
		return ident.Neq(value), nil
	case "~":
		return ident.ILike("%" + value + "%"), nil
	case "<":
		return ident.Lt(value), nil
	case "<=":
		return ident.Lte(value), nil
	case ">":
		return ident.Gt(value), nil
	case ">=":
		return ident.Gte(value), nil
	default:
		return nil, fmt.Errorf("query: unsupported operator %q", op)
	}
}

// cpeAttrColumns pairs each WFN attribute the query grammar exposes with its
// column name in the cpe table.
var cpeAttrColumns = []struct {
	attr cpe.Attribute
	col  string
}{
	{cpe.Part, "part"},
	{cpe.Vendor, "vendor"},
	{cpe.Product, "product"},
	{cpe.Version, "version"},
	{cpe.Update, "update"},
	{cpe.Edition, "edition"},
	{cpe.Language, "language"},
}

// cpeExpr breaks a cpe<op>value constraint into its constituent WFN
// attribute columns, skipping attributes the query CPE leaves as "ANY" or
// "NA" so that wildcards continue to mean match-any rather than
// match-empty-string. A value that fails to parse as a CPE falls back to a
// substring match against the stored cpe text column.
func cpeExpr(op, value string) (goqu.Expression, error) {
	c, err := cpeid.Parse(value)
	if err != nil {
		return compare("cpe", "cpe", "~", value)
	}

	var exprs []goqu.Expression
	for _, ac := range cpeAttrColumns {
		v := c.Attr[ac.attr]
		if v.Kind != cpe.ValueSet {
			continue
		}
		exprs = append(exprs, goqu.I("cpe."+ac.col).Eq(v.V))
	}
	if len(exprs) == 0 {
		return compare("cpe", "cpe", op, value)
	}
	return goqu.And(exprs...), nil
}
