// Package cpeid implements the CPE half of the engine's identifier model
// (see SPEC_FULL.md §4.1, component C1), wrapping the WFN implementation the
// teacher itself depends on.
package cpeid

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/quay/claircore/toolkit/types/cpe"
)

// nsCPE namespaces the deterministic UUID derived from a CPE's canonical
// form, mirroring purl's namespace constants.
var nsCPE = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:trustify:cpeid"))

// CPE is a canonical, parsed Common Platform Enumeration name.
type CPE struct {
	cpe.WFN
}

// ParseError reports a malformed CPE.
type ParseError struct {
	Input string
	Inner error
}

func (e *ParseError) Error() string { return fmt.Sprintf("cpeid: invalid %q: %v", e.Input, e.Inner) }
func (e *ParseError) Unwrap() error { return e.Inner }

// Parse parses text as a CPE name in either the 2.2 URI form (cpe:/...) or
// the 2.3 formatted-string form (cpe:2.3:...). Any other prefix is rejected
// before being handed to the underlying unbinder.
func Parse(text string) (CPE, error) {
	switch {
	case strings.HasPrefix(text, "cpe:/"), strings.HasPrefix(text, "cpe:2.3:"):
	default:
		return CPE{}, &ParseError{Input: text, Inner: errBadPrefix}
	}
	w, err := cpe.Unbind(text)
	if err != nil {
		return CPE{}, &ParseError{Input: text, Inner: err}
	}
	return CPE{w}, nil
}

var errBadPrefix = prefixError{}

type prefixError struct{}

func (prefixError) Error() string { return `missing "cpe:/" or "cpe:2.3:" prefix` }

// UUID returns the deterministic identifier derived from the CPE's
// canonical formatted-string form. Two CPEs that are textually distinct but
// WFN-equal (e.g. a URI-form and an FS-form encoding of the same name)
// resolve to the same UUID, since both canonicalise through WFN.String.
func (c CPE) UUID() uuid.UUID {
	return uuid.NewSHA1(nsCPE, []byte(c.String()))
}

// Compare reports the per-attribute relation between two CPEs, honouring
// "ANY" (wildcard, matches anything) and "NA" (not applicable) attribute
// states per the CPE matching specification.
func Compare(a, b CPE) cpe.Relations {
	return cpe.Compare(a.WFN, b.WFN)
}

// MatchesAny reports whether a and b could describe the same platform,
// treating wildcard attributes as matching anything: neither side being a
// strict subset/superset/equal disqualifies the pair. The query router does
// not use it; it matches CPEs by id and attribute-column equality.
func MatchesAny(a, b CPE) bool {
	r := Compare(a, b)
	return r.IsEqual() || r.IsSubset() || r.IsSuperset()
}
