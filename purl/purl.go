// Package purl implements the canonical Package URL identifier half of the
// engine's identifier model (see SPEC_FULL.md §4.1, component C1).
package purl

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/package-url/packageurl-go"
)

// Namespace UUIDs used to derive the three deterministic PURL ids. Each is a
// v5 UUID of a fixed urn:trustify:purl:* name, so the derivation tree is
// stable across processes and across runs of the engine, matching
// spec.md §3.1's requirement that equal inputs yield equal ids everywhere.
var (
	nsBase      = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:trustify:purl:base"))
	nsVersioned = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:trustify:purl:versioned"))
	nsQualified = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:trustify:purl:qualified"))
)

// Purl is a canonical, parsed Package URL.
type Purl struct {
	packageurl.PackageURL
}

// ParseError reports a malformed PURL, including the offending input.
type ParseError struct {
	Input string
	Span  string
	Inner error
}

func (e *ParseError) Error() string {
	if e.Span != "" {
		return fmt.Sprintf("purl: invalid %q at %s: %v", e.Input, e.Span, e.Inner)
	}
	return fmt.Sprintf("purl: invalid %q: %v", e.Input, e.Inner)
}

func (e *ParseError) Unwrap() error { return e.Inner }

// Parse parses text as a Package URL.
//
// Parsing is strict: text missing the "pkg:" scheme is rejected outright,
// rather than being handed to the underlying parser, which is lenient about
// a missing scheme.
func Parse(text string) (Purl, error) {
	if !strings.HasPrefix(text, "pkg:") {
		return Purl{}, &ParseError{Input: text, Span: "scheme", Inner: errMissingScheme}
	}
	p, err := packageurl.FromString(text)
	if err != nil {
		return Purl{}, &ParseError{Input: text, Inner: err}
	}
	return Purl{p}, nil
}

var errMissingScheme = &schemeError{}

type schemeError struct{}

func (*schemeError) Error() string { return `missing "pkg:" scheme` }

// String returns the canonical serialisation of the PURL.
func (p Purl) String() string { return p.PackageURL.String() }

// UUIDs returns the three deterministic identifiers derived from the PURL, in
// increasing order of specificity: the base (type, namespace, name), the
// versioned (base, version), and the qualified (versioned, canonicalised
// qualifiers) forms. These are the primary keys used by the relational store
// (spec.md §3.1).
func (p Purl) UUIDs() (base, versioned, qualified uuid.UUID) {
	base = uuid.NewSHA1(nsBase, []byte(p.Type+"/"+p.Namespace+"/"+p.Name))
	versioned = uuid.NewSHA1(nsVersioned, append(base[:], []byte("@"+p.Version)...))
	qualified = uuid.NewSHA1(nsQualified, append(versioned[:], []byte("?"+canonicalQualifiers(p.Qualifiers))...))
	return base, versioned, qualified
}

// BaseUUID is a convenience accessor over UUIDs for the common case of only
// needing the type/namespace/name identity.
func (p Purl) BaseUUID() uuid.UUID { base, _, _ := p.UUIDs(); return base }

// VersionedUUID is a convenience accessor over UUIDs.
func (p Purl) VersionedUUID() uuid.UUID { _, v, _ := p.UUIDs(); return v }

// QualifiedUUID is a convenience accessor over UUIDs; it is the identifier
// the query router (C6) uses for exact PURL matches.
func (p Purl) QualifiedUUID() uuid.UUID { _, _, q := p.UUIDs(); return q }

// Translate expands a `purl<op>value` query constraint (spec.md §6.3) into
// the conjunction of field constraints it stands for, e.g.
// `purl~pkg:rpm/redhat/foo` becomes
// `purl:type=rpm&purl:name=foo&purl:namespace=redhat` (type first, the
// remaining constraints in sorted order). The router's `q=`
// parser calls this when it encounters the bare `purl` field so downstream
// matching runs against the same indexed columns a direct `purl:type=...`
// filter would use, rather than a literal string comparison against the
// PURL's canonical form.
func Translate(op, value string) (string, error) {
	p, err := Parse(value)
	if err != nil {
		return "", err
	}
	var parts []string
	parts = append(parts, "purl:type="+escapeQueryValue(p.Type))
	if p.Namespace != "" {
		parts = append(parts, "purl:namespace="+escapeQueryValue(p.Namespace))
	}
	parts = append(parts, "purl:name="+escapeQueryValue(p.Name))
	if p.Version != "" {
		parts = append(parts, "purl:version="+escapeQueryValue(p.Version))
	}
	for k, v := range p.Qualifiers.Map() {
		parts = append(parts, "purl:qualifiers:"+k+"="+escapeQueryValue(v))
	}
	sort.Strings(parts[1:]) // keep type first, order the rest for determinism
	return strings.Join(parts, "&"), nil
}

// escapeQueryValue escapes the characters the q= grammar treats specially
// (spec.md §6.3: `\&`, `\=`, `\~`, `\\`), so a qualifier value containing
// one of them round-trips through Translate's expansion correctly.
func escapeQueryValue(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `&`, `\&`, `=`, `\=`, `~`, `\~`)
	return r.Replace(s)
}

// canonicalQualifiers produces a stable string form of a qualifier list,
// independent of the order qualifiers were supplied in.
func canonicalQualifiers(qs packageurl.Qualifiers) string {
	m := qs.Map()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(m[k])
		b.WriteByte('&')
	}
	return b.String()
}
