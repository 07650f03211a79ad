package cpeid

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tt := []struct {
		name string
		in   string
		fail bool
	}{
		{name: "uri form", in: "cpe:/a:redhat:quarkus:3.2::el8"},
		{name: "fs form", in: "cpe:2.3:a:redhat:quarkus:3.2:*:*:*:*:el8:*:*"},
		{name: "bad prefix", in: "redhat:quarkus:3.2", fail: true},
		{name: "malformed uri", in: "cpe:/", fail: true},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			c, err := Parse(tc.in)
			if tc.fail {
				if err == nil {
					t.Fatalf("expected error for %q", tc.in)
				}
				var perr *ParseError
				if !errors.As(err, &perr) {
					t.Fatalf("expected *ParseError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.UUID().String() == "" {
				t.Fatal("expected non-empty uuid")
			}
		})
	}
}

func TestUUIDCanonicalisesAcrossForms(t *testing.T) {
	uri, err := Parse("cpe:/o:redhat:enterprise_linux:8::baseos")
	if err != nil {
		t.Fatal(err)
	}
	fs, err := Parse(uri.String())
	if err != nil {
		t.Fatal(err)
	}
	if uri.UUID() != fs.UUID() {
		t.Fatal("expected round-tripped CPE to produce identical uuid")
	}
}

func TestMatchesAnyWildcard(t *testing.T) {
	wildcard, err := Parse("cpe:/a:redhat:openshift")
	if err != nil {
		t.Fatal(err)
	}
	specific, err := Parse("cpe:2.3:a:redhat:openshift:4.12:*:*:*:*:*:*:*")
	if err != nil {
		t.Fatal(err)
	}
	if !MatchesAny(wildcard, specific) {
		t.Fatal("expected wildcard version to match a specific version")
	}
}

func TestMatchesAnyDisjoint(t *testing.T) {
	a, err := Parse("cpe:2.3:a:redhat:openshift:4.12:*:*:*:*:*:*:*")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Parse("cpe:2.3:a:redhat:openshift:5.1:*:*:*:*:*:*:*")
	if err != nil {
		t.Fatal(err)
	}
	if MatchesAny(a, b) {
		t.Fatal("expected different pinned versions to be disjoint")
	}
}
