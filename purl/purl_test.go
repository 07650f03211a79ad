package purl

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
		{name: "simple", in: "pkg:rpm/redhat/AA@0.0.0?arch=src"},
		{name: "maven", in: "pkg:maven/org.quarkus/quarkus-bom@3.2.11?type=pom"},
		{name: "missing scheme", in: "rpm/redhat/AA@0.0.0", fail: true},
		{name: "garbage", in: "pkg:", fail: true},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Parse(tc.in)
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
			if p.Type == "" || p.Name == "" {
				t.Fatalf("parsed purl missing fields: %+v", p)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	const in = "pkg:rpm/redhat/AA@0.0.0?arch=src"
	p, err := Parse(in)
	if err != nil {
		t.Fatal(err)
	}
	p2, err := Parse(p.String())
	if err != nil {
		t.Fatalf("round-trip parse: %v", err)
	}
	b1, v1, q1 := p.UUIDs()
	b2, v2, q2 := p2.UUIDs()
	if b1 != b2 || v1 != v2 || q1 != q2 {
		t.Fatalf("round-tripped purl produced different uuids: %v %v vs %v %v", b1, v1, b2, v2)
	}
}

func TestUUIDsDeterministic(t *testing.T) {
	p1, err := Parse("pkg:rpm/redhat/AA@0.0.0?arch=src")
	if err != nil {
		t.Fatal(err)
	}
	p2, err := Parse("pkg:rpm/redhat/AA@0.0.0?arch=src")
	if err != nil {
		t.Fatal(err)
	}
	b1, v1, q1 := p1.UUIDs()
	b2, v2, q2 := p2.UUIDs()
	if b1 != b2 || v1 != v2 || q1 != q2 {
		t.Fatal("expected identical uuids for identical purls")
	}

	p3, err := Parse("pkg:rpm/redhat/AA@0.0.1?arch=src")
	if err != nil {
		t.Fatal(err)
	}
	b3, v3, q3 := p3.UUIDs()
	if b1 != b3 {
		t.Fatal("expected base uuid to be version-independent")
	}
	if v1 == v3 {
		t.Fatal("expected versioned uuid to differ across versions")
	}
	if q1 == q3 {
		t.Fatal("expected qualified uuid to differ across versions")
	}
}

func TestUUIDsQualifierOrderIndependent(t *testing.T) {
	p1, err := Parse("pkg:rpm/redhat/AA@0.0.0?arch=src&distro=fedora")
	if err != nil {
		t.Fatal(err)
	}
	p2, err := Parse("pkg:rpm/redhat/AA@0.0.0?distro=fedora&arch=src")
	if err != nil {
		t.Fatal(err)
	}
	_, _, q1 := p1.UUIDs()
	_, _, q2 := p2.UUIDs()
	if q1 != q2 {
		t.Fatal("expected qualifier order not to affect qualified uuid")
	}
}

func TestTranslate(t *testing.T) {
	out, err := Translate("~", "pkg:rpm/redhat/foo@1.0")
	if err != nil {
		t.Fatal(err)
	}
	want := "purl:type=rpm&purl:name=foo&purl:namespace=redhat&purl:version=1.0"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestTranslateInvalid(t *testing.T) {
	if _, err := Translate("~", "not-a-purl"); err == nil {
		t.Fatal("expected error translating invalid purl")
	}
}
