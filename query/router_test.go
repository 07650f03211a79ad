package query

import (
	"context"
	"testing"

	"github.com/doug-martin/goqu/v8"
	"github.com/google/uuid"
)

func TestDetectShape(t *testing.T) {
	tt := []struct {
		in   string
		want Shape
	}{
		{"pkg:rpm/redhat/AA@0.0.0?arch=src", ShapePurl},
		{"cpe:/a:redhat:quarkus:3.2::el8", ShapeCPE},
		{"cpe:2.3:a:redhat:quarkus:3.2:*:*:*:*:el8:*:*", ShapeCPE},
		{"SPDXRef-Package-AA", ShapeNodeID},
		{"name=foo&version=1.0", ShapeFreeText},
		{"quarkus", ShapeNodeID},
	}
	for _, tc := range tt {
		if got := DetectShape(tc.in); got != tc.want {
			t.Errorf("DetectShape(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

type fakeStore struct {
	nodeIDCalls int
	purlCalls   int
	cpeCalls    int
	exprCalls   int
	matches     []Match
}

func (f *fakeStore) MatchNodeID(context.Context, string) ([]Match, error) {
	f.nodeIDCalls++
	return f.matches, nil
}

func (f *fakeStore) MatchPurl(context.Context, uuid.UUID) ([]Match, error) {
	f.purlCalls++
	return f.matches, nil
}

func (f *fakeStore) MatchCPE(context.Context, uuid.UUID) ([]Match, error) {
	f.cpeCalls++
	return f.matches, nil
}

func (f *fakeStore) MatchExpr(context.Context, goqu.Expression) ([]Match, error) {
	f.exprCalls++
	return f.matches, nil
}

func TestRouterDispatchesByShape(t *testing.T) {
	id := uuid.New()
	store := &fakeStore{matches: []Match{{SbomID: id, NodeID: "AA"}}}
	r := NewRouter(store)

	if _, shape, err := r.Resolve(context.Background(), "pkg:rpm/redhat/AA@0.0.0"); err != nil || shape != ShapePurl {
		t.Fatalf("purl dispatch: shape=%v err=%v", shape, err)
	}
	if _, shape, err := r.Resolve(context.Background(), "cpe:/a:redhat:quarkus:3.2::el8"); err != nil || shape != ShapeCPE {
		t.Fatalf("cpe dispatch: shape=%v err=%v", shape, err)
	}
	if _, shape, err := r.Resolve(context.Background(), "SPDXRef-Package-AA"); err != nil || shape != ShapeNodeID {
		t.Fatalf("node-id dispatch: shape=%v err=%v", shape, err)
	}
	if _, shape, err := r.Resolve(context.Background(), "name~quarkus"); err != nil || shape != ShapeFreeText {
		t.Fatalf("free-text dispatch: shape=%v err=%v", shape, err)
	}

	if store.purlCalls != 1 || store.cpeCalls != 1 || store.nodeIDCalls != 1 || store.exprCalls != 1 {
		t.Fatalf("unexpected call counts: %+v", store)
	}
}
