package postgres

import (
	"errors"
	"testing"

	trustify "github.com/trustify-project/analysis-engine"
)

func TestBackendErrorWrapsAsBackendKind(t *testing.T) {
	inner := errors.New("connection reset")
	err := backendError("datastore/postgres.Store.GraphNodes", inner)

	var e *trustify.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected a *trustify.Error, got %T", err)
	}
	if e.Kind != trustify.ErrBackend {
		t.Fatalf("expected ErrBackend, got %s", e.Kind)
	}
	if !errors.Is(err, inner) {
		t.Fatal("expected the original error to remain in the chain")
	}
}
