package fault_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/nikbrunner/marks/internal/fault"
)

func TestKindOf(t *testing.T) {
	err := fault.New(fault.KindNotFound, "collection %q not found", "work")
	if fault.KindOf(err) != fault.KindNotFound {
		t.Errorf("expected not-found kind, got %v", fault.KindOf(err))
	}
	if err.Error() != `collection "work" not found` {
		t.Errorf("unexpected message: %q", err.Error())
	}

	// Plain errors and nil default to internal.
	if fault.KindOf(errors.New("boom")) != fault.KindInternal {
		t.Error("expected plain errors to classify as internal")
	}
	if fault.KindOf(nil) != fault.KindInternal {
		t.Error("expected nil to classify as internal")
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := fault.Wrap(fault.KindTransport, cause, "connect to %s", "dav.example.com")

	if !fault.IsKind(err, fault.KindTransport) {
		t.Errorf("expected transport kind, got %v", fault.KindOf(err))
	}
	if !errors.Is(err, cause) {
		t.Error("expected the cause to survive wrapping")
	}

	if fault.Wrap(fault.KindTransport, nil, "ignored") != nil {
		t.Error("wrapping nil must return nil")
	}
}

func TestKindSurvivesFmtWrapping(t *testing.T) {
	inner := fault.New(fault.KindValidation, "name is required")
	outer := fmt.Errorf("create collection: %w", inner)

	if !fault.IsKind(outer, fault.KindValidation) {
		t.Error("expected the kind to be found through wrapped errors")
	}
}
