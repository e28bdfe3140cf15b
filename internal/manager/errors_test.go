package manager

import (
	"errors"
	"io"
	"testing"
)

func TestErrorPredicates(t *testing.T) {
	le := loadError{cause: io.EOF}
	if !IsLoadError(le) {
		t.Fatalf("expected IsLoadError")
	}
	if IsGenerationError(le) {
		t.Fatalf("load error misclassified as generation error")
	}
	ge := generationError{cause: io.EOF}
	if !IsGenerationError(ge) {
		t.Fatalf("expected IsGenerationError")
	}
	if !errors.Is(le, io.EOF) || !errors.Is(ge, io.EOF) {
		t.Fatalf("expected Unwrap to expose the cause")
	}
	if IsLoadError(io.EOF) || IsGenerationError(io.EOF) {
		t.Fatalf("plain errors must not match predicates")
	}
}
