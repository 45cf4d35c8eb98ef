package services_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/0xramDisk/second-brain/internal/artifact"
	"github.com/0xramDisk/second-brain/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("connection refused")
	err := services.Wrap(services.ErrSource, "metadata", "fetch", "transport failure", base)

	if !errors.Is(err, services.ErrSource) {
		t.Fatalf("expected ErrSource marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	if !strings.Contains(err.Error(), "metadata: fetch: transport failure") {
		t.Fatalf("unexpected detail: %v", err)
	}
}

func TestWrapNilMarkerDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "captions", "fetch", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected ErrTransient, got %v", err)
	}
}

func TestFailureKind(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		expect artifact.FailureKind
	}{
		{"input", services.Wrap(services.ErrInput, "validate", "", "", nil), artifact.FailureInput},
		{"extraction", services.Wrap(services.ErrExtraction, "transcript", "", "", nil), artifact.FailureExtraction},
		{"structure", services.Wrap(services.ErrStructure, "structure", "", "", nil), artifact.FailureStructure},
		{"interpretation", services.Wrap(services.ErrInterpretation, "semantics", "", "", nil), artifact.FailureInterpretation},
		{"source", services.Wrap(services.ErrSource, "metadata", "", "", nil), artifact.FailureSource},
		{"unclassified", errors.New("boom"), artifact.FailureSource},
	}
	for _, tc := range cases {
		if got := services.FailureKind(tc.err); got != tc.expect {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.expect, got)
		}
	}
}
