package artifact

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestValidateAcceptsCompleteArtifact(t *testing.T) {
	art := New("https://youtu.be/abc123def45", uuid.New())
	art.Diagnostics.StageStatus = map[string]StageResult{
		"validate_input": {StageName: "validate_input", Success: true},
	}
	if err := art.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateReportsMissingIdentity(t *testing.T) {
	art := &Artifact{}
	err := art.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"content_id", "workflow_run_id", "created_at", "workflow_version", "source.url"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q mentioned in %v", want, err)
		}
	}
}

func TestValidateFlagsStageNameMismatch(t *testing.T) {
	art := New("https://youtu.be/abc", uuid.New())
	art.Diagnostics.StageStatus = map[string]StageResult{
		"validate_input": {StageName: "something_else", Success: true},
	}
	err := art.Validate()
	if err == nil || !strings.Contains(err.Error(), "validate_input") {
		t.Fatalf("expected stage name mismatch reported, got %v", err)
	}
}

func TestValidateFlagsUnknownFailureKind(t *testing.T) {
	art := New("https://youtu.be/abc", uuid.New())
	art.Diagnostics.StageStatus = map[string]StageResult{
		"fetch_metadata": {
			StageName: "fetch_metadata",
			Failures:  []StageFailure{{Stage: "fetch_metadata", Kind: "weird_error"}},
		},
	}
	err := art.Validate()
	if err == nil || !strings.Contains(err.Error(), "weird_error") {
		t.Fatalf("expected unknown failure kind reported, got %v", err)
	}
}

func TestValidateNilArtifact(t *testing.T) {
	var art *Artifact
	if err := art.Validate(); err == nil {
		t.Fatal("expected error for nil artifact")
	}
}
