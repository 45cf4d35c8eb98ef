package ingest_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/0xramDisk/second-brain/internal/artifact"
	"github.com/0xramDisk/second-brain/internal/config"
	"github.com/0xramDisk/second-brain/internal/ingest"
	"github.com/0xramDisk/second-brain/internal/logging"
)

func okStage(name string) ingest.StageDefinition {
	return ingest.StageDefinition{
		Name: name,
		Run: func(ctx context.Context, art *artifact.Artifact, runID uuid.UUID, cfg *config.Config) artifact.StageResult {
			timer := ingest.StartTimer()
			return artifact.StageResult{StageName: name, Success: true, ExecutionTimeMS: timer.ElapsedMS()}
		},
	}
}

func panicStage(name string) ingest.StageDefinition {
	return ingest.StageDefinition{
		Name: name,
		Run: func(ctx context.Context, art *artifact.Artifact, runID uuid.UUID, cfg *config.Config) artifact.StageResult {
			panic("boom")
		},
	}
}

func testConfig() *config.Config {
	cfg := config.Default()
	return &cfg
}

func TestRunAlwaysReturnsArtifact(t *testing.T) {
	runner := ingest.NewRunner(testConfig(), logging.NewNop(), []ingest.StageDefinition{
		okStage("validate_input"),
		panicStage("fetch_metadata"),
		okStage("fetch_transcript"),
	})

	art, err := runner.Run(context.Background(), "https://example.com/watch?v=ABC123")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if art == nil {
		t.Fatal("expected artifact")
	}
	if art.Source.URL != "https://example.com/watch?v=ABC123" {
		t.Fatalf("source url missing: %q", art.Source.URL)
	}
	if art.Identity.RunID == uuid.Nil || art.Identity.ContentID == uuid.Nil {
		t.Fatal("identity not populated")
	}
}

func TestRunConvertsPanicToStructuredFailure(t *testing.T) {
	runner := ingest.NewRunner(testConfig(), logging.NewNop(), []ingest.StageDefinition{
		panicStage("fetch_metadata"),
		okStage("fetch_transcript"),
	})

	art, err := runner.Run(context.Background(), "https://example.com/watch?v=ABC123")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	failed, ok := art.Diagnostics.StageStatus["fetch_metadata"]
	if !ok {
		t.Fatal("panicking stage missing from stage_status")
	}
	if failed.Success {
		t.Fatal("panicking stage should be marked failed")
	}
	if len(failed.Failures) != 1 || failed.Failures[0].Cause != "unexpected_exception" {
		t.Fatalf("expected unexpected_exception failure, got %+v", failed.Failures)
	}

	// The panic must not prevent later stages from running.
	if later, ok := art.Diagnostics.StageStatus["fetch_transcript"]; !ok || !later.Success {
		t.Fatalf("subsequent stage did not run cleanly: %+v", later)
	}
}

func TestRunAbortsOnDuplicateStageNames(t *testing.T) {
	runner := ingest.NewRunner(testConfig(), logging.NewNop(), []ingest.StageDefinition{
		okStage("validate_input"),
		okStage("validate_input"),
	})

	if _, err := runner.Run(context.Background(), "https://example.com/watch?v=ABC123"); err == nil {
		t.Fatal("expected hard abort on duplicate stage names")
	}
}

func TestRunAbortsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := ingest.NewRunner(testConfig(), logging.NewNop(), []ingest.StageDefinition{
		okStage("validate_input"),
	})
	if _, err := runner.Run(ctx, "https://example.com/watch?v=ABC123"); err == nil {
		t.Fatal("expected abort for cancelled context")
	}
}

func TestRunHandlesMissingStageImplementation(t *testing.T) {
	runner := ingest.NewRunner(testConfig(), logging.NewNop(), []ingest.StageDefinition{
		{Name: "validate_input"},
	})

	art, err := runner.Run(context.Background(), "https://example.com/watch?v=ABC123")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	result := art.Diagnostics.StageStatus["validate_input"]
	if result.Success {
		t.Fatal("stage without implementation should fail")
	}
}
