package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/0xramDisk/second-brain/internal/artifact"
	"github.com/0xramDisk/second-brain/internal/config"
	"github.com/0xramDisk/second-brain/internal/logging"
	"github.com/0xramDisk/second-brain/internal/services"
)

// Runner orchestrates the fixed, ordered ingestion pipeline. Every stage
// always runs, even after earlier failures; later stages degrade gracefully
// on missing inputs rather than being skipped.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
	stages []StageDefinition
}

// NewRunner constructs a pipeline runner over the supplied stage list.
func NewRunner(cfg *config.Config, logger *slog.Logger, stages []StageDefinition) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "ingest"),
		stages: stages,
	}
}

// Run executes the full pipeline for a source URL and returns the artifact.
// The artifact is returned for every completed run regardless of how many
// stages failed; the only errors returned are orchestration defects
// (duplicate stage names) and external cancellation, both of which abort
// the run outright.
func (r *Runner) Run(ctx context.Context, url string) (*artifact.Artifact, error) {
	runID := uuid.New()
	ctx = services.WithRunID(ctx, runID.String())
	runLogger := logging.WithContext(ctx, r.logger)

	runLogger.Info(
		"pipeline started",
		logging.String(logging.FieldEventType, "pipeline_start"),
		logging.String("url", url),
	)

	art := artifact.New(url, runID)
	collector := NewCollector(runID)

	for _, stage := range r.stages {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("pipeline aborted: %w", err)
		}

		stageCtx := services.WithStage(ctx, stage.Name)
		stageCtx = services.WithRequestID(stageCtx, uuid.NewString())
		stageLogger := logging.WithContext(stageCtx, r.logger)

		stageLogger.Info(
			"stage started",
			logging.String(logging.FieldEventType, "stage_start"),
		)
		stageStart := time.Now()

		result := r.runStage(stageCtx, stage, art, runID)

		if err := collector.Add(result); err != nil {
			// Stage names are statically unique by construction; a duplicate
			// means the pipeline definition itself is broken.
			return nil, fmt.Errorf("record stage result: %w", err)
		}

		if result.Success {
			stageLogger.Info(
				"stage completed",
				logging.String(logging.FieldEventType, "stage_complete"),
				logging.Bool("success", true),
				logging.Duration("stage_duration", time.Since(stageStart)),
			)
		} else {
			stageLogger.Warn(
				"stage failed",
				logging.String(logging.FieldEventType, "stage_failure"),
				logging.Bool("success", false),
				logging.Int("error_count", len(result.Errors)),
				logging.Duration("stage_duration", time.Since(stageStart)),
			)
		}
	}

	art.Diagnostics = collector.BuildDiagnostics()

	if err := art.Validate(); err != nil {
		// Non-fatal: the accumulated work is worth more than schema purity.
		runLogger.Error(
			"final validation failed, returning artifact as-is",
			logging.String(logging.FieldEventType, "validation_failure"),
			logging.Error(err),
		)
	}

	runLogger.Info(
		"pipeline completed",
		logging.String(logging.FieldEventType, "pipeline_complete"),
		logging.Bool("degraded", collector.HasFatalFailure()),
	)

	return art, nil
}

// runStage invokes a stage inside the failure boundary. Panics become a
// synthetic failed StageResult so one stage's defect never aborts the run.
func (r *Runner) runStage(ctx context.Context, stage StageDefinition, art *artifact.Artifact, runID uuid.UUID) (result artifact.StageResult) {
	defer func() {
		if rec := recover(); rec != nil {
			logging.WithContext(ctx, r.logger).Error(
				"unhandled panic in stage",
				logging.String(logging.FieldEventType, "stage_panic"),
				logging.Any("panic", rec),
			)
			result = synthesizeFailure(stage.Name, fmt.Sprintf("unhandled panic: %v", rec))
		}
	}()

	if stage.Run == nil {
		return synthesizeFailure(stage.Name, "stage has no implementation")
	}
	return stage.Run(ctx, art, runID, r.cfg)
}

func synthesizeFailure(stageName, message string) artifact.StageResult {
	return artifact.StageResult{
		StageName: stageName,
		Success:   false,
		Errors:    []string{message},
		Failures: []artifact.StageFailure{{
			Stage:  stageName,
			Kind:   artifact.FailureSource, // conservative default
			Cause:  "unexpected_exception",
			Impact: "stage aborted",
			SuggestedFixes: []string{
				"Review logs",
				"Report a bug with the stack trace",
			},
		}},
	}
}
