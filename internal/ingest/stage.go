package ingest

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/0xramDisk/second-brain/internal/artifact"
	"github.com/0xramDisk/second-brain/internal/config"
)

// Stage is the contract every pipeline step satisfies. A stage mutates the
// shared artifact in place and reports its outcome as a StageResult.
//
// Stages must not panic for anticipated failure modes; those are encoded as
// a failed StageResult. A stage must leave the artifact valid and partially
// populated on failure, never clearing sections written by earlier stages.
type Stage func(ctx context.Context, art *artifact.Artifact, runID uuid.UUID, cfg *config.Config) artifact.StageResult

// StageDefinition pairs a stage with its unique name. Names key the
// diagnostics stage-status map and must be unique within a pipeline.
type StageDefinition struct {
	Name string
	Run  Stage
}

// Timer measures a stage's wall-clock execution time. Start one on entry
// and read ElapsedMS exactly once, at exit.
type Timer struct {
	start time.Time
}

// StartTimer begins a scoped stage timer.
func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ElapsedMS returns the milliseconds elapsed since the timer started.
func (t *Timer) ElapsedMS() float64 {
	return float64(time.Since(t.start)) / float64(time.Millisecond)
}
