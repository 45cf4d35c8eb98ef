package ingest

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/0xramDisk/second-brain/internal/artifact"
)

// Collector accumulates stage results and synthesizes the run-wide
// diagnostics section. Single-threaded by design; the pipeline has exactly
// one writer at a time.
type Collector struct {
	runID       uuid.UUID
	stageStatus map[string]artifact.StageResult
	warnings    []string
	errors      []string
	fixes       []string
}

// NewCollector creates an empty collector for one run.
func NewCollector(runID uuid.UUID) *Collector {
	return &Collector{
		runID:       runID,
		stageStatus: make(map[string]artifact.StageResult),
	}
}

// Add records a stage result and merges its warnings, errors, and suggested
// fixes into the global lists. Submitting the same stage name twice is an
// orchestration bug and returns an error without touching collector state.
func (c *Collector) Add(result artifact.StageResult) error {
	if _, exists := c.stageStatus[result.StageName]; exists {
		return fmt.Errorf("duplicate stage result for %q", result.StageName)
	}

	c.stageStatus[result.StageName] = result
	c.warnings = append(c.warnings, result.Warnings...)
	c.errors = append(c.errors, result.Errors...)
	c.fixes = append(c.fixes, result.SuggestedFixes...)
	for _, failure := range result.Failures {
		c.fixes = append(c.fixes, failure.SuggestedFixes...)
	}
	return nil
}

// HasFatalFailure reports whether any recorded stage failed.
func (c *Collector) HasFatalFailure() bool {
	for _, result := range c.stageStatus {
		if !result.Success {
			return true
		}
	}
	return false
}

// BuildDiagnostics synthesizes the diagnostics section. Suggested fixes are
// deduplicated here, at synthesis time only; insertion order and
// multiplicity are preserved inside the collector so repeated calls return
// equal values.
func (c *Collector) BuildDiagnostics() artifact.Diagnostics {
	status := make(map[string]artifact.StageResult, len(c.stageStatus))
	for name, result := range c.stageStatus {
		status[name] = result
	}
	return artifact.Diagnostics{
		StageStatus:    status,
		Warnings:       append([]string{}, c.warnings...),
		Errors:         append([]string{}, c.errors...),
		SuggestedFixes: dedupe(c.fixes),
	}
}

func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
