package stages

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/0xramDisk/second-brain/internal/artifact"
	"github.com/0xramDisk/second-brain/internal/config"
	"github.com/0xramDisk/second-brain/internal/ingest"
	"github.com/0xramDisk/second-brain/internal/services/llm"
)

// StageAnalyzeStructure is the pipeline name of the structural analysis
// stage.
const StageAnalyzeStructure = "analyze_structure"

// Analyzer performs the model-backed analysis passes. Implemented by
// llm.Client.
type Analyzer interface {
	AnalyzeStructure(ctx context.Context, transcript, chaptersJSON string) (llm.StructureAnalysis, error)
	AnalyzeSemantics(ctx context.Context, input llm.SemanticsInput) (llm.SemanticsAnalysis, error)
}

// AnalyzeStructure extracts non-opinionated structural elements from the
// transcript. Without a transcript the stage degrades to chapter-derived
// sections and succeeds with a warning.
func AnalyzeStructure(analyzer Analyzer) ingest.StageDefinition {
	return ingest.StageDefinition{
		Name: StageAnalyzeStructure,
		Run: func(ctx context.Context, art *artifact.Artifact, _ uuid.UUID, cfg *config.Config) artifact.StageResult {
			timer := ingest.StartTimer()

			if !cfg.Ingest.Classify {
				art.Structure = fallbackStructure(art)
				return artifact.StageResult{
					StageName:       StageAnalyzeStructure,
					Success:         true,
					Warnings:        []string{"Classification disabled, structural analysis skipped"},
					ExecutionTimeMS: timer.ElapsedMS(),
				}
			}

			transcript := art.Raw.TranscriptText
			if transcript == "" {
				art.Structure = fallbackStructure(art)
				return artifact.StageResult{
					StageName:       StageAnalyzeStructure,
					Success:         true,
					Warnings:        []string{"No transcript available for structural analysis"},
					ExecutionTimeMS: timer.ElapsedMS(),
				}
			}

			var warnings []string
			limit := cfg.Ingest.TranscriptCharLimit
			if limit > 0 && len(transcript) > limit {
				transcript = transcript[:limit]
				warnings = append(warnings, "Transcript truncated for structural analysis")
			}

			analysis, err := analyzer.AnalyzeStructure(ctx, transcript, chaptersJSON(art.Raw.Chapters))
			if err != nil {
				art.Structure = fallbackStructure(art)
				return structureFailure(err, warnings, timer.ElapsedMS())
			}

			codePresent := analysis.CodeBlocksPresent
			art.Structure = artifact.Structure{
				Sections:          sectionsFromAnalysis(analysis.Sections, art.Raw.Chapters),
				Entities:          analysis.Entities,
				References:        analysis.References,
				DetectedSteps:     analysis.DetectedSteps,
				CodeBlocksPresent: &codePresent,
			}

			return artifact.StageResult{
				StageName:       StageAnalyzeStructure,
				Success:         true,
				Warnings:        warnings,
				ExecutionTimeMS: timer.ElapsedMS(),
			}
		},
	}
}

func structureFailure(err error, warnings []string, elapsedMS float64) artifact.StageResult {
	cause := "llm_invocation_failed"
	errMsg := fmt.Sprintf("structural analysis failed: %v", err)
	fixes := []string{"Check API key and model availability", "Retry later"}
	switch {
	case errors.Is(err, llm.ErrInvalidJSON):
		cause = "invalid_json_response"
		errMsg = "AI returned invalid JSON"
		fixes = []string{"Review the prompt", "Try a model with stricter JSON adherence"}
	case errors.Is(err, llm.ErrSchemaValidation):
		cause = "schema_validation_failed"
		errMsg = fmt.Sprintf("validation failed: %v", err)
		fixes = []string{"Tighten the prompt constraints", "Add response repair"}
	}

	return artifact.StageResult{
		StageName: StageAnalyzeStructure,
		Success:   false,
		Warnings:  warnings,
		Errors:    []string{errMsg},
		Failures: []artifact.StageFailure{{
			Stage:          StageAnalyzeStructure,
			Kind:           artifact.FailureStructure,
			Cause:          cause,
			Impact:         "Structural fields empty; chapter sections preserved",
			SuggestedFixes: fixes,
		}},
		ExecutionTimeMS: elapsedMS,
	}
}

// fallbackStructure keeps chapter-derived sections when analysis cannot
// run, so the artifact still carries the best available anatomy.
func fallbackStructure(art *artifact.Artifact) artifact.Structure {
	codePresent := false
	return artifact.Structure{
		Sections:          sectionsFromChapters(art.Raw.Chapters),
		CodeBlocksPresent: &codePresent,
	}
}

func sectionsFromChapters(chapters []artifact.Chapter) []artifact.Section {
	if len(chapters) == 0 {
		return nil
	}
	sections := make([]artifact.Section, 0, len(chapters))
	for _, chapter := range chapters {
		start := chapter.StartSeconds
		sections = append(sections, artifact.Section{Title: chapter.Title, StartSeconds: &start})
	}
	return sections
}

func sectionsFromAnalysis(items []llm.SectionItem, chapters []artifact.Chapter) []artifact.Section {
	if len(items) == 0 {
		return sectionsFromChapters(chapters)
	}
	sections := make([]artifact.Section, 0, len(items))
	for _, item := range items {
		sections = append(sections, artifact.Section{Title: item.Title, StartSeconds: item.StartTime})
	}
	return sections
}

func chaptersJSON(chapters []artifact.Chapter) string {
	if len(chapters) == 0 {
		return "none"
	}
	encoded, err := json.Marshal(chapters)
	if err != nil {
		return "none"
	}
	return string(encoded)
}
