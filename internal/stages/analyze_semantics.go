package stages

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/0xramDisk/second-brain/internal/artifact"
	"github.com/0xramDisk/second-brain/internal/config"
	"github.com/0xramDisk/second-brain/internal/ingest"
	"github.com/0xramDisk/second-brain/internal/services/llm"
)

// StageAnalyzeSemantics is the pipeline name of the classification stage.
const StageAnalyzeSemantics = "analyze_semantics"

const (
	// semanticsSampleLimit bounds the transcript sample sent for
	// classification. Classification does not need the full transcript.
	semanticsSampleLimit = 20000
	descriptionLimit     = 2000
)

// AnalyzeSemantics classifies the video's topics, content type, difficulty,
// and knowledge type. Purely descriptive; no quality judgment.
func AnalyzeSemantics(analyzer Analyzer) ingest.StageDefinition {
	return ingest.StageDefinition{
		Name: StageAnalyzeSemantics,
		Run: func(ctx context.Context, art *artifact.Artifact, _ uuid.UUID, cfg *config.Config) artifact.StageResult {
			timer := ingest.StartTimer()

			if !cfg.Ingest.Classify {
				return artifact.StageResult{
					StageName:       StageAnalyzeSemantics,
					Success:         true,
					Warnings:        []string{"Classification disabled, semantic analysis skipped"},
					ExecutionTimeMS: timer.ElapsedMS(),
				}
			}

			title := art.Source.Title
			transcript := art.Raw.TranscriptText
			if transcript == "" && title == "" {
				return artifact.StageResult{
					StageName:       StageAnalyzeSemantics,
					Success:         true,
					Warnings:        []string{"Insufficient content for semantic analysis"},
					ExecutionTimeMS: timer.ElapsedMS(),
				}
			}

			var warnings []string
			sample := transcript
			if len(sample) > semanticsSampleLimit {
				sample = sample[:semanticsSampleLimit]
				warnings = append(warnings, "Transcript truncated for semantic analysis")
			}
			description := art.Raw.DescriptionText
			if len(description) > descriptionLimit {
				description = description[:descriptionLimit]
			}

			analysis, err := analyzer.AnalyzeSemantics(ctx, llm.SemanticsInput{
				Title:            title,
				Description:      description,
				TranscriptSample: sample,
			})
			if err != nil {
				return semanticsFailure(err, warnings, timer.ElapsedMS())
			}

			art.Semantics = artifact.Semantics{
				PrimaryTopics:   analysis.PrimaryTopics,
				SecondaryTopics: analysis.SecondaryTopics,
				ContentType:     analysis.ContentType,
				DifficultyLevel: analysis.DifficultyLevel,
				KnowledgeType:   analysis.KnowledgeType,
			}

			return artifact.StageResult{
				StageName:       StageAnalyzeSemantics,
				Success:         true,
				Warnings:        warnings,
				ExecutionTimeMS: timer.ElapsedMS(),
			}
		},
	}
}

func semanticsFailure(err error, warnings []string, elapsedMS float64) artifact.StageResult {
	cause := "llm_invocation_failed"
	errMsg := fmt.Sprintf("semantic classification failed: %v", err)
	fixes := []string{"Check model availability", "Retry later"}
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
		StageName: StageAnalyzeSemantics,
		Success:   false,
		Warnings:  warnings,
		Errors:    []string{errMsg},
		Failures: []artifact.StageFailure{{
			Stage:          StageAnalyzeSemantics,
			Kind:           artifact.FailureInterpretation,
			Cause:          cause,
			Impact:         "Semantics fields empty",
			SuggestedFixes: fixes,
		}},
		ExecutionTimeMS: elapsedMS,
	}
}
