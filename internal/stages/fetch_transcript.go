package stages

import (
	"context"

	"github.com/google/uuid"

	"github.com/0xramDisk/second-brain/internal/artifact"
	"github.com/0xramDisk/second-brain/internal/config"
	"github.com/0xramDisk/second-brain/internal/ingest"
	"github.com/0xramDisk/second-brain/internal/transcription"
)

// StageFetchTranscript is the pipeline name of the transcript stage.
const StageFetchTranscript = "fetch_transcript"

// Transcript confidence assigned per acquisition method. Captions are
// authoritative; audio transcription is an approximation.
const (
	captionConfidence = 1.0
	whisperConfidence = 0.7
)

// Transcriber acquires a transcript for a video reference. Implemented by
// transcription.Coordinator.
type Transcriber interface {
	Transcribe(ctx context.Context, ref string, cfg transcription.Config) transcription.Result
}

// FetchTranscript delegates to the transcription coordinator and projects
// its result into the artifact.
func FetchTranscript(transcriber Transcriber) ingest.StageDefinition {
	return ingest.StageDefinition{
		Name: StageFetchTranscript,
		Run: func(ctx context.Context, art *artifact.Artifact, _ uuid.UUID, cfg *config.Config) artifact.StageResult {
			timer := ingest.StartTimer()

			result := transcriber.Transcribe(ctx, art.Source.URL, transcription.Config{
				DownloadAudioDir: cfg.Ingest.DownloadAudioDir,
				Transcribe:       cfg.Ingest.Transcribe,
			})

			if result.Success {
				art.Raw.TranscriptText = result.TranscriptText
				art.Raw.AudioPath = result.AudioPath
				if result.TranscriptText != "" {
					art.Raw.TranscriptLanguage = transcriptLanguage(art)
					if result.Method == transcription.MethodCaptions {
						art.Raw.TranscriptConfidence = captionConfidence
					} else {
						art.Raw.TranscriptConfidence = whisperConfidence
					}
				}
			}

			stageResult := artifact.StageResult{
				StageName:       StageFetchTranscript,
				Success:         result.Success,
				Warnings:        result.Warnings,
				Errors:          result.Errors,
				SuggestedFixes:  result.SuggestedFixes,
				ExecutionTimeMS: timer.ElapsedMS(),
			}
			if !result.Success {
				stageResult.Failures = []artifact.StageFailure{{
					Stage:          StageFetchTranscript,
					Kind:           artifact.FailureExtraction,
					Cause:          "transcription_failed",
					Impact:         "Transcript unavailable; analysis stages will operate on metadata only",
					SuggestedFixes: result.SuggestedFixes,
				}}
			}
			return stageResult
		},
	}
}

// transcriptLanguage falls back to English when metadata did not report a
// language. Caption selection already prefers English tracks.
func transcriptLanguage(art *artifact.Artifact) string {
	if art.Source.Language != "" {
		return art.Source.Language
	}
	return "en"
}
