package stages

import (
	"context"
	"testing"

	"github.com/0xramDisk/second-brain/internal/ingest"
	"github.com/0xramDisk/second-brain/internal/services/llm"
	"github.com/0xramDisk/second-brain/internal/services/ytdlp"
	"github.com/0xramDisk/second-brain/internal/transcription"
)

func allStages(meta *fakeMetadataClient, transcriber *fakeTranscriber, analyzer *fakeAnalyzer) []ingest.StageDefinition {
	return []ingest.StageDefinition{
		ValidateInput(),
		FetchMetadata(meta),
		FetchTranscript(transcriber),
		AnalyzeStructure(analyzer),
		AnalyzeSemantics(analyzer),
	}
}

func TestPipelineHappyPathWithCaptions(t *testing.T) {
	meta := &fakeMetadataClient{meta: &ytdlp.Metadata{
		Title:             "Testing in Go",
		ChannelName:       "Engineering Channel",
		DurationSeconds:   600,
		Language:          "en",
		CaptionsAvailable: true,
		Description:       "desc",
	}}
	transcriber := &fakeTranscriber{result: transcription.Result{
		Success:        true,
		TranscriptText: "hello world",
		Method:         transcription.MethodCaptions,
	}}
	analyzer := &fakeAnalyzer{
		structure: llm.StructureAnalysis{Entities: []string{"Go"}},
		semantics: llm.SemanticsAnalysis{
			PrimaryTopics:   []string{"go"},
			ContentType:     "tutorial",
			DifficultyLevel: "beginner",
			KnowledgeType:   "procedural",
		},
	}

	runner := ingest.NewRunner(testConfig(t), nil, allStages(meta, transcriber, analyzer))
	art, err := runner.Run(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(art.Diagnostics.StageStatus) != 5 {
		t.Fatalf("expected 5 stage entries, got %d", len(art.Diagnostics.StageStatus))
	}
	for name, result := range art.Diagnostics.StageStatus {
		if !result.Success {
			t.Fatalf("stage %s failed: %+v", name, result)
		}
	}
	if art.Source.VideoID != "dQw4w9WgXcQ" {
		t.Fatalf("unexpected video id %q", art.Source.VideoID)
	}
	if art.Raw.TranscriptConfidence != 1.0 {
		t.Fatalf("expected caption confidence, got %v", art.Raw.TranscriptConfidence)
	}
	if art.Semantics.ContentType != "tutorial" {
		t.Fatalf("unexpected semantics %+v", art.Semantics)
	}
	if len(art.Diagnostics.Errors) != 0 {
		t.Fatalf("unexpected diagnostics errors %v", art.Diagnostics.Errors)
	}
	if err := art.Validate(); err != nil {
		t.Fatalf("artifact invalid: %v", err)
	}
}

func TestPipelineInvalidURLStillRunsAllStages(t *testing.T) {
	meta := &fakeMetadataClient{}
	transcriber := &fakeTranscriber{result: transcription.Result{
		Success: false,
		Errors:  []string{"audio acquisition failed: not a video"},
	}}
	analyzer := &fakeAnalyzer{}

	runner := ingest.NewRunner(testConfig(t), nil, allStages(meta, transcriber, analyzer))
	art, err := runner.Run(context.Background(), "https://example.com/not-youtube")
	if err != nil {
		t.Fatalf("Run must still return an artifact: %v", err)
	}

	if len(art.Diagnostics.StageStatus) != 5 {
		t.Fatalf("every stage must report, got %d entries", len(art.Diagnostics.StageStatus))
	}
	if art.Diagnostics.StageStatus[StageValidateInput].Success {
		t.Fatal("validate_input should fail for a non-YouTube URL")
	}
	metaResult := art.Diagnostics.StageStatus[StageFetchMetadata]
	if metaResult.Success || metaResult.Failures[0].Cause != "missing_video_id" {
		t.Fatalf("expected defensive metadata failure, got %+v", metaResult)
	}
	if !art.Diagnostics.StageStatus[StageAnalyzeStructure].Success {
		t.Fatal("structural analysis should degrade gracefully without a transcript")
	}
	if !art.Diagnostics.StageStatus[StageAnalyzeSemantics].Success {
		t.Fatal("semantic analysis should degrade gracefully without content")
	}
	if len(art.Diagnostics.Errors) == 0 {
		t.Fatal("diagnostics must aggregate the failure messages")
	}
	if len(art.Diagnostics.SuggestedFixes) == 0 {
		t.Fatal("diagnostics must aggregate suggested fixes")
	}
}

func TestPipelineMetadataFailureDoesNotBlockTranscript(t *testing.T) {
	meta := &fakeMetadataClient{err: context.DeadlineExceeded}
	transcriber := &fakeTranscriber{result: transcription.Result{
		Success:        true,
		TranscriptText: "spoken words",
		Method:         transcription.MethodWhisper,
	}}
	analyzer := &fakeAnalyzer{
		structure: llm.StructureAnalysis{},
		semantics: llm.SemanticsAnalysis{
			PrimaryTopics:   []string{"go"},
			ContentType:     "other",
			DifficultyLevel: "beginner",
			KnowledgeType:   "mixed",
		},
	}

	runner := ingest.NewRunner(testConfig(t), nil, allStages(meta, transcriber, analyzer))
	art, err := runner.Run(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if art.Diagnostics.StageStatus[StageFetchMetadata].Success {
		t.Fatal("metadata stage should have failed")
	}
	if !art.Diagnostics.StageStatus[StageFetchTranscript].Success {
		t.Fatal("transcript stage must still run after metadata failure")
	}
	if art.Raw.TranscriptConfidence != 0.7 {
		t.Fatalf("expected whisper confidence, got %v", art.Raw.TranscriptConfidence)
	}
	if !art.Diagnostics.StageStatus[StageAnalyzeSemantics].Success {
		t.Fatal("semantics should classify from transcript alone")
	}
}
