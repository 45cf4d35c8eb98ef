package stages

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/0xramDisk/second-brain/internal/artifact"
	"github.com/0xramDisk/second-brain/internal/services/llm"
	"github.com/0xramDisk/second-brain/internal/testsupport"
)

type fakeAnalyzer struct {
	structure     llm.StructureAnalysis
	structureErr  error
	semantics     llm.SemanticsAnalysis
	semanticsErr  error
	gotTranscript string
	gotChapters   string
	gotInput      llm.SemanticsInput
	structCalls   int
	semCalls      int
}

func (f *fakeAnalyzer) AnalyzeStructure(_ context.Context, transcript, chaptersJSON string) (llm.StructureAnalysis, error) {
	f.structCalls++
	f.gotTranscript = transcript
	f.gotChapters = chaptersJSON
	return f.structure, f.structureErr
}

func (f *fakeAnalyzer) AnalyzeSemantics(_ context.Context, input llm.SemanticsInput) (llm.SemanticsAnalysis, error) {
	f.semCalls++
	f.gotInput = input
	return f.semantics, f.semanticsErr
}

func ptr(v float64) *float64 { return &v }

func TestAnalyzeStructurePopulatesArtifact(t *testing.T) {
	analyzer := &fakeAnalyzer{structure: llm.StructureAnalysis{
		Sections:          []llm.SectionItem{{Title: "Intro", StartTime: ptr(0)}},
		Entities:          []string{"Go"},
		References:        []string{"https://example.com"},
		DetectedSteps:     []string{"install"},
		CodeBlocksPresent: true,
	}}
	art := artifact.New("https://youtu.be/abc", uuid.New())
	art.Raw.TranscriptText = "some transcript"

	result := AnalyzeStructure(analyzer).Run(context.Background(), art, uuid.New(), testConfig(t))
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if len(art.Structure.Sections) != 1 || art.Structure.Sections[0].Title != "Intro" {
		t.Fatalf("unexpected sections %+v", art.Structure.Sections)
	}
	if art.Structure.CodeBlocksPresent == nil || !*art.Structure.CodeBlocksPresent {
		t.Fatal("expected code blocks recorded")
	}
}

func TestAnalyzeStructureNoTranscriptSucceedsWithWarning(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	art := artifact.New("https://youtu.be/abc", uuid.New())
	art.Raw.Chapters = []artifact.Chapter{{Title: "Intro", StartSeconds: 0}}

	result := AnalyzeStructure(analyzer).Run(context.Background(), art, uuid.New(), testConfig(t))
	if !result.Success {
		t.Fatalf("expected graceful success, got %+v", result)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "No transcript") {
		t.Fatalf("expected no-transcript warning, got %v", result.Warnings)
	}
	if analyzer.structCalls != 0 {
		t.Fatal("analyzer must not be called without a transcript")
	}
	if len(art.Structure.Sections) != 1 || art.Structure.Sections[0].Title != "Intro" {
		t.Fatalf("expected chapter fallback sections, got %+v", art.Structure.Sections)
	}
}

func TestAnalyzeStructureTruncatesLongTranscript(t *testing.T) {
	analyzer := &fakeAnalyzer{structure: llm.StructureAnalysis{}}
	art := artifact.New("https://youtu.be/abc", uuid.New())
	art.Raw.TranscriptText = strings.Repeat("a", 50)
	cfg := testConfig(t)
	cfg.Ingest.TranscriptCharLimit = 10

	result := AnalyzeStructure(analyzer).Run(context.Background(), art, uuid.New(), cfg)
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if len(analyzer.gotTranscript) != 10 {
		t.Fatalf("expected truncated transcript, got %d chars", len(analyzer.gotTranscript))
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "truncated") {
		t.Fatalf("expected truncation warning, got %v", result.Warnings)
	}
}

func TestAnalyzeStructureFailureCauses(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		wantCause string
	}{
		{"invalid json", llm.ErrInvalidJSON, "invalid_json_response"},
		{"schema", llm.ErrSchemaValidation, "schema_validation_failed"},
		{"invocation", context.DeadlineExceeded, "llm_invocation_failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			analyzer := &fakeAnalyzer{structureErr: tc.err}
			art := artifact.New("https://youtu.be/abc", uuid.New())
			art.Raw.TranscriptText = "transcript"
			art.Raw.Chapters = []artifact.Chapter{{Title: "Intro"}}

			result := AnalyzeStructure(analyzer).Run(context.Background(), art, uuid.New(), testConfig(t))
			if result.Success {
				t.Fatal("expected failure")
			}
			failure := result.Failures[0]
			if failure.Kind != artifact.FailureStructure {
				t.Fatalf("expected structure_error, got %q", failure.Kind)
			}
			if failure.Cause != tc.wantCause {
				t.Fatalf("expected cause %q, got %q", tc.wantCause, failure.Cause)
			}
			if len(art.Structure.Sections) != 1 {
				t.Fatalf("expected chapter fallback preserved, got %+v", art.Structure.Sections)
			}
		})
	}
}

func TestAnalyzeSemanticsPopulatesArtifact(t *testing.T) {
	analyzer := &fakeAnalyzer{semantics: llm.SemanticsAnalysis{
		PrimaryTopics:   []string{"go", "testing"},
		ContentType:     "tutorial",
		DifficultyLevel: "intermediate",
		KnowledgeType:   "procedural",
	}}
	art := artifact.New("https://youtu.be/abc", uuid.New())
	art.Source.Title = "Testing in Go"
	art.Raw.TranscriptText = "transcript"
	art.Raw.DescriptionText = "description"

	result := AnalyzeSemantics(analyzer).Run(context.Background(), art, uuid.New(), testConfig(t))
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if art.Semantics.ContentType != "tutorial" {
		t.Fatalf("unexpected semantics %+v", art.Semantics)
	}
	if analyzer.gotInput.Title != "Testing in Go" {
		t.Fatalf("title not passed, got %+v", analyzer.gotInput)
	}
}

func TestAnalyzeSemanticsInsufficientContent(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	art := artifact.New("https://youtu.be/abc", uuid.New())

	result := AnalyzeSemantics(analyzer).Run(context.Background(), art, uuid.New(), testConfig(t))
	if !result.Success {
		t.Fatalf("expected graceful success, got %+v", result)
	}
	if analyzer.semCalls != 0 {
		t.Fatal("analyzer must not run without content")
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("expected warning, got %v", result.Warnings)
	}
}

func TestAnalyzeSemanticsFailure(t *testing.T) {
	analyzer := &fakeAnalyzer{semanticsErr: llm.ErrSchemaValidation}
	art := artifact.New("https://youtu.be/abc", uuid.New())
	art.Source.Title = "t"

	result := AnalyzeSemantics(analyzer).Run(context.Background(), art, uuid.New(), testConfig(t))
	if result.Success {
		t.Fatal("expected failure")
	}
	failure := result.Failures[0]
	if failure.Kind != artifact.FailureInterpretation || failure.Cause != "schema_validation_failed" {
		t.Fatalf("unexpected failure %+v", failure)
	}
	if len(art.Semantics.PrimaryTopics) != 0 {
		t.Fatalf("semantics must stay empty on failure, got %+v", art.Semantics)
	}
}

func TestAnalyzeStagesSkipWhenClassifyDisabled(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	art := artifact.New("https://youtu.be/abc", uuid.New())
	art.Raw.TranscriptText = "transcript"
	art.Source.Title = "t"
	cfg := testsupport.NewConfig(t, testsupport.WithoutClassification())

	structResult := AnalyzeStructure(analyzer).Run(context.Background(), art, uuid.New(), cfg)
	semResult := AnalyzeSemantics(analyzer).Run(context.Background(), art, uuid.New(), cfg)
	if !structResult.Success || !semResult.Success {
		t.Fatal("disabled classification must not fail the stages")
	}
	if analyzer.structCalls != 0 || analyzer.semCalls != 0 {
		t.Fatal("analyzer must not run when classification is disabled")
	}
}
