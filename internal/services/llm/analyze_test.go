package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
)

const structurePayload = `{
  "sections": [{"title": "Intro", "start_time": 0}, {"title": "Setup", "start_time": null}],
  "entities": ["Go", "Docker"],
  "references": ["https://example.com/post"],
  "detected_steps": ["install", "configure"],
  "code_blocks_present": true
}`

func TestAnalyzeStructureParsesResponse(t *testing.T) {
	var gotBody string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		buf, _ := io.ReadAll(r.Body)
		gotBody = string(buf)
		fmt.Fprint(w, chatResponse(structurePayload))
	})

	analysis, err := client.AnalyzeStructure(context.Background(), "transcript text", `[{"title":"Intro"}]`)
	if err != nil {
		t.Fatalf("AnalyzeStructure: %v", err)
	}
	if len(analysis.Sections) != 2 || analysis.Sections[0].Title != "Intro" {
		t.Fatalf("unexpected sections %+v", analysis.Sections)
	}
	if analysis.Sections[0].StartTime == nil || *analysis.Sections[0].StartTime != 0 {
		t.Fatalf("expected anchored first section, got %+v", analysis.Sections[0])
	}
	if analysis.Sections[1].StartTime != nil {
		t.Fatalf("expected null start_time preserved, got %+v", analysis.Sections[1])
	}
	if !analysis.CodeBlocksPresent {
		t.Fatal("expected code_blocks_present true")
	}
	if !strings.Contains(gotBody, "transcript text") {
		t.Fatal("transcript not sent to model")
	}
}

func TestAnalyzeStructureRequiresTranscript(t *testing.T) {
	client := NewClient(Config{APIKey: "k", Model: "m"})
	if _, err := client.AnalyzeStructure(context.Background(), "   ", "none"); err == nil {
		t.Fatal("expected error for empty transcript")
	}
}

func TestAnalyzeStructureInvalidJSON(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, chatResponse("sorry, I cannot do that"))
	})

	_, err := client.AnalyzeStructure(context.Background(), "transcript", "none")
	if !errors.Is(err, ErrInvalidJSON) {
		t.Fatalf("expected ErrInvalidJSON, got %v", err)
	}
}

func TestAnalyzeStructureBoundsLists(t *testing.T) {
	entities := make([]string, 51)
	for i := range entities {
		entities[i] = fmt.Sprintf("e%d", i)
	}
	payload := fmt.Sprintf(`{"sections":[],"entities":[%q`, entities[0])
	for _, e := range entities[1:] {
		payload += fmt.Sprintf(",%q", e)
	}
	payload += `],"references":[],"detected_steps":[],"code_blocks_present":false}`

	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, chatResponse(payload))
	})

	_, err := client.AnalyzeStructure(context.Background(), "transcript", "none")
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}
}

func TestAnalyzeSemanticsParsesResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, chatResponse(`{
			"primary_topics": ["go", "testing"],
			"secondary_topics": ["ci"],
			"content_type": "Tutorial",
			"difficulty_level": "intermediate",
			"knowledge_type": "procedural"
		}`))
	})

	analysis, err := client.AnalyzeSemantics(context.Background(), SemanticsInput{
		Title:            "Testing in Go",
		Description:      "desc",
		TranscriptSample: "sample",
	})
	if err != nil {
		t.Fatalf("AnalyzeSemantics: %v", err)
	}
	if analysis.ContentType != "tutorial" {
		t.Fatalf("expected lowercased content type, got %q", analysis.ContentType)
	}
	if len(analysis.PrimaryTopics) != 2 {
		t.Fatalf("unexpected topics %v", analysis.PrimaryTopics)
	}
}

func TestAnalyzeSemanticsRejectsUnknownEnum(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, chatResponse(`{
			"primary_topics": ["go"],
			"secondary_topics": [],
			"content_type": "rant",
			"difficulty_level": "intermediate",
			"knowledge_type": "mixed"
		}`))
	})

	_, err := client.AnalyzeSemantics(context.Background(), SemanticsInput{Title: "t"})
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}
}

func TestAnalyzeSemanticsRejectsEmptyPrimaryTopics(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, chatResponse(`{
			"primary_topics": ["  "],
			"secondary_topics": [],
			"content_type": "tutorial",
			"difficulty_level": "beginner",
			"knowledge_type": "conceptual"
		}`))
	})

	_, err := client.AnalyzeSemantics(context.Background(), SemanticsInput{Title: "t"})
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}
}
