package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors let callers distinguish malformed model output from
// output that parsed but violated the response contract. Transport and API
// failures carry neither marker.
var (
	ErrInvalidJSON      = errors.New("llm: invalid json response")
	ErrSchemaValidation = errors.New("llm: response failed validation")
)

const maxListItems = 50

// SectionItem is one section reported by the structural analysis. A nil
// StartTime means the model could not anchor the section to a timestamp.
type SectionItem struct {
	Title     string   `json:"title"`
	StartTime *float64 `json:"start_time"`
}

// StructureAnalysis is the validated structural analysis response.
type StructureAnalysis struct {
	Sections          []SectionItem `json:"sections"`
	Entities          []string      `json:"entities"`
	References        []string      `json:"references"`
	DetectedSteps     []string      `json:"detected_steps"`
	CodeBlocksPresent bool          `json:"code_blocks_present"`
}

// SemanticsInput is the material handed to the classification prompt.
type SemanticsInput struct {
	Title            string
	Description      string
	TranscriptSample string
}

// SemanticsAnalysis is the validated classification response.
type SemanticsAnalysis struct {
	PrimaryTopics   []string `json:"primary_topics"`
	SecondaryTopics []string `json:"secondary_topics"`
	ContentType     string   `json:"content_type"`
	DifficultyLevel string   `json:"difficulty_level"`
	KnowledgeType   string   `json:"knowledge_type"`
}

var (
	contentTypes = map[string]bool{
		"tutorial": true, "explanation": true, "interview": true,
		"review": true, "opinion": true, "demonstration": true,
		"vlog": true, "news": true, "entertainment": true, "other": true,
	}
	difficultyLevels = map[string]bool{
		"beginner": true, "intermediate": true, "advanced": true,
	}
	knowledgeTypes = map[string]bool{
		"conceptual": true, "procedural": true, "mixed": true,
	}
)

// AnalyzeStructure extracts structural elements from a transcript.
// chaptersJSON is the serialized chapter list, or "none" when the video has
// no chapters.
func (c *Client) AnalyzeStructure(ctx context.Context, transcript, chaptersJSON string) (StructureAnalysis, error) {
	var analysis StructureAnalysis
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return analysis, errors.New("llm analyze structure: transcript required")
	}
	if chaptersJSON == "" {
		chaptersJSON = "none"
	}

	userPrompt := fmt.Sprintf("Transcript:\n%s\n\nChapters (if available):\n%s", transcript, chaptersJSON)
	content, err := c.CompleteJSON(ctx, StructurePrompt, userPrompt)
	if err != nil {
		return analysis, err
	}
	if err := DecodeLLMJSON(content, &analysis); err != nil {
		return StructureAnalysis{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if err := analysis.validate(); err != nil {
		return StructureAnalysis{}, fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}
	return analysis, nil
}

func (a *StructureAnalysis) validate() error {
	for i := range a.Sections {
		a.Sections[i].Title = strings.TrimSpace(a.Sections[i].Title)
	}
	a.Entities = cleanList(a.Entities)
	a.References = cleanList(a.References)
	a.DetectedSteps = cleanList(a.DetectedSteps)

	if len(a.Sections) > maxListItems {
		return fmt.Errorf("sections: %d items exceeds limit %d", len(a.Sections), maxListItems)
	}
	for _, name := range []struct {
		field string
		items []string
	}{
		{"entities", a.Entities},
		{"references", a.References},
		{"detected_steps", a.DetectedSteps},
	} {
		if len(name.items) > maxListItems {
			return fmt.Errorf("%s: %d items exceeds limit %d", name.field, len(name.items), maxListItems)
		}
	}
	return nil
}

// AnalyzeSemantics classifies a video's topics, type, difficulty, and
// knowledge type.
func (c *Client) AnalyzeSemantics(ctx context.Context, input SemanticsInput) (SemanticsAnalysis, error) {
	var analysis SemanticsAnalysis
	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = "No title"
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		description = "No description"
	}
	sample := strings.TrimSpace(input.TranscriptSample)
	if sample == "" {
		sample = "No transcript"
	}

	userPrompt := fmt.Sprintf("Title: %s\nDescription: %s\nTranscript sample: %s", title, description, sample)
	content, err := c.CompleteJSON(ctx, SemanticsPrompt, userPrompt)
	if err != nil {
		return analysis, err
	}
	if err := DecodeLLMJSON(content, &analysis); err != nil {
		return SemanticsAnalysis{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if err := analysis.validate(); err != nil {
		return SemanticsAnalysis{}, fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}
	return analysis, nil
}

func (a *SemanticsAnalysis) validate() error {
	a.PrimaryTopics = cleanList(a.PrimaryTopics)
	a.SecondaryTopics = cleanList(a.SecondaryTopics)
	a.ContentType = strings.ToLower(strings.TrimSpace(a.ContentType))
	a.DifficultyLevel = strings.ToLower(strings.TrimSpace(a.DifficultyLevel))
	a.KnowledgeType = strings.ToLower(strings.TrimSpace(a.KnowledgeType))

	if len(a.PrimaryTopics) == 0 {
		return errors.New("primary_topics must not be empty")
	}
	if len(a.PrimaryTopics) > 7 {
		return fmt.Errorf("primary_topics: %d items exceeds limit 7", len(a.PrimaryTopics))
	}
	if len(a.SecondaryTopics) > 5 {
		return fmt.Errorf("secondary_topics: %d items exceeds limit 5", len(a.SecondaryTopics))
	}
	if !contentTypes[a.ContentType] {
		return fmt.Errorf("content_type %q not in allowed set", a.ContentType)
	}
	if !difficultyLevels[a.DifficultyLevel] {
		return fmt.Errorf("difficulty_level %q not in allowed set", a.DifficultyLevel)
	}
	if !knowledgeTypes[a.KnowledgeType] {
		return fmt.Errorf("knowledge_type %q not in allowed set", a.KnowledgeType)
	}
	return nil
}

func cleanList(items []string) []string {
	cleaned := items[:0]
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			cleaned = append(cleaned, item)
		}
	}
	return cleaned
}
