package artifact

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// WorkflowVersion is stamped into every artifact for schema migrations.
const WorkflowVersion = "0.1.0"

// Identity carries traceability and reproducibility fields. Immutable once
// the artifact exists.
type Identity struct {
	ContentID       uuid.UUID `json:"content_id"`
	RunID           uuid.UUID `json:"workflow_run_id"`
	CreatedAt       time.Time `json:"created_at"`
	WorkflowVersion string    `json:"workflow_version"`
}

// Source records origin facts. URL is set at construction; the remaining
// fields are populated incrementally by stages and never cleared.
type Source struct {
	SourceType        string     `json:"source_type"`
	URL               string     `json:"url"`
	VideoID           string     `json:"video_id,omitempty"`
	Title             string     `json:"title,omitempty"`
	ChannelName       string     `json:"channel_name,omitempty"`
	DurationSeconds   int64      `json:"duration_seconds,omitempty"`
	PublishedAt       *time.Time `json:"published_at,omitempty"`
	Language          string     `json:"language,omitempty"`
	CaptionsAvailable *bool      `json:"captions_available,omitempty"`
}

// Chapter is a single chapter marker taken from video metadata.
type Chapter struct {
	Title        string  `json:"title"`
	StartSeconds float64 `json:"start_time"`
	EndSeconds   float64 `json:"end_time,omitempty"`
}

// Raw holds lossless extracted data.
type Raw struct {
	TranscriptText       string    `json:"transcript_text,omitempty"`
	TranscriptLanguage   string    `json:"transcript_language,omitempty"`
	TranscriptConfidence float64   `json:"transcript_confidence,omitempty"`
	AudioPath            string    `json:"audio_path,omitempty"`
	Chapters             []Chapter `json:"chapters,omitempty"`
	DescriptionText      string    `json:"description_text,omitempty"`
	Tags                 []string  `json:"tags,omitempty"`
}

// Section is one derived content section.
type Section struct {
	Title        string   `json:"title"`
	StartSeconds *float64 `json:"start_time,omitempty"`
}

// Structure holds the derived, non-opinionated content anatomy.
type Structure struct {
	Sections          []Section `json:"sections,omitempty"`
	Entities          []string  `json:"entities,omitempty"`
	References        []string  `json:"references,omitempty"`
	DetectedSteps     []string  `json:"detected_steps,omitempty"`
	CodeBlocksPresent *bool     `json:"code_blocks_present,omitempty"`
}

// Semantics holds light descriptive classification.
type Semantics struct {
	PrimaryTopics   []string `json:"primary_topics,omitempty"`
	SecondaryTopics []string `json:"secondary_topics,omitempty"`
	ContentType     string   `json:"content_type,omitempty"`
	DifficultyLevel string   `json:"difficulty_level,omitempty"`
	KnowledgeType   string   `json:"knowledge_type,omitempty"`
}

// Diagnostics is the synthesized run-wide summary of all stage outcomes.
type Diagnostics struct {
	StageStatus    map[string]StageResult `json:"stage_status"`
	Warnings       []string               `json:"warnings"`
	Errors         []string               `json:"errors"`
	SuggestedFixes []string               `json:"suggested_fixes"`
}

// Artifact is the single structured output object produced per run.
type Artifact struct {
	Identity    Identity    `json:"identity"`
	Source      Source      `json:"source"`
	Raw         Raw         `json:"raw"`
	Structure   Structure   `json:"structure"`
	Semantics   Semantics   `json:"semantics"`
	Diagnostics Diagnostics `json:"diagnostics"`
}

// New constructs an artifact with identity and source URL populated. The
// run identifier correlates the artifact with every log event and stage
// result emitted during the run.
func New(url string, runID uuid.UUID) *Artifact {
	return &Artifact{
		Identity: Identity{
			ContentID:       uuid.New(),
			RunID:           runID,
			CreatedAt:       time.Now().UTC(),
			WorkflowVersion: WorkflowVersion,
		},
		Source: Source{
			SourceType: "youtube",
			URL:        strings.TrimSpace(url),
		},
	}
}
