package artifact

// FailureKind is the closed set of machine-parsable failure categories.
type FailureKind string

const (
	FailureInput          FailureKind = "input_error"
	FailureSource         FailureKind = "source_error"
	FailureExtraction     FailureKind = "extraction_error"
	FailureStructure      FailureKind = "structure_error"
	FailureInterpretation FailureKind = "interpretation_error"
)

// KnownFailureKind reports whether kind belongs to the closed enumeration.
func KnownFailureKind(kind FailureKind) bool {
	switch kind {
	case FailureInput, FailureSource, FailureExtraction, FailureStructure, FailureInterpretation:
		return true
	}
	return false
}

// StageFailure describes a single structured failure raised by a stage.
type StageFailure struct {
	Stage          string      `json:"stage"`
	Kind           FailureKind `json:"type"`
	Cause          string      `json:"cause"`
	Impact         string      `json:"impact"`
	SuggestedFixes []string    `json:"suggested_fixes,omitempty"`
}

// StageResult is the standardized report every pipeline stage returns.
// Success is false whenever any unrecoverable condition occurred, even if
// partial data was still written into the artifact.
type StageResult struct {
	StageName       string         `json:"stage_name"`
	Success         bool           `json:"success"`
	Warnings        []string       `json:"warnings,omitempty"`
	Errors          []string       `json:"errors,omitempty"`
	Failures        []StageFailure `json:"failures,omitempty"`
	SuggestedFixes  []string       `json:"suggested_fixes,omitempty"`
	ExecutionTimeMS float64        `json:"execution_time_ms,omitempty"`
}
