package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/0xramDisk/second-brain/internal/artifact"
)

var (
	ErrInput          = errors.New("input error")
	ErrSource         = errors.New("source error")
	ErrExtraction     = errors.New("extraction error")
	ErrStructure      = errors.New("structure error")
	ErrInterpretation = errors.New("interpretation error")
	ErrExternalTool   = errors.New("external tool error")
	ErrNotFound       = errors.New("not found")
	ErrTransient      = errors.New("transient failure")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later failure classification. The marker
// should be one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// FailureKind maps a classified error onto the artifact failure taxonomy.
// Unclassified errors fall back to source_error, the conservative default
// the orchestrator uses for unexpected conditions.
func FailureKind(err error) artifact.FailureKind {
	switch {
	case errors.Is(err, ErrInput):
		return artifact.FailureInput
	case errors.Is(err, ErrExtraction):
		return artifact.FailureExtraction
	case errors.Is(err, ErrStructure):
		return artifact.FailureStructure
	case errors.Is(err, ErrInterpretation):
		return artifact.FailureInterpretation
	default:
		return artifact.FailureSource
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
