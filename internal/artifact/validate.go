package artifact

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Validate performs the best-effort finalization check over the assembled
// artifact. Callers treat a validation error as diagnostic information, not
// as grounds to discard the artifact.
func (a *Artifact) Validate() error {
	if a == nil {
		return errors.New("artifact: nil")
	}
	var problems []string
	if a.Identity.ContentID == uuid.Nil {
		problems = append(problems, "identity.content_id missing")
	}
	if a.Identity.RunID == uuid.Nil {
		problems = append(problems, "identity.workflow_run_id missing")
	}
	if a.Identity.CreatedAt.IsZero() {
		problems = append(problems, "identity.created_at missing")
	}
	if strings.TrimSpace(a.Identity.WorkflowVersion) == "" {
		problems = append(problems, "identity.workflow_version missing")
	}
	if strings.TrimSpace(a.Source.URL) == "" {
		problems = append(problems, "source.url missing")
	}
	if strings.TrimSpace(a.Source.SourceType) == "" {
		problems = append(problems, "source.source_type missing")
	}
	for name, result := range a.Diagnostics.StageStatus {
		if result.StageName != name {
			problems = append(problems, fmt.Sprintf("diagnostics.stage_status[%s] reports name %q", name, result.StageName))
		}
		for _, failure := range result.Failures {
			if !KnownFailureKind(failure.Kind) {
				problems = append(problems, fmt.Sprintf("stage %s: unknown failure kind %q", name, failure.Kind))
			}
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("artifact validation: %s", strings.Join(problems, "; "))
	}
	return nil
}
