package stages

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/0xramDisk/second-brain/internal/artifact"
	"github.com/0xramDisk/second-brain/internal/config"
	"github.com/0xramDisk/second-brain/internal/ingest"
)

// StageValidateInput is the pipeline name of the URL validation stage.
const StageValidateInput = "validate_input"

// youtubeURLPattern covers watch, youtu.be, embed, and shorts forms, with
// optional scheme and www/m subdomains.
var youtubeURLPattern = regexp.MustCompile(
	`(?:https?://)?(?:www\.|m\.)?(?:youtube\.com|youtu\.be|youtube-nocookie\.com)/(?:watch\?v=|embed/|v/|shorts/)?([^&\n?#/]+)`)

// ValidateInput checks that the source URL is a recognizable YouTube URL
// and extracts the canonical video id. Pure string handling, no network.
func ValidateInput() ingest.StageDefinition {
	return ingest.StageDefinition{
		Name: StageValidateInput,
		Run: func(_ context.Context, art *artifact.Artifact, _ uuid.UUID, _ *config.Config) artifact.StageResult {
			timer := ingest.StartTimer()
			url := strings.TrimSpace(art.Source.URL)

			if url == "" {
				return artifact.StageResult{
					StageName: StageValidateInput,
					Success:   false,
					Errors:    []string{"No URL provided"},
					Failures: []artifact.StageFailure{{
						Stage:          StageValidateInput,
						Kind:           artifact.FailureInput,
						Cause:          "missing_url",
						Impact:         "Cannot proceed without input URL",
						SuggestedFixes: []string{"Provide a YouTube URL on the command line"},
					}},
					ExecutionTimeMS: timer.ElapsedMS(),
				}
			}

			match := youtubeURLPattern.FindStringSubmatch(url)
			if match == nil {
				return artifact.StageResult{
					StageName: StageValidateInput,
					Success:   false,
					Warnings:  []string{fmt.Sprintf("URL did not match YouTube pattern: %s", url)},
					Failures: []artifact.StageFailure{{
						Stage:  StageValidateInput,
						Kind:   artifact.FailureInput,
						Cause:  "invalid_youtube_url",
						Impact: "Cannot extract video id; run will produce a diagnostics-only artifact",
						SuggestedFixes: []string{
							"Ensure the URL is from youtube.com or youtu.be",
							"Check for typos or extra characters",
							"Use the standard watch?v= or youtu.be form",
						},
					}},
					ExecutionTimeMS: timer.ElapsedMS(),
				}
			}

			art.Source.VideoID = match[1]
			return artifact.StageResult{
				StageName:       StageValidateInput,
				Success:         true,
				ExecutionTimeMS: timer.ElapsedMS(),
			}
		},
	}
}
