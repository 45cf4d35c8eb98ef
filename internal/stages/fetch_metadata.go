package stages

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/0xramDisk/second-brain/internal/artifact"
	"github.com/0xramDisk/second-brain/internal/config"
	"github.com/0xramDisk/second-brain/internal/ingest"
	"github.com/0xramDisk/second-brain/internal/language"
	"github.com/0xramDisk/second-brain/internal/services"
	"github.com/0xramDisk/second-brain/internal/services/ytdlp"
)

// StageFetchMetadata is the pipeline name of the metadata stage.
const StageFetchMetadata = "fetch_metadata"

// MetadataClient fetches video metadata. Implemented by ytdlp.Client.
type MetadataClient interface {
	FetchVideoMetadata(ctx context.Context, ref string) (*ytdlp.Metadata, error)
}

// FetchMetadata fills the source and raw sections of the artifact from the
// video's metadata. The stage never downloads media.
func FetchMetadata(client MetadataClient) ingest.StageDefinition {
	return ingest.StageDefinition{
		Name: StageFetchMetadata,
		Run: func(ctx context.Context, art *artifact.Artifact, _ uuid.UUID, _ *config.Config) artifact.StageResult {
			timer := ingest.StartTimer()

			videoID := art.Source.VideoID
			if videoID == "" {
				// validate_input should have caught this; guard anyway.
				return artifact.StageResult{
					StageName: StageFetchMetadata,
					Success:   false,
					Failures: []artifact.StageFailure{{
						Stage:          StageFetchMetadata,
						Kind:           artifact.FailureInput,
						Cause:          "missing_video_id",
						Impact:         "Cannot fetch metadata without a video id",
						SuggestedFixes: []string{"Check the validate_input stage outcome"},
					}},
					ExecutionTimeMS: timer.ElapsedMS(),
				}
			}

			meta, err := client.FetchVideoMetadata(ctx, "https://www.youtube.com/watch?v="+videoID)
			if err != nil {
				return metadataFailure(err, timer.ElapsedMS())
			}

			art.Source.Title = meta.Title
			art.Source.ChannelName = meta.ChannelName
			art.Source.DurationSeconds = int64(meta.DurationSeconds)
			art.Source.PublishedAt = meta.PublishedAt
			art.Source.Language = language.ToISO2(meta.Language)
			captions := meta.CaptionsAvailable
			art.Source.CaptionsAvailable = &captions

			art.Raw.DescriptionText = meta.Description
			art.Raw.Tags = meta.Tags
			for _, chapter := range meta.Chapters {
				art.Raw.Chapters = append(art.Raw.Chapters, artifact.Chapter{
					Title:        chapter.Title,
					StartSeconds: chapter.Start,
					EndSeconds:   chapter.End,
				})
			}

			return artifact.StageResult{
				StageName:       StageFetchMetadata,
				Success:         true,
				ExecutionTimeMS: timer.ElapsedMS(),
			}
		},
	}
}

func metadataFailure(err error, elapsedMS float64) artifact.StageResult {
	cause := "download_error"
	fixes := []string{
		"Check that the video is public and not deleted",
		"Try again later",
	}
	message := strings.ToLower(err.Error())
	switch {
	case errors.Is(err, services.ErrNotFound):
		cause = "video_unavailable"
	case strings.Contains(message, "age-restricted"), strings.Contains(message, "sign in"):
		cause = "age_restricted"
		fixes = append(fixes, "Provide a cookies file with a logged-in session")
	}

	return artifact.StageResult{
		StageName: StageFetchMetadata,
		Success:   false,
		Warnings:  []string{"Metadata fetch failed"},
		Errors:    []string{fmt.Sprintf("metadata fetch failed: %v", err)},
		Failures: []artifact.StageFailure{{
			Stage:          StageFetchMetadata,
			Kind:           services.FailureKind(err),
			Cause:          cause,
			Impact:         "Metadata unavailable; downstream stages will have limited data",
			SuggestedFixes: fixes,
		}},
		ExecutionTimeMS: elapsedMS,
	}
}
