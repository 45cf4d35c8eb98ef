package stages

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/0xramDisk/second-brain/internal/artifact"
	"github.com/0xramDisk/second-brain/internal/services"
	"github.com/0xramDisk/second-brain/internal/services/ytdlp"
)

type fakeMetadataClient struct {
	meta   *ytdlp.Metadata
	err    error
	gotRef string
}

func (f *fakeMetadataClient) FetchVideoMetadata(_ context.Context, ref string) (*ytdlp.Metadata, error) {
	f.gotRef = ref
	return f.meta, f.err
}

func TestFetchMetadataPopulatesArtifact(t *testing.T) {
	published := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	client := &fakeMetadataClient{meta: &ytdlp.Metadata{
		Title:             "Build Systems Explained",
		ChannelName:       "Engineering Channel",
		DurationSeconds:   912.5,
		PublishedAt:       &published,
		Language:          "english",
		CaptionsAvailable: true,
		Description:       "A tour of build systems.",
		Tags:              []string{"build", "tooling"},
		Chapters: []ytdlp.Chapter{
			{Title: "Intro", Start: 0, End: 60},
		},
	}}

	art := artifact.New("https://youtu.be/abc123def45", uuid.New())
	art.Source.VideoID = "abc123def45"
	result := FetchMetadata(client).Run(context.Background(), art, uuid.New(), testConfig(t))
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if client.gotRef != "https://www.youtube.com/watch?v=abc123def45" {
		t.Fatalf("unexpected canonical ref %q", client.gotRef)
	}
	if art.Source.Title != "Build Systems Explained" {
		t.Fatalf("unexpected title %q", art.Source.Title)
	}
	if art.Source.DurationSeconds != 912 {
		t.Fatalf("unexpected duration %d", art.Source.DurationSeconds)
	}
	if art.Source.Language != "en" {
		t.Fatalf("expected normalized language en, got %q", art.Source.Language)
	}
	if art.Source.CaptionsAvailable == nil || !*art.Source.CaptionsAvailable {
		t.Fatal("expected captions available recorded")
	}
	if len(art.Raw.Chapters) != 1 || art.Raw.Chapters[0].Title != "Intro" {
		t.Fatalf("unexpected chapters %+v", art.Raw.Chapters)
	}
	if art.Raw.DescriptionText == "" || len(art.Raw.Tags) != 2 {
		t.Fatal("expected description and tags populated")
	}
}

func TestFetchMetadataUnavailableVideo(t *testing.T) {
	client := &fakeMetadataClient{
		err: services.Wrap(services.ErrNotFound, "ytdlp", "fetch_metadata", "video unavailable", nil),
	}
	art := artifact.New("https://youtu.be/abc123def45", uuid.New())
	art.Source.VideoID = "abc123def45"
	result := FetchMetadata(client).Run(context.Background(), art, uuid.New(), testConfig(t))
	if result.Success {
		t.Fatal("expected failure")
	}
	failure := result.Failures[0]
	if failure.Kind != artifact.FailureSource {
		t.Fatalf("expected source_error, got %q", failure.Kind)
	}
	if failure.Cause != "video_unavailable" {
		t.Fatalf("unexpected cause %q", failure.Cause)
	}
}

func TestFetchMetadataAgeRestricted(t *testing.T) {
	client := &fakeMetadataClient{
		err: errors.New("ERROR: Sign in to confirm your age"),
	}
	art := artifact.New("https://youtu.be/abc123def45", uuid.New())
	art.Source.VideoID = "abc123def45"
	result := FetchMetadata(client).Run(context.Background(), art, uuid.New(), testConfig(t))
	if result.Success {
		t.Fatal("expected failure")
	}
	if result.Failures[0].Cause != "age_restricted" {
		t.Fatalf("unexpected cause %q", result.Failures[0].Cause)
	}
}

func TestFetchMetadataMissingVideoID(t *testing.T) {
	client := &fakeMetadataClient{}
	art := artifact.New("https://vimeo.com/1", uuid.New())
	result := FetchMetadata(client).Run(context.Background(), art, uuid.New(), testConfig(t))
	if result.Success {
		t.Fatal("expected failure without video id")
	}
	failure := result.Failures[0]
	if failure.Kind != artifact.FailureInput || failure.Cause != "missing_video_id" {
		t.Fatalf("unexpected failure %+v", failure)
	}
	if client.gotRef != "" {
		t.Fatal("client must not be called without a video id")
	}
}
