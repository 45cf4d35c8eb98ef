// Package ytdlp shells out to yt-dlp for video metadata and audio
// acquisition.
package ytdlp

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/0xramDisk/second-brain/internal/services"
)

// DefaultBinary is the yt-dlp executable resolved from PATH.
const DefaultBinary = "yt-dlp"

// Chapter is one chapter marker from the video metadata.
type Chapter struct {
	Title string  `json:"title"`
	Start float64 `json:"start_time"`
	End   float64 `json:"end_time"`
}

// Metadata is the subset of yt-dlp's -J output the pipeline consumes.
type Metadata struct {
	ID              string
	Title           string
	ChannelName     string
	DurationSeconds float64
	PublishedAt     *time.Time
	Language        string
	CaptionsAvailable bool
	Description     string
	Tags            []string
	Chapters        []Chapter
}

type dumpPayload struct {
	ID                string              `json:"id"`
	Title             string              `json:"title"`
	Channel           string              `json:"channel"`
	Uploader          string              `json:"uploader"`
	Duration          float64             `json:"duration"`
	Timestamp         int64               `json:"timestamp"`
	UploadDate        string              `json:"upload_date"`
	Language          string              `json:"language"`
	Description       string              `json:"description"`
	Tags              []string            `json:"tags"`
	Chapters          []Chapter           `json:"chapters"`
	Subtitles         map[string]json.RawMessage `json:"subtitles"`
	AutomaticCaptions map[string]json.RawMessage `json:"automatic_captions"`
}

// Client wraps the yt-dlp binary.
type Client struct {
	binary        string
	commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewClient creates a client for the given binary path. An empty path
// resolves yt-dlp from PATH.
func NewClient(binary string) *Client {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Client{binary: binary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (c *Client) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	c.commandRunner = runner
}

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	if c.commandRunner != nil {
		return c.commandRunner(ctx, c.binary, args...)
	}
	cmd := exec.CommandContext(ctx, c.binary, args...) //nolint:gosec
	var stderr strings.Builder
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return output, fmt.Errorf("%s: %w: %s", c.binary, err, detail)
	}
	return output, nil
}

// FetchVideoMetadata runs yt-dlp -J against a video reference and parses the
// fields the pipeline needs. Unavailable or private videos come back as
// errors wrapping services.ErrNotFound.
func (c *Client) FetchVideoMetadata(ctx context.Context, ref string) (*Metadata, error) {
	output, err := c.run(ctx, "-J", "--no-playlist", "--no-warnings", ref)
	if err != nil {
		if isUnavailable(err) {
			return nil, services.Wrap(services.ErrNotFound, "ytdlp", "fetch_metadata", "video unavailable", err)
		}
		return nil, services.Wrap(services.ErrSource, "ytdlp", "fetch_metadata", "metadata fetch failed", err)
	}

	var payload dumpPayload
	if err := json.Unmarshal(output, &payload); err != nil {
		return nil, services.Wrap(services.ErrSource, "ytdlp", "fetch_metadata", "unparseable metadata output", err)
	}

	meta := &Metadata{
		ID:              payload.ID,
		Title:           payload.Title,
		ChannelName:     payload.Channel,
		DurationSeconds: payload.Duration,
		Language:        payload.Language,
		Description:     payload.Description,
		Tags:            payload.Tags,
		Chapters:        payload.Chapters,
		CaptionsAvailable: len(payload.Subtitles) > 0 || len(payload.AutomaticCaptions) > 0,
	}
	if meta.ChannelName == "" {
		meta.ChannelName = payload.Uploader
	}
	if payload.Timestamp > 0 {
		published := time.Unix(payload.Timestamp, 0).UTC()
		meta.PublishedAt = &published
	} else if payload.UploadDate != "" {
		if published, err := time.Parse("20060102", payload.UploadDate); err == nil {
			meta.PublishedAt = &published
		}
	}
	return meta, nil
}

// AcquireAudio downloads the audio track of a video to dest as a WAV file
// and returns the path written.
func (c *Client) AcquireAudio(ctx context.Context, ref string, dest string) (string, error) {
	args := []string{
		"-f", "bestaudio",
		"--extract-audio",
		"--audio-format", "wav",
		"--no-playlist",
		"--no-warnings",
		"-o", dest,
		ref,
	}
	if _, err := c.run(ctx, args...); err != nil {
		if isUnavailable(err) {
			return "", services.Wrap(services.ErrNotFound, "ytdlp", "acquire_audio", "video unavailable", err)
		}
		return "", services.Wrap(services.ErrExtraction, "ytdlp", "acquire_audio", "audio download failed", err)
	}
	return dest, nil
}

func isUnavailable(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"video unavailable", "private video", "this video has been removed", "404"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
