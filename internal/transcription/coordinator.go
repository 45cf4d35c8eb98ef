package transcription

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/0xramDisk/second-brain/internal/logging"
	"github.com/0xramDisk/second-brain/internal/services"
)

// Coordinator sequences the caption fast path and the audio fallback.
type Coordinator struct {
	captions CaptionSource
	audio    AudioSource
	model    SpeechModel
	logger   *slog.Logger
}

// NewCoordinator wires a coordinator from its three collaborators.
func NewCoordinator(captions CaptionSource, audio AudioSource, model SpeechModel, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Coordinator{
		captions: captions,
		audio:    audio,
		model:    model,
		logger:   logging.NewComponentLogger(logger, "transcription"),
	}
}

// Transcribe attempts captions first and falls back to audio transcription.
// Elapsed time covers both attempts. The returned result is never nil-ish:
// every path produces warnings, errors, and fixes describing what happened.
func (c *Coordinator) Transcribe(ctx context.Context, ref string, cfg Config) Result {
	start := time.Now()
	logger := logging.WithContext(ctx, c.logger)

	segments, capErr := c.captions.FetchCaptions(ctx, ref)
	if capErr == nil {
		text := joinSegments(segments)
		if text != "" {
			logger.Info("caption transcript acquired",
				logging.String(logging.FieldEventType, "captions_acquired"),
				logging.Int("segments", len(segments)))
			return Result{
				Success:          true,
				TranscriptText:   text,
				Method:           MethodCaptions,
				ExecutionTimeSec: time.Since(start).Seconds(),
			}
		}
		capErr = services.Wrap(services.ErrNotFound, "transcription", "captions", "caption track contained no text", nil)
	}

	var capWarnings, capErrors, capFixes []string
	if errors.Is(capErr, services.ErrNotFound) {
		capWarnings = []string{"captions unavailable, falling back to audio transcription"}
		logger.Info("captions unavailable, using audio fallback",
			logging.String(logging.FieldEventType, "captions_fallback"))
	} else {
		capErrors = []string{fmt.Sprintf("caption fetch failed: %v", capErr)}
		capFixes = []string{"Retry the caption fetch or check network connectivity"}
		logger.Warn("caption fetch failed, using audio fallback",
			logging.String(logging.FieldEventType, "captions_fallback"),
			logging.Error(capErr))
	}

	result := c.audioFallback(ctx, logger, ref, cfg)
	result.Warnings = append(capWarnings, result.Warnings...)
	result.Errors = append(capErrors, result.Errors...)
	result.SuggestedFixes = append(capFixes, result.SuggestedFixes...)
	result.ExecutionTimeSec = time.Since(start).Seconds()
	return result
}

func (c *Coordinator) audioFallback(ctx context.Context, logger *slog.Logger, ref string, cfg Config) Result {
	keepAudio := strings.TrimSpace(cfg.DownloadAudioDir) != ""

	var destDir string
	if keepAudio {
		destDir = cfg.DownloadAudioDir
		if err := os.MkdirAll(destDir, 0o755); err != nil {
			return Result{
				Errors:         []string{fmt.Sprintf("unable to create audio directory %s: %v", destDir, err)},
				SuggestedFixes: []string{"Check permissions on the configured audio directory"},
			}
		}
	} else {
		tempDir, err := os.MkdirTemp("", "second-brain-audio-")
		if err != nil {
			return Result{
				Errors:         []string{fmt.Sprintf("unable to create temporary audio directory: %v", err)},
				SuggestedFixes: []string{"Check free space and permissions in the system temp directory"},
			}
		}
		destDir = tempDir
		defer os.RemoveAll(tempDir)
	}

	dest := filepath.Join(destDir, audioFileName(ref))
	audioPath, err := c.audio.AcquireAudio(ctx, ref, dest)
	if err != nil {
		logger.Error("audio acquisition failed",
			logging.String(logging.FieldEventType, "audio_failed"),
			logging.Error(err))
		return Result{
			Errors:         []string{fmt.Sprintf("audio acquisition failed: %v", err)},
			SuggestedFixes: []string{"Ensure yt-dlp and ffmpeg are installed", "Check network connectivity"},
		}
	}
	logger.Info("audio acquired",
		logging.String(logging.FieldEventType, "audio_acquired"),
		logging.String("audio_path", audioPath))

	result := Result{Success: true}
	if keepAudio {
		result.AudioPath = audioPath
	}

	if !cfg.Transcribe {
		// Partial success: audio only, no transcript, no method.
		result.Warnings = append(result.Warnings, "transcription disabled, audio acquired without a transcript")
		return result
	}

	result.Method = MethodWhisper
	text, err := c.model.Transcribe(ctx, audioPath)
	if err != nil {
		logger.Error("audio transcription failed",
			logging.String(logging.FieldEventType, "transcription_failed"),
			logging.Error(err))
		result.Success = false
		result.Errors = append(result.Errors, fmt.Sprintf("audio transcription failed: %v", err))
		result.SuggestedFixes = append(result.SuggestedFixes, "Check the transcription model installation", "Inspect the acquired audio file")
		return result
	}
	text = strings.TrimSpace(text)
	if text == "" {
		result.Success = false
		result.Errors = append(result.Errors, "transcription model produced an empty transcript")
		result.SuggestedFixes = append(result.SuggestedFixes, "Verify the audio track contains speech", "Try a larger transcription model")
		return result
	}

	result.TranscriptText = text
	result.Warnings = append(result.Warnings, "transcript produced from audio, quality may be lower than captions")
	logger.Info("audio transcript acquired",
		logging.String(logging.FieldEventType, "transcript_acquired"),
		logging.Int("chars", len(text)))
	return result
}

// audioFileName derives a stable file name for a video reference so repeated
// runs against a kept audio directory reuse the same path.
func audioFileName(ref string) string {
	if id := videoID(ref); id != "" {
		return id + ".wav"
	}
	sum := sha1.Sum([]byte(ref))
	return hex.EncodeToString(sum[:8]) + ".wav"
}

func videoID(ref string) string {
	parsed, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(parsed.Host), "www.")
	switch host {
	case "youtu.be":
		return strings.Trim(parsed.Path, "/")
	case "youtube.com", "m.youtube.com":
		if id := parsed.Query().Get("v"); id != "" {
			return id
		}
		if rest, ok := strings.CutPrefix(parsed.Path, "/shorts/"); ok {
			return strings.Trim(rest, "/")
		}
	}
	return ""
}
