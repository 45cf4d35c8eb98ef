package transcription

import (
	"context"
	"strings"
)

// Method names recorded on successful transcription results.
const (
	MethodCaptions = "captions"
	MethodWhisper  = "whisper"
)

// Config controls a single transcription attempt.
type Config struct {
	// DownloadAudioDir, when set, is where acquired audio is kept after the
	// run. When empty any downloaded audio is treated as ephemeral and
	// removed before the result is returned.
	DownloadAudioDir string
	// Transcribe enables the speech model step. When false the coordinator
	// stops after audio acquisition and returns a partial success.
	Transcribe bool
}

// Result is the outcome of one transcription attempt. Diagnostics from a
// failed caption attempt are preserved even when the audio fallback
// succeeds.
type Result struct {
	Success          bool
	TranscriptText   string
	AudioPath        string
	Method           string
	Warnings         []string
	Errors           []string
	SuggestedFixes   []string
	ExecutionTimeSec float64
}

// CaptionSegment is one timed caption cue.
type CaptionSegment struct {
	Text     string
	Start    float64
	Duration float64
}

// CaptionSource fetches structured captions for a video reference. It must
// return an error wrapping services.ErrNotFound when the video simply has
// no caption track, so the coordinator can distinguish absence from
// transport failure.
type CaptionSource interface {
	FetchCaptions(ctx context.Context, ref string) ([]CaptionSegment, error)
}

// AudioSource downloads the audio track for a video reference to dest and
// returns the path of the file it produced.
type AudioSource interface {
	AcquireAudio(ctx context.Context, ref string, dest string) (string, error)
}

// SpeechModel turns an audio file into plain text.
type SpeechModel interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

func joinSegments(segments []CaptionSegment) string {
	parts := make([]string, 0, len(segments))
	for _, segment := range segments {
		text := strings.TrimSpace(segment.Text)
		if text == "" {
			continue
		}
		parts = append(parts, text)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
