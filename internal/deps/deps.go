// Package deps reports the availability of the external tools the ingestion
// pipeline shells out to.
package deps

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/0xramDisk/second-brain/internal/config"
)

// Requirement defines an external dependency the pipeline relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements returns the external binaries the configured pipeline needs.
// uvx is only required when transcription is enabled, since the captions fast
// path never launches the speech model.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "yt-dlp",
			Command:     cfg.YtDlpBinary(),
			Description: "Video metadata and audio acquisition",
		},
		{
			Name:        "FFmpeg",
			Command:     "ffmpeg",
			Description: "Used by yt-dlp to extract WAV audio",
		},
		{
			Name:        "uvx",
			Command:     cfg.UvxBinary(),
			Description: "Launches the WhisperX transcription model",
			Optional:    !cfg.Ingest.Transcribe,
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
// Available binaries carry their version string in Detail when it can be
// determined.
func CheckBinaries(ctx context.Context, requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Command = resolved
		status.Available = true
		status.Detail = probeVersion(ctx, resolved)
		results = append(results, status)
	}
	return results
}

// probeVersion asks the binary for its version, returning the first output
// line. Tools that do not understand --version yield an empty detail.
func probeVersion(ctx context.Context, binary string) string {
	out, err := exec.CommandContext(ctx, binary, "--version").Output()
	if err != nil {
		return ""
	}
	line := strings.TrimSpace(string(out))
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = strings.TrimSpace(line[:idx])
	}
	const maxDetail = 80
	if len(line) > maxDetail {
		line = line[:maxDetail]
	}
	return line
}
