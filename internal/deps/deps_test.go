package deps_test

import (
	"context"
	"testing"

	"github.com/0xramDisk/second-brain/internal/config"
	"github.com/0xramDisk/second-brain/internal/deps"
)

func TestRequirementsMarksUvxOptionalWhenTranscriptionDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Ingest.Transcribe = false

	for _, req := range deps.Requirements(&cfg) {
		if req.Name == "uvx" {
			if !req.Optional {
				t.Fatal("expected uvx to be optional with transcription disabled")
			}
			return
		}
	}
	t.Fatal("uvx requirement missing")
}

func TestRequirementsIncludesCoreTools(t *testing.T) {
	cfg := config.Default()
	requirements := deps.Requirements(&cfg)

	names := make(map[string]bool, len(requirements))
	for _, req := range requirements {
		names[req.Name] = true
		if req.Name == "uvx" && req.Optional {
			t.Fatal("uvx should be required when transcription is enabled")
		}
	}
	for _, want := range []string{"yt-dlp", "FFmpeg", "uvx"} {
		if !names[want] {
			t.Fatalf("missing requirement %q", want)
		}
	}
}

func TestCheckBinariesReportsMissing(t *testing.T) {
	statuses := deps.CheckBinaries(context.Background(), []deps.Requirement{
		{Name: "ghost", Command: "definitely-not-a-real-binary-name"},
	})
	if len(statuses) != 1 {
		t.Fatalf("expected 1 status, got %d", len(statuses))
	}
	if statuses[0].Available {
		t.Fatal("expected missing binary to be unavailable")
	}
	if statuses[0].Detail == "" {
		t.Fatal("expected detail explaining the missing binary")
	}
}

func TestCheckBinariesRejectsEmptyCommand(t *testing.T) {
	statuses := deps.CheckBinaries(context.Background(), []deps.Requirement{
		{Name: "unset"},
	})
	if statuses[0].Available {
		t.Fatal("expected unconfigured command to be unavailable")
	}
	if statuses[0].Detail != "command not configured" {
		t.Fatalf("unexpected detail: %q", statuses[0].Detail)
	}
}
