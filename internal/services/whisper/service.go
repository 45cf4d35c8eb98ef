// Package whisper runs speech-to-text over audio files by launching
// WhisperX through uvx.
package whisper

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/0xramDisk/second-brain/internal/services"
)

const (
	// UVXCommand launches python tools in ephemeral environments.
	UVXCommand = "uvx"

	// DefaultModel balances speed and quality on CPU hosts.
	DefaultModel = "base"

	cpuComputeType = "int8"
)

// Config controls the transcription invocation.
type Config struct {
	// Model is the WhisperX model name (tiny, base, small, medium, large-v2).
	Model string
	// CUDAEnabled selects the cuda device instead of cpu.
	CUDAEnabled bool
	// Language, when set, skips language autodetection. ISO 639-1 code.
	Language string
}

// Service transcribes audio files. The uvx binary is resolved lazily on
// first use rather than at construction, so building a service on a host
// without the toolchain is fine as long as transcription never runs.
type Service struct {
	cfg           Config
	uvxBinary     string
	commandRunner func(ctx context.Context, name string, args ...string) error

	resolveOnce sync.Once
	resolveErr  error
}

// NewService creates a whisper service. An empty binary resolves uvx from
// PATH on first use.
func NewService(cfg Config, uvxBinary string) *Service {
	if uvxBinary == "" {
		uvxBinary = UVXCommand
	}
	return &Service{cfg: cfg, uvxBinary: uvxBinary}
}

// WithCommandRunner sets a custom command runner (for testing). Setting a
// runner also skips binary resolution.
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Model returns the effective model name for logging.
func (s *Service) Model() string {
	if s.cfg.Model != "" {
		return s.cfg.Model
	}
	return DefaultModel
}

func (s *Service) ensureBinary() error {
	s.resolveOnce.Do(func() {
		if _, err := exec.LookPath(s.uvxBinary); err != nil {
			s.resolveErr = fmt.Errorf("resolve %s: %w", s.uvxBinary, err)
		}
	})
	return s.resolveErr
}

func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// Transcribe runs WhisperX over an audio file and returns the transcript
// text. Output files are written to a temporary directory and removed
// before returning.
func (s *Service) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if audioPath == "" {
		return "", services.Wrap(services.ErrExtraction, "whisper", "transcribe", "audio path required", nil)
	}
	if s.commandRunner == nil {
		if err := s.ensureBinary(); err != nil {
			return "", services.Wrap(services.ErrExternalTool, "whisper", "transcribe", "uvx not available", err)
		}
	}

	outputDir, err := os.MkdirTemp("", "second-brain-whisper-")
	if err != nil {
		return "", services.Wrap(services.ErrExtraction, "whisper", "transcribe", "create output dir", err)
	}
	defer os.RemoveAll(outputDir)

	if err := s.run(ctx, s.uvxBinary, s.buildArgs(audioPath, outputDir)...); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "whisper", "transcribe", "whisperx invocation failed", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	text, err := loadTranscriptText(filepath.Join(outputDir, baseName+".json"))
	if err != nil {
		return "", services.Wrap(services.ErrExtraction, "whisper", "transcribe", "read transcript output", err)
	}
	return text, nil
}

func (s *Service) buildArgs(audioPath, outputDir string) []string {
	args := []string{
		"whisperx",
		audioPath,
		"--model", s.Model(),
		"--output_dir", outputDir,
		"--output_format", "json",
	}
	if s.cfg.Language != "" {
		args = append(args, "--language", s.cfg.Language)
	}
	if s.cfg.CUDAEnabled {
		args = append(args, "--device", "cuda")
	} else {
		args = append(args, "--device", "cpu", "--compute_type", cpuComputeType)
	}
	return args
}

type transcriptSegment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type transcriptPayload struct {
	Segments []transcriptSegment `json:"segments"`
}

func loadTranscriptText(jsonPath string) (string, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return "", err
	}
	var payload transcriptPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("parse whisperx json: %w", err)
	}
	var parts []string
	for _, segment := range payload.Segments {
		if text := strings.TrimSpace(segment.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " "), nil
}
