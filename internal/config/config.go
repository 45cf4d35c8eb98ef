package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	OutputDir  string `toml:"output_dir"`
	LogDir     string `toml:"log_dir"`
	AudioDir   string `toml:"audio_dir"`
	HistoryDir string `toml:"history_dir"`
}

// YouTube contains settings for metadata and caption retrieval.
type YouTube struct {
	CaptionLanguages []string `toml:"caption_languages"`
	RequestTimeout   int      `toml:"request_timeout"`
	UserAgent        string   `toml:"user_agent"`
}

// LLM contains the connection settings for the classification model.
type LLM struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	Referer        string `toml:"referer"`
	Title          string `toml:"title"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Whisper contains settings for the audio transcription model.
type Whisper struct {
	Model       string `toml:"model"`
	CUDAEnabled bool   `toml:"cuda_enabled"`
}

// Ingest contains pipeline behaviour knobs. DownloadAudioDir and Transcribe
// are the per-run transcription options the CLI can override.
type Ingest struct {
	DownloadAudioDir    string `toml:"download_audio_dir"`
	Transcribe          bool   `toml:"transcribe"`
	Classify            bool   `toml:"classify"`
	TranscriptCharLimit int    `toml:"transcript_char_limit"`
}

// History contains run-history ledger settings.
type History struct {
	Enabled bool `toml:"enabled"`
}

// Notifications contains ntfy push notification settings. An empty topic
// disables notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for second-brain.
//
// Configuration sections by subsystem:
//   - Paths: artifact output, logs, audio retention, history ledger
//   - YouTube: caption languages and HTTP client behaviour
//   - LLM: shared connection settings for the classification stages
//   - Whisper: audio transcription model selection
//   - Ingest: pipeline behaviour (transcription mode, classification, limits)
//   - History: run-history ledger
//   - Notifications: ntfy push notifications
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	YouTube       YouTube       `toml:"youtube"`
	LLM           LLM           `toml:"llm"`
	Whisper       Whisper       `toml:"whisper"`
	Ingest        Ingest        `toml:"ingest"`
	History       History       `toml:"history"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/second-brain/config.toml")
}

// SampleConfig returns the embedded sample configuration document.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes the embedded sample configuration to path.
func CreateSample(path string) error {
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("second-brain.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for pipeline operation.
// The optional audio retention directory is created on a best-effort basis
// so a misconfigured path degrades to ephemeral audio instead of failing
// config load.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.LogDir, c.Paths.HistoryDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.AudioDir) != "" {
		_ = os.MkdirAll(c.Paths.AudioDir, 0o755)
	}
	return nil
}

// YtDlpBinary returns the yt-dlp executable name used for metadata and audio
// extraction.
func (c *Config) YtDlpBinary() string {
	return "yt-dlp"
}

// UvxBinary returns the uvx executable name used to launch the transcription
// model.
func (c *Config) UvxBinary() string {
	return "uvx"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
