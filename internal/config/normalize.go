package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeYouTube()
	c.normalizeLLM()
	c.normalizeWhisper()
	c.normalizeIngest()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.HistoryDir) == "" {
		c.Paths.HistoryDir = defaultHistoryDir
	}
	if c.Paths.HistoryDir, err = expandPath(c.Paths.HistoryDir); err != nil {
		return fmt.Errorf("paths.history_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.AudioDir) != "" {
		if c.Paths.AudioDir, err = expandPath(c.Paths.AudioDir); err != nil {
			return fmt.Errorf("paths.audio_dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeYouTube() {
	languages := make([]string, 0, len(c.YouTube.CaptionLanguages))
	for _, lang := range c.YouTube.CaptionLanguages {
		lang = strings.ToLower(strings.TrimSpace(lang))
		if lang != "" {
			languages = append(languages, lang)
		}
	}
	if len(languages) == 0 {
		languages = []string{"en"}
	}
	c.YouTube.CaptionLanguages = languages
	if c.YouTube.RequestTimeout <= 0 {
		c.YouTube.RequestTimeout = defaultRequestTimeout
	}
	if strings.TrimSpace(c.YouTube.UserAgent) == "" {
		c.YouTube.UserAgent = defaultUserAgent
	}
}

func (c *Config) normalizeLLM() {
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY"))
	}
	if strings.TrimSpace(c.LLM.BaseURL) == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		c.LLM.Model = defaultLLMModel
	}
	if strings.TrimSpace(c.LLM.Referer) == "" {
		c.LLM.Referer = defaultLLMReferer
	}
	if strings.TrimSpace(c.LLM.Title) == "" {
		c.LLM.Title = defaultLLMTitle
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
}

func (c *Config) normalizeWhisper() {
	if strings.TrimSpace(c.Whisper.Model) == "" {
		c.Whisper.Model = defaultWhisperModel
	}
}

func (c *Config) normalizeIngest() {
	if c.Ingest.TranscriptCharLimit <= 0 {
		c.Ingest.TranscriptCharLimit = defaultTranscriptCharLimit
	}
	c.Ingest.DownloadAudioDir = strings.TrimSpace(c.Ingest.DownloadAudioDir)
	if c.Ingest.DownloadAudioDir == "" && strings.TrimSpace(c.Paths.AudioDir) != "" {
		c.Ingest.DownloadAudioDir = c.Paths.AudioDir
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNtfyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
