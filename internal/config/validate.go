package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateYouTube(); err != nil {
		return err
	}
	if err := c.validateIngest(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLLM() error {
	if !c.Ingest.Classify {
		return nil
	}
	if c.LLM.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/second-brain/config.toml"
		}
		return fmt.Errorf("llm.api_key is required when ingest.classify is enabled. Set OPENROUTER_API_KEY env var or edit %s (create with 'second-brain config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateYouTube() error {
	if c.YouTube.RequestTimeout <= 0 {
		return errors.New("youtube.request_timeout must be positive")
	}
	if len(c.YouTube.CaptionLanguages) == 0 {
		return errors.New("youtube.caption_languages must not be empty")
	}
	return nil
}

func (c *Config) validateIngest() error {
	if c.Ingest.TranscriptCharLimit <= 0 {
		return errors.New("ingest.transcript_char_limit must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "auto", "console", "json":
	default:
		return fmt.Errorf("logging.format must be auto, console, or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
