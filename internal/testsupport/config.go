// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/0xramDisk/second-brain/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.OutputDir = filepath.Join(base, "output")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.HistoryDir = filepath.Join(base, "history")
	cfg.LLM.APIKey = "test"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithAPIKey overrides the model API key on the test config.
func WithAPIKey(key string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.LLM.APIKey = key
	}
}

// WithoutClassification disables the analysis stages on the test config.
func WithoutClassification() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Ingest.Classify = false
		cfg.LLM.APIKey = ""
	}
}
