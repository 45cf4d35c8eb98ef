package config

const (
	defaultOutputDir           = "~/.local/share/second-brain/output"
	defaultLogDir              = "~/.local/share/second-brain/logs"
	defaultHistoryDir          = "~/.local/share/second-brain/history"
	defaultRequestTimeout      = 15
	defaultUserAgent           = "second-brain/dev"
	defaultLLMBaseURL          = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel            = "google/gemini-3-flash-preview"
	defaultLLMReferer          = "https://github.com/0xramDisk/second-brain"
	defaultLLMTitle            = "Second Brain Ingestor"
	defaultLLMTimeoutSeconds   = 60
	defaultWhisperModel        = "base"
	defaultTranscriptCharLimit = 40000
	defaultLogFormat           = "auto"
	defaultLogLevel            = "info"
	defaultNtfyTimeout         = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir:  defaultOutputDir,
			LogDir:     defaultLogDir,
			HistoryDir: defaultHistoryDir,
		},
		YouTube: YouTube{
			CaptionLanguages: []string{"en"},
			RequestTimeout:   defaultRequestTimeout,
			UserAgent:        defaultUserAgent,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Whisper: Whisper{
			Model: defaultWhisperModel,
		},
		Ingest: Ingest{
			Transcribe:          true,
			Classify:            true,
			TranscriptCharLimit: defaultTranscriptCharLimit,
		},
		History: History{
			Enabled: true,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
