package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/0xramDisk/second-brain/internal/artifact"
	"github.com/0xramDisk/second-brain/internal/config"
	"github.com/0xramDisk/second-brain/internal/ingest"
	"github.com/0xramDisk/second-brain/internal/logging"
	"github.com/0xramDisk/second-brain/internal/notifications"
	"github.com/0xramDisk/second-brain/internal/runlog"
	"github.com/0xramDisk/second-brain/internal/services/captions"
	"github.com/0xramDisk/second-brain/internal/services/llm"
	"github.com/0xramDisk/second-brain/internal/services/whisper"
	"github.com/0xramDisk/second-brain/internal/services/ytdlp"
	"github.com/0xramDisk/second-brain/internal/stages"
	"github.com/0xramDisk/second-brain/internal/transcription"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	var outDir string
	var audioDir string
	var noTranscribe bool
	var noClassify bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "ingest <youtube-url>",
		Short: "Run the ingestion pipeline for a YouTube video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if outDir != "" {
				expanded, err := config.ExpandPath(outDir)
				if err != nil {
					return fmt.Errorf("resolve output dir: %w", err)
				}
				cfg.Paths.OutputDir = expanded
			}
			if audioDir != "" {
				expanded, err := config.ExpandPath(audioDir)
				if err != nil {
					return fmt.Errorf("resolve audio dir: %w", err)
				}
				cfg.Ingest.DownloadAudioDir = expanded
			}
			if noTranscribe {
				cfg.Ingest.Transcribe = false
			}
			if noClassify {
				cfg.Ingest.Classify = false
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runIngest(runCtx, cmd, cfg, args[0], jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Directory for the artifact JSON (defaults to the configured output dir)")
	cmd.Flags().StringVar(&audioDir, "download-audio-dir", "", "Keep downloaded audio in this directory")
	cmd.Flags().BoolVar(&noTranscribe, "no-transcribe", false, "Acquire audio without running the transcription model")
	cmd.Flags().BoolVar(&noClassify, "no-classify", false, "Skip the model-backed analysis stages")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the full artifact JSON to stdout")
	return cmd
}

func runIngest(ctx context.Context, cmd *cobra.Command, cfg *config.Config, url string, jsonOutput bool) error {
	logger, err := buildLogger(cfg, jsonOutput)
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}

	runner := ingest.NewRunner(cfg, logger, buildStages(cfg, logger))

	start := time.Now()
	art, err := runner.Run(ctx, url)
	if err != nil {
		return err
	}

	artifactPath, err := artifact.Write(art, cfg.Paths.OutputDir)
	if err != nil {
		return err
	}

	if cfg.History.Enabled {
		if recordErr := recordRun(ctx, cfg, art, artifactPath, time.Since(start)); recordErr != nil {
			logger.Warn("run history not recorded", logging.Error(recordErr))
		}
	}

	notifier := notifications.NewService(cfg)
	status := runStatus(art)
	if notifyErr := notifier.NotifyIngestCompleted(ctx, art.Source.Title, status,
		len(art.Diagnostics.Warnings), len(art.Diagnostics.Errors)); notifyErr != nil {
		logger.Warn("run notification not delivered", logging.Error(notifyErr))
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		payload, marshalErr := json.MarshalIndent(art, "", "  ")
		if marshalErr != nil {
			return fmt.Errorf("encode artifact: %w", marshalErr)
		}
		fmt.Fprintln(out, string(payload))
		return nil
	}

	fmt.Fprintln(out, renderStageTable(art))
	fmt.Fprintf(out, "\nArtifact: %s\n", artifactPath)
	if count := len(art.Diagnostics.Errors); count > 0 {
		fmt.Fprintf(out, "Completed with %d error(s); see diagnostics in the artifact.\n", count)
	}
	return nil
}

// buildStages wires the concrete services into the fixed pipeline order.
func buildStages(cfg *config.Config, logger *slog.Logger) []ingest.StageDefinition {
	metadata := ytdlp.NewClient(cfg.YtDlpBinary())
	captionClient := captions.NewClient(captions.Config{
		Languages: cfg.YouTube.CaptionLanguages,
		UserAgent: cfg.YouTube.UserAgent,
		Timeout:   time.Duration(cfg.YouTube.RequestTimeout) * time.Second,
	})
	speech := whisper.NewService(whisper.Config{
		Model:       cfg.Whisper.Model,
		CUDAEnabled: cfg.Whisper.CUDAEnabled,
	}, cfg.UvxBinary())
	coordinator := transcription.NewCoordinator(captionClient, metadata, speech, logger)
	analyzer := llm.NewClient(llm.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		Referer:        cfg.LLM.Referer,
		Title:          cfg.LLM.Title,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
	})

	return []ingest.StageDefinition{
		stages.ValidateInput(),
		stages.FetchMetadata(metadata),
		stages.FetchTranscript(coordinator),
		stages.AnalyzeStructure(analyzer),
		stages.AnalyzeSemantics(analyzer),
	}
}

// buildLogger resolves the "auto" format to console on terminals and JSON
// everywhere else. With --json the artifact owns stdout, so logs move to
// stderr.
func buildLogger(cfg *config.Config, jsonOutput bool) (*slog.Logger, error) {
	format := cfg.Logging.Format
	if format == "" || format == "auto" {
		if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
			format = "console"
		} else {
			format = "json"
		}
	}
	outputs := []string{"stdout"}
	if jsonOutput {
		outputs = []string{"stderr"}
	}
	if cfg.Paths.LogDir != "" {
		outputs = append(outputs, filepath.Join(cfg.Paths.LogDir, "second-brain.log"))
	}
	return logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      format,
		OutputPaths: outputs,
	})
}

func recordRun(ctx context.Context, cfg *config.Config, art *artifact.Artifact, artifactPath string, elapsed time.Duration) error {
	store, err := runlog.Open(cfg.Paths.HistoryDir)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.Record(ctx, runlog.Entry{
		RunID:        art.Identity.RunID.String(),
		URL:          art.Source.URL,
		VideoID:      art.Source.VideoID,
		Title:        art.Source.Title,
		Status:       runStatus(art),
		WarningCount: len(art.Diagnostics.Warnings),
		ErrorCount:   len(art.Diagnostics.Errors),
		ArtifactPath: artifactPath,
		DurationMS:   float64(elapsed.Milliseconds()),
	})
}

// runStatus summarises a run for the history ledger: succeeded when every
// stage succeeded, failed when none did, partial otherwise.
func runStatus(art *artifact.Artifact) string {
	succeeded, failed := 0, 0
	for _, result := range art.Diagnostics.StageStatus {
		if result.Success {
			succeeded++
		} else {
			failed++
		}
	}
	switch {
	case failed == 0:
		return runlog.StatusSucceeded
	case succeeded == 0:
		return runlog.StatusFailed
	default:
		return runlog.StatusPartial
	}
}

var stageOrder = []string{
	stages.StageValidateInput,
	stages.StageFetchMetadata,
	stages.StageFetchTranscript,
	stages.StageAnalyzeStructure,
	stages.StageAnalyzeSemantics,
}

func renderStageTable(art *artifact.Artifact) string {
	rows := make([][]string, 0, len(stageOrder))
	for _, name := range stageOrder {
		result, ok := art.Diagnostics.StageStatus[name]
		if !ok {
			continue
		}
		status := "ok"
		if !result.Success {
			status = "failed"
		}
		rows = append(rows, []string{
			name,
			status,
			strconv.Itoa(len(result.Warnings)),
			strconv.Itoa(len(result.Errors)),
			fmt.Sprintf("%.0fms", result.ExecutionTimeMS),
		})
	}
	return renderTable(
		[]string{"Stage", "Status", "Warnings", "Errors", "Time"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight},
	)
}
