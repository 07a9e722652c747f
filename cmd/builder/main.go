package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/haoranwen0/6.5940-final-project-audio-codec-data-processing/internal/config"
	"github.com/haoranwen0/6.5940-final-project-audio-codec-data-processing/internal/dataset"
	"github.com/haoranwen0/6.5940-final-project-audio-codec-data-processing/internal/ledger"
	"github.com/haoranwen0/6.5940-final-project-audio-codec-data-processing/internal/loader"
	"github.com/haoranwen0/6.5940-final-project-audio-codec-data-processing/internal/metrics"
	"github.com/haoranwen0/6.5940-final-project-audio-codec-data-processing/internal/scan"
	"github.com/haoranwen0/6.5940-final-project-audio-codec-data-processing/internal/segment"
	"github.com/haoranwen0/6.5940-final-project-audio-codec-data-processing/internal/server"
)

const (
	defaultConfigPath = "configs/config.yaml"
	serviceName       = "audio-dataset-builder"
	serviceVersion    = "1.0.0"

	manifestFilename = "dataset_splits.json"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger based on configuration
	logger := initLogger(cfg.Logging)

	logger.Info("Builder starting",
		slog.String("service", serviceName),
		slog.String("version", serviceVersion),
		slog.String("config_path", *configPath),
	)

	logger.Info("Configuration loaded",
		slog.Int("sample_rate", cfg.Audio.SampleRate),
		slog.Float64("segment_duration", cfg.Audio.SegmentDuration),
		slog.Float64("gap_duration", cfg.Audio.GapDuration),
		slog.Float64("energy_floor", cfg.Audio.EnergyFloor),
		slog.Int("calibration_quota", cfg.Dataset.CalibrationQuota),
		slog.Int("evaluation_quota", cfg.Dataset.EvaluationQuota),
		slog.String("output_dir", cfg.Dataset.OutputDir),
		slog.String("ledger_path", cfg.Ledger.Path),
		slog.String("log_level", cfg.Logging.Level),
	)

	// Cancel the run on SIGINT/SIGTERM so in-flight decodes abort.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize Prometheus metrics
	appMetrics := metrics.NewMetrics(prometheus.DefaultRegisterer)
	logger.Info("Prometheus metrics initialized")

	// Open the processed-file ledger
	store, err := ledger.Open(cfg.Ledger.Path)
	if err != nil {
		logger.Error("Failed to open ledger", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Ledger opened",
		slog.String("path", cfg.Ledger.Path),
		slog.Int("records", store.Len()),
	)

	// Collect candidate files per domain
	sources, err := collectSources(cfg, logger)
	if err != nil {
		logger.Error("Failed to scan source directories", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Source files collected",
		slog.Int("speech", len(sources.Speech)),
		slog.Int("music", len(sources.Music)),
		slog.Int("environmental", len(sources.Environmental)),
	)

	// Wire the pipeline
	l := loader.New(cfg.Audio.SampleRate, logger)
	if !l.FFmpegAvailable() {
		logger.Warn("ffmpeg not found in PATH, video inputs will fail")
	}
	s := segment.NewWithFloor(cfg.Audio.TargetSamples(), cfg.Audio.GapSamples(), cfg.Audio.EnergyFloor)
	batcher := dataset.NewBatcher(l, s, dataset.Config{
		CalibrationQuota: cfg.Dataset.CalibrationQuota,
		EvaluationQuota:  cfg.Dataset.EvaluationQuota,
		Progress:         true,
	}, store.Basenames(), appMetrics, logger)
	assembler := dataset.NewAssembler(batcher, store, logger)

	// Initialize HTTP API server (if enabled)
	var httpServer *server.HTTPServer
	if cfg.HTTP.Enabled {
		httpServer = server.NewHTTPServer(cfg.HTTP, logger, cfg, assembler, appMetrics)
		if err := httpServer.Start(); err != nil {
			logger.Error("Failed to start HTTP server", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("HTTP API server started",
			slog.String("address", fmt.Sprintf("%s:%d", cfg.HTTP.Address, cfg.HTTP.Port)),
		)
	}

	// Run the build
	runStart := time.Now()
	manifest, err := assembler.BuildSplits(ctx, sources, cfg.Dataset.OutputDir)
	if err != nil {
		logger.Error("Build failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	appMetrics.RunDuration.Set(time.Since(runStart).Seconds())

	// Persist run outputs
	if err := writeManifest(cfg.Dataset.OutputDir, manifest); err != nil {
		logger.Error("Failed to write manifest", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := store.Save(); err != nil {
		logger.Error("Failed to save ledger", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Final run summary
	stats := assembler.Stats()
	logger.Info("Build complete",
		slog.Duration("duration", time.Since(runStart)),
		slog.Int("files_processed", stats.FilesProcessed),
		slog.Int("files_skipped", stats.FilesSkipped),
		slog.Int("files_failed", stats.FilesFailed),
		slog.Int("segments_written", stats.SegmentsWritten),
	)
	for bucket, count := range stats.Buckets {
		logger.Info("Bucket summary",
			slog.String("bucket", bucket),
			slog.Int("files", count),
		)
	}

	// Stop HTTP server last so progress stays queryable through the run
	if httpServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := httpServer.Stop(shutdownCtx); err != nil {
			logger.Error("Error stopping HTTP server", slog.String("error", err.Error()))
		}
	}

	logger.Info("Builder stopped")
}

// collectSources scans the configured directories per domain. Previously
// processed files are left in the candidate lists; the batcher skips them
// individually so they are counted in the run statistics.
func collectSources(cfg *config.Config, logger *slog.Logger) (dataset.Sources, error) {
	var src dataset.Sources
	var err error

	if src.Speech, err = scan.Collect(cfg.Sources.Speech, cfg.Dataset.Extensions, nil, logger); err != nil {
		return src, fmt.Errorf("scanning speech sources: %w", err)
	}
	if src.Music, err = scan.Collect(cfg.Sources.Music, cfg.Dataset.Extensions, nil, logger); err != nil {
		return src, fmt.Errorf("scanning music sources: %w", err)
	}
	if src.Environmental, err = scan.Collect(cfg.Sources.Environmental, cfg.Dataset.Extensions, nil, logger); err != nil {
		return src, fmt.Errorf("scanning environmental sources: %w", err)
	}

	return src, nil
}

// writeManifest writes the run manifest into the output directory.
func writeManifest(outputDir string, manifest dataset.Manifest) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}

	path := filepath.Join(outputDir, manifestFilename)
	return os.WriteFile(path, data, 0o644)
}

// initLogger creates and configures the structured logger based on configuration
func initLogger(cfg config.LoggingConfig) *slog.Logger {
	// Parse log level
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo // default fallback
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug, // Add source info for debug level
	}

	// Determine output destination
	var output *os.File
	switch cfg.Output {
	case "stderr":
		output = os.Stderr
	case "stdout", "":
		output = os.Stdout
	default:
		// Assume it's a file path
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v, falling back to stdout\n", cfg.Output, err)
			output = os.Stdout
		} else {
			output = file
		}
	}

	// Create handler based on format
	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	case "text", "":
		handler = slog.NewTextHandler(output, opts)
	default:
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(handler)
}
