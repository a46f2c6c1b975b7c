package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/kpauljoseph/labelsplit/internal/config"
	"github.com/kpauljoseph/labelsplit/internal/pdf"
	"github.com/kpauljoseph/labelsplit/internal/scanner"
	"github.com/kpauljoseph/labelsplit/pkg/logger"
	"github.com/kpauljoseph/labelsplit/pkg/version"
)

// Process exit codes.
const (
	exitOK       = 0
	exitUsage    = 2
	exitBadInput = 3
	exitFailed   = 4
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to config file (optional)")
	input := flag.String("input", "", "PDF file to split")
	inputDir := flag.String("input-dir", "", "directory containing PDF files to split")
	outputDir := flag.String("output-dir", "", "directory to save split PDFs (overrides config)")
	previewDir := flag.String("preview-dir", "", "directory to save preview images (overrides config)")
	workers := flag.Int("workers", -1, "pages transformed in parallel, 0 for one per CPU (overrides config)")
	verbose := flag.Bool("verbose", false, "enable verbose logging")
	debug := flag.Bool("debug", false, "enable debug mode with trace logging")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Print(version.GetDetailedVersionInfo())
		return exitOK
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return exitUsage
	}
	cfg.ApplyEnv()

	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	if *previewDir != "" {
		cfg.PreviewDir = *previewDir
	}
	if *workers >= 0 {
		cfg.Workers = *workers
	}

	log := newLogger(cfg, *verbose, *debug)
	defer log.Close()

	if err := cfg.Validate(); err != nil {
		log.Error("Invalid configuration: %v", err)
		return exitUsage
	}

	if (*input == "") == (*inputDir == "") {
		log.Error("Exactly one of -input or -input-dir is required")
		flag.Usage()
		return exitUsage
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Received interrupt signal, cancelling...")
		cancel()
	}()

	processor, err := pdf.NewProcessor(
		cfg.OutputDir,
		log,
		pdf.WithWorkers(cfg.Workers),
		pdf.WithPreviewDir(cfg.PreviewDir),
	)
	if err != nil {
		log.Error("Error initializing processor: %v", err)
		return exitUsage
	}
	log.Debug("Using %d workers", processor.Workers())

	var files []scanner.PDFFile
	if *input != "" {
		files = []scanner.PDFFile{{AbsolutePath: *input, RelativePath: filepath.Base(*input)}}
	} else {
		log.Info("Scanning directory: %s", *inputDir)
		files, err = scanner.New(log).FindPDFs(ctx, *inputDir)
		if err != nil {
			log.Error("Error finding PDFs: %v", err)
			return exitUsage
		}
		log.Info("Found %d PDFs to process", len(files))
	}

	report := &ProcessingReport{StartTime: time.Now()}
	code := exitOK
	for _, file := range files {
		if ctx.Err() != nil {
			break
		}
		stats, err := processor.ProcessRelative(ctx, file.AbsolutePath, file.RelativePath)
		if err != nil {
			log.Error("Error processing %s: %v", file.RelativePath, err)
			report.Fail(file.RelativePath, err)
			code = max(code, exitCode(err))
			continue
		}
		report.Add(stats)
	}

	report.EndTime = time.Now()
	report.Print(log)
	if ctx.Err() != nil && code == exitOK {
		code = exitFailed
	}
	return code
}

func newLogger(cfg *config.Config, verbose, debug bool) *logger.Logger {
	opts := []logger.Option{
		logger.WithPrefix("[labelsplit] "),
		logger.WithFile(logger.FileOptions{
			Filename:   cfg.Logging.File,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
			Compress:   cfg.Logging.Compress,
		}),
	}
	if !cfg.Logging.Pretty {
		opts = append(opts, logger.WithJSON())
	}

	log := logger.New(opts...)
	log.SetLevel(logger.ParseLevel(cfg.Logging.Level))
	if verbose {
		log.SetVerbose(true)
		log.Debug("Verbose logging enabled")
	}
	if debug {
		log.SetLevel(logger.LevelTrace)
	}
	return log
}

func exitCode(err error) int {
	var (
		decodeErr   *pdf.DecodeError
		geometryErr *pdf.InvalidGeometryError
	)
	switch {
	case errors.As(err, &decodeErr), errors.As(err, &geometryErr):
		return exitBadInput
	default:
		return exitFailed
	}
}
