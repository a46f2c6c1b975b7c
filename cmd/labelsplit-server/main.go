package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/kpauljoseph/labelsplit/internal/cache"
	"github.com/kpauljoseph/labelsplit/internal/config"
	"github.com/kpauljoseph/labelsplit/internal/metrics"
	"github.com/kpauljoseph/labelsplit/internal/pdf"
	"github.com/kpauljoseph/labelsplit/internal/server"
	"github.com/kpauljoseph/labelsplit/pkg/logger"
	"github.com/kpauljoseph/labelsplit/pkg/version"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	envFile := flag.String("env", ".env", "dotenv file loaded before the environment overrides")
	flag.Parse()

	// A missing .env is fine, the environment may be set directly.
	_ = godotenv.Load(*envFile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.New().Fatal("Error loading config: %v", err)
	}
	cfg.ApplyEnv()

	opts := []logger.Option{
		logger.WithPrefix("[labelsplit-server] "),
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
	defer log.Close()

	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration: %v", err)
	}

	store, err := cache.New(cfg)
	if err != nil {
		log.Fatal("Failed to init %s cache: %v", cfg.Cache.Backend, err)
	}
	defer store.Close()

	// The server keeps results in the cache only, nothing is written to disk.
	processor, err := pdf.NewProcessor("", log, pdf.WithWorkers(cfg.Workers))
	if err != nil {
		log.Fatal("Error initializing processor: %v", err)
	}

	metrics.Init()

	srv := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: server.New(processor, store, log,
			server.WithMaxUploadBytes(cfg.Server.MaxUploadMB<<20),
		).Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("%s listening on %s (%s cache, %d workers)",
			version.GetVersionInfo(), cfg.Server.Addr, cfg.Cache.Backend, processor.Workers())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error: %v", err)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Shutdown error: %v", err)
	}
	log.Info("Shutdown complete")
}
