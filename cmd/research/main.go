package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/vibin/research-agent/config"
	"github.com/vibin/research-agent/internal/adapters/primary/cli"
	httpHandler "github.com/vibin/research-agent/internal/adapters/primary/http"
	"github.com/vibin/research-agent/internal/logger"
	"github.com/vibin/research-agent/internal/metrics"
	"github.com/vibin/research-agent/internal/telemetry"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to config file")
	debugMode := flag.Bool("debug", false, "Enable debug logging")
	serve := flag.Bool("serve", false, "Serve the HTTP API instead of the interactive prompt")
	query := flag.String("query", "", "Answer a single query and exit")
	evaluate := flag.Bool("evaluate", false, "Score the answer against the reference answer")
	reference := flag.String("reference", "", "Reference answer for -evaluate (defaults to the configured one)")
	writeConfig := flag.String("write-config", "", "Write the effective configuration to this path and exit")
	flag.Parse()

	// Setup logger
	logLevel := slog.LevelInfo
	if *debugMode {
		logLevel = slog.LevelDebug
	}
	var log *logger.SlogLogger
	if *serve {
		log = logger.New(logLevel, os.Stdout, logger.FormatJSON)
	} else {
		log = logger.New(logLevel, os.Stderr, logger.FormatText)
	}
	log.Info("Starting research agent")

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Warn("Failed to load .env", "error", err)
	}

	cfg, err := loadConfig(*configPath, log)
	if err != nil {
		log.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	cfg.ApplyEnv()

	if *writeConfig != "" {
		if err := config.SaveConfig(cfg, *writeConfig); err != nil {
			log.Error("Failed to write configuration", "error", err)
			os.Exit(1)
		}
		log.Info("Configuration written", "path", *writeConfig)
		return
	}

	if err := cfg.Validate(); err != nil {
		log.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Start(ctx, cfg.Telemetry)
	if err != nil {
		log.Error("Failed to start tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Warn("Failed to flush traces", "error", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	// Initialize adapters and services
	app, err := buildApp(cfg, log, m)
	if err != nil {
		log.Error("Failed to initialize", "error", err)
		os.Exit(1)
	}

	if *serve {
		handler := httpHandler.NewHandler(app.pipeline, app.evaluator, app.llm, cfg, reg, m, log)
		if err := runServer(ctx, handler, cfg.Server, log); err != nil {
			log.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
		return
	}

	var answer string
	if *query != "" {
		answer, err = cli.RunOnce(ctx, app.pipeline, *query, os.Stdout)
	} else {
		answer, err = cli.Run(ctx, app.pipeline, os.Stdin, os.Stdout)
	}
	if err != nil {
		log.Error("Prompt failed", "error", err)
		os.Exit(1)
	}

	if *evaluate {
		if answer == "" {
			log.Warn("No answer to evaluate")
			return
		}
		ref := *reference
		if ref == "" {
			ref = cfg.Scoring.ReferenceAnswer
		}
		score, err := app.evaluator.Evaluate(ctx, answer, ref)
		if err != nil {
			log.Error("Evaluation failed", "error", err)
			os.Exit(1)
		}
		fmt.Printf("Accuracy Score: %.2f\n", score)
	}
}

// loadConfig reads the given file, or the default path when it exists, or falls back to defaults
func loadConfig(path string, log logger.Logger) (*config.Config, error) {
	if path != "" {
		log.Info("Loading configuration", "path", path)
		return config.LoadConfig(path)
	}

	cfg, err := config.LoadConfig(config.GetConfigPath())
	if errors.Is(err, fs.ErrNotExist) {
		log.Info("Using default configuration")
		return config.DefaultConfig(), nil
	}
	return cfg, err
}

// runServer serves handler until ctx is cancelled, then shuts down gracefully
func runServer(ctx context.Context, handler http.Handler, cfg config.ServerConfig, log logger.Logger) error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: config.Timeout(cfg.RequestTimeoutSecs, 120*time.Second) + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server exited")
	return nil
}
