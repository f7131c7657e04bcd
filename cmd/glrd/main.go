package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glr-works/glreport/internal/common"
	"github.com/glr-works/glreport/internal/convert"
	"github.com/glr-works/glreport/internal/evidence"
	"github.com/glr-works/glreport/internal/export"
	"github.com/glr-works/glreport/internal/llm/groq"
	"github.com/glr-works/glreport/internal/pipeline"
	repo "github.com/glr-works/glreport/internal/repository"
	"github.com/glr-works/glreport/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	cfg, err := common.LoadConfig(*configPath)
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(2)
	}

	ctx, cancel := common.WithTimeout(context.Background(), 30*time.Second)
	db, err := repo.Open(ctx, cfg.Store.Path, logger)
	cancel()
	if err != nil {
		logger.Error("open run store", "error", err)
		os.Exit(1)
	}
	defer repo.Close(db, logger)
	runs := repo.NewRunRepository(db, logger)

	// The conversion capability is resolved once at startup and handed to
	// the pipeline explicitly.
	capability := convert.Detect(cfg.Output.Converter, logger)

	client := groq.NewClient(groq.Config{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout(),
	}, logger)

	processor := pipeline.NewProcessor(
		logger,
		evidence.NewExtractor(logger),
		client,
		capability,
		export.NewService(logger),
		runs,
		cfg.Output.DataDir,
	)

	srv := server.New(cfg.Server.Addr, processor, runs, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("http server", "error", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "error", err)
			os.Exit(1)
		}
	}
	logger.Info("stopped")
}
