package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/docqa/internal/api"
	"github.com/dgallion1/docqa/internal/config"
	"github.com/dgallion1/docqa/internal/docqa"
	"github.com/dgallion1/docqa/internal/llm"
	"github.com/dgallion1/docqa/internal/parser"
	"github.com/dgallion1/docqa/internal/session"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Error("failed to load .env", "error", err)
		os.Exit(1)
	}
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Initialize clients.
	stats := llm.NewStats(cfg.StatsWindow)
	gen, err := llm.New(cfg.LLMOptions(stats))
	if err != nil {
		log.Error("invalid llm configuration", "error", err)
		os.Exit(1)
	}

	// Initialize pipeline.
	extractor := docqa.ParserExtractor{Options: parser.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext}}
	svc := docqa.NewService(cfg.Pipeline(), session.NewStore(), extractor, gen, log)

	// Initialize HTTP server.
	srv := api.NewServer(svc, stats, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: cfg.LLMTimeout + cfg.ExtractTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if c, ok := gen.(interface{ Close() }); ok {
			c.Close()
		}
	}()

	log.Info("starting docqa",
		"port", cfg.Port,
		"provider", cfg.LLMProvider,
		"model", cfg.ModelName(),
		"truncation_budget", cfg.TruncationBudget,
		"allowed_origins", cfg.AllowedOrigins,
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
