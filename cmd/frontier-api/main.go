package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tradefrontier/internal/api"
	"tradefrontier/internal/config"
	"tradefrontier/internal/game"
	"tradefrontier/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	ledger, closeLedger, err := store.OpenLedger(ctx, cfg)
	if err != nil {
		logger.Error("score ledger init failed", "backend", cfg.ScoreBackend, "err", err)
		os.Exit(1)
	}
	defer closeLedger()

	session := game.Open(ctx, game.Options{
		Store:       store.NewSaveFile(cfg.DataDir),
		Ledger:      ledger,
		Logger:      logger,
		SaveTimeout: cfg.SaveTimeout,
	})

	server := api.New(logger, session)
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("frontier api listening", "addr", cfg.Addr, "data_dir", cfg.DataDir, "score_backend", cfg.ScoreBackend)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}
