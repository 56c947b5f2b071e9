package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ahmedEssyad/eter-reports-separated/internal/auth"
	"github.com/ahmedEssyad/eter-reports-separated/internal/config"
	"github.com/ahmedEssyad/eter-reports-separated/internal/database"
	"github.com/ahmedEssyad/eter-reports-separated/internal/logging"
	"github.com/ahmedEssyad/eter-reports-separated/internal/pdf"
	"github.com/ahmedEssyad/eter-reports-separated/internal/reports"
	"github.com/ahmedEssyad/eter-reports-separated/internal/server"
	"github.com/ahmedEssyad/eter-reports-separated/internal/storage"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.Environment)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer logger.Sync()

	if err := database.Init(cfg, logger); err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}

	signatures, err := storage.NewSignatureStore(cfg.UploadsDir, logger)
	if err != nil {
		logger.Fatal("signature store init failed", zap.Error(err))
	}

	reportsSvc := reports.NewService(database.DB, signatures, logger)
	authSvc := auth.NewService(database.DB, cfg.BcryptCost, logger)
	renderer := pdf.NewRenderer(signatures, logger)

	r := server.NewRouter(cfg, server.Services{
		Reports:  reportsSvc,
		Auth:     authSvc,
		Renderer: renderer,
	}, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr), zap.String("environment", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
}
