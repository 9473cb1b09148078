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

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"docassist/internal/config"
	"docassist/internal/handler"
	"docassist/internal/logger"
	"docassist/internal/repository/postgres"
	"docassist/internal/router"
	"docassist/internal/service"
	s3storage "docassist/internal/storage/s3"
	"docassist/internal/toolrunner"
	_ "docassist/internal/toolrunner/providers"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// A .env file is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()
	zap.ReplaceGlobals(zl)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(ctx, &cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	fileRepo := postgres.NewFileMetaRepo(db)
	runRepo := postgres.NewToolRunRepo(db)

	// Initialize storage
	store, err := s3storage.NewStore(ctx, &cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 store: %w", err)
	}

	runner, err := toolrunner.NewFromConfig(&cfg.Tools, zl.Named("toolrunner"))
	if err != nil {
		return fmt.Errorf("failed to initialize tool runner: %w", err)
	}

	// Initialize services
	authSvc := service.NewAuthService(cfg.JWT)
	fileSvc := service.NewFileService(fileRepo, store, &cfg.S3, zl)
	toolSvc := service.NewToolService(runRepo, fileSvc, runner, zl)
	viewSvc := service.NewViewService(toolSvc, cfg.Views, zl)

	r := router.Setup(authSvc, router.Handlers{
		File:      handler.NewFileHandler(fileSvc),
		ToolRun:   handler.NewToolRunHandler(toolSvc),
		Normalize: handler.NewNormalizeHandler(cfg.Views.EmptyPlaceholder),
		View:      handler.NewViewHandler(viewSvc),
		Health:    handler.NewHealthHandler(db, store),
	}, cfg.CORS, zl)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("environment", cfg.Server.Environment),
			zap.Strings("providers", toolrunner.RegisteredProviders()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
