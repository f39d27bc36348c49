//	@title			Image Metadata API
//	@version		1.0
//	@description	Stores images in an object store and their metadata in a key-value store.
//
//	@host		localhost:8080
//	@BasePath	/

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/radif/imagemeta/internal/backend"
	"github.com/radif/imagemeta/internal/config"
	"github.com/radif/imagemeta/internal/image"
	"github.com/radif/imagemeta/internal/logger"
	"github.com/radif/imagemeta/internal/metrics"
	"github.com/radif/imagemeta/internal/router"

	_ "github.com/radif/imagemeta/docs/swagger"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		os.Stderr.WriteString("failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	ctx := context.Background()

	store, err := backend.NewObjectStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("object storage init failed", zap.Error(err))
	}

	repo, closer, err := backend.NewMetadataStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("metadata store init failed", zap.Error(err))
	}
	defer func() {
		if err := closer.Close(); err != nil {
			log.Error("close metadata store", zap.Error(err))
		}
	}()

	// Wire dependencies: stores → service → handler → router
	m := metrics.New()
	svc := image.NewService(repo, store, log)
	rt := router.New(image.NewHandler(svc), log, m)

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: router.NewHTTPHandler(rt, router.HTTPOptions{
			Log:            log,
			Metrics:        m,
			AllowedOrigins: cfg.CORSAllowedOrigins,
			JWTSecret:      cfg.JWTSecret,
			MaxBodyBytes:   cfg.MaxBodyBytes,
		}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.AppEnv),
			zap.String("storage", cfg.StorageDriver),
			zap.String("metadata", cfg.MetadataDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	log.Info("shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
