// Command lambda serves the image routes behind API Gateway's proxy integration.
package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/radif/imagemeta/internal/backend"
	"github.com/radif/imagemeta/internal/config"
	"github.com/radif/imagemeta/internal/image"
	"github.com/radif/imagemeta/internal/logger"
	"github.com/radif/imagemeta/internal/router"
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

	// Clients are built once per container and reused across invocations.
	ctx := context.Background()
	store, err := backend.NewObjectStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("object storage init failed", zap.Error(err))
	}
	repo, closer, err := backend.NewMetadataStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("metadata store init failed", zap.Error(err))
	}
	defer closer.Close()

	rt := router.New(image.NewHandler(image.NewService(repo, store, log)), log, nil)
	lambda.Start(rt.HandleAPIGateway)
}
