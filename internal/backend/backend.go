// Package backend builds configured handles to the object store and the
// metadata store from the service configuration.
package backend

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"go.uber.org/zap"

	"github.com/radif/imagemeta/internal/config"
	"github.com/radif/imagemeta/internal/db"
	"github.com/radif/imagemeta/internal/image"
	"github.com/radif/imagemeta/internal/metadata"
	"github.com/radif/imagemeta/internal/storage"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

var nopCloser = closerFunc(func() error { return nil })

// LoadAWSConfig resolves region and credentials through the SDK's default chain.
func LoadAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return awsCfg, nil
}

// NewObjectStore returns the object store selected by STORAGE_DRIVER.
func NewObjectStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (storage.Storage, error) {
	switch cfg.StorageDriver {
	case config.StorageMinio:
		return storage.NewMinioStorage(ctx, storage.MinioOptions{
			Endpoint:   cfg.MinioEndpoint,
			AccessKey:  cfg.MinioAccessKey,
			SecretKey:  cfg.MinioSecretKey,
			Bucket:     cfg.S3Bucket,
			Region:     cfg.AWSRegion,
			UseSSL:     cfg.MinioUseSSL,
			AutoCreate: cfg.AutoCreate,
		}, log)

	case config.StorageS3:
		awsCfg, err := LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, err
		}
		s := storage.NewS3Storage(awsCfg, cfg.AWSEndpoint, cfg.S3Bucket, log)
		if cfg.AutoCreate {
			if err := s.EnsureBucket(ctx, cfg.AWSRegion); err != nil {
				return nil, err
			}
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

// NewMetadataStore returns the record repository selected by METADATA_DRIVER
// and a Closer releasing whatever it holds open.
func NewMetadataStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (image.Repository, io.Closer, error) {
	switch cfg.MetadataDriver {
	case config.MetadataDynamo:
		awsCfg, err := LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		client := metadata.NewDynamoClient(awsCfg, cfg.AWSEndpoint)
		if cfg.AutoCreate {
			if err := metadata.EnsureTable(ctx, client, cfg.DynamoTable, log); err != nil {
				return nil, nil, err
			}
		}
		return metadata.NewDynamoRepository(client, cfg.DynamoTable), nopCloser, nil

	case config.MetadataBadger:
		repo, err := metadata.OpenBadger(cfg.BadgerPath)
		if err != nil {
			return nil, nil, err
		}
		log.Info("opened badger metadata store", zap.String("path", cfg.BadgerPath))
		return repo, repo, nil

	case config.MetadataPostgres:
		pool, err := db.Connect(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(cfg.DatabaseURL, log); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return metadata.NewPostgresRepository(pool), closerFunc(func() error {
			pool.Close()
			return nil
		}), nil
	}
	return nil, nil, fmt.Errorf("unknown metadata driver %q", cfg.MetadataDriver)
}
