package storage

import (
	"fmt"

	"github.com/yi-nology/page_harbor/pkg/config"
	"github.com/yi-nology/page_harbor/pkg/storage/kodo"
	"github.com/yi-nology/page_harbor/pkg/storage/local"
	"github.com/yi-nology/page_harbor/pkg/storage/s3"
)

// New creates a storage adapter based on configuration.
func New(cfg config.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case "", "local":
		basePath := cfg.Local.BasePath
		if basePath == "" {
			basePath = "data/sites"
		}
		return local.New(basePath)

	case "s3":
		return s3.New(s3.Config{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			Bucket:    cfg.S3.Bucket,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			UseSSL:    cfg.S3.UseSSL,
			PathStyle: cfg.S3.PathStyle,
		})

	case "kodo":
		return kodo.New(kodo.Config{
			AccessKey:     cfg.Kodo.AccessKey,
			SecretKey:     cfg.Kodo.SecretKey,
			Bucket:        cfg.Kodo.Bucket,
			Zone:          cfg.Kodo.Zone,
			Domain:        cfg.Kodo.Domain,
			DisplayDomain: cfg.Kodo.DisplayDomain,
			UseSSL:        cfg.Kodo.UseSSL,
		})

	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
