package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/aws/s3"
	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/aws/s3/s3types"
	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/errors"
	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/fs"
	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/fs/billy"
	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/internal/config"
	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/internal/credentials"
	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/internal/extract"
	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/storage/minio"
)

// OpenStorage resolves the key pair and builds the configured backend.
// Downloads land on the OS filesystem rooted at the working directory,
// which is also returned for the merge.
func OpenStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (extract.Storage, fs.Filesystem, error) {
	resolver, err := credentials.New(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	defer resolver.Close()

	pair, err := resolver.Resolve(ctx)
	if err != nil {
		return nil, nil, err
	}

	filesystem := billy.NewOSFS(".")
	storage, err := NewStorage(cfg, pair, filesystem)
	if err != nil {
		return nil, nil, err
	}
	return storage, filesystem, nil
}

// NewStorage builds the backend named by cfg.Storage.Backend with an
// explicit key pair.
func NewStorage(cfg *config.Config, pair credentials.KeyPair, filesystem fs.Filesystem) (extract.Storage, error) {
	sc := cfg.Storage

	switch sc.Backend {
	case config.BackendS3:
		opts := []s3types.Option{
			s3.WithCredentials(pair.AccessKeyID, pair.SecretAccessKey, ""),
			s3.WithMaxRetries(sc.MaxRetries),
			s3.WithFilesystem(filesystem),
		}
		if sc.Region != "" {
			opts = append(opts, s3.WithRegion(sc.Region))
		}
		if sc.Endpoint != "" {
			opts = append(opts, s3.WithEndpoint(sc.Endpoint))
		}
		if sc.ForcePathStyle {
			opts = append(opts, s3.WithForcePathStyle(true))
		}
		if sc.Timeout > 0 {
			opts = append(opts, s3.WithTimeout(sc.Timeout))
		}

		client, err := s3.New(opts...)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to create s3 client")
		}
		return client, nil

	case config.BackendMinio:
		client, err := minio.New(minio.Config{
			Endpoint:        sc.Endpoint,
			Region:          sc.Region,
			AccessKeyID:     pair.AccessKeyID,
			SecretAccessKey: pair.SecretAccessKey,
			UseSSL:          sc.UseSSL,
		}, filesystem)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to create minio client")
		}
		return client, nil

	default:
		return nil, errors.Newf(errors.CodeInvalidConfig, "unknown storage backend %q", sc.Backend)
	}
}

// Run opens the configured storage and runs the pipeline once.
func Run(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...Option) (*Result, error) {
	storage, filesystem, err := OpenStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return New(storage, filesystem, append([]Option{WithLogger(logger)}, opts...)...).Run(ctx, cfg)
}
