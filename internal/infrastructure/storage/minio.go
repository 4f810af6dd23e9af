package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"file-exchange-api/config"
)

const contentTypeBinary = "application/octet-stream"

// Minio stores objects in an S3 compatible bucket.
type Minio struct {
	logger *zap.Logger
	client *minio.Client
	bucket string
	region string
}

func NewMinio(ctx context.Context, logger *zap.Logger, cfg config.S3) (*Minio, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	m := &Minio{
		logger: logger,
		client: client,
		bucket: cfg.BucketUploads,
		region: cfg.Region,
	}
	if err = m.ensureBucket(ctx); err != nil {
		return nil, err
	}

	logger.Info("s3 storage ready", zap.String("endpoint", cfg.Endpoint), zap.String("bucket", cfg.BucketUploads))

	return m, nil
}

func (m *Minio) ensureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", m.bucket, err)
	}
	if exists {
		return nil
	}
	if err = m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{Region: m.region}); err != nil {
		return fmt.Errorf("make bucket %s: %w", m.bucket, err)
	}
	return nil
}

func (m *Minio) Locate(key string) string { return "s3://" + m.bucket + "/" + key }

func (m *Minio) Save(ctx context.Context, key string, r io.Reader, size int64) (int64, error) {
	if err := validateKey(key); err != nil {
		return 0, err
	}

	info, err := m.client.PutObject(ctx, m.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentTypeBinary})
	if err != nil {
		return 0, fmt.Errorf("put object %s: %w", key, err)
	}

	return info.Size, nil
}

func (m *Minio) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}
	// GetObject is lazy; Stat surfaces a missing key before bytes are streamed.
	if _, err = obj.Stat(); err != nil {
		_ = obj.Close()
		if isNoSuchKey(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("stat object %s: %w", key, err)
	}

	return obj, nil
}

// Delete succeeds for absent keys, as S3 does.
func (m *Minio) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", key, err)
	}

	return nil
}

func isNoSuchKey(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}
