// Package storage uploads export artefacts to S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/homefinder/loancalc/internal/domain/port"
)

var _ port.ObjectStore = (*MinioStore)(nil)

// S3Config holds connection settings for the export bucket.
type S3Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Region          string
	Prefix          string
	UseSSL          bool
}

// MinioStore implements port.ObjectStore with minio-go.
type MinioStore struct {
	raw    *minio.Client
	bucket string
	prefix string
}

// NewMinioStore creates a client. It does not contact the server; call
// EnsureBucket at startup to verify access.
func NewMinioStore(cfg S3Config) (*MinioStore, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage: bucket is required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: create s3 client: %w", err)
	}
	return &MinioStore{raw: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *MinioStore) EnsureBucket(ctx context.Context, region string) error {
	exists, err := s.raw.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("storage: check bucket %q: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.raw.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("storage: make bucket %q: %w", s.bucket, err)
	}
	return nil
}

// Put uploads data under prefix+key.
func (s *MinioStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	objectKey := s.prefix + key
	_, err := s.raw.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put object %q: %w", objectKey, err)
	}
	return nil
}

// PresignGet returns a temporary download URL for prefix+key.
func (s *MinioStore) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	objectKey := s.prefix + key
	u, err := s.raw.PresignedGetObject(ctx, s.bucket, objectKey, ttl, nil)
	if err != nil {
		return "", fmt.Errorf("presign get object %q: %w", objectKey, err)
	}
	return u.String(), nil
}
