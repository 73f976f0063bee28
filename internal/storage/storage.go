// Package storage keeps uploaded picture blobs on local disk or in S3.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/oggyb/swipe-match/internal/config"
)

// Store persists a blob under key and returns its public URL.
type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
}

// New picks the store configured by STORAGE_DRIVER.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch strings.ToLower(cfg.Storage.Driver) {
	case "", "local":
		return NewLocalStore(cfg.Storage.LocalDir, cfg.Storage.PublicURL), nil
	case "s3":
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}

// LocalStore writes blobs below a directory served at publicURL.
type LocalStore struct {
	dir       string
	publicURL string
}

func NewLocalStore(dir, publicURL string) *LocalStore {
	return &LocalStore{dir: dir, publicURL: strings.TrimRight(publicURL, "/")}
}

func (s *LocalStore) Put(_ context.Context, key, _ string, data []byte) (string, error) {
	path, err := s.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write blob: %w", err)
	}
	return s.publicURL + "/" + key, nil
}

// Delete is a no-op for missing files.
func (s *LocalStore) Delete(_ context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Dir is the root directory blobs are written to.
func (s *LocalStore) Dir() string { return s.dir }

func (s *LocalStore) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.dir, clean), nil
}

type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store keeps blobs in an S3 (or S3-compatible) bucket.
type S3Store struct {
	client    objectAPI
	bucket    string
	publicURL string
}

// NewS3Store loads the default AWS credential chain. A custom endpoint
// switches to path-style addressing for MinIO and friends.
func NewS3Store(ctx context.Context, cfg *config.Config) (*S3Store, error) {
	if cfg.Storage.S3Bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET is required for the s3 storage driver")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Storage.S3Region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	publicURL := cfg.Storage.PublicURL
	if publicURL == "" || strings.HasPrefix(publicURL, "/") {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Storage.S3Bucket, cfg.Storage.S3Region)
	}
	return newS3Store(client, cfg.Storage.S3Bucket, publicURL), nil
}

func newS3Store(client objectAPI, bucket, publicURL string) *S3Store {
	return &S3Store{client: client, bucket: bucket, publicURL: strings.TrimRight(publicURL, "/")}
}

func (s *S3Store) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		Body:          bytes.NewReader(data),
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object: %w", err)
	}
	return s.publicURL + "/" + key, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}
