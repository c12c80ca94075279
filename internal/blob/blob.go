// Package blob uploads run artifacts to S3-compatible object storage.
package blob

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Sink receives run artifacts.
type Sink interface {
	// EnsureBucket creates the configured bucket if it does not exist.
	EnsureBucket(ctx context.Context) error

	// Put uploads one artifact and returns its object URL.
	Put(ctx context.Context, key string, data []byte) (string, error)
}

// Config holds object storage connection settings.
type Config struct {
	// EndpointURL is the storage endpoint (e.g. https://minio.example.com).
	EndpointURL     string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Region          string
	UseSSL          bool
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.EndpointURL == "" {
		return &ValidationError{Field: "endpointUrl", Message: "required"}
	}
	if c.AccessKeyID == "" || c.SecretAccessKey == "" {
		return &ValidationError{Field: "credentials", Message: "required"}
	}
	if c.Bucket == "" {
		return &ValidationError{Field: "bucket", Message: "required"}
	}
	return nil
}

// Store is the minio-backed sink.
type Store struct {
	client *minio.Client
	config *Config
}

// NewStore creates a store from config.
func NewStore(config *Config) (*Store, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	u, err := url.Parse(config.EndpointURL)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint URL: %w", err)
	}
	endpoint := u.Host
	if endpoint == "" {
		endpoint = config.EndpointURL
	}
	useSSL := config.UseSSL
	if u.Scheme == "https" {
		useSSL = true
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKeyID, config.SecretAccessKey, ""),
		Secure: useSSL,
		Region: config.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &Store{client: client, config: config}, nil
}

// EnsureBucket implements Sink.
func (s *Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.config.Bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.config.Bucket, err)
	}
	if exists {
		return nil
	}
	err = s.client.MakeBucket(ctx, s.config.Bucket, minio.MakeBucketOptions{
		Region: s.config.Region,
	})
	if err != nil {
		return fmt.Errorf("create bucket %s: %w", s.config.Bucket, err)
	}
	return nil
}

// Put implements Sink.
func (s *Store) Put(ctx context.Context, key string, data []byte) (string, error) {
	if key == "" {
		return "", fmt.Errorf("object key is required")
	}

	reader := bytes.NewReader(data)
	_, err := s.client.PutObject(ctx, s.config.Bucket, key, reader, int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType(key),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return "s3://" + s.config.Bucket + "/" + key, nil
}

// contentType maps artifact extensions to MIME types.
func contentType(key string) string {
	switch path.Ext(key) {
	case ".csv":
		return "text/csv"
	case ".json":
		return "application/json"
	case ".gz":
		return "application/gzip"
	default:
		return "application/octet-stream"
	}
}
