package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a key does not exist in the backend
var ErrNotFound = errors.New("object not found")

// Storage interface for corpus blob operations
type Storage interface {
	// Upload stores an uploaded file under a generated key and returns the key
	Upload(ctx context.Context, fileID uuid.UUID, filename string, data io.Reader) (string, error)

	// Put stores data under a fixed key, replacing any existing object
	Put(ctx context.Context, key string, data io.Reader) error

	// Download retrieves an object by key
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes an object by key
	Delete(ctx context.Context, key string) error
}

// StorageType represents the storage backend type
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
)

// StorageConfig holds configuration for storage
type StorageConfig struct {
	Type         StorageType `mapstructure:"type"`
	LocalPath    string      `mapstructure:"local_path"` // For local storage
	S3Bucket     string      `mapstructure:"s3_bucket"`  // For S3 storage
	S3Region     string      `mapstructure:"s3_region"`  // For S3 storage
	AWSAccessKey string      `mapstructure:"aws_access_key"`
	AWSSecretKey string      `mapstructure:"aws_secret_key"`
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(cfg StorageConfig) (Storage, error) {
	switch cfg.Type {
	case StorageTypeLocal:
		return NewLocalStorage(cfg.LocalPath)
	case StorageTypeS3:
		if cfg.S3Bucket == "" {
			return nil, errors.New("s3 bucket is required for S3 storage")
		}
		if cfg.S3Region == "" {
			cfg.S3Region = "us-east-1"
		}
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// uploadPrefix is where uploaded corpus files are archived
const uploadPrefix = "uploads"

// generateStoragePath generates a unique key for an uploaded file
func generateStoragePath(fileID uuid.UUID, filename string) string {
	ext := filepath.Ext(filename)
	baseName := strings.TrimSuffix(filepath.Base(filename), ext)
	baseName = strings.NewReplacer(" ", "_", "/", "_", "\\", "_").Replace(baseName)

	id := fileID.String()
	return fmt.Sprintf("%s/%s/%s_%s%s", uploadPrefix, id[:2], id, baseName, ext)
}

// cleanKey normalises a key and rejects keys escaping the storage root
func cleanKey(key string) (string, error) {
	key = strings.ReplaceAll(key, "\\", "/")
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return "", fmt.Errorf("invalid storage key %q", key)
		}
	}
	cleaned := strings.TrimPrefix(path.Clean("/"+key), "/")
	if cleaned == "" {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return cleaned, nil
}
