package storage

import (
	"context"
	"fmt"
	"strings"

	"blogapi/internal/config"
)

const (
	// TypeLocal is the local filesystem backend.
	TypeLocal = "local"
	// TypeS3 is Amazon S3 or an S3-compatible backend.
	TypeS3 = "s3"
)

// SaveOptions controls how a backend persists a file. Category groups files
// on disk; Extension hints the preferred file extension without the leading
// dot.
type SaveOptions struct {
	Category  string
	Extension string
}

// Storage persists binary data and returns a backend-specific object key.
type Storage interface {
	Save(ctx context.Context, data []byte, opts SaveOptions) (string, error)
}

// LocalBaseDirProvider is implemented by backends whose files can be served
// directly over HTTP from a local directory.
type LocalBaseDirProvider interface {
	LocalBaseDir() string
}

// NewStorage instantiates the backend selected by the config.
func NewStorage(cfg config.Config) (Storage, error) {
	typeName := strings.ToLower(strings.TrimSpace(cfg.StorageType))
	switch typeName {
	case "", TypeLocal:
		return NewLocalStorage(cfg.StorageLocalDir)
	case TypeS3:
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.StorageType)
	}
}
