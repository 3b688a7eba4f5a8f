package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/BerylCAtieno/file-forensics-api/internal/config"
)

var (
	ErrNotFound   = errors.New("artifact not found")
	ErrInvalidKey = errors.New("invalid artifact key")
)

// Storage holds generated artifacts such as ELA images.
type Storage interface {
	// Put stores data under key, replacing any previous artifact.
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// New selects the backend named by cfg.ArtifactBackend.
func New(cfg *config.Config) (Storage, error) {
	switch cfg.ArtifactBackend {
	case "local":
		return NewLocalStorage(cfg.ArtifactDir)
	case "s3":
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unknown artifact backend %q", cfg.ArtifactBackend)
	}
}
