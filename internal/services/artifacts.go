package services

import (
	"context"

	"github.com/BerylCAtieno/file-forensics-api/internal/storage"
)

// ArtifactRoute is where GetArtifact is mounted; published paths are relative to the host.
const ArtifactRoute = "/api/v1/artifacts/"

// artifactPublisher stores generated artifacts and hands back the API path that
// serves them, so backend locations never reach the client.
type artifactPublisher struct {
	store storage.Storage
}

func (p artifactPublisher) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := p.store.Put(ctx, key, data, contentType); err != nil {
		return "", err
	}
	return ArtifactRoute + key, nil
}
