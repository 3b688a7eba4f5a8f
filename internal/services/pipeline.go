package services

import (
	"context"
	"errors"

	"github.com/BerylCAtieno/file-forensics-api/internal/cache"
	"github.com/BerylCAtieno/file-forensics-api/internal/config"
	"github.com/BerylCAtieno/file-forensics-api/internal/extractor"
	"github.com/BerylCAtieno/file-forensics-api/internal/hasher"
	"github.com/BerylCAtieno/file-forensics-api/internal/imaging"
	"github.com/BerylCAtieno/file-forensics-api/internal/models"
	"github.com/BerylCAtieno/file-forensics-api/internal/origin"
	"github.com/BerylCAtieno/file-forensics-api/internal/storage"
	"github.com/BerylCAtieno/file-forensics-api/internal/utils"
)

// Pipeline runs hash, dispatch, extract and classify for one blob. It is safe for
// concurrent use; nothing in it is mutated after construction.
type Pipeline struct {
	dispatcher *extractor.Dispatcher
	cache      cache.Cache
	logger     *utils.Logger
}

func NewPipeline(dispatcher *extractor.Dispatcher, c cache.Cache, logger *utils.Logger) *Pipeline {
	if c == nil {
		c = cache.Noop{}
	}
	return &Pipeline{dispatcher: dispatcher, cache: c, logger: logger}
}

// NewPipelineFromConfig wires the extractors selected by cfg. A nil store disables
// ELA artifacts.
func NewPipelineFromConfig(cfg *config.Config, store storage.Storage, c cache.Cache, logger *utils.Logger) (*Pipeline, error) {
	probe, err := imaging.SelectTextChunkProbe(cfg.TextChunkProbe, cfg.ToolTimeout)
	if err != nil {
		return nil, err
	}

	prober, err := extractor.SelectProber(cfg.MediaProber, &extractor.FFProbe{
		WorkspaceDir: cfg.WorkspaceDir,
		Timeout:      cfg.ToolTimeout,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Extractors configured", "text_chunk_probe", cfg.TextChunkProbe, "media_prober", prober.Name())

	var artifacts imaging.ArtifactStore
	if store != nil {
		artifacts = artifactPublisher{store: store}
	}

	dispatcher := extractor.NewDispatcher(
		imaging.NewEngine(artifacts, probe, cfg.MaxImagePixels, logger),
		extractor.NewMediaExtractor(prober),
	)
	return NewPipeline(dispatcher, c, logger), nil
}

// Analyze always returns a result. Unsupported extensions yield an error without
// hashes; every other outcome carries the hash set.
func (p *Pipeline) Analyze(ctx context.Context, blob *models.FileBlob) *models.ExtractionResult {
	logger := p.logger.With("request_id", blob.ID, "filename", blob.Filename, "detected_type", blob.Ext)

	result := &models.ExtractionResult{
		Filename:     blob.Filename,
		DetectedType: blob.Ext,
	}

	ex, err := p.dispatcher.Lookup(blob.Ext)
	if err != nil {
		logger.Info("Unsupported file type")
		result.Error = err.Error()
		result.ErrorKind = string(extractor.KindUnsupportedFormat)
		return result
	}

	result.Hashes = hasher.ComputeBytes(blob.Data)

	key := cache.Key(blob.Ext, result.Hashes)
	cached, err := p.cache.Get(ctx, key)
	switch {
	case err == nil:
		logger.Debug("Extraction served from cache", "sha256", result.Hashes.SHA256)
		cached.Filename = blob.Filename
		cached.DetectedType = blob.Ext
		return cached
	case !errors.Is(err, cache.ErrCacheMiss):
		logger.Warn("Cache lookup failed", "error", err)
	}

	rec, err := extractor.Extract(ctx, ex, blob)
	if err != nil {
		kind := extractor.KindOf(err)
		logger.Warn("Extraction failed", "kind", kind, "error", err)
		result.Error = err.Error()
		result.ErrorKind = string(kind)
		return result
	}

	result.Kind = rec.RecordKind()
	result.Record = rec
	result.OriginGuess = origin.Guess(rec)

	if err := p.cache.Set(ctx, key, result); err != nil {
		logger.Warn("Cache store failed", "error", err)
	}

	logger.Info("Extraction completed", "kind", result.Kind, "origin_guess", result.OriginGuess)
	return result
}
