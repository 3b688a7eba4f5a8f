package extractor

import (
	"context"
	"fmt"

	"github.com/BerylCAtieno/file-forensics-api/internal/models"
)

// Prober reads track-level metadata from an audio or video container.
type Prober interface {
	Name() string
	Probe(ctx context.Context, blob *models.FileBlob) ([]models.TrackRecord, error)
}

type MediaExtractor struct {
	prober Prober
}

func NewMediaExtractor(p Prober) *MediaExtractor {
	return &MediaExtractor{prober: p}
}

func (e *MediaExtractor) Extract(ctx context.Context, blob *models.FileBlob) (models.MetadataRecord, error) {
	tracks, err := e.prober.Probe(ctx, blob)
	if err != nil {
		return nil, err
	}
	if tracks == nil {
		tracks = []models.TrackRecord{}
	}
	return &models.MediaInfo{Prober: e.prober.Name(), Tracks: tracks}, nil
}

// SelectProber resolves a MEDIA_PROBER setting. "auto" prefers ffprobe when it is on PATH.
func SelectProber(mode string, ffprobe *FFProbe) (Prober, error) {
	switch mode {
	case "native":
		return NativeProber{}, nil
	case "ffprobe":
		return ffprobe, nil
	case "", "auto":
		if ffprobe.Available() {
			return ffprobe, nil
		}
		return NativeProber{}, nil
	default:
		return nil, fmt.Errorf("unknown media prober %q", mode)
	}
}
