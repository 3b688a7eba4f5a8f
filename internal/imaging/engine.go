// Package imaging implements the forensic analyses run on uploaded images: EXIF and GPS
// decoding, ICC profile detection, PNG text chunk scanning and error level analysis.
package imaging

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/google/uuid"
	"github.com/rwcarlsen/goexif/exif"

	"github.com/BerylCAtieno/file-forensics-api/internal/models"
	"github.com/BerylCAtieno/file-forensics-api/internal/utils"
)

// ArtifactStore persists generated artifacts and returns the URL path they can be fetched from.
type ArtifactStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type Engine struct {
	store     ArtifactStore
	probe     TextChunkProbe
	maxPixels int64
	logger    *utils.Logger
}

// NewEngine builds an engine. A nil store disables ELA artifacts; a nil probe disables
// text chunk scanning. ELA is skipped for images declaring more than maxPixels pixels.
func NewEngine(store ArtifactStore, probe TextChunkProbe, maxPixels int64, logger *utils.Logger) *Engine {
	return &Engine{store: store, probe: probe, maxPixels: maxPixels, logger: logger}
}

// Extract never fails: each analysis is isolated and reports an empty value when it
// cannot complete.
func (e *Engine) Extract(ctx context.Context, blob *models.FileBlob) (models.MetadataRecord, error) {
	data := blob.Data
	format := Sniff(data)

	out := &models.ImageForensics{
		Format:             format,
		EXIF:               map[string]string{},
		PNGTextChunks:      []string{},
		ICCProfile:         models.ICCError,
		ReverseSearchLinks: ReverseSearchLinks(),
	}

	e.run(blob, "dimensions", func() error {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return err
		}
		out.Width, out.Height = cfg.Width, cfg.Height
		return nil
	})

	var x *exif.Exif
	e.run(blob, "exif", func() error {
		decoded, err := DecodeEXIF(format, data)
		if err != nil {
			return err
		}
		x = decoded
		out.EXIF = EXIFTags(decoded)
		return nil
	})

	if x != nil {
		e.run(blob, "gps", func() error {
			link, err := GPSLink(x)
			if err != nil {
				return err
			}
			out.GPSLink = &link
			return nil
		})
	}

	e.run(blob, "icc", func() error {
		out.ICCProfile = ICCStatus(format, data)
		return nil
	})

	if e.probe != nil {
		e.run(blob, "text_chunks", func() error {
			chunks, err := e.probe.Probe(ctx, data)
			if err != nil {
				return err
			}
			if chunks != nil {
				out.PNGTextChunks = chunks
			}
			return nil
		})
	}

	if e.store != nil {
		e.run(blob, "ela", func() error {
			artifact, err := ErrorLevelAnalysis(data, e.maxPixels)
			if err != nil {
				return err
			}
			path, err := e.store.Put(ctx, artifactKey(blob), artifact, "image/png")
			if err != nil {
				return err
			}
			out.ELAArtifactPath = &path
			return nil
		})
	}

	return out, nil
}

func artifactKey(blob *models.FileBlob) string {
	id := blob.ID
	if id == "" {
		id = uuid.NewString()
	}
	return "ela/" + id + ".png"
}

// run executes one analysis. Errors are logged at debug and panics at warn.
func (e *Engine) run(blob *models.FileBlob, name string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("Image analysis panicked", "analysis", name, "request_id", blob.ID, "panic", fmt.Sprint(r))
		}
	}()
	if err := fn(); err != nil {
		e.logger.Debug("Image analysis skipped", "analysis", name, "request_id", blob.ID, "error", err)
	}
}
