package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/nwaples/rardecode/v2"

	"github.com/BerylCAtieno/file-forensics-api/internal/models"
)

// ArchiveExtractor lists archive entries from the directory headers without
// decompressing any content.
type ArchiveExtractor struct{}

func (ArchiveExtractor) Extract(_ context.Context, blob *models.FileBlob) (models.MetadataRecord, error) {
	if blob.Ext == "rar" {
		return listRAR(blob.Data)
	}
	return listZIP(blob.Data)
}

func listZIP(data []byte) (*models.ArchiveListing, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, malformed("open archive", fmt.Errorf("failed to read ZIP directory: %w", err))
	}

	listing := &models.ArchiveListing{
		Format:  "zip",
		Entries: make([]models.ArchiveEntry, 0, len(zr.File)),
	}
	for _, f := range zr.File {
		listing.Entries = append(listing.Entries, models.ArchiveEntry{
			Name:           f.Name,
			Size:           f.UncompressedSize64,
			CompressedSize: f.CompressedSize64,
			Timestamp:      dosTimestamp(f.ModifiedDate, f.ModifiedTime),
		})
	}
	return listing, nil
}

// dosTimestamp decodes the MS-DOS date and time fields stored in the central directory.
func dosTimestamp(d, t uint16) models.Timestamp {
	return models.Timestamp{
		int(d>>9) + 1980,
		int(d>>5) & 0x0f,
		int(d) & 0x1f,
		int(t >> 11),
		int(t>>5) & 0x3f,
		int(t&0x1f) * 2,
	}
}

func listRAR(data []byte) (*models.ArchiveListing, error) {
	rr, err := rardecode.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, malformed("open archive", fmt.Errorf("failed to read RAR headers: %w", err))
	}

	listing := &models.ArchiveListing{Format: "rar", Entries: []models.ArchiveEntry{}}
	for {
		hdr, err := rr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, malformed("read archive", fmt.Errorf("failed to read RAR entry: %w", err))
		}
		listing.Entries = append(listing.Entries, models.ArchiveEntry{
			Name:           hdr.Name,
			Size:           uint64(max(hdr.UnPackedSize, 0)),
			CompressedSize: uint64(max(hdr.PackedSize, 0)),
			Timestamp:      timeTuple(hdr.ModificationTime),
		})
	}
	return listing, nil
}

func timeTuple(t time.Time) models.Timestamp {
	return models.Timestamp{t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second()}
}
