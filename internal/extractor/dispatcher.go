package extractor

import (
	"context"
	"fmt"
	"strings"

	"github.com/BerylCAtieno/file-forensics-api/internal/models"
)

// Extractor turns a blob into a format-specific metadata record.
type Extractor interface {
	Extract(ctx context.Context, blob *models.FileBlob) (models.MetadataRecord, error)
}

type Format string

const (
	FormatPDF     Format = "pdf"
	FormatWord    Format = "word"
	FormatSlide   Format = "slide"
	FormatSheet   Format = "sheet"
	FormatImage   Format = "image"
	FormatMedia   Format = "media"
	FormatArchive Format = "archive"
)

var formatTable = map[string]Format{
	"pdf":  FormatPDF,
	"docx": FormatWord,
	"pptx": FormatSlide,
	"xlsx": FormatSheet,
	"xlsm": FormatSheet,
	"jpg":  FormatImage,
	"jpeg": FormatImage,
	"png":  FormatImage,
	"webp": FormatImage,
	"bmp":  FormatImage,
	"tiff": FormatImage,
	"heic": FormatImage,
	"heif": FormatImage,
	"mp3":  FormatMedia,
	"wav":  FormatMedia,
	"aac":  FormatMedia,
	"mp4":  FormatMedia,
	"mkv":  FormatMedia,
	"mov":  FormatMedia,
	"zip":  FormatArchive,
	"rar":  FormatArchive,
}

// Extension returns the lowercased final dot-separated segment of filename.
// A name without a dot is returned whole.
func Extension(filename string) string {
	if i := strings.LastIndex(filename, "."); i >= 0 {
		filename = filename[i+1:]
	}
	return strings.ToLower(filename)
}

// FormatFor looks up the format family of a lowercase extension.
func FormatFor(ext string) (Format, bool) {
	f, ok := formatTable[ext]
	return f, ok
}

// Dispatcher routes blobs to extractors by extension. It holds no mutable state
// after construction.
type Dispatcher struct {
	extractors map[Format]Extractor
}

func NewDispatcher(images, media Extractor) *Dispatcher {
	return &Dispatcher{
		extractors: map[Format]Extractor{
			FormatPDF:     PDFExtractor{},
			FormatWord:    DocumentExtractor{Kind: models.DocumentWord},
			FormatSlide:   DocumentExtractor{Kind: models.DocumentSlide},
			FormatSheet:   DocumentExtractor{Kind: models.DocumentSheet},
			FormatImage:   images,
			FormatMedia:   media,
			FormatArchive: ArchiveExtractor{},
		},
	}
}

// Lookup returns the extractor for ext, or an *UnsupportedFormatError.
func (d *Dispatcher) Lookup(ext string) (Extractor, error) {
	f, ok := FormatFor(ext)
	if !ok {
		return nil, &UnsupportedFormatError{Ext: ext}
	}
	ex := d.extractors[f]
	if ex == nil {
		return nil, &UnsupportedFormatError{Ext: ext}
	}
	return ex, nil
}

// Extract runs ex on blob. Panics raised by third-party parsers on hostile input are
// converted into a malformed_container error.
func Extract(ctx context.Context, ex Extractor, blob *models.FileBlob) (rec models.MetadataRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			rec = nil
			err = malformed("parse", fmt.Errorf("parser panic: %v", r))
		}
	}()
	return ex.Extract(ctx, blob)
}
