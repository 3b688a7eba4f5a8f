package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/BerylCAtieno/file-forensics-api/internal/models"
)

// PDFExtractor reads the document information dictionary, page count and
// font resource names.
type PDFExtractor struct{}

func (PDFExtractor) Extract(_ context.Context, blob *models.FileBlob) (models.MetadataRecord, error) {
	reader := bytes.NewReader(blob.Data)

	pdfReader, err := pdf.NewReader(reader, int64(len(blob.Data)))
	if errors.Is(err, pdf.ErrInvalidPassword) {
		// The trailer is readable but nothing behind the encryption dictionary is.
		return &models.PdfInfo{
			Encrypted:   true,
			Fonts:       []string{},
			RawMetadata: map[string]string{},
		}, nil
	}
	if err != nil {
		return nil, malformed("open pdf", fmt.Errorf("failed to create PDF reader: %w", err))
	}

	trailer := pdfReader.Trailer()
	info := &models.PdfInfo{
		Encrypted:   trailer.Key("Encrypt").Kind() != pdf.Null,
		Pages:       pdfReader.NumPage(),
		RawMetadata: infoDict(trailer.Key("Info")),
	}

	fonts := make(map[string]struct{})
	for i := 1; i <= info.Pages; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		for _, name := range page.Fonts() {
			fonts[strings.TrimPrefix(name, "/")] = struct{}{}
		}
	}

	info.Fonts = make([]string, 0, len(fonts))
	for name := range fonts {
		info.Fonts = append(info.Fonts, name)
	}
	sort.Strings(info.Fonts)

	return info, nil
}

func infoDict(v pdf.Value) map[string]string {
	out := make(map[string]string)
	if v.Kind() != pdf.Dict {
		return out
	}
	for _, key := range v.Keys() {
		out[strings.TrimPrefix(key, "/")] = valueText(v.Key(key))
	}
	return out
}

func valueText(v pdf.Value) string {
	switch v.Kind() {
	case pdf.Null:
		return ""
	case pdf.String:
		return v.Text()
	case pdf.Name:
		return v.Name()
	default:
		return v.String()
	}
}
