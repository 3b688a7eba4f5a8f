// Package origin maps extracted metadata to a provenance guess using ordered rule tables.
// The first matching rule wins; when nothing matches the guess is Unknown.
package origin

import (
	"encoding/json"
	"strings"

	"github.com/BerylCAtieno/file-forensics-api/internal/models"
)

const Unknown = "Unknown"

type Rule[T any] struct {
	Name  string
	Match func(T) bool
	Guess string
}

type Table[T any] []Rule[T]

// Evaluate returns the guess of the first rule whose predicate holds.
func (t Table[T]) Evaluate(v T) string {
	for _, r := range t {
		if r.Match(v) {
			return r.Guess
		}
	}
	return Unknown
}

var DocumentRules = Table[*models.DocumentProperties]{
	{
		Name:  "author-present",
		Match: func(d *models.DocumentProperties) bool { return strings.TrimSpace(d.Author) != "" },
		Guess: "User-generated document",
	},
	{
		Name:  "author-missing",
		Match: func(d *models.DocumentProperties) bool { return true },
		Guess: "Downloaded / metadata stripped",
	},
}

var PDFRules = Table[*models.PdfInfo]{
	{
		Name:  "producer-microsoft",
		Match: producerContains("microsoft"),
		Guess: "Likely from MS Word / Office",
	},
	{
		Name:  "producer-adobe",
		Match: producerContains("adobe"),
		Guess: "Likely from Adobe PDF / Scanner",
	},
	{
		Name: "producer-other",
		Match: func(p *models.PdfInfo) bool {
			_, ok := p.RawMetadata["Producer"]
			return ok
		},
		Guess: "Unknown producer",
	},
	{
		Name:  "producer-missing",
		Match: func(p *models.PdfInfo) bool { return true },
		Guess: "No metadata available",
	},
}

func producerContains(needle string) func(*models.PdfInfo) bool {
	return func(p *models.PdfInfo) bool {
		prod, ok := p.RawMetadata["Producer"]
		return ok && strings.Contains(strings.ToLower(prod), needle)
	}
}

var ArchiveRules = Table[*models.ArchiveListing]{
	{
		Name:  "archive",
		Match: func(*models.ArchiveListing) bool { return true },
		Guess: "Archive file — may contain embedded metadata",
	},
}

var MediaRules = Table[*models.MediaInfo]{
	{
		Name:  "iphone",
		Match: trackTextContains("iPhone"),
		Guess: "Likely recorded on an iPhone",
	},
	{
		Name:  "android",
		Match: trackTextContains("Android"),
		Guess: "Android device recording",
	},
}

// trackTextContains matches case-sensitively against each track's serialized form.
func trackTextContains(needle string) func(*models.MediaInfo) bool {
	return func(m *models.MediaInfo) bool {
		for _, tr := range m.Tracks {
			b, err := json.Marshal(tr)
			if err != nil {
				continue
			}
			if strings.Contains(string(b), needle) {
				return true
			}
		}
		return false
	}
}

const modelTag = "Image Model"

var ImageRules = Table[*models.ImageForensics]{
	{
		Name:  "model-iphone",
		Match: modelContains("iphone"),
		Guess: "Likely captured on an iPhone",
	},
	{
		Name:  "model-samsung",
		Match: modelContains("samsung"),
		Guess: "Likely captured on a Samsung device",
	},
	{
		Name: "model-present",
		Match: func(img *models.ImageForensics) bool {
			_, ok := img.EXIF[modelTag]
			return ok
		},
		Guess: "Captured using a camera",
	},
	{
		Name:  "exif-empty",
		Match: func(img *models.ImageForensics) bool { return len(img.EXIF) == 0 },
		Guess: "Likely screenshot or metadata-stripped social media upload",
	},
}

func modelContains(needle string) func(*models.ImageForensics) bool {
	return func(img *models.ImageForensics) bool {
		model, ok := img.EXIF[modelTag]
		return ok && strings.Contains(strings.ToLower(model), needle)
	}
}

// Guess classifies any record with its format's rule table.
func Guess(rec models.MetadataRecord) string {
	switch r := rec.(type) {
	case *models.DocumentProperties:
		return DocumentRules.Evaluate(r)
	case *models.PdfInfo:
		return PDFRules.Evaluate(r)
	case *models.ArchiveListing:
		return ArchiveRules.Evaluate(r)
	case *models.MediaInfo:
		return MediaRules.Evaluate(r)
	case *models.ImageForensics:
		return ImageRules.Evaluate(r)
	default:
		return Unknown
	}
}
