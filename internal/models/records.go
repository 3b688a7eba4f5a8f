package models

import "fmt"

type RecordKind string

const (
	KindDocument RecordKind = "document"
	KindPDF      RecordKind = "pdf"
	KindArchive  RecordKind = "archive"
	KindMedia    RecordKind = "media"
	KindImage    RecordKind = "image"
)

// MetadataRecord is implemented by one record type per format family.
type MetadataRecord interface {
	RecordKind() RecordKind
}

// NewRecord returns an empty record for kind, used when decoding stored results.
func NewRecord(kind RecordKind) (MetadataRecord, error) {
	switch kind {
	case KindDocument:
		return &DocumentProperties{}, nil
	case KindPDF:
		return &PdfInfo{}, nil
	case KindArchive:
		return &ArchiveListing{}, nil
	case KindMedia:
		return &MediaInfo{}, nil
	case KindImage:
		return &ImageForensics{}, nil
	default:
		return nil, fmt.Errorf("unknown record kind %q", kind)
	}
}

type DocumentKind string

const (
	DocumentWord  DocumentKind = "word"
	DocumentSlide DocumentKind = "slide"
	DocumentSheet DocumentKind = "sheet"
)

type DocumentProperties struct {
	Container      DocumentKind      `json:"container"`
	Author         string            `json:"author"`
	Title          string            `json:"title"`
	Created        string            `json:"created"`
	Modified       string            `json:"modified"`
	LastModifiedBy string            `json:"last_modified_by"`
	Revision       string            `json:"revision"`
	Custom         map[string]string `json:"custom,omitempty"`
	SlideCount     *int              `json:"slide_count,omitempty"`
	Sheets         []string          `json:"sheets,omitempty"`
}

func (*DocumentProperties) RecordKind() RecordKind { return KindDocument }

type PdfInfo struct {
	Encrypted   bool              `json:"encrypted"`
	Pages       int               `json:"pages"`
	Fonts       []string          `json:"fonts"`
	RawMetadata map[string]string `json:"raw_metadata"`
}

func (*PdfInfo) RecordKind() RecordKind { return KindPDF }

// Timestamp is a modification time in tuple form: year, month, day, hour, minute, second.
type Timestamp [6]int

type ArchiveEntry struct {
	Name           string    `json:"name"`
	Size           uint64    `json:"size"`
	CompressedSize uint64    `json:"compressed_size"`
	Timestamp      Timestamp `json:"timestamp"`
}

type ArchiveListing struct {
	Format  string         `json:"format"`
	Entries []ArchiveEntry `json:"entries"`
}

func (*ArchiveListing) RecordKind() RecordKind { return KindArchive }

// TrackRecord describes one stream of a media container. The "General" track carries
// container-level fields.
type TrackRecord struct {
	Type       string            `json:"type"`
	Codec      string            `json:"codec,omitempty"`
	Duration   string            `json:"duration,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
	Tags       map[string]string `json:"tags,omitempty"`
}

type MediaInfo struct {
	Prober string        `json:"prober"`
	Tracks []TrackRecord `json:"tracks"`
}

func (*MediaInfo) RecordKind() RecordKind { return KindMedia }

type ICCStatus string

const (
	ICCPresent ICCStatus = "Present"
	ICCNone    ICCStatus = "None"
	ICCError   ICCStatus = "Error"
)

type ImageForensics struct {
	Format             string            `json:"format,omitempty"`
	Width              int               `json:"width,omitempty"`
	Height             int               `json:"height,omitempty"`
	EXIF               map[string]string `json:"exif"`
	PNGTextChunks      []string          `json:"png_text_chunks"`
	ICCProfile         ICCStatus         `json:"icc_profile"`
	GPSLink            *string           `json:"gps_link,omitempty"`
	ELAArtifactPath    *string           `json:"ela_artifact_path,omitempty"`
	ReverseSearchLinks map[string]string `json:"reverse_search_links"`
}

func (*ImageForensics) RecordKind() RecordKind { return KindImage }
