package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// FileBlob is an uploaded file held in memory for the lifetime of one request.
type FileBlob struct {
	// ID is unique per request; temporary paths and artifact keys derive from it,
	// never from Filename.
	ID       string
	Data     []byte
	Filename string
	Ext      string
}

type HashSet struct {
	MD5    string `json:"md5"`
	SHA1   string `json:"sha1"`
	SHA256 string `json:"sha256"`
	SHA512 string `json:"sha512"`
}

// ExtractionResult is the outcome of analysing one file. Hashes are set whenever the
// file could be read, whether or not extraction succeeded.
type ExtractionResult struct {
	Filename     string         `json:"filename"`
	DetectedType string         `json:"detected_type"`
	Hashes       *HashSet       `json:"hashes,omitempty"`
	Kind         RecordKind     `json:"kind,omitempty"`
	Record       MetadataRecord `json:"record,omitempty"`
	OriginGuess  string         `json:"origin_guess,omitempty"`
	Error        string         `json:"error,omitempty"`
	ErrorKind    string         `json:"error_kind,omitempty"`
}

// Succeeded reports whether the extractor produced a record.
func (r *ExtractionResult) Succeeded() bool {
	return r.Error == "" && r.Record != nil
}

// UnmarshalJSON restores the concrete MetadataRecord from the kind tag.
func (r *ExtractionResult) UnmarshalJSON(data []byte) error {
	type alias ExtractionResult
	aux := struct {
		*alias
		Record json.RawMessage `json:"record,omitempty"`
	}{alias: (*alias)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.Record) == 0 || string(aux.Record) == "null" {
		r.Record = nil
		return nil
	}

	rec, err := NewRecord(r.Kind)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(aux.Record, rec); err != nil {
		return fmt.Errorf("decode %s record: %w", r.Kind, err)
	}
	r.Record = rec
	return nil
}

// Report is the response body of an extraction request.
type Report struct {
	ID        string            `json:"id"`
	File      string            `json:"file"`
	Type      string            `json:"type"`
	Metadata  *ExtractionResult `json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
}

// StoredReport is a persisted report row.
type StoredReport struct {
	ID           string    `db:"id"`
	Filename     string    `db:"filename"`
	DetectedType string    `db:"detected_type"`
	SHA256       string    `db:"sha256"`
	Result       string    `db:"result"`
	CreatedAt    time.Time `db:"created_at"`
}

type UploadRequest struct {
	File     []byte
	Filename string
}
