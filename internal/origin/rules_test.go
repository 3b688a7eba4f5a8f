package origin

import (
	"testing"

	"github.com/BerylCAtieno/file-forensics-api/internal/models"
)

func TestDocumentRules(t *testing.T) {
	tests := []struct {
		author string
		want   string
	}{
		{"Alice", "User-generated document"},
		{"", "Downloaded / metadata stripped"},
		{"   ", "Downloaded / metadata stripped"},
	}

	for _, tt := range tests {
		got := Guess(&models.DocumentProperties{Author: tt.author})
		if got != tt.want {
			t.Errorf("author %q: got %q, want %q", tt.author, got, tt.want)
		}
	}
}

func TestPDFRules(t *testing.T) {
	tests := []struct {
		name string
		meta map[string]string
		want string
	}{
		{"microsoft", map[string]string{"Producer": "Microsoft® Word for Microsoft 365"}, "Likely from MS Word / Office"},
		{"adobe", map[string]string{"Producer": "ADOBE PDF Library 15.0"}, "Likely from Adobe PDF / Scanner"},
		{"other", map[string]string{"Producer": "LibreOffice 7.5"}, "Unknown producer"},
		{"empty producer", map[string]string{"Producer": ""}, "Unknown producer"},
		{"missing", map[string]string{"Title": "x"}, "No metadata available"},
		{"nil map", nil, "No metadata available"},
	}

	for _, tt := range tests {
		got := Guess(&models.PdfInfo{RawMetadata: tt.meta})
		if got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestArchiveRules(t *testing.T) {
	got := Guess(&models.ArchiveListing{})
	if got != "Archive file — may contain embedded metadata" {
		t.Fatalf("unexpected archive guess %q", got)
	}
}

func TestMediaRules(t *testing.T) {
	iphone := &models.MediaInfo{Tracks: []models.TrackRecord{
		{Type: "General", Tags: map[string]string{"com.apple.quicktime.model": "iPhone 13 Pro"}},
	}}
	android := &models.MediaInfo{Tracks: []models.TrackRecord{
		{Type: "General"},
		{Type: "Video", Tags: map[string]string{"handler_name": "Android VideoHandle"}},
	}}
	lower := &models.MediaInfo{Tracks: []models.TrackRecord{
		{Type: "General", Tags: map[string]string{"encoder": "iphone"}},
	}}

	if got := Guess(iphone); got != "Likely recorded on an iPhone" {
		t.Errorf("iphone: got %q", got)
	}
	if got := Guess(android); got != "Android device recording" {
		t.Errorf("android: got %q", got)
	}
	if got := Guess(lower); got != Unknown {
		t.Errorf("lowercase match should not count, got %q", got)
	}
	if got := Guess(&models.MediaInfo{}); got != Unknown {
		t.Errorf("no tracks: got %q", got)
	}
}

func TestImageRules(t *testing.T) {
	tests := []struct {
		name string
		exif map[string]string
		want string
	}{
		{"iphone", map[string]string{"Image Model": "iPhone 12"}, "Likely captured on an iPhone"},
		{"samsung", map[string]string{"Image Model": "SAMSUNG SM-G991B"}, "Likely captured on a Samsung device"},
		{"camera", map[string]string{"Image Model": "Canon EOS 5D"}, "Captured using a camera"},
		{"empty", map[string]string{}, "Likely screenshot or metadata-stripped social media upload"},
		{"nil", nil, "Likely screenshot or metadata-stripped social media upload"},
		{"other tags", map[string]string{"Image Software": "GIMP"}, Unknown},
	}

	for _, tt := range tests {
		got := Guess(&models.ImageForensics{EXIF: tt.exif})
		if got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestTableFirstMatchWins(t *testing.T) {
	table := Table[int]{
		{Name: "positive", Match: func(n int) bool { return n > 0 }, Guess: "positive"},
		{Name: "big", Match: func(n int) bool { return n > 100 }, Guess: "big"},
	}
	if got := table.Evaluate(500); got != "positive" {
		t.Errorf("got %q, want first rule", got)
	}
	if got := table.Evaluate(-1); got != Unknown {
		t.Errorf("got %q, want fallback", got)
	}
}

func TestGuessUnknownRecord(t *testing.T) {
	if got := Guess(nil); got != Unknown {
		t.Fatalf("got %q", got)
	}
}
