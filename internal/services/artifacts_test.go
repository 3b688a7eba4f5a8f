package services

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/BerylCAtieno/file-forensics-api/internal/config"
	"github.com/BerylCAtieno/file-forensics-api/internal/models"
	"github.com/BerylCAtieno/file-forensics-api/internal/storage"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestPipelinePublishesArtifactRoute(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}
	cfg := &config.Config{
		TextChunkProbe: "native",
		MediaProber:    "native",
		ToolTimeout:    time.Second,
		MaxImagePixels: 1_000_000,
	}
	p, err := NewPipelineFromConfig(cfg, store, nil, testLogger())
	if err != nil {
		t.Fatalf("NewPipelineFromConfig: %v", err)
	}
	svc := NewService(p, nil, store, testLogger())

	b := blob("shot.png", pngBytes(t))
	res := p.Analyze(context.Background(), b)
	img, ok := res.Record.(*models.ImageForensics)
	if !ok {
		t.Fatalf("record = %T, error %q", res.Record, res.Error)
	}

	want := "/api/v1/artifacts/ela/" + b.ID + ".png"
	if img.ELAArtifactPath == nil || *img.ELAArtifactPath != want {
		t.Fatalf("ELAArtifactPath = %v, want %s", img.ELAArtifactPath, want)
	}
	if strings.Contains(*img.ELAArtifactPath, dir) {
		t.Errorf("artifact path leaks storage location: %s", *img.ELAArtifactPath)
	}

	data, err := svc.GetArtifact(context.Background(), strings.TrimPrefix(*img.ELAArtifactPath, ArtifactRoute))
	if err != nil {
		t.Fatalf("GetArtifact: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("artifact is not a PNG: %v", err)
	}
}

func TestPipelineWithoutStoreSkipsELA(t *testing.T) {
	cfg := &config.Config{TextChunkProbe: "native", MediaProber: "native", ToolTimeout: time.Second, MaxImagePixels: 1_000_000}
	p, err := NewPipelineFromConfig(cfg, nil, nil, testLogger())
	if err != nil {
		t.Fatalf("NewPipelineFromConfig: %v", err)
	}

	res := p.Analyze(context.Background(), blob("shot.png", pngBytes(t)))
	img, ok := res.Record.(*models.ImageForensics)
	if !ok {
		t.Fatalf("record = %T", res.Record)
	}
	if img.ELAArtifactPath != nil {
		t.Errorf("ELAArtifactPath = %s, want nil", *img.ELAArtifactPath)
	}
}
