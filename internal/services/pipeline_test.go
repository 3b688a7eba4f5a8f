package services

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/BerylCAtieno/file-forensics-api/internal/cache"
	"github.com/BerylCAtieno/file-forensics-api/internal/extractor"
	"github.com/BerylCAtieno/file-forensics-api/internal/imaging"
	"github.com/BerylCAtieno/file-forensics-api/internal/models"
	"github.com/BerylCAtieno/file-forensics-api/internal/utils"
)

type mapCache struct {
	mu    sync.Mutex
	items map[string]*models.ExtractionResult
	hits  int
	sets  int
}

func (c *mapCache) Get(_ context.Context, key string) (*models.ExtractionResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.items[key]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	c.hits++
	cp := *r
	return &cp, nil
}

func (c *mapCache) Set(_ context.Context, key string, r *models.ExtractionResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.items == nil {
		c.items = map[string]*models.ExtractionResult{}
	}
	c.items[key] = r
	c.sets++
	return nil
}

func testLogger() *utils.Logger {
	return utils.NewLoggerWithWriter(io.Discard, "error")
}

func newTestPipeline(c cache.Cache) *Pipeline {
	logger := testLogger()
	d := extractor.NewDispatcher(
		imaging.NewEngine(nil, imaging.NativeTextProbe{}, 1_000_000, logger),
		extractor.NewMediaExtractor(extractor.NativeProber{}),
	)
	return NewPipeline(d, c, logger)
}

func zipBytes(t *testing.T, names ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, n := range names {
		w, err := zw.Create(n)
		if err != nil {
			t.Fatalf("create %s: %v", n, err)
		}
		w.Write([]byte(n))
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return buf.Bytes()
}

func blob(name string, data []byte) *models.FileBlob {
	return &models.FileBlob{ID: utils.GenerateID(), Data: data, Filename: name, Ext: extractor.Extension(name)}
}

func TestAnalyzeUnsupportedHasNoHashes(t *testing.T) {
	res := newTestPipeline(nil).Analyze(context.Background(), blob("notes.txt", []byte("hello")))

	if res.Error != "Unsupported file type: txt" {
		t.Errorf("Error = %q", res.Error)
	}
	if res.ErrorKind != string(extractor.KindUnsupportedFormat) {
		t.Errorf("ErrorKind = %q", res.ErrorKind)
	}
	if res.Hashes != nil {
		t.Errorf("unsupported files must not be hashed")
	}
	if res.DetectedType != "txt" {
		t.Errorf("DetectedType = %q", res.DetectedType)
	}
}

func TestAnalyzeFailureStillHashes(t *testing.T) {
	data := []byte("this is not a pdf")
	res := newTestPipeline(nil).Analyze(context.Background(), blob("broken.pdf", data))

	if res.Succeeded() {
		t.Fatalf("expected failure")
	}
	if res.ErrorKind != string(extractor.KindMalformedContainer) {
		t.Errorf("ErrorKind = %q", res.ErrorKind)
	}
	sum := sha256.Sum256(data)
	if res.Hashes == nil || res.Hashes.SHA256 != hex.EncodeToString(sum[:]) {
		t.Errorf("Hashes = %+v", res.Hashes)
	}
	if res.OriginGuess != "" {
		t.Errorf("failed extractions carry no origin guess, got %q", res.OriginGuess)
	}
}

func TestAnalyzeArchive(t *testing.T) {
	res := newTestPipeline(nil).Analyze(context.Background(), blob("Bundle.ZIP", zipBytes(t, "a.txt", "b.txt")))

	if !res.Succeeded() {
		t.Fatalf("unexpected error: %s", res.Error)
	}
	if res.Kind != models.KindArchive {
		t.Errorf("Kind = %q", res.Kind)
	}
	if got := len(res.Record.(*models.ArchiveListing).Entries); got != 2 {
		t.Errorf("entries = %d", got)
	}
	if res.OriginGuess != "Archive file — may contain embedded metadata" {
		t.Errorf("OriginGuess = %q", res.OriginGuess)
	}
}

func TestAnalyzeUsesCache(t *testing.T) {
	c := &mapCache{}
	p := newTestPipeline(c)
	data := zipBytes(t, "a.txt")

	first := p.Analyze(context.Background(), blob("first.zip", data))
	second := p.Analyze(context.Background(), blob("second.zip", data))

	if c.sets != 1 || c.hits != 1 {
		t.Errorf("sets=%d hits=%d, want 1 and 1", c.sets, c.hits)
	}
	if second.Filename != "second.zip" {
		t.Errorf("cached result should carry the new filename, got %q", second.Filename)
	}
	if second.Hashes.SHA256 != first.Hashes.SHA256 {
		t.Errorf("hash mismatch on cached result")
	}
}

func TestAnalyzeDoesNotCacheFailures(t *testing.T) {
	c := &mapCache{}
	p := newTestPipeline(c)
	p.Analyze(context.Background(), blob("bad.zip", []byte("garbage")))

	if c.sets != 0 {
		t.Errorf("failures must not be cached")
	}
}

type failingCache struct{}

func (failingCache) Get(context.Context, string) (*models.ExtractionResult, error) {
	return nil, errors.New("connection refused")
}

func (failingCache) Set(context.Context, string, *models.ExtractionResult) error {
	return errors.New("connection refused")
}

func TestAnalyzeSurvivesCacheOutage(t *testing.T) {
	res := newTestPipeline(failingCache{}).Analyze(context.Background(), blob("a.zip", zipBytes(t, "x")))
	if !res.Succeeded() {
		t.Errorf("cache errors must not fail extraction: %s", res.Error)
	}
}

func TestAnalyzeZeroBytePDF(t *testing.T) {
	res := newTestPipeline(nil).Analyze(context.Background(), blob("empty.pdf", nil))

	if res.Succeeded() || res.Record != nil {
		t.Fatalf("zero-byte pdf must fail, got %+v", res)
	}
	if res.Hashes == nil {
		t.Fatalf("hashes missing")
	}
	if res.Hashes.MD5 != "d41d8cd98f00b204e9800998ecf8427e" {
		t.Errorf("MD5 = %s", res.Hashes.MD5)
	}
	if res.Hashes.SHA256 != "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855" {
		t.Errorf("SHA256 = %s", res.Hashes.SHA256)
	}
}
