package imaging

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/BerylCAtieno/file-forensics-api/internal/extractor"
)

// fakeTool writes an executable shell script standing in for an external binary.
func fakeTool(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported")
	}
	path := filepath.Join(t.TempDir(), "identify")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestIdentifyKeepsTextChunkLines(t *testing.T) {
	bin := fakeTool(t, `cat >/dev/null
echo "Image: -"
echo "  Properties:"
echo "    tEXt: Comment: hello"
echo "    date:create: 2024-01-01"
echo "    iTXt: XML:com.adobe.xmp"
echo "    zTXt: Author"`)

	p := &IdentifyProbe{Binary: bin, Timeout: 5 * time.Second}
	got, err := p.Probe(context.Background(), makePNG(t, 2, 2))
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	want := []string{"tEXt: Comment: hello", "iTXt: XML:com.adobe.xmp", "zTXt: Author"}
	if len(got) != len(want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestIdentifyNoTextChunks(t *testing.T) {
	bin := fakeTool(t, `cat >/dev/null
echo "Image: -"`)

	got, err := (&IdentifyProbe{Binary: bin}).Probe(context.Background(), makePNG(t, 2, 2))
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %q, want empty list", got)
	}
}

func TestIdentifyMissingBinary(t *testing.T) {
	p := &IdentifyProbe{Binary: filepath.Join(t.TempDir(), "absent")}
	_, err := p.Probe(context.Background(), makePNG(t, 2, 2))
	if kind := extractor.KindOf(err); kind != extractor.KindExternalTool {
		t.Errorf("kind = %s, want %s (err %v)", kind, extractor.KindExternalTool, err)
	}
}

func TestIdentifyFailureIsExternalTool(t *testing.T) {
	bin := fakeTool(t, `cat >/dev/null
echo "identify: no decode delegate" >&2
exit 1`)

	_, err := (&IdentifyProbe{Binary: bin}).Probe(context.Background(), []byte("junk"))
	if kind := extractor.KindOf(err); kind != extractor.KindExternalTool {
		t.Errorf("kind = %s, want %s (err %v)", kind, extractor.KindExternalTool, err)
	}
}

func TestIdentifyTimeout(t *testing.T) {
	bin := fakeTool(t, `exec sleep 5`)

	p := &IdentifyProbe{Binary: bin, Timeout: 100 * time.Millisecond}
	start := time.Now()
	_, err := p.Probe(context.Background(), nil)
	if kind := extractor.KindOf(err); kind != extractor.KindExternalTool {
		t.Errorf("kind = %s, want %s (err %v)", kind, extractor.KindExternalTool, err)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("Probe took %v, timeout not enforced", elapsed)
	}
}
