package imaging

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/klauspost/compress/zlib"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/BerylCAtieno/file-forensics-api/internal/extractor"
)

// maxInflatedText bounds the size of a single decompressed text chunk.
const maxInflatedText = 1 << 20

// TextChunkProbe lists the textual metadata chunks of an image.
type TextChunkProbe interface {
	Probe(ctx context.Context, data []byte) ([]string, error)
}

// SelectTextChunkProbe resolves a TEXT_CHUNK_PROBE setting.
func SelectTextChunkProbe(mode string, timeout time.Duration) (TextChunkProbe, error) {
	switch mode {
	case "", "native":
		return NativeTextProbe{}, nil
	case "identify":
		return &IdentifyProbe{Timeout: timeout}, nil
	default:
		return nil, fmt.Errorf("unknown text chunk probe %q", mode)
	}
}

// NativeTextProbe parses tEXt, zTXt and iTXt chunks of PNG streams in-process.
// Other containers have no text chunks and yield an empty list.
type NativeTextProbe struct{}

func (NativeTextProbe) Probe(_ context.Context, data []byte) ([]string, error) {
	out := []string{}
	if Sniff(data) != "png" {
		return out, nil
	}

	chunks, err := pngChunks(data)
	for _, c := range chunks {
		var (
			desc    string
			descErr error
		)
		switch c.Type {
		case "tEXt":
			desc, descErr = describeTEXt(c.Data)
		case "zTXt":
			desc, descErr = describeZTXt(c.Data)
		case "iTXt":
			desc, descErr = describeITXt(c.Data)
		default:
			continue
		}
		if descErr != nil {
			desc = fmt.Sprintf("%s: <unreadable: %v>", c.Type, descErr)
		}
		out = append(out, desc)
	}
	if err != nil && len(out) == 0 {
		return out, extractor.NewError(extractor.KindDecode, "scan text chunks", err)
	}
	return out, nil
}

func describeTEXt(data []byte) (string, error) {
	key, text, ok := bytes.Cut(data, []byte{0})
	if !ok {
		return "", errors.New("missing keyword separator")
	}
	return fmt.Sprintf("tEXt: %s: %s", latin1(key), latin1(text)), nil
}

func describeZTXt(data []byte) (string, error) {
	key, rest, ok := bytes.Cut(data, []byte{0})
	if !ok || len(rest) < 1 {
		return "", errors.New("missing keyword separator")
	}
	if rest[0] != 0 {
		return "", fmt.Errorf("unknown compression method %d", rest[0])
	}
	text, err := inflate(rest[1:])
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("zTXt: %s: %s", latin1(key), latin1(text)), nil
}

func describeITXt(data []byte) (string, error) {
	key, rest, ok := bytes.Cut(data, []byte{0})
	if !ok || len(rest) < 2 {
		return "", errors.New("missing keyword separator")
	}
	compressed := rest[0] == 1
	rest = rest[2:]

	lang, rest, ok := bytes.Cut(rest, []byte{0})
	if !ok {
		return "", errors.New("missing language tag")
	}
	_, text, ok := bytes.Cut(rest, []byte{0})
	if !ok {
		return "", errors.New("missing translated keyword")
	}
	if compressed {
		var err error
		if text, err = inflate(text); err != nil {
			return "", err
		}
	}
	if !utf8.Valid(text) {
		return "", errors.New("text is not UTF-8")
	}

	if len(lang) > 0 {
		return fmt.Sprintf("iTXt: %s [%s]: %s", latin1(key), lang, text), nil
	}
	return fmt.Sprintf("iTXt: %s: %s", latin1(key), text), nil
}

func inflate(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(io.LimitReader(zr, maxInflatedText))
}

// latin1 decodes ISO 8859-1, the encoding PNG mandates for keywords and tEXt values.
func latin1(b []byte) string {
	decoded, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), b)
	if err != nil {
		return string(b)
	}
	return string(decoded)
}

// IdentifyProbe runs ImageMagick's identify over stdin and keeps the lines that
// mention text chunks.
type IdentifyProbe struct {
	Binary  string
	Timeout time.Duration
}

func (p *IdentifyProbe) Probe(ctx context.Context, data []byte) ([]string, error) {
	bin := p.Binary
	if bin == "" {
		bin = "identify"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return nil, extractor.NewError(extractor.KindExternalTool, "identify", err)
	}

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, path, "-verbose", "-")
	cmd.Stdin = bytes.NewReader(data)
	cmd.WaitDelay = time.Second
	out, err := cmd.Output()
	if err != nil {
		return nil, extractor.NewError(extractor.KindExternalTool, "identify", err)
	}

	chunks := []string{}
	sc := bufio.NewScanner(bytes.NewReader(out))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := sc.Text()
		if strings.Contains(line, "tEXt") || strings.Contains(line, "iTXt") || strings.Contains(line, "zTXt") {
			chunks = append(chunks, strings.TrimSpace(line))
		}
	}
	return chunks, nil
}
