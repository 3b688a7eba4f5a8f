package extractor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/BerylCAtieno/file-forensics-api/internal/models"
	"github.com/BerylCAtieno/file-forensics-api/internal/storage"
)

// FFProbe runs the ffprobe binary against a copy of the blob staged in a
// per-request workspace.
type FFProbe struct {
	Binary       string
	WorkspaceDir string
	Timeout      time.Duration
}

func (p *FFProbe) Name() string { return "ffprobe" }

func (p *FFProbe) binary() string {
	if p.Binary == "" {
		return "ffprobe"
	}
	return p.Binary
}

// Available reports whether the binary can be found.
func (p *FFProbe) Available() bool {
	_, err := exec.LookPath(p.binary())
	return err == nil
}

type ffprobeOutput struct {
	Streams []ffprobeStream `json:"streams"`
	Format  struct {
		FormatName string            `json:"format_name"`
		LongName   string            `json:"format_long_name"`
		Duration   string            `json:"duration"`
		Size       string            `json:"size"`
		BitRate    string            `json:"bit_rate"`
		Tags       map[string]string `json:"tags"`
	} `json:"format"`
}

type ffprobeStream struct {
	Index      int               `json:"index"`
	CodecName  string            `json:"codec_name"`
	CodecType  string            `json:"codec_type"`
	Duration   string            `json:"duration"`
	Width      int               `json:"width"`
	Height     int               `json:"height"`
	SampleRate string            `json:"sample_rate"`
	Channels   int               `json:"channels"`
	BitRate    string            `json:"bit_rate"`
	Tags       map[string]string `json:"tags"`
}

func (p *FFProbe) Probe(ctx context.Context, blob *models.FileBlob) ([]models.TrackRecord, error) {
	bin, err := exec.LookPath(p.binary())
	if err != nil {
		return nil, NewError(KindExternalTool, "probe media", err)
	}

	ws, err := storage.AcquireWorkspace(p.WorkspaceDir, blob.ID)
	if err != nil {
		return nil, NewError(KindIO, "stage media", err)
	}
	defer ws.Release()

	path, err := ws.WriteFile("input."+blob.Ext, blob.Data)
	if err != nil {
		return nil, NewError(KindIO, "stage media", err)
	}

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, bin,
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	cmd.WaitDelay = time.Second
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			msg := strings.TrimSpace(string(exitErr.Stderr))
			return nil, NewError(KindDecode, "probe media", fmt.Errorf("ffprobe rejected input: %s", msg))
		}
		return nil, NewError(KindExternalTool, "probe media", err)
	}

	var parsed ffprobeOutput
	if err := json.Unmarshal(out, &parsed); err != nil {
		return nil, NewError(KindExternalTool, "probe media", fmt.Errorf("failed to parse ffprobe output: %w", err))
	}
	return parsed.tracks(), nil
}

func (o *ffprobeOutput) tracks() []models.TrackRecord {
	general := models.TrackRecord{
		Type:       "General",
		Codec:      o.Format.FormatName,
		Duration:   o.Format.Duration,
		Properties: nonEmpty(map[string]string{"format_long_name": o.Format.LongName, "size": o.Format.Size, "bit_rate": o.Format.BitRate}),
		Tags:       o.Format.Tags,
	}
	tracks := []models.TrackRecord{general}

	for _, s := range o.Streams {
		props := map[string]string{"index": fmt.Sprint(s.Index), "sample_rate": s.SampleRate, "bit_rate": s.BitRate}
		if s.Width > 0 {
			props["width"] = fmt.Sprint(s.Width)
			props["height"] = fmt.Sprint(s.Height)
		}
		if s.Channels > 0 {
			props["channels"] = fmt.Sprint(s.Channels)
		}
		tracks = append(tracks, models.TrackRecord{
			Type:       trackType(s.CodecType),
			Codec:      s.CodecName,
			Duration:   s.Duration,
			Properties: nonEmpty(props),
			Tags:       s.Tags,
		})
	}
	return tracks
}

func trackType(codecType string) string {
	switch codecType {
	case "video":
		return "Video"
	case "audio":
		return "Audio"
	case "subtitle":
		return "Text"
	case "data":
		return "Other"
	case "":
		return "Unknown"
	default:
		return strings.ToUpper(codecType[:1]) + codecType[1:]
	}
}

func nonEmpty(m map[string]string) map[string]string {
	for k, v := range m {
		if v == "" {
			delete(m, k)
		}
	}
	if len(m) == 0 {
		return nil
	}
	return m
}
