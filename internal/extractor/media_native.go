package extractor

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"

	"github.com/dhowden/tag"

	"github.com/BerylCAtieno/file-forensics-api/internal/models"
)

// NativeProber validates the container signature and reads embedded tags in-process.
// It reports a General track plus, for WAV, the PCM stream description.
type NativeProber struct{}

func (NativeProber) Name() string { return "native" }

func (NativeProber) Probe(_ context.Context, blob *models.FileBlob) ([]models.TrackRecord, error) {
	data := blob.Data
	if !validMediaSignature(blob.Ext, data) {
		return nil, NewError(KindDecode, "probe media", fmt.Errorf("not a valid %s stream", blob.Ext))
	}

	general := models.TrackRecord{
		Type: "General",
		Properties: map[string]string{
			"file_extension": blob.Ext,
			"file_size":      strconv.Itoa(len(data)),
		},
	}
	tracks := []models.TrackRecord{}

	if blob.Ext == "wav" {
		audio, err := parseWAV(data)
		if err != nil {
			return nil, NewError(KindDecode, "probe media", err)
		}
		general.Codec = "Wave"
		general.Duration = audio.Duration
		tracks = append(tracks, audio)
	}

	meta, err := tag.ReadFrom(bytes.NewReader(data))
	switch {
	case errors.Is(err, tag.ErrNoTagsFound):
	case err != nil:
		// The container signature already checked out; unreadable tags only
		// leave the General track without them.
		general.Properties["tag_error"] = err.Error()
	default:
		general.Properties["tag_format"] = string(meta.Format())
		if ft := meta.FileType(); ft != tag.UnknownFileType {
			general.Codec = string(ft)
		}
		general.Tags = tagFields(meta)
	}

	return append([]models.TrackRecord{general}, tracks...), nil
}

func tagFields(m tag.Metadata) map[string]string {
	out := map[string]string{}
	set := func(k, v string) {
		if v != "" {
			out[k] = v
		}
	}
	set("title", m.Title())
	set("album", m.Album())
	set("artist", m.Artist())
	set("album_artist", m.AlbumArtist())
	set("composer", m.Composer())
	set("genre", m.Genre())
	set("comment", m.Comment())
	if y := m.Year(); y > 0 {
		out["year"] = strconv.Itoa(y)
	}

	for k, v := range m.Raw() {
		if _, ok := out[k]; ok {
			continue
		}
		switch val := v.(type) {
		case *tag.Picture:
			out[k] = fmt.Sprintf("<picture %s %d bytes>", val.MIMEType, len(val.Data))
		case []byte:
			out[k] = fmt.Sprintf("<binary %d bytes>", len(val))
		default:
			set(k, fmt.Sprint(val))
		}
	}
	return out
}

func validMediaSignature(ext string, data []byte) bool {
	if len(data) < 12 {
		return false
	}
	switch ext {
	case "wav":
		return string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE"
	case "mp3":
		return string(data[0:3]) == "ID3" || (data[0] == 0xFF && data[1]&0xE0 == 0xE0)
	case "aac":
		return string(data[0:3]) == "ID3" || (data[0] == 0xFF && data[1]&0xF6 == 0xF0)
	case "mp4", "mov":
		switch string(data[4:8]) {
		case "ftyp", "moov", "mdat", "wide", "free", "skip", "pnot":
			return true
		}
		return false
	case "mkv":
		return bytes.HasPrefix(data, []byte{0x1A, 0x45, 0xDF, 0xA3})
	default:
		return false
	}
}

// parseWAV reads the fmt and data chunks of a RIFF/WAVE stream.
func parseWAV(data []byte) (models.TrackRecord, error) {
	var (
		format     uint16
		channels   uint16
		sampleRate uint32
		byteRate   uint32
		bits       uint16
		dataSize   uint32
		haveFmt    bool
	)

	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := binary.LittleEndian.Uint32(data[pos+4 : pos+8])
		body := pos + 8
		switch id {
		case "fmt ":
			if size < 16 || body+16 > len(data) {
				return models.TrackRecord{}, errors.New("truncated WAVE fmt chunk")
			}
			format = binary.LittleEndian.Uint16(data[body:])
			channels = binary.LittleEndian.Uint16(data[body+2:])
			sampleRate = binary.LittleEndian.Uint32(data[body+4:])
			byteRate = binary.LittleEndian.Uint32(data[body+8:])
			bits = binary.LittleEndian.Uint16(data[body+14:])
			haveFmt = true
		case "data":
			dataSize = size
		}
		next := body + int(size) + int(size&1)
		if next <= pos {
			break
		}
		pos = next
	}
	if !haveFmt {
		return models.TrackRecord{}, errors.New("WAVE stream has no fmt chunk")
	}

	track := models.TrackRecord{
		Type:  "Audio",
		Codec: wavCodec(format),
		Properties: map[string]string{
			"channels":        strconv.Itoa(int(channels)),
			"sample_rate":     strconv.Itoa(int(sampleRate)),
			"bits_per_sample": strconv.Itoa(int(bits)),
		},
	}
	if byteRate > 0 {
		track.Duration = strconv.FormatFloat(float64(dataSize)/float64(byteRate), 'f', 3, 64)
	}
	return track, nil
}

func wavCodec(format uint16) string {
	switch format {
	case 1:
		return "PCM"
	case 3:
		return "IEEE float"
	case 6:
		return "A-law"
	case 7:
		return "mu-law"
	case 0xFFFE:
		return "Extensible"
	default:
		return fmt.Sprintf("0x%04x", format)
	}
}
