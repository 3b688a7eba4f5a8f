package imaging

import (
	"bytes"
	"encoding/binary"

	"github.com/rwcarlsen/goexif/tiff"

	"github.com/BerylCAtieno/file-forensics-api/internal/models"
)

const (
	iccProfileTag   = 0x8773
	bmpV5HeaderSize = 124
	bmpEmbeddedCS   = 0x4D424544 // 'MBED'
)

var iccMarker = []byte("ICC_PROFILE\x00")

// ICCStatus reports whether the container carries an embedded color profile.
// Error means the container structure could not be walked.
func ICCStatus(format string, data []byte) models.ICCStatus {
	var (
		found bool
		ok    bool
	)
	switch format {
	case "jpeg":
		found, ok = jpegHasICC(data)
	case "png":
		found, ok = hasChunk(pngChunks, data, "iCCP")
	case "webp":
		found, ok = hasChunk(riffChunks, data, "ICCP")
	case "tiff":
		found, ok = tiffHasICC(data)
	case "bmp":
		found, ok = bmpHasICC(data)
	case "heic":
		found, ok = heifHasICC(data), true
	case "gif":
		found, ok = bytes.Contains(data, []byte("ICCRGBG1012")), true
	}

	switch {
	case !ok:
		return models.ICCError
	case found:
		return models.ICCPresent
	default:
		return models.ICCNone
	}
}

// jpegHasICC walks the marker segments up to the start of scan looking for an
// APP2 ICC_PROFILE segment.
func jpegHasICC(data []byte) (found, ok bool) {
	if len(data) < 4 || data[0] != 0xFF || data[1] != 0xD8 {
		return false, false
	}
	pos := 2
	for pos+4 <= len(data) {
		if data[pos] != 0xFF {
			return false, false
		}
		marker := data[pos+1]
		switch {
		case marker == 0xFF:
			pos++
			continue
		case marker == 0x01 || (marker >= 0xD0 && marker <= 0xD7):
			pos += 2
			continue
		case marker == 0xDA || marker == 0xD9:
			return false, true
		}

		length := int(binary.BigEndian.Uint16(data[pos+2:]))
		if length < 2 || pos+2+length > len(data) {
			return false, false
		}
		body := data[pos+4 : pos+2+length]
		if marker == 0xE2 && bytes.HasPrefix(body, iccMarker) {
			return true, true
		}
		pos += 2 + length
	}
	return false, true
}

func hasChunk(split func([]byte) ([]chunk, error), data []byte, typ string) (found, ok bool) {
	chunks, err := split(data)
	for _, c := range chunks {
		if c.Type == typ {
			return true, true
		}
	}
	return false, err == nil
}

func tiffHasICC(data []byte) (found, ok bool) {
	t, err := tiff.Decode(bytes.NewReader(data))
	if err != nil {
		return false, false
	}
	for _, dir := range t.Dirs {
		for _, tag := range dir.Tags {
			if tag.Id == iccProfileTag {
				return true, true
			}
		}
	}
	return false, true
}

func bmpHasICC(data []byte) (found, ok bool) {
	if len(data) < 18 {
		return false, false
	}
	headerSize := binary.LittleEndian.Uint32(data[14:])
	if headerSize < bmpV5HeaderSize {
		return false, true
	}
	if len(data) < 14+bmpV5HeaderSize {
		return false, false
	}
	csType := binary.LittleEndian.Uint32(data[14+56:])
	profileSize := binary.LittleEndian.Uint32(data[14+112:])
	return csType == bmpEmbeddedCS && profileSize > 0, true
}

// heifHasICC looks for a colr box of type prof or rICC. nclx boxes carry only
// enumerated color parameters.
func heifHasICC(data []byte) bool {
	rest := data
	for {
		i := bytes.Index(rest, []byte("colr"))
		if i < 0 || i+8 > len(rest) {
			return false
		}
		switch string(rest[i+4 : i+8]) {
		case "prof", "rICC":
			return true
		}
		rest = rest[i+4:]
	}
}
