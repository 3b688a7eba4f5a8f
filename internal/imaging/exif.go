package imaging

import (
	"bytes"
	"errors"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

var exifHeader = []byte("Exif\x00\x00")

var errNoEXIF = errors.New("no EXIF block")

// primaryFields are the IFD0 tags; they are reported under the "Image" group.
var primaryFields = map[exif.FieldName]bool{
	exif.ImageWidth:                       true,
	exif.ImageLength:                      true,
	exif.BitsPerSample:                    true,
	exif.Compression:                      true,
	exif.PhotometricInterpretation:        true,
	exif.Orientation:                      true,
	exif.SamplesPerPixel:                  true,
	exif.PlanarConfiguration:              true,
	exif.YCbCrSubSampling:                 true,
	exif.YCbCrPositioning:                 true,
	exif.XResolution:                      true,
	exif.YResolution:                      true,
	exif.ResolutionUnit:                   true,
	exif.DateTime:                         true,
	exif.ImageDescription:                 true,
	exif.Make:                             true,
	exif.Model:                            true,
	exif.Software:                         true,
	exif.Artist:                           true,
	exif.Copyright:                        true,
	exif.ExifIFDPointer:                   true,
	exif.GPSInfoIFDPointer:                true,
	exif.InteroperabilityIFDPointer:       true,
	exif.ThumbJPEGInterchangeFormat:       true,
	exif.ThumbJPEGInterchangeFormatLength: true,
}

// exifPayload locates the bytes goexif can decode for the given container.
func exifPayload(format string, data []byte) ([]byte, error) {
	switch format {
	case "jpeg", "tiff":
		return data, nil
	case "png":
		chunks, _ := pngChunks(data)
		for _, c := range chunks {
			if c.Type == "eXIf" {
				return bytes.TrimPrefix(c.Data, exifHeader), nil
			}
		}
		return nil, errNoEXIF
	case "webp":
		chunks, _ := riffChunks(data)
		for _, c := range chunks {
			if c.Type == "EXIF" {
				return bytes.TrimPrefix(c.Data, exifHeader), nil
			}
		}
		return nil, errNoEXIF
	default:
		if i := bytes.Index(data, exifHeader); i >= 0 {
			return data[i+len(exifHeader):], nil
		}
		return nil, errNoEXIF
	}
}

// DecodeEXIF parses the EXIF block embedded in data.
func DecodeEXIF(format string, data []byte) (*exif.Exif, error) {
	payload, err := exifPayload(format, data)
	if err != nil {
		return nil, err
	}
	return exif.Decode(bytes.NewReader(payload))
}

type walkFunc func(exif.FieldName, *tiff.Tag) error

func (f walkFunc) Walk(name exif.FieldName, tag *tiff.Tag) error { return f(name, tag) }

// EXIFTags flattens x into "<group> <field>" keys, e.g. "Image Model" or "GPS GPSLatitude".
func EXIFTags(x *exif.Exif) map[string]string {
	tags := map[string]string{}
	if x == nil {
		return tags
	}
	_ = x.Walk(walkFunc(func(name exif.FieldName, tag *tiff.Tag) error {
		tags[fieldGroup(name)+" "+string(name)] = tagValue(tag)
		return nil
	}))
	return tags
}

func fieldGroup(name exif.FieldName) string {
	switch {
	case primaryFields[name]:
		return "Image"
	case name == exif.InteroperabilityIndex:
		return "Interoperability"
	case strings.HasPrefix(string(name), "GPS"):
		return "GPS"
	default:
		return "EXIF"
	}
}

func tagValue(tag *tiff.Tag) string {
	if tag.Format() == tiff.StringVal {
		if s, err := tag.StringVal(); err == nil {
			return strings.TrimSpace(strings.TrimRight(s, "\x00"))
		}
	}
	return tag.String()
}
