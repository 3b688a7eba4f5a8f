package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"

	_ "image/gif"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	ELAQuality = 90
	ELAScale   = 30
)

// ErrImageTooLarge is returned when the declared dimensions exceed the pixel limit.
var ErrImageTooLarge = errors.New("image exceeds pixel limit")

// ErrorLevelAnalysis re-encodes the image as JPEG at ELAQuality, takes the per-channel
// absolute difference against the original, multiplies it by ELAScale and returns the
// result encoded as PNG. Output is byte-identical for identical input.
//
// The header is checked before decoding: images declaring more than maxPixels pixels
// are rejected with ErrImageTooLarge. A maxPixels of zero or less disables the check.
func ErrorLevelAnalysis(data []byte, maxPixels int64) ([]byte, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image header: %w", err)
	}
	if maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	original := toOpaqueRGBA(src)

	var resavedBuf bytes.Buffer
	if err := jpeg.Encode(&resavedBuf, original, &jpeg.Options{Quality: ELAQuality}); err != nil {
		return nil, fmt.Errorf("re-encode jpeg: %w", err)
	}
	resaved, err := jpeg.Decode(&resavedBuf)
	if err != nil {
		return nil, fmt.Errorf("decode re-encoded jpeg: %w", err)
	}

	b := original.Bounds()
	diff := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			o := original.RGBAAt(x, y)
			r := color.RGBAModel.Convert(resaved.At(x, y)).(color.RGBA)
			diff.SetRGBA(x, y, color.RGBA{
				R: amplify(o.R, r.R),
				G: amplify(o.G, r.G),
				B: amplify(o.B, r.B),
				A: 0xFF,
			})
		}
	}

	var out bytes.Buffer
	if err := png.Encode(&out, diff); err != nil {
		return nil, fmt.Errorf("encode ela png: %w", err)
	}
	return out.Bytes(), nil
}

func amplify(a, b uint8) uint8 {
	d := int(a) - int(b)
	if d < 0 {
		d = -d
	}
	return uint8(min(d*ELAScale, 0xFF))
}

// toOpaqueRGBA drops the alpha channel, keeping the straight (non-premultiplied) color.
func toOpaqueRGBA(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			dst.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF})
		}
	}
	return dst
}
