package imaging

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: uint8((x + y) % 256), A: 0xFF})
		}
	}
	return img
}

func makeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, gradient(w, h), &jpeg.Options{Quality: 95}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func makePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, gradient(w, h)); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// withSegment inserts a marker segment directly after the JPEG SOI marker.
func withSegment(jpg []byte, marker byte, body []byte) []byte {
	seg := []byte{0xFF, marker, 0, 0}
	binary.BigEndian.PutUint16(seg[2:], uint16(len(body)+2))
	out := append([]byte{}, jpg[:2]...)
	out = append(out, seg...)
	out = append(out, body...)
	return append(out, jpg[2:]...)
}

// withChunks inserts chunks directly after the PNG IHDR chunk.
func withChunks(p []byte, chunks ...chunk) []byte {
	ihdrEnd := 8 + 8 + 13 + 4
	out := append([]byte{}, p[:ihdrEnd]...)
	for _, c := range chunks {
		hdr := make([]byte, 8)
		binary.BigEndian.PutUint32(hdr, uint32(len(c.Data)))
		copy(hdr[4:], c.Type)
		out = append(out, hdr...)
		out = append(out, c.Data...)
		crc := crc32.NewIEEE()
		crc.Write([]byte(c.Type))
		crc.Write(c.Data)
		out = binary.BigEndian.AppendUint32(out, crc.Sum32())
	}
	return append(out, p[ihdrEnd:]...)
}

// headerOnlyPNG declares a w x h grayscale image but carries no pixel data.
func headerOnlyPNG(w, h uint32) []byte {
	ihdr := binary.BigEndian.AppendUint32(nil, w)
	ihdr = binary.BigEndian.AppendUint32(ihdr, h)
	ihdr = append(ihdr, 8, 0, 0, 0, 0)

	out := []byte("\x89PNG\r\n\x1a\n")
	for _, c := range []chunk{{Type: "IHDR", Data: ihdr}, {Type: "IEND"}} {
		out = binary.BigEndian.AppendUint32(out, uint32(len(c.Data)))
		out = append(out, c.Type...)
		out = append(out, c.Data...)
		crc := crc32.NewIEEE()
		crc.Write([]byte(c.Type))
		crc.Write(c.Data)
		out = binary.BigEndian.AppendUint32(out, crc.Sum32())
	}
	return out
}

func deflate(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write([]byte(s)); err != nil {
		t.Fatalf("deflate: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("deflate close: %v", err)
	}
	return buf.Bytes()
}

const (
	tiffASCII    = 2
	tiffLong     = 4
	tiffRational = 5
)

type ifdEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	data  []byte
}

func ascii(s string) ifdEntry {
	return ifdEntry{typ: tiffASCII, count: uint32(len(s) + 1), data: append([]byte(s), 0)}
}

func rationalTriple(a, b, c uint32) ifdEntry {
	data := make([]byte, 0, 24)
	for _, v := range []uint32{a, b, c} {
		data = binary.BigEndian.AppendUint32(data, v)
		data = binary.BigEndian.AppendUint32(data, 1)
	}
	return ifdEntry{typ: tiffRational, count: 3, data: data}
}

func long(v uint32) ifdEntry {
	return ifdEntry{typ: tiffLong, count: 1, data: binary.BigEndian.AppendUint32(nil, v)}
}

func tagged(tag uint16, e ifdEntry) ifdEntry {
	e.tag = tag
	return e
}

func ifdSize(entries []ifdEntry) int {
	n := 2 + 12*len(entries) + 4
	for _, e := range entries {
		if len(e.data) > 4 {
			n += len(e.data) + len(e.data)%2
		}
	}
	return n
}

// encodeIFD lays out a big-endian IFD at offset start followed by its value area.
func encodeIFD(entries []ifdEntry, start int) []byte {
	out := binary.BigEndian.AppendUint16(nil, uint16(len(entries)))
	valueOff := start + 2 + 12*len(entries) + 4
	var values []byte
	for _, e := range entries {
		out = binary.BigEndian.AppendUint16(out, e.tag)
		out = binary.BigEndian.AppendUint16(out, e.typ)
		out = binary.BigEndian.AppendUint32(out, e.count)
		if len(e.data) <= 4 {
			inline := make([]byte, 4)
			copy(inline, e.data)
			out = append(out, inline...)
			continue
		}
		out = binary.BigEndian.AppendUint32(out, uint32(valueOff+len(values)))
		values = append(values, e.data...)
		if len(e.data)%2 == 1 {
			values = append(values, 0)
		}
	}
	out = binary.BigEndian.AppendUint32(out, 0)
	return append(out, values...)
}

// buildEXIF returns a TIFF stream with Make and Model in IFD0 and a GPS IFD at
// 40°26'46" N, 79°58'56" W.
func buildEXIF(maker, model string) []byte {
	gps := []ifdEntry{
		tagged(0x0001, ascii("N")),
		tagged(0x0002, rationalTriple(40, 26, 46)),
		tagged(0x0003, ascii("W")),
		tagged(0x0004, rationalTriple(79, 58, 56)),
	}
	ifd0 := []ifdEntry{
		tagged(0x010F, ascii(maker)),
		tagged(0x0110, ascii(model)),
		tagged(0x8825, long(0)),
	}
	gpsStart := 8 + ifdSize(ifd0)
	ifd0[2] = tagged(0x8825, long(uint32(gpsStart)))

	out := []byte{'M', 'M', 0, 42, 0, 0, 0, 8}
	out = append(out, encodeIFD(ifd0, 8)...)
	return append(out, encodeIFD(gps, gpsStart)...)
}

func withEXIF(jpg, tiffData []byte) []byte {
	return withSegment(jpg, 0xE1, append([]byte("Exif\x00\x00"), tiffData...))
}

func riff(chunks ...chunk) []byte {
	var body []byte
	for _, c := range chunks {
		body = append(body, c.Type...)
		body = binary.LittleEndian.AppendUint32(body, uint32(len(c.Data)))
		body = append(body, c.Data...)
		if len(c.Data)%2 == 1 {
			body = append(body, 0)
		}
	}
	out := []byte("RIFF")
	out = binary.LittleEndian.AppendUint32(out, uint32(4+len(body)))
	out = append(out, "WEBP"...)
	return append(out, body...)
}

// tiffWith returns a big-endian TIFF stream whose only IFD holds entries.
func tiffWith(entries ...ifdEntry) []byte {
	out := []byte{'M', 'M', 0, 42, 0, 0, 0, 8}
	return append(out, encodeIFD(entries, 8)...)
}

// bmpWithHeader returns a BMP file header followed by an info header of headerSize
// bytes. For V5 headers csType and profileSize are filled in.
func bmpWithHeader(headerSize, csType, profileSize uint32) []byte {
	out := make([]byte, 14+headerSize)
	copy(out, "BM")
	binary.LittleEndian.PutUint32(out[2:], uint32(len(out)))
	binary.LittleEndian.PutUint32(out[10:], uint32(len(out)))
	binary.LittleEndian.PutUint32(out[14:], headerSize)
	if headerSize >= 124 {
		binary.LittleEndian.PutUint32(out[14+56:], csType)
		binary.LittleEndian.PutUint32(out[14+112:], profileSize)
	}
	return out
}

// heifWithColr returns an ftyp box followed by a colr box of the given type.
func heifWithColr(colrType string) []byte {
	out := binary.BigEndian.AppendUint32(nil, 16)
	out = append(out, "ftypheic"...)
	out = binary.BigEndian.AppendUint32(out, 0)
	out = binary.BigEndian.AppendUint32(out, 16)
	out = append(out, "colr"...)
	out = append(out, colrType...)
	return append(out, 0, 0, 0, 0)
}
