package imaging

import "bytes"

type signature struct {
	Format    string
	Magic     []byte
	Offset    int
	Validator func([]byte) bool
}

var signatures = []signature{
	{Format: "jpeg", Magic: []byte{0xFF, 0xD8, 0xFF}},
	{Format: "png", Magic: []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}},
	{Format: "gif", Magic: []byte("GIF8")},
	{Format: "bmp", Magic: []byte("BM")},
	{Format: "tiff", Magic: []byte("II*\x00")},
	{Format: "tiff", Magic: []byte("MM\x00*")},
	{
		Format:    "webp",
		Magic:     []byte("WEBP"),
		Offset:    8,
		Validator: func(d []byte) bool { return bytes.HasPrefix(d, []byte("RIFF")) },
	},
	{
		Format:    "heic",
		Magic:     []byte("ftyp"),
		Offset:    4,
		Validator: isHEIFBrand,
	},
}

var heifBrands = map[string]bool{
	"heic": true, "heix": true, "hevc": true, "hevx": true,
	"heim": true, "heis": true, "mif1": true, "msf1": true, "avif": true,
}

func isHEIFBrand(d []byte) bool {
	return len(d) >= 12 && heifBrands[string(d[8:12])]
}

// Sniff identifies the image container from its leading bytes. It returns "" when no
// signature matches.
func Sniff(data []byte) string {
	for _, sig := range signatures {
		end := sig.Offset + len(sig.Magic)
		if end > len(data) {
			continue
		}
		if !bytes.Equal(data[sig.Offset:end], sig.Magic) {
			continue
		}
		if sig.Validator != nil && !sig.Validator(data) {
			continue
		}
		return sig.Format
	}
	return ""
}
