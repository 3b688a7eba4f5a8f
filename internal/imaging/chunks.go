package imaging

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}

type chunk struct {
	Type string
	Data []byte
}

// pngChunks splits a PNG stream into chunks, stopping at IEND. CRCs are not checked.
func pngChunks(data []byte) ([]chunk, error) {
	if len(data) < len(pngSignature) || string(data[:8]) != string(pngSignature) {
		return nil, errors.New("missing PNG signature")
	}

	var chunks []chunk
	pos := 8
	for pos+8 <= len(data) {
		length := int(binary.BigEndian.Uint32(data[pos:]))
		typ := string(data[pos+4 : pos+8])
		start := pos + 8
		end := start + length
		if length < 0 || end+4 > len(data) || end < start {
			return chunks, fmt.Errorf("truncated PNG chunk %q", typ)
		}
		chunks = append(chunks, chunk{Type: typ, Data: data[start:end]})
		if typ == "IEND" {
			break
		}
		pos = end + 4
	}
	return chunks, nil
}

// riffChunks lists the top-level chunks of a RIFF/WEBP stream.
func riffChunks(data []byte) ([]chunk, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WEBP" {
		return nil, errors.New("missing RIFF/WEBP header")
	}

	var chunks []chunk
	pos := 12
	for pos+8 <= len(data) {
		typ := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4:]))
		start := pos + 8
		end := start + size
		if size < 0 || end > len(data) || end < start {
			return chunks, fmt.Errorf("truncated RIFF chunk %q", typ)
		}
		chunks = append(chunks, chunk{Type: typ, Data: data[start:end]})
		pos = end + size&1
	}
	return chunks, nil
}
