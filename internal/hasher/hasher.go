// Package hasher computes the fixed digest set reported for every analysed file.
package hasher

import (
	"bytes"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/BerylCAtieno/file-forensics-api/internal/models"
)

// Compute reads r once, feeding every byte into MD5, SHA-1, SHA-256 and SHA-512.
func Compute(r io.Reader) (*models.HashSet, error) {
	md5h := md5.New()
	sha1h := sha1.New()
	sha256h := sha256.New()
	sha512h := sha512.New()

	w := io.MultiWriter(md5h, sha1h, sha256h, sha512h)
	if _, err := io.Copy(w, r); err != nil {
		return nil, fmt.Errorf("hasher: copy: %w", err)
	}

	return &models.HashSet{
		MD5:    hex.EncodeToString(md5h.Sum(nil)),
		SHA1:   hex.EncodeToString(sha1h.Sum(nil)),
		SHA256: hex.EncodeToString(sha256h.Sum(nil)),
		SHA512: hex.EncodeToString(sha512h.Sum(nil)),
	}, nil
}

// ComputeBytes hashes an in-memory blob. It cannot fail.
func ComputeBytes(data []byte) *models.HashSet {
	hs, err := Compute(bytes.NewReader(data))
	if err != nil {
		// bytes.Reader never returns a read error
		panic(err)
	}
	return hs
}
