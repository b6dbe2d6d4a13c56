package util

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// Digest identifies the exact bytes of a written archive.
type Digest struct {
	SHA256 string
	Size   int64
}

// DigestFile reads the archive at path once and returns its checksum and
// size. Directories are rejected with ErrExpectedFile.
func DigestFile(path string) (Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Digest{}, err
	}
	defer f.Close()
	if info, err := f.Stat(); err != nil {
		return Digest{}, err
	} else if info.IsDir() {
		return Digest{}, ErrExpectedFile
	}
	return DigestReader(f)
}

func DigestReader(r io.Reader) (Digest, error) {
	h := sha256.New()
	n, err := io.Copy(h, r)
	if err != nil {
		return Digest{}, err
	}
	return Digest{SHA256: hex.EncodeToString(h.Sum(nil)), Size: n}, nil
}
