package util

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// maxRenameAttempts bounds the "name (N).ext" search of a no-clobber move.
const maxRenameAttempts = 10000

// MoveFile renames src to dest, creating dest's parent directories.
// An existing dest is replaced unless noClobber is set, in which case the
// file lands at the first free "name (N).ext" next to dest.
// It returns the path the file was moved to.
func MoveFile(src, dest string, noClobber bool) (string, error) {
	stat, err := os.Lstat(src)
	if err != nil {
		return "", err
	}
	if stat.IsDir() {
		return "", ErrExpectedFile
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", err
	}
	if noClobber {
		dest, err = FreeName(dest)
		if err != nil {
			return "", err
		}
	}
	if err := os.Rename(src, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// FreeName returns path when nothing exists there, otherwise the first
// "name (N).ext" sibling that does not exist yet.
func FreeName(path string) (string, error) {
	if _, err := os.Lstat(path); errors.Is(err, fs.ErrNotExist) {
		return path, nil
	} else if err != nil {
		return "", err
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for i := 1; i <= maxRenameAttempts; i++ {
		candidate := fmt.Sprintf("%s (%d)%s", stem, i, ext)
		_, err := os.Lstat(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNoFreeName, path)
}
