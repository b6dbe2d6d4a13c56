package util

import (
	"io/fs"
	"os"
	"path/filepath"
)

// CountSubfile returns the number of regular files below path, at any depth.
func CountSubfile(path string) (count int, err error) {
	var info os.FileInfo
	info, err = os.Stat(path)
	if err != nil {
		return
	}
	if !info.IsDir() {
		err = ErrExpectedDirectory
		return
	}
	err = filepath.WalkDir(path, func(_ string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.Type().IsRegular() {
			count++
		}
		return nil
	})
	return
}
