package util

import (
	"archive/zip"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/flate"
)

// ZipExtension is the extension of archives read and written by dayzip.
const ZipExtension = ".zip"

// IsZipPath reports whether path carries the zip extension, ignoring case.
func IsZipPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ZipExtension)
}

func CountFilesInZip(path string) (int, error) {
	if !IsZipPath(path) {
		return 0, ErrNotZipExtension
	}
	zrc, err := zip.OpenReader(path)
	if err != nil {
		return 0, err
	}
	defer zrc.Close()
	count := 0
	for _, f := range zrc.File {
		if !f.FileInfo().IsDir() {
			count++
		}
	}
	return count, nil
}

// CollectFiles walks path recursively and returns every regular file below it
// as a slash-separated path relative to path, in lexical walk order.
func CollectFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, ErrExpectedDirectory
	}
	var files []string
	err = filepath.WalkDir(path, func(subpath string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, relErr := filepath.Rel(path, subpath)
		if relErr != nil {
			return relErr
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// CompressFilesToDest writes the named files under root into a new zip at dest.
// Names are slash-separated and relative to root; they become the member names.
// Members are deflated at the given level and keep their on-disk modification
// time. A partially written dest is removed on failure.
func CompressFilesToDest(root string, names []string, dest string, level int) (table MemberTable, err error) {
	info, err := os.Stat(root)
	if err != nil {
		return table, err
	}
	if !info.IsDir() {
		return table, ErrExpectedDirectory
	}
	file, err := os.Create(dest)
	if err != nil {
		return table, err
	}
	defer func() {
		if err != nil {
			os.Remove(dest)
		}
	}()

	w := zip.NewWriter(file)
	w.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, level)
	})
	for _, name := range names {
		entry, addErr := addFileToZip(w, root, name)
		if addErr != nil {
			w.Close()
			file.Close()
			return MemberTable{}, addErr
		}
		table.Add(entry)
	}
	if err = w.Close(); err != nil {
		file.Close()
		return MemberTable{}, err
	}
	if err = file.Close(); err != nil {
		return MemberTable{}, err
	}
	return table, nil
}

func addFileToZip(w *zip.Writer, root, name string) (MemberEntry, error) {
	f, err := os.Open(filepath.Join(root, filepath.FromSlash(name)))
	if err != nil {
		return MemberEntry{}, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return MemberEntry{}, err
	}
	if info.IsDir() {
		return MemberEntry{}, ErrExpectedFile
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return MemberEntry{}, err
	}
	header.Name = name
	header.Method = zip.Deflate
	writer, err := w.CreateHeader(header)
	if err != nil {
		return MemberEntry{}, err
	}
	if _, err := io.Copy(writer, f); err != nil {
		return MemberEntry{}, err
	}
	return MemberEntry{Name: name, Size: info.Size(), Modified: info.ModTime()}, nil
}
