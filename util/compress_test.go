package util

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/klauspost/compress/flate"
)

func TestIsZipPath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "lower case", path: "archive.zip", want: true},
		{name: "upper case", path: "ARCHIVE.ZIP", want: true},
		{name: "mixed case with dir", path: "/data/in/a.Zip", want: true},
		{name: "missing dot", path: "archivezip", want: false},
		{name: "other extension", path: "archive.tar.gz", want: false},
		{name: "zip in stem only", path: "archive.zip.txt", want: false},
		{name: "no extension", path: "archive", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsZipPath(tt.path); got != tt.want {
				t.Errorf("IsZipPath(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func writeTestZip(t *testing.T, path string, names ...string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create zip: %v", err)
	}
	defer f.Close()
	w := zip.NewWriter(f)
	for _, name := range names {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to add %s: %v", name, err)
		}
		if len(name) > 0 && name[len(name)-1] != '/' {
			io.WriteString(fw, "content of "+name)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
}

func TestCountFilesInZip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "count.zip")
	writeTestZip(t, path, "a.txt", "sub/", "sub/b.txt", "c.txt")

	count, err := CountFilesInZip(path)
	if err != nil {
		t.Fatalf("CountFilesInZip failed: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 files, got %d", count)
	}

	if _, err := CountFilesInZip(filepath.Join(dir, "count.txt")); !errors.Is(err, ErrNotZipExtension) {
		t.Errorf("Expected ErrNotZipExtension, got %v", err)
	}
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	os.MkdirAll(filepath.Join(dir, "deep", "er"), 0755)
	os.WriteFile(filepath.Join(dir, "b.txt"), []byte("b"), 0644)
	os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0644)
	os.WriteFile(filepath.Join(dir, "deep", "er", "c.txt"), []byte("c"), 0644)
	os.Mkdir(filepath.Join(dir, "empty"), 0755)

	files, err := CollectFiles(dir)
	if err != nil {
		t.Fatalf("CollectFiles failed: %v", err)
	}
	want := []string{"a.txt", "b.txt", "deep/er/c.txt"}
	if !slices.Equal(files, want) {
		t.Errorf("CollectFiles = %v, want %v", files, want)
	}

	if _, err := CollectFiles(filepath.Join(dir, "a.txt")); err != ErrExpectedDirectory {
		t.Errorf("Expected ErrExpectedDirectory for a file, got %v", err)
	}
	if _, err := CollectFiles(filepath.Join(dir, "nope")); !os.IsNotExist(err) {
		t.Errorf("Expected IsNotExist error, got %v", err)
	}
}

func TestCompressFilesToDest(t *testing.T) {
	root := t.TempDir()
	modified := time.Date(2021, time.June, 15, 10, 30, 0, 0, time.Local)
	contents := map[string]string{
		"one.txt":        "first file",
		"nested/two.txt": "second file, a little longer than the first",
	}
	for name, body := range contents {
		path := filepath.Join(root, filepath.FromSlash(name))
		os.MkdirAll(filepath.Dir(path), 0755)
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
		os.Chtimes(path, modified, modified)
	}
	dest := filepath.Join(t.TempDir(), "out.zip")
	names := []string{"one.txt", "nested/two.txt"}

	table, err := CompressFilesToDest(root, names, dest, flate.BestCompression)
	if err != nil {
		t.Fatalf("CompressFilesToDest failed: %v", err)
	}
	if !slices.Equal(table.Names(), names) {
		t.Errorf("Table names = %v, want %v", table.Names(), names)
	}
	if table.GetUncompressedSize() != int64(len(contents["one.txt"])+len(contents["nested/two.txt"])) {
		t.Errorf("Unexpected uncompressed size %d", table.GetUncompressedSize())
	}

	r, err := zip.OpenReader(dest)
	if err != nil {
		t.Fatalf("Failed to open output: %v", err)
	}
	defer r.Close()
	if len(r.File) != len(names) {
		t.Fatalf("Expected %d members, got %d", len(names), len(r.File))
	}
	for i, f := range r.File {
		if f.Name != names[i] {
			t.Errorf("Member %d name = %q, want %q", i, f.Name, names[i])
		}
		if f.Method != zip.Deflate {
			t.Errorf("Member %s method = %d, want Deflate", f.Name, f.Method)
		}
		if !f.Modified.Equal(modified) {
			t.Errorf("Member %s modified = %v, want %v", f.Name, f.Modified, modified)
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("Failed to open member %s: %v", f.Name, err)
		}
		body, _ := io.ReadAll(rc)
		rc.Close()
		if string(body) != contents[f.Name] {
			t.Errorf("Member %s content = %q, want %q", f.Name, body, contents[f.Name])
		}
	}
}

func TestCompressFilesToDest_RemovesPartialOutput(t *testing.T) {
	root := t.TempDir()
	os.WriteFile(filepath.Join(root, "present.txt"), []byte("here"), 0644)
	dest := filepath.Join(t.TempDir(), "broken.zip")

	_, err := CompressFilesToDest(root, []string{"present.txt", "missing.txt"}, dest, flate.DefaultCompression)
	if err == nil {
		t.Fatal("Expected an error for a missing input file")
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Errorf("Expected %s to be removed, stat returned %v", dest, statErr)
	}
}

func TestCompressFilesToDest_RootMustBeDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	os.WriteFile(file, []byte("x"), 0644)

	_, err := CompressFilesToDest(file, nil, filepath.Join(dir, "out.zip"), flate.DefaultCompression)
	if err != ErrExpectedDirectory {
		t.Errorf("Expected ErrExpectedDirectory, got %v", err)
	}
}
