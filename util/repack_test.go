package util

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestMoveFile(t *testing.T) {
	tests := []struct {
		name      string
		existing  bool
		noClobber bool
		wantBase  string
		wantBody  string
	}{
		{name: "fresh destination", wantBase: "data.csv", wantBody: "incoming"},
		{name: "overwrite existing", existing: true, wantBase: "data.csv", wantBody: "incoming"},
		{name: "no clobber renames", existing: true, noClobber: true, wantBase: "data (1).csv", wantBody: "incoming"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src := filepath.Join(dir, "src", "data.csv")
			os.MkdirAll(filepath.Dir(src), 0755)
			os.WriteFile(src, []byte("incoming"), 0644)
			dest := filepath.Join(dir, "bucket", "nested", "data.csv")
			if tt.existing {
				os.MkdirAll(filepath.Dir(dest), 0755)
				os.WriteFile(dest, []byte("already here"), 0644)
			}

			got, err := MoveFile(src, dest, tt.noClobber)
			if err != nil {
				t.Fatalf("MoveFile failed: %v", err)
			}
			if filepath.Base(got) != tt.wantBase {
				t.Errorf("MoveFile landed at %s, want base %s", got, tt.wantBase)
			}
			body, err := os.ReadFile(got)
			if err != nil {
				t.Fatalf("Failed to read moved file: %v", err)
			}
			if string(body) != tt.wantBody {
				t.Errorf("Moved file content = %q, want %q", body, tt.wantBody)
			}
			if _, err := os.Stat(src); !os.IsNotExist(err) {
				t.Errorf("Expected source to be gone, stat returned %v", err)
			}
			if tt.noClobber {
				kept, _ := os.ReadFile(dest)
				if string(kept) != "already here" {
					t.Errorf("Existing file was modified: %q", kept)
				}
			}
		})
	}
}

func TestMoveFile_RejectsDirectory(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "adir")
	os.Mkdir(src, 0755)
	if _, err := MoveFile(src, filepath.Join(dir, "elsewhere"), false); err != ErrExpectedFile {
		t.Errorf("Expected ErrExpectedFile, got %v", err)
	}
}

func TestFreeName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.txt")

	got, err := FreeName(path)
	if err != nil || got != path {
		t.Fatalf("FreeName on a free path = %q, %v", got, err)
	}

	os.WriteFile(path, nil, 0644)
	os.WriteFile(filepath.Join(dir, "report (1).txt"), nil, 0644)
	got, err = FreeName(path)
	if err != nil {
		t.Fatalf("FreeName failed: %v", err)
	}
	if want := filepath.Join(dir, "report (2).txt"); got != want {
		t.Errorf("FreeName = %q, want %q", got, want)
	}

	noExt := filepath.Join(dir, "README")
	os.WriteFile(noExt, nil, 0644)
	got, _ = FreeName(noExt)
	if want := filepath.Join(dir, "README (1)"); got != want {
		t.Errorf("FreeName = %q, want %q", got, want)
	}
}

func TestFreeName_Exhausted(t *testing.T) {
	if testing.Short() {
		t.Skip("creates many files")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "x")
	os.WriteFile(path, nil, 0644)
	for i := 1; i <= maxRenameAttempts; i++ {
		os.WriteFile(filepath.Join(dir, fmt.Sprintf("x (%d)", i)), nil, 0644)
	}
	if _, err := FreeName(path); !errors.Is(err, ErrNoFreeName) {
		t.Errorf("Expected ErrNoFreeName, got %v", err)
	}
}
