package dayzip

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dendrascience/dayzip/internal/logger"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type entry struct {
	name     string
	body     string
	modified time.Time
}

func localTime(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.Local)
}

// writeZip creates a zip at path. Names ending in "/" become directory entries.
func writeZip(t *testing.T, path string, entries ...entry) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for _, e := range entries {
		h := &zip.FileHeader{Name: e.name, Method: zip.Deflate, Modified: e.modified}
		if strings.HasSuffix(e.name, "/") {
			h.Method = zip.Store
		}
		fw, err := w.CreateHeader(h)
		require.NoError(t, err)
		if !strings.HasSuffix(e.name, "/") {
			_, err = io.WriteString(fw, e.body)
			require.NoError(t, err)
		}
	}
	require.NoError(t, w.Close())
}

// writeFile creates path with body and sets its modification time.
func writeFile(t *testing.T, path, body string, modified time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	require.NoError(t, os.Chtimes(path, modified, modified))
}

// readZip returns member name to content, plus the names in stored order.
func readZip(t *testing.T, path string) (map[string]string, []string) {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()
	contents := make(map[string]string, len(r.File))
	var names []string
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		contents[f.Name] = string(body)
		names = append(names, f.Name)
	}
	return contents, names
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	dirents, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(dirents))
	for _, d := range dirents {
		names = append(names, d.Name())
	}
	return names
}

func observedLogger() (logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return logger.NewFromZap(zap.New(core)), logs
}
