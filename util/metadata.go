package util

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dendrascience/dayzip/version"
	"gopkg.in/yaml.v3"
)

type Metadata struct {
	Name             string    `json:"name" yaml:"name"`
	Date             string    `json:"date" yaml:"date"`
	FileCount        int       `json:"file_count" yaml:"file_count"`
	UncompressedSize int64     `json:"uncompressed_size" yaml:"uncompressed_size"`
	CompressedSize   int64     `json:"compressed_size" yaml:"compressed_size"`
	OldestFileTS     time.Time `json:"oldest_file_ts" yaml:"oldest_file_ts"`
	NewestFileTS     time.Time `json:"newest_file_ts" yaml:"newest_file_ts"`
	SHA256           string    `json:"sha256" yaml:"sha256"`
	DayzipVersion    string    `json:"dayzip_version" yaml:"dayzip_version"`
}

// GenerateMetadata creates a Metadata struct from the member table.
// If path is provided, the compressed size and checksum are read from the
// archive at that path.
func (t MemberTable) GenerateMetadata(path string) (Metadata, error) {
	var m Metadata
	if path != "" {
		digest, err := DigestFile(path)
		if err != nil {
			return m, err
		}
		m.CompressedSize = digest.Size
		m.SHA256 = digest.SHA256
		m.Name = filepath.Base(path)
	}
	m.DayzipVersion = version.GetVersion()
	m.FileCount = t.Len()
	m.UncompressedSize = t.GetUncompressedSize()
	m.OldestFileTS = t.GetOldestFileTS()
	m.NewestFileTS = t.GetNewestFileTS()
	return m, nil
}

// WriteJSONFile writes any value as JSON to the specified file path.
func WriteJSONFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	je := json.NewEncoder(f)
	je.SetIndent("", "  ")
	return je.Encode(v)
}

// WriteYAMLFile writes any value as YAML to the specified file path.
func WriteYAMLFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	ye := yaml.NewEncoder(f)
	ye.SetIndent(2)
	if err := ye.Encode(v); err != nil {
		return err
	}
	return ye.Close()
}

// WriteReportFile picks YAML for .yaml/.yml paths and JSON for everything else.
func WriteReportFile(path string, v any) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return WriteYAMLFile(path, v)
	default:
		return WriteJSONFile(path, v)
	}
}
