package dayzip

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dendrascience/dayzip/util"
	"gopkg.in/yaml.v3"
)

// Problem is one inconsistency found by VerifyArchive or VerifyOutput.
type Problem struct {
	Archive string
	Message string
}

func (p Problem) String() string {
	return p.Archive + ": " + p.Message
}

// VerifyArchive reads every member of the zip at path, which makes
// archive/zip check each CRC, and compares the member count and checksum
// against want when it is not nil.
func VerifyArchive(path string, want *util.Metadata) []Problem {
	var problems []Problem
	report := func(format string, args ...any) {
		problems = append(problems, Problem{Archive: path, Message: fmt.Sprintf(format, args...)})
	}

	r, err := zip.OpenReader(path)
	if err != nil {
		report("failed to open archive: %v", err)
		return problems
	}
	defer r.Close()
	for _, f := range r.File {
		if err := checkMemberName(f.Name); err != nil {
			report("%v", err)
			continue
		}
		rc, err := f.Open()
		if err != nil {
			report("failed to open member %s: %v", f.Name, err)
			continue
		}
		_, err = io.Copy(io.Discard, rc)
		rc.Close()
		if err != nil {
			report("member %s is damaged: %v", f.Name, err)
		}
	}
	if want == nil {
		return problems
	}

	count, err := util.CountFilesInZip(path)
	if err != nil {
		report("failed to count members: %v", err)
	} else if count != want.FileCount {
		report("member count mismatch: report says %d, archive has %d", want.FileCount, count)
	}
	digest, err := util.DigestFile(path)
	if err != nil {
		report("failed to hash archive: %v", err)
	} else if digest.SHA256 != want.SHA256 || digest.Size != want.CompressedSize {
		report("checksum mismatch: report says %s (%d bytes), archive is %s (%d bytes)",
			want.SHA256, want.CompressedSize, digest.SHA256, digest.Size)
	}
	return problems
}

// ReadReport loads a report written by WriteReport.
func ReadReport(path string) (Report, error) {
	var r Report
	data, err := os.ReadFile(path)
	if err != nil {
		return r, fmt.Errorf("%w: %w", ErrFilesystem, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &r)
	default:
		err = json.Unmarshal(data, &r)
	}
	if err != nil {
		return r, fmt.Errorf("%w: report %s: %w", ErrConfiguration, path, err)
	}
	return r, nil
}

// VerifyOutput checks every zip directly inside dir. With a report, each
// archive it lists must also exist and match its recorded count and
// checksum. It returns the number of archives checked.
func VerifyOutput(dir string, report *Report) (int, []Problem, error) {
	archives, err := FindArchives(dir)
	if err != nil {
		return 0, nil, err
	}
	var problems []Problem
	expected := make(map[string]*util.Metadata)
	if report != nil {
		for i := range report.Archives {
			md := &report.Archives[i]
			expected[md.Name] = md
			path := filepath.Join(dir, md.Name)
			if _, err := os.Stat(path); err != nil {
				problems = append(problems, Problem{Archive: path, Message: "listed in report but not readable: " + err.Error()})
			}
		}
	}
	for _, path := range archives {
		problems = append(problems, VerifyArchive(path, expected[filepath.Base(path)])...)
	}
	return len(archives), problems, nil
}
