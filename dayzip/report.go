package dayzip

import (
	"time"

	"github.com/dendrascience/dayzip/util"
	"github.com/dendrascience/dayzip/version"
)

// Report is the document written by --report.
type Report struct {
	RunID       string          `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time       `json:"generated_at" yaml:"generated_at"`
	Version     string          `json:"version" yaml:"version"`
	Extracted   int             `json:"extracted_files" yaml:"extracted_files"`
	SkippedDirs []string        `json:"skipped_dirs,omitempty" yaml:"skipped_dirs,omitempty"`
	Archives    []util.Metadata `json:"archives" yaml:"archives"`
}

// BuildReport collects per-archive metadata for a finished run.
func BuildReport(summary RunSummary) (Report, error) {
	r := Report{
		RunID:       summary.RunID,
		GeneratedAt: time.Now(),
		Version:     version.GetVersion(),
		Extracted:   summary.ExtractedFiles,
		SkippedDirs: summary.SkippedDirs,
		Archives:    make([]util.Metadata, 0, len(summary.Outputs)),
	}
	for _, out := range summary.Outputs {
		md, err := out.Table.GenerateMetadata(out.Path)
		if err != nil {
			return r, stageErr(StageReport, out.Path, ErrFilesystem, err)
		}
		md.Date = out.Bucket.Date.Format(time.DateOnly)
		r.Archives = append(r.Archives, md)
	}
	return r, nil
}

// WriteReport writes the run report to path, as YAML for .yaml/.yml and as
// JSON otherwise.
func WriteReport(path string, summary RunSummary) error {
	r, err := BuildReport(summary)
	if err != nil {
		return err
	}
	if err := util.WriteReportFile(path, r); err != nil {
		return stageErr(StageReport, path, ErrFilesystem, err)
	}
	return nil
}
