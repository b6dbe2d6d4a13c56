package dayzip

import (
	"time"

	"github.com/dendrascience/dayzip/util"
)

// SourceArchive is a zip found in the input directory. It is never modified.
type SourceArchive struct {
	Path    string
	Members []ArchiveMember
}

// ArchiveMember is one entry of a SourceArchive.
type ArchiveMember struct {
	// Name is the slash-separated path inside the archive.
	Name string
	// Modified is the header's wall clock anchored in time.Local.
	Modified time.Time
	Dir      bool
}

// ExtractedFile is a regular file materialized in the scratch directory.
type ExtractedFile struct {
	Path     string
	Modified time.Time
}

// DateBucket is a sort-root subdirectory holding the files of one day.
type DateBucket struct {
	Key  string
	Date time.Time
	Path string
	// Files are slash-separated paths relative to Path.
	Files []string
}

// OutputArchive is the zip written for one non-empty DateBucket.
type OutputArchive struct {
	Path   string
	Name   string
	Bucket DateBucket
	Table  util.MemberTable
}

// Members returns the member names in the order they were written.
func (o OutputArchive) Members() []string {
	return o.Table.Names()
}

// PlannedArchive is an archive a run would write, computed from headers only.
type PlannedArchive struct {
	Name  string
	Key   string
	Date  time.Time
	Count int
}

// RunSummary describes a completed run.
type RunSummary struct {
	RunID          string
	Archives       int
	ExtractedFiles int
	MovedFiles     int
	SkippedBuckets []string
	SkippedDirs    []string
	Outputs        []OutputArchive
}
