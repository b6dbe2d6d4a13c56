package dayzip

import (
	"errors"
	"fmt"
)

// Sentinel errors for package dayzip.
// Every error returned by a stage wraps exactly one of the first five, so
// callers can dispatch with errors.Is.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrPathNotFound  = errors.New("path not found")
	ErrDecode        = errors.New("not a valid zip archive")
	ErrFormat        = errors.New("bucket folder name does not match the date layout")
	ErrFilesystem    = errors.New("filesystem error")

	// ErrInsecurePath marks members whose names escape the extraction
	// directory. It is always reported together with ErrDecode.
	ErrInsecurePath = errors.New("archive member path is not local")
)

// Stage names used in errors and log fields.
const (
	StageSetup   = "setup"
	StageExtract = "extract"
	StageBucket  = "bucket"
	StageArchive = "archive"
	StageReport  = "report"
)

// StageError records which stage failed and on which path.
type StageError struct {
	Stage string
	Path  string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Path, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// stageErr wraps err with kind and the failing stage and path.
func stageErr(stage, path string, kind, err error) error {
	if err == nil {
		return &StageError{Stage: stage, Path: path, Err: kind}
	}
	return &StageError{Stage: stage, Path: path, Err: fmt.Errorf("%w: %w", kind, err)}
}
