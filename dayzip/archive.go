package dayzip

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dendrascience/dayzip/internal/logger"
	"github.com/dendrascience/dayzip/util"
	"github.com/klauspost/compress/flate"
)

// DefaultCompressionLevel is the deflate level used for output archives.
const DefaultCompressionLevel = flate.DefaultCompression

// ArchiveOptions tunes the Archiver.
type ArchiveOptions struct {
	// CompressionLevel is a deflate level between -1 (library default) and 9.
	CompressionLevel int
}

// ArchiveResult lists what an Archive call produced.
type ArchiveResult struct {
	Outputs []OutputArchive
	// SkippedBuckets are bucket folders that held no files.
	SkippedBuckets []string
}

// Archiver writes one zip per non-empty bucket of a sort root.
type Archiver struct {
	log   logger.Logger
	namer *Namer
	level int
}

func NewArchiver(log logger.Logger, namer *Namer, opts ArchiveOptions) *Archiver {
	return &Archiver{
		log:   log.With(logger.String("stage", StageArchive)),
		namer: namer,
		level: opts.CompressionLevel,
	}
}

// Archive zips every immediate subdirectory of sortRoot into outputDir, which
// must already exist. Files inside a bucket are collected recursively and
// stored under their path relative to the bucket. sortRoot is left untouched.
func (a *Archiver) Archive(ctx context.Context, sortRoot, outputDir string) (ArchiveResult, error) {
	var res ArchiveResult
	buckets, err := a.Buckets(sortRoot)
	if err != nil {
		return res, err
	}

	written := make(map[string]string)
	for _, bucket := range buckets {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if len(bucket.Files) == 0 {
			a.log.Info("skipping empty bucket", logger.String("bucket", bucket.Path))
			res.SkippedBuckets = append(res.SkippedBuckets, bucket.Key)
			continue
		}
		date, err := ParseBucketKey(bucket.Key)
		if err != nil {
			return res, &StageError{Stage: StageArchive, Path: bucket.Path, Err: err}
		}
		bucket.Date = date

		name := a.namer.Render(date, len(bucket.Files))
		if other, ok := written[name]; ok {
			return res, stageErr(StageArchive, bucket.Path, ErrConfiguration,
				fmt.Errorf("archive name %q already used for bucket %s", name, other))
		}
		written[name] = bucket.Key

		dest := filepath.Join(outputDir, name)
		table, err := util.CompressFilesToDest(bucket.Path, bucket.Files, dest, a.level)
		if err != nil {
			return res, stageErr(StageArchive, dest, ErrFilesystem, err)
		}
		res.Outputs = append(res.Outputs, OutputArchive{
			Path:   dest,
			Name:   name,
			Bucket: bucket,
			Table:  table,
		})
		a.log.Info("wrote archive",
			logger.String("archive", dest),
			logger.String("bucket", bucket.Key),
			logger.Int("files", table.Len()),
			logger.Int64("bytes", table.GetUncompressedSize()),
			logger.Time("newest", table.GetNewestFileTS()),
		)
	}
	return res, nil
}

// Buckets lists the immediate subdirectories of sortRoot in lexical order,
// each with its files collected recursively. Loose files are ignored.
func (a *Archiver) Buckets(sortRoot string) ([]DateBucket, error) {
	dirents, err := os.ReadDir(sortRoot)
	if err != nil {
		return nil, stageErr(StageArchive, sortRoot, ErrFilesystem, err)
	}
	var buckets []DateBucket
	for _, d := range dirents {
		if !d.IsDir() {
			continue
		}
		path := filepath.Join(sortRoot, d.Name())
		files, err := util.CollectFiles(path)
		if err != nil {
			return nil, stageErr(StageArchive, path, ErrFilesystem, err)
		}
		buckets = append(buckets, DateBucket{Key: d.Name(), Path: path, Files: files})
	}
	return buckets, nil
}
