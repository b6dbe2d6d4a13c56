package dayzip

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/dendrascience/dayzip/internal/logger"
	"github.com/dendrascience/dayzip/util"
)

// BucketLayout is the time layout of bucket folder names (zero-padded
// MM_DD_YYYY). The Archiver parses folder names with the same layout.
const BucketLayout = "01_02_2006"

// BucketKey returns the bucket folder name for a modification time.
func BucketKey(t time.Time) string {
	return t.In(time.Local).Format(BucketLayout)
}

// ParseBucketKey is the inverse of BucketKey.
func ParseBucketKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation(BucketLayout, key, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %w", ErrFormat, key, err)
	}
	return t, nil
}

// BucketOptions tunes the Bucketer.
type BucketOptions struct {
	// Recursive also moves files found in subdirectories of the source,
	// keeping their relative path inside the bucket.
	Recursive bool
	// NoClobber renames an incoming file to "name (N).ext" instead of
	// replacing a same-named file already in the bucket.
	NoClobber bool
}

// BucketResult lists what a Bucket call did.
type BucketResult struct {
	// Keys are the buckets that received at least one file, sorted.
	Keys []string
	// Moved are the final paths of the moved files.
	Moved []string
	// SkippedDirs are source subdirectories left untouched in flat mode.
	SkippedDirs []string
}

// Bucketer moves files into per-day subdirectories of a sort root.
type Bucketer struct {
	log  logger.Logger
	opts BucketOptions
}

func NewBucketer(log logger.Logger, opts BucketOptions) *Bucketer {
	return &Bucketer{log: log.With(logger.String("stage", StageBucket)), opts: opts}
}

// Bucket moves the files of srcDir into sortRoot/<BucketKey(mtime)>/.
// Files are moved, not copied; the first failure aborts the stage.
func (b *Bucketer) Bucket(ctx context.Context, srcDir, sortRoot string) (BucketResult, error) {
	var res BucketResult
	if err := os.MkdirAll(sortRoot, 0o755); err != nil {
		return res, stageErr(StageBucket, sortRoot, ErrFilesystem, err)
	}
	keys := make(map[string]bool)

	move := func(path, rel string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		info, err := os.Stat(path)
		if err != nil {
			return stageErr(StageBucket, path, ErrFilesystem, err)
		}
		key := BucketKey(info.ModTime())
		dest, err := util.MoveFile(path, filepath.Join(sortRoot, key, rel), b.opts.NoClobber)
		if err != nil {
			return stageErr(StageBucket, path, ErrFilesystem, err)
		}
		keys[key] = true
		res.Moved = append(res.Moved, dest)
		b.log.Debug("moved file", logger.String("from", path), logger.String("to", dest))
		return nil
	}

	var err error
	if b.opts.Recursive {
		err = b.walkRecursive(srcDir, move)
	} else {
		res.SkippedDirs, err = b.walkFlat(srcDir, move)
	}
	if err != nil {
		return res, err
	}

	for key := range keys {
		res.Keys = append(res.Keys, key)
	}
	slices.Sort(res.Keys)
	b.log.Info("sorted files by date",
		logger.Int("files", len(res.Moved)),
		logger.Int("buckets", len(res.Keys)),
	)
	return res, nil
}

// walkFlat visits only the files directly in srcDir and reports each
// subdirectory it leaves behind.
func (b *Bucketer) walkFlat(srcDir string, move func(path, rel string) error) ([]string, error) {
	dirents, err := os.ReadDir(srcDir)
	if err != nil {
		return nil, stageErr(StageBucket, srcDir, ErrFilesystem, err)
	}
	var skipped []string
	for _, d := range dirents {
		path := filepath.Join(srcDir, d.Name())
		switch {
		case d.IsDir():
			count, err := util.CountSubfile(path)
			if err != nil {
				return nil, stageErr(StageBucket, path, ErrFilesystem, err)
			}
			skipped = append(skipped, path)
			b.log.Warn("not descending into subdirectory; its files are not archived",
				logger.String("dir", path),
				logger.Int("files", count),
			)
		case d.Type().IsRegular():
			if err := move(path, d.Name()); err != nil {
				return nil, err
			}
		default:
			b.log.Debug("skipping non-regular file", logger.String("path", path))
		}
	}
	return skipped, nil
}

func (b *Bucketer) walkRecursive(srcDir string, move func(path, rel string) error) error {
	return filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return stageErr(StageBucket, path, ErrFilesystem, walkErr)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return stageErr(StageBucket, path, ErrFilesystem, err)
		}
		return move(path, rel)
	})
}
