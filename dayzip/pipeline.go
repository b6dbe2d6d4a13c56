package dayzip

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dendrascience/dayzip/internal/logger"
	"github.com/google/uuid"
)

// Config holds everything a run needs. UnzipDir and SortDir name parents
// for the run's own scratch directories; empty means the system temp dir.
// The scratch directories are removed when the run ends.
type Config struct {
	InputDir   string
	OutputDir  string
	UnzipDir   string
	SortDir    string
	Template   string
	DateFormat string

	Workers   int
	Recursive bool
	NoClobber bool
	// CompressionLevel is passed to the deflate writer as is; 0 stores
	// members uncompressed. Use DefaultCompressionLevel for the library default.
	CompressionLevel int
	// ReportPath, when set, receives a JSON or YAML run report.
	ReportPath string
}

// SetDefaults fills empty naming fields and raises Workers to at least 1.
func (c *Config) SetDefaults() {
	if c.Template == "" {
		c.Template = DefaultTemplate
	}
	if c.DateFormat == "" {
		c.DateFormat = DefaultDateFormat
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
}

// Validate checks required paths, numeric ranges and that the working
// directories do not nest inside each other.
func (c Config) Validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("%w: input directory is required", ErrConfiguration)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("%w: output directory is required", ErrConfiguration)
	}
	if c.CompressionLevel < -1 || c.CompressionLevel > 9 {
		return fmt.Errorf("%w: compression level %d is outside -1..9", ErrConfiguration, c.CompressionLevel)
	}
	scratch := map[string]string{"unzip": c.UnzipDir, "sort": c.SortDir}
	others := map[string]string{"input": c.InputDir, "output": c.OutputDir, "unzip": c.UnzipDir, "sort": c.SortDir}
	for name, dir := range scratch {
		if dir == "" {
			continue
		}
		for otherName, other := range others {
			if otherName == name || other == "" {
				continue
			}
			if pathsOverlap(dir, other) {
				return fmt.Errorf("%w: %s directory %s overlaps %s directory %s", ErrConfiguration, name, dir, otherName, other)
			}
		}
	}
	return nil
}

// pathsOverlap reports whether either path contains the other.
func pathsOverlap(path1, path2 string) bool {
	abs1, err1 := filepath.Abs(path1)
	abs2, err2 := filepath.Abs(path2)
	if err1 != nil || err2 != nil {
		abs1, abs2 = filepath.Clean(path1), filepath.Clean(path2)
	}
	return isWithin(abs1, abs2) || isWithin(abs2, abs1)
}

func isWithin(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// Pipeline runs Extract, Bucket and Archive strictly one after the other.
type Pipeline struct {
	cfg   Config
	log   logger.Logger
	namer *Namer
}

// New validates cfg and prepares a pipeline logging to log.
func New(cfg Config, log logger.Logger) (*Pipeline, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	namer, err := NewNamer(cfg.Template, cfg.DateFormat)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Pipeline{cfg: cfg, log: log, namer: namer}, nil
}

// Config returns the effective configuration after defaults.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Run executes one full pass. Each run works in fresh scratch directories,
// created inside UnzipDir and SortDir when those are set, and removes them on
// every exit path.
func (p *Pipeline) Run(ctx context.Context) (summary RunSummary, err error) {
	summary.RunID = uuid.NewString()
	log := p.log.With(logger.String("run_id", summary.RunID))
	start := time.Now()
	defer func() {
		if err != nil {
			logFailure(log, err)
		}
	}()

	if err := checkInputDir(p.cfg.InputDir); err != nil {
		return summary, err
	}
	if err := os.MkdirAll(p.cfg.OutputDir, 0o755); err != nil {
		return summary, stageErr(StageSetup, p.cfg.OutputDir, ErrFilesystem, err)
	}

	unzip, err := AcquireWorkspace(p.cfg.UnzipDir, "dayzip-unzip-*")
	if err != nil {
		return summary, &StageError{Stage: StageSetup, Path: p.cfg.UnzipDir, Err: err}
	}
	defer release(log, unzip, &err)
	sorted, err := AcquireWorkspace(p.cfg.SortDir, "dayzip-sort-*")
	if err != nil {
		return summary, &StageError{Stage: StageSetup, Path: p.cfg.SortDir, Err: err}
	}
	defer release(log, sorted, &err)

	log.Info("extracting archives", logger.String("input", p.cfg.InputDir), logger.String("unzip", unzip.Path))
	extracted, err := NewExtractor(log, ExtractOptions{Workers: p.cfg.Workers}).
		Extract(ctx, p.cfg.InputDir, unzip.Path)
	if err != nil {
		return summary, err
	}
	summary.ExtractedFiles = len(extracted)

	log.Info("sorting files by date",
		logger.String("sort", sorted.Path),
		logger.Bool("recursive", p.cfg.Recursive),
		logger.Bool("no_clobber", p.cfg.NoClobber),
	)
	bucketed, err := NewBucketer(log, BucketOptions{Recursive: p.cfg.Recursive, NoClobber: p.cfg.NoClobber}).
		Bucket(ctx, unzip.Path, sorted.Path)
	if err != nil {
		return summary, err
	}
	summary.MovedFiles = len(bucketed.Moved)
	summary.SkippedDirs = bucketed.SkippedDirs

	log.Info("zipping sorted files", logger.String("output", p.cfg.OutputDir))
	archived, err := NewArchiver(log, p.namer, ArchiveOptions{CompressionLevel: p.cfg.CompressionLevel}).
		Archive(ctx, sorted.Path, p.cfg.OutputDir)
	if err != nil {
		return summary, err
	}
	summary.Outputs = archived.Outputs
	summary.Archives = len(archived.Outputs)
	summary.SkippedBuckets = archived.SkippedBuckets

	if p.cfg.ReportPath != "" {
		if err := WriteReport(p.cfg.ReportPath, summary); err != nil {
			return summary, err
		}
		log.Info("wrote report", logger.String("report", p.cfg.ReportPath))
	}

	log.Info("run complete",
		logger.Int("extracted", summary.ExtractedFiles),
		logger.Int("moved", summary.MovedFiles),
		logger.Int("archives", summary.Archives),
		logger.Int("skipped_dirs", len(summary.SkippedDirs)),
		logger.Duration("elapsed", time.Since(start)),
	)
	return summary, nil
}

func checkInputDir(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return stageErr(StageSetup, path, ErrPathNotFound, nil)
	}
	if err != nil {
		return stageErr(StageSetup, path, ErrFilesystem, err)
	}
	if !info.IsDir() {
		return stageErr(StageSetup, path, ErrPathNotFound, errors.New("not a directory"))
	}
	return nil
}

func release(log logger.Logger, w *Workspace, errp *error) {
	if rerr := w.Release(); rerr != nil {
		log.Warn("could not remove workspace", logger.String("dir", w.Path), logger.Error(rerr))
		*errp = errors.Join(*errp, rerr)
		return
	}
	log.Debug("removed workspace", logger.String("dir", w.Path), logger.Bool("supplied", w.Supplied()))
}

func logFailure(log logger.Logger, err error) {
	var se *StageError
	if errors.As(err, &se) {
		log.Error("run failed",
			logger.String("stage", se.Stage),
			logger.String("path", se.Path),
			logger.Error(se.Err),
		)
		return
	}
	log.Error("run failed", logger.Error(err))
}
