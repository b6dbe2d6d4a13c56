package dayzip

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dendrascience/dayzip/internal/logger"
	"github.com/dendrascience/dayzip/util"
	"golang.org/x/sync/errgroup"
)

// ExtractOptions tunes the Extractor.
type ExtractOptions struct {
	// Workers bounds how many archives are decoded at once. Values below 1
	// mean 1. Decoded archives are merged in lexical order whatever the
	// value, so the last archive wins for members that share a name.
	Workers int
}

// Extractor unpacks every zip of an input directory into a scratch directory
// and restores each member's stored modification time.
type Extractor struct {
	log     logger.Logger
	workers int
}

func NewExtractor(log logger.Logger, opts ExtractOptions) *Extractor {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	return &Extractor{log: log.With(logger.String("stage", StageExtract)), workers: workers}
}

// FindArchives lists the regular files directly inside inputDir whose
// extension is .zip (any case), in lexical order.
func FindArchives(inputDir string) ([]string, error) {
	dirents, err := os.ReadDir(inputDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrPathNotFound, inputDir)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrFilesystem, inputDir, err)
	}
	var archives []string
	for _, d := range dirents {
		if d.IsDir() || !util.IsZipPath(d.Name()) {
			continue
		}
		archives = append(archives, filepath.Join(inputDir, d.Name()))
	}
	return archives, nil
}

// MemberTime converts the header's stored wall clock into an instant in
// time.Local. time.Date picks one of the two offsets when the wall clock
// falls in a DST overlap or gap, which is the intended best effort.
//
// Headers without a usable date decode to the MS-DOS epoch
// (1979-11-30 00:00), so the result is never the zero time.
func MemberTime(h *zip.FileHeader) time.Time {
	year, month, day := h.Modified.Date()
	hour, minute, second := h.Modified.Clock()
	return time.Date(year, month, day, hour, minute, second, 0, time.Local)
}

// ReadArchive reads the member headers of the zip at path.
func ReadArchive(path string) (SourceArchive, error) {
	r, err := openArchive(path)
	if err != nil {
		return SourceArchive{}, err
	}
	defer r.Close()
	sa := SourceArchive{Path: path, Members: make([]ArchiveMember, 0, len(r.File))}
	for _, f := range r.File {
		if err := checkMemberName(f.Name); err != nil {
			return SourceArchive{}, stageErr(StageExtract, path, ErrDecode, err)
		}
		sa.Members = append(sa.Members, ArchiveMember{
			Name:     f.Name,
			Modified: MemberTime(&f.FileHeader),
			Dir:      f.FileInfo().IsDir(),
		})
	}
	return sa, nil
}

// Extract unpacks every archive of inputDir into unzipDir, creating unzipDir
// when needed. Archives are decoded concurrently into private staging
// directories, then moved into unzipDir one archive at a time in lexical
// order. It returns once every archive is fully extracted and
// timestamp-corrected, or with the first error.
func (e *Extractor) Extract(ctx context.Context, inputDir, unzipDir string) ([]ExtractedFile, error) {
	if err := os.MkdirAll(unzipDir, 0o755); err != nil {
		return nil, stageErr(StageExtract, unzipDir, ErrFilesystem, err)
	}
	archives, err := FindArchives(inputDir)
	if err != nil {
		return nil, &StageError{Stage: StageExtract, Path: inputDir, Err: err}
	}
	e.log.Debug("found archives", logger.String("input", inputDir), logger.Int("count", len(archives)))

	staging, err := os.MkdirTemp(unzipDir, ".staging-*")
	if err != nil {
		return nil, stageErr(StageExtract, unzipDir, ErrFilesystem, err)
	}
	defer os.RemoveAll(staging)

	staged := make([][]stagedMember, len(archives))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, path := range archives {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			members, err := stageArchive(path, filepath.Join(staging, strconv.Itoa(i)))
			if err != nil {
				return err
			}
			staged[i] = members
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var extracted []ExtractedFile
	var stamps []stampedPath
	for i, path := range archives {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		files, err := mergeArchive(path, filepath.Join(staging, strconv.Itoa(i)), unzipDir, staged[i], &stamps)
		if err != nil {
			return nil, err
		}
		extracted = append(extracted, files...)
		e.log.Info("extracted archive", logger.String("archive", path), logger.Int("files", len(files)))
	}
	if err := os.RemoveAll(staging); err != nil {
		return nil, stageErr(StageExtract, staging, ErrFilesystem, err)
	}

	// Times are applied after every move so later writes cannot bump the
	// mtime of directories restored earlier. Later entries win.
	for _, s := range stamps {
		if err := os.Chtimes(s.path, s.modified, s.modified); err != nil {
			return nil, stageErr(StageExtract, s.path, ErrFilesystem, err)
		}
	}
	return extracted, nil
}

// stagedMember is one member decoded into an archive's staging directory.
type stagedMember struct {
	name     string
	modified time.Time
	dir      bool
}

type stampedPath struct {
	path     string
	modified time.Time
}

// stageArchive decodes every member of the archive at path below stageDir.
// A name repeated inside one archive keeps its last entry.
func stageArchive(path, stageDir string) ([]stagedMember, error) {
	r, err := openArchive(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var members []stagedMember
	seen := make(map[string]int)
	for _, f := range r.File {
		if err := checkMemberName(f.Name); err != nil {
			return nil, stageErr(StageExtract, path, ErrDecode, err)
		}
		target := filepath.Join(stageDir, filepath.FromSlash(f.Name))
		m := stagedMember{name: f.Name, modified: MemberTime(&f.FileHeader), dir: f.FileInfo().IsDir()}
		if m.dir {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return nil, stageErr(StageExtract, target, ErrFilesystem, err)
			}
		} else if err := writeMember(f, target); err != nil {
			return nil, &StageError{Stage: StageExtract, Path: path, Err: err}
		}
		if idx, ok := seen[m.name]; ok {
			members[idx] = m
			continue
		}
		seen[m.name] = len(members)
		members = append(members, m)
	}
	return members, nil
}

// mergeArchive moves the staged members of one archive into unzipDir,
// replacing files a previous archive left under the same name, and queues
// their timestamps on stamps.
func mergeArchive(path, stageDir, unzipDir string, members []stagedMember, stamps *[]stampedPath) ([]ExtractedFile, error) {
	var files []ExtractedFile
	for _, m := range members {
		target := filepath.Join(unzipDir, filepath.FromSlash(m.name))
		if m.dir {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return nil, stageErr(StageExtract, target, ErrFilesystem, err)
			}
		} else {
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return nil, stageErr(StageExtract, target, ErrFilesystem, err)
			}
			staged := filepath.Join(stageDir, filepath.FromSlash(m.name))
			if err := os.Rename(staged, target); err != nil {
				return nil, stageErr(StageExtract, path, ErrFilesystem, err)
			}
			files = append(files, ExtractedFile{Path: target, Modified: m.modified})
		}
		*stamps = append(*stamps, stampedPath{path: target, modified: m.modified})
	}
	return files, nil
}

func openArchive(path string) (*zip.ReadCloser, error) {
	r, err := zip.OpenReader(path)
	if errors.Is(err, zip.ErrInsecurePath) {
		if r != nil {
			r.Close()
		}
		err = fmt.Errorf("%w: %w", ErrInsecurePath, err)
	}
	if err != nil {
		return nil, stageErr(StageExtract, path, ErrDecode, err)
	}
	return r, nil
}

func checkMemberName(name string) error {
	if !filepath.IsLocal(filepath.FromSlash(name)) {
		return fmt.Errorf("%w: %q", ErrInsecurePath, name)
	}
	return nil
}

// writeMember streams one member to target. Read failures are reported as
// ErrDecode, write failures as ErrFilesystem.
func writeMember(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrFilesystem, err)
	}
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("%w: opening member %s: %w", ErrDecode, f.Name, err)
	}
	defer rc.Close()

	// Members land through a rename so a failed write never leaves a
	// partial file under the member's name.
	out, err := os.CreateTemp(filepath.Dir(target), ".dayzip-*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFilesystem, err)
	}
	perm := f.Mode().Perm() | 0o600
	_, copyErr := io.Copy(out, memberReader{r: rc})
	if copyErr == nil {
		copyErr = out.Chmod(perm)
	}
	closeErr := out.Close()
	switch {
	case errors.Is(copyErr, ErrDecode):
		err = fmt.Errorf("member %s: %w", f.Name, copyErr)
	case copyErr != nil:
		err = fmt.Errorf("%w: writing %s: %w", ErrFilesystem, target, copyErr)
	case closeErr != nil:
		err = fmt.Errorf("%w: closing %s: %w", ErrFilesystem, target, closeErr)
	default:
		if renameErr := os.Rename(out.Name(), target); renameErr != nil {
			err = fmt.Errorf("%w: %w", ErrFilesystem, renameErr)
		}
	}
	if err != nil {
		os.Remove(out.Name())
		return err
	}
	return nil
}

// memberReader tags read errors so they can be told apart from write errors
// after io.Copy.
type memberReader struct {
	r io.Reader
}

func (m memberReader) Read(p []byte) (int, error) {
	n, err := m.r.Read(p)
	if err != nil && err != io.EOF {
		err = fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return n, err
}
