package dayzip

import (
	"fmt"
	"os"
)

// Workspace is a scratch directory owned by one run. Path is always a fresh
// directory created for the run; Release removes it. When the caller names a
// parent directory, that parent and anything already inside it are left alone.
type Workspace struct {
	Path     string
	Parent   string
	released bool
}

// AcquireWorkspace creates a fresh directory named after pattern inside
// parent, creating parent when missing. An empty parent means the system
// temporary directory.
func AcquireWorkspace(parent, pattern string) (*Workspace, error) {
	if parent != "" {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return nil, fmt.Errorf("%w: creating workspace %s: %w", ErrFilesystem, parent, err)
		}
	}
	dir, err := os.MkdirTemp(parent, pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: creating workspace: %w", ErrFilesystem, err)
	}
	return &Workspace{Path: dir, Parent: parent}, nil
}

// Supplied reports whether the workspace lives in a caller-named directory.
func (w *Workspace) Supplied() bool {
	return w.Parent != ""
}

// Release removes the run's directory. Calling it again is a no-op.
func (w *Workspace) Release() error {
	if w == nil || w.released {
		return nil
	}
	w.released = true
	if err := os.RemoveAll(w.Path); err != nil {
		return fmt.Errorf("%w: removing workspace %s: %w", ErrFilesystem, w.Path, err)
	}
	return nil
}
