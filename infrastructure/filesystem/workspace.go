package filesystem

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Workspace hands out per-job scratch directories under a single root and
// cleans them up afterwards. The root is typically /tmp, which the host
// keeps world-writable for tool subprocesses.
type Workspace struct {
	root string
}

// NewWorkspace creates a workspace rooted at the given directory
func NewWorkspace(root string) *Workspace {
	return &Workspace{root: root}
}

// Root returns the workspace root directory
func (w *Workspace) Root() string {
	return w.root
}

// JobDir creates a fresh scratch directory for one job
func (w *Workspace) JobDir(jobID string) (string, error) {
	if err := os.MkdirAll(w.root, 0o755); err != nil {
		return "", fmt.Errorf("failed to create workspace root %s: %w", w.root, err)
	}

	dir, err := os.MkdirTemp(w.root, "mediainfo-"+jobID+"-")
	if err != nil {
		return "", fmt.Errorf("failed to create scratch directory: %w", err)
	}
	return dir, nil
}

// Cleanup removes a scratch directory and everything in it. Paths outside
// the workspace root are refused.
func (w *Workspace) Cleanup(dir string) error {
	rel, err := filepath.Rel(w.root, dir)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("refusing to remove %s: outside workspace root %s", dir, w.root)
	}
	return os.RemoveAll(dir)
}

// MoveFile moves a finished artifact out of scratch space. Rename is
// attempted first; a cross-device move falls back to copy and delete,
// since /tmp is often a separate tmpfs mount.
func MoveFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to finish writing %s: %w", dst, err)
	}

	return os.Remove(src)
}
