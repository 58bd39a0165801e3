// Package atomic replaces file contents all at once: the new bytes are
// written to a temporary file beside the target and renamed over it.
package atomic

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Writer writes files atomically.
type Writer struct {
	// Perm is used when the target does not exist yet. An existing target
	// keeps its own mode.
	Perm os.FileMode
	// NoSync skips fsync of the file and its directory.
	NoSync bool
	// BeforeCommit, if set, runs after the temp file is fully written and
	// before it is renamed over the target. An error aborts the write.
	BeforeCommit func(tmpPath string) error
}

// WriteFile writes data to path with a default Writer.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	w := Writer{Perm: perm}
	return w.WriteFile(path, data)
}

// TempName returns the temporary file name used for path.
func TempName(path string) string {
	return filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
}

// WriteFile writes data to a temporary file in path's directory, syncs it
// and renames it over path. On any failure the temporary file is removed
// and path is left as it was.
func (w *Writer) WriteFile(path string, data []byte) error {
	perm := w.Perm
	if perm == 0 {
		perm = 0o644
	}
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp := TempName(path)
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	fail := func(step string, err error) error {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("%s: %w", step, err)
	}

	if _, err := f.Write(data); err != nil {
		return fail("writing temp file", err)
	}
	if !w.NoSync {
		if err := f.Sync(); err != nil {
			return fail("syncing temp file", err)
		}
	}
	// OpenFile applies the umask; make the final mode match.
	if err := f.Chmod(perm); err != nil {
		return fail("setting mode", err)
	}
	if w.BeforeCommit != nil {
		if err := w.BeforeCommit(tmp); err != nil {
			return fail("before commit", err)
		}
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	if !w.NoSync {
		syncDir(filepath.Dir(path))
	}
	return nil
}

// syncDir flushes the directory entry for the rename. Not every platform
// supports it, so errors are ignored.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	d.Sync()
	d.Close()
}
