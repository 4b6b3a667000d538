package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// OSFS implements FS on the host filesystem. Relative paths are resolved
// against root; an empty root means the process working directory.
type OSFS struct {
	root string
}

// NewOSFS creates an OSFS rooted at root.
func NewOSFS(root string) *OSFS {
	return &OSFS{root: root}
}

// Root returns the directory relative paths are resolved against.
func (o *OSFS) Root() string {
	if o.root == "" {
		return "."
	}
	return o.root
}

// Resolve maps a manifest path onto the host filesystem.
func (o *OSFS) Resolve(path string) string {
	if o.root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(o.root, path)
}

// Exists reports whether path exists.
func (o *OSFS) Exists(path string) (bool, error) {
	_, err := os.Stat(o.Resolve(path))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// MkdirAll creates path and missing ancestors.
func (o *OSFS) MkdirAll(path string) (bool, error) {
	full := o.Resolve(path)
	info, err := os.Stat(full)
	switch {
	case err == nil && info.IsDir():
		return false, nil
	case err == nil:
		return false, &fs.PathError{Op: "mkdir", Path: full, Err: ErrNotDir}
	case !errors.Is(err, fs.ErrNotExist):
		return false, err
	}

	//nolint:gosec // G301: static asset directories are served publicly
	if err := os.MkdirAll(full, DirPerm); err != nil {
		return false, err
	}
	return true, nil
}

// Copy copies src to dst, preserving the source permission bits plus owner
// write. Copying a file onto itself (same path or a link to it) fails with
// ErrSameFile and leaves the file untouched.
func (o *OSFS) Copy(src, dst string) error {
	srcPath, dstPath := o.Resolve(src), o.Resolve(dst)

	srcInfo, err := os.Stat(srcPath)
	if err != nil {
		return err
	}
	if srcInfo.IsDir() {
		return &fs.PathError{Op: "copy", Path: srcPath, Err: ErrIsDir}
	}
	if dstInfo, err := os.Stat(dstPath); err == nil && os.SameFile(srcInfo, dstInfo) {
		return &fs.PathError{Op: "copy", Path: dstPath, Err: ErrSameFile}
	}

	//nolint:gosec // G304: path comes from the asset manifest
	srcFile, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = srcFile.Close()
	}()

	//nolint:gosec // G304: path comes from the asset manifest
	dstFile, err := os.Create(dstPath)
	if err != nil {
		return err
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		return fmt.Errorf("write %s: %w", dstPath, err)
	}
	if err := dstFile.Close(); err != nil {
		return err
	}

	return os.Chmod(dstPath, srcInfo.Mode().Perm()|ownerWrite)
}

// StatSize returns the size of the file at path.
func (o *OSFS) StatSize(path string) (int64, error) {
	info, err := os.Stat(o.Resolve(path))
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
