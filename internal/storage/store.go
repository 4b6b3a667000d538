// Package storage provides the filesystem capability used to stage assets.
//
// The stager never calls the os package directly; it talks to an FS. OSFS backs
// it with real files under a root directory, MemFS keeps everything in memory
// for deterministic tests.
package storage

import (
	"errors"
	"os"
)

// FS is the minimal set of filesystem operations needed to stage files.
// Implementations must be safe for concurrent use; copies of distinct entries
// may run in parallel.
type FS interface {
	// Exists reports whether path exists. A path that does not exist is not an
	// error; any other failure to inspect it is.
	Exists(path string) (bool, error)

	// Copy copies the regular file at src to dst byte for byte, creating dst or
	// truncating it if present. The parent directory of dst must exist. When
	// src and dst are the same file Copy fails with ErrSameFile.
	Copy(src, dst string) error

	// StatSize returns the size in bytes of the file at path.
	StatSize(path string) (int64, error)

	// MkdirAll creates path and any missing ancestors. created is false when
	// the directory already existed.
	MkdirAll(path string) (created bool, err error)
}

// DirPerm is the permission used for directories created under the static tree.
const DirPerm os.FileMode = 0o755

// ErrNotDir is returned when a directory operation meets an existing non-directory.
var ErrNotDir = errors.New("not a directory")

// ErrSameFile is returned when a copy's source and destination are the same file.
var ErrSameFile = errors.New("source and destination are the same file")

// ownerWrite keeps staged copies writable so the next run can overwrite them.
const ownerWrite os.FileMode = 0o200

// ErrIsDir is returned when a file operation is pointed at a directory.
var ErrIsDir = errors.New("is a directory")
