package storage

import (
	"io/fs"
	"path/filepath"
	"sort"
	"sync"
)

// Op names an FS operation for failure injection.
type Op string

const (
	OpExists   Op = "exists"
	OpCopy     Op = "copy"
	OpStatSize Op = "stat_size"
	OpMkdirAll Op = "mkdir_all"
)

// MemFS is an in-memory implementation of FS for testing.
type MemFS struct {
	mu       sync.RWMutex
	files    map[string][]byte
	dirs     map[string]bool
	failures map[Op]map[string]error
	calls    MemCalls
}

// MemCalls tracks method invocations for test verification.
type MemCalls struct {
	Exists   int
	Copy     int
	StatSize int
	MkdirAll int
}

// NewMemFS creates an empty in-memory filesystem. Only the root "." exists.
func NewMemFS() *MemFS {
	return &MemFS{
		files:    make(map[string][]byte),
		dirs:     map[string]bool{".": true},
		failures: make(map[Op]map[string]error),
	}
}

// WriteFile stores data at path, creating parent directories as needed.
func (m *MemFS) WriteFile(path string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = clean(path)
	for _, dir := range ancestors(filepath.Dir(path)) {
		m.dirs[dir] = true
	}
	m.files[path] = append([]byte(nil), data...)
}

// ReadFile returns a copy of the data stored at path.
func (m *MemFS) ReadFile(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[clean(path)]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), data...), true
}

// IsDir reports whether path is a directory.
func (m *MemFS) IsDir(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dirs[clean(path)]
}

// Files lists stored file paths in sorted order.
func (m *MemFS) Files() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.files))
	for p := range m.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// FailOn makes op on path return err until cleared with a nil err.
func (m *MemFS) FailOn(op Op, path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failures[op] == nil {
		m.failures[op] = make(map[string]error)
	}
	if err == nil {
		delete(m.failures[op], clean(path))
		return
	}
	m.failures[op][clean(path)] = err
}

// Calls returns a snapshot of the invocation counters.
func (m *MemFS) Calls() MemCalls {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls
}

// Exists reports whether a file or directory is stored at path.
func (m *MemFS) Exists(path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls.Exists++
	path = clean(path)
	if err := m.failure(OpExists, path); err != nil {
		return false, err
	}
	_, isFile := m.files[path]
	return isFile || m.dirs[path], nil
}

// MkdirAll creates path and its ancestors.
func (m *MemFS) MkdirAll(path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls.MkdirAll++
	path = clean(path)
	if err := m.failure(OpMkdirAll, path); err != nil {
		return false, err
	}
	if m.dirs[path] {
		return false, nil
	}
	chain := ancestors(path)
	for _, dir := range chain {
		if _, isFile := m.files[dir]; isFile {
			return false, &fs.PathError{Op: "mkdir", Path: dir, Err: ErrNotDir}
		}
	}
	for _, dir := range chain {
		m.dirs[dir] = true
	}
	return true, nil
}

// Copy duplicates the bytes stored at src into dst.
func (m *MemFS) Copy(src, dst string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls.Copy++
	src, dst = clean(src), clean(dst)
	if err := m.failure(OpCopy, dst); err != nil {
		return err
	}
	if err := m.failure(OpCopy, src); err != nil {
		return err
	}
	if src == dst {
		return &fs.PathError{Op: "copy", Path: dst, Err: ErrSameFile}
	}
	data, ok := m.files[src]
	if !ok {
		if m.dirs[src] {
			return &fs.PathError{Op: "copy", Path: src, Err: ErrIsDir}
		}
		return &fs.PathError{Op: "open", Path: src, Err: fs.ErrNotExist}
	}
	if !m.dirs[filepath.Dir(dst)] {
		return &fs.PathError{Op: "open", Path: dst, Err: fs.ErrNotExist}
	}
	if m.dirs[dst] {
		return &fs.PathError{Op: "open", Path: dst, Err: ErrIsDir}
	}
	m.files[dst] = append([]byte(nil), data...)
	return nil
}

// StatSize returns the length of the file stored at path.
func (m *MemFS) StatSize(path string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls.StatSize++
	path = clean(path)
	if err := m.failure(OpStatSize, path); err != nil {
		return 0, err
	}
	data, ok := m.files[path]
	if !ok {
		return 0, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
	}
	return int64(len(data)), nil
}

func (m *MemFS) failure(op Op, path string) error {
	return m.failures[op][path]
}

func clean(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
}

// ancestors returns path and every parent up to, but excluding, the root,
// outermost first.
func ancestors(path string) []string {
	path = clean(path)
	if path == "." || path == "/" {
		return nil
	}
	var chain []string
	for p := path; p != "." && p != "/"; p = clean(filepath.Dir(p)) {
		chain = append([]string{p}, chain...)
		if filepath.Dir(p) == p {
			break
		}
	}
	return chain
}
