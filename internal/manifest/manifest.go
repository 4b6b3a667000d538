// Package manifest describes the files staged into a project's static-asset tree.
//
// A Manifest is an ordered list of entries, each copying one file from the
// dependency cache to a destination under the static tree. Manifests are plain
// values: they are built fresh for every run, either from configuration or from
// Default, and never shared through package state.
package manifest

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// Entry is one file to stage.
type Entry struct {
	// Source is the file to copy, relative to the project root.
	Source string `json:"source"`
	// Destination is where the copy is written, relative to the project root.
	Destination string `json:"destination"`
	// Name labels the entry in reports. It has no behavioral meaning.
	Name string `json:"name"`
}

// Label returns Name, falling back to the base name of Source.
func (e Entry) Label() string {
	if e.Name != "" {
		return e.Name
	}
	return filepath.Base(e.Source)
}

// Manifest is an ordered list of entries. Order only affects report order.
type Manifest []Entry

// ValidationError lists every problem found in a manifest.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid manifest: " + strings.Join(e.Problems, "; ")
}

// Validate checks that every entry names a source and a destination distinct
// from it, and that no two entries write the same destination.
func (m Manifest) Validate() error {
	var problems []string
	seen := make(map[string]int, len(m))
	for i, e := range m {
		label := fmt.Sprintf("entry %d (%s)", i, e.Label())
		if strings.TrimSpace(e.Source) == "" {
			problems = append(problems, label+": source is required")
		}
		if strings.TrimSpace(e.Destination) == "" {
			problems = append(problems, label+": destination is required")
			continue
		}
		key := normalize(e.Destination)
		if strings.TrimSpace(e.Source) != "" && normalize(e.Source) == key {
			problems = append(problems, label+": source and destination are the same file")
			continue
		}
		if prev, dup := seen[key]; dup {
			problems = append(problems, fmt.Sprintf("%s: destination %s already used by entry %d", label, e.Destination, prev))
			continue
		}
		seen[key] = i
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// Directories returns the parent directories of all destinations in first-seen
// order, without duplicates. The project root itself is omitted.
func (m Manifest) Directories() []string {
	var dirs []string
	seen := make(map[string]bool)
	for _, e := range m {
		dir := filepath.Dir(e.Destination)
		key := normalize(dir)
		if key == "." || seen[key] {
			continue
		}
		seen[key] = true
		dirs = append(dirs, dir)
	}
	return dirs
}

// Sources returns every source path, in manifest order.
func (m Manifest) Sources() []string {
	out := make([]string, 0, len(m))
	for _, e := range m {
		out = append(out, e.Source)
	}
	return out
}

func normalize(p string) string {
	return path.Clean(filepath.ToSlash(p))
}
