package stager

import (
	"errors"
	"fmt"

	"git.home.luguber.info/inful/assetstager/internal/manifest"
)

// Kind classifies the outcome of a single manifest entry.
type Kind string

const (
	// KindCopied: the source was copied and its size read back.
	KindCopied Kind = "copied"
	// KindPresent: the source exists (dry-run check only).
	KindPresent Kind = "present"
	// KindMissingSource: the source did not exist; the destination was not touched.
	KindMissingSource Kind = "missing_source"
	// KindCopy: any other filesystem failure while checking, copying or sizing.
	KindCopy Kind = "copy_error"
)

var (
	// ErrDirectoryCreation marks the fatal failure to create a destination directory.
	ErrDirectoryCreation = errors.New("directory creation failed")
	// ErrMissingSource marks an entry whose source file does not exist.
	ErrMissingSource = errors.New("source file not found")
	// ErrCopy marks an entry that failed for any other filesystem reason.
	ErrCopy = errors.New("copy failed")
)

// DirectoryError reports a directory that could not be created.
type DirectoryError struct {
	Path string
	Err  error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("create directory %s: %v", e.Path, e.Err)
}

func (e *DirectoryError) Unwrap() []error {
	return []error{ErrDirectoryCreation, e.Err}
}

// EntryError is a recoverable failure of one manifest entry. It never aborts a
// run; it is recorded on the entry's Outcome instead.
type EntryError struct {
	Kind  Kind
	Entry manifest.Entry
	Err   error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("%s: %s", e.Entry.Label(), e.Reason())
}

// Reason is the human-readable cause shown next to the entry in reports.
func (e *EntryError) Reason() string {
	if e.Kind == KindMissingSource {
		return "Source file not found: " + e.Entry.Source
	}
	if e.Err == nil {
		return ErrCopy.Error()
	}
	return e.Err.Error()
}

func (e *EntryError) Unwrap() []error {
	sentinel := ErrCopy
	if e.Kind == KindMissingSource {
		sentinel = ErrMissingSource
	}
	if e.Err == nil {
		return []error{sentinel}
	}
	return []error{sentinel, e.Err}
}

func missingSource(e manifest.Entry) *EntryError {
	return &EntryError{Kind: KindMissingSource, Entry: e}
}

func copyFailure(e manifest.Entry, err error) *EntryError {
	return &EntryError{Kind: KindCopy, Entry: e, Err: err}
}
