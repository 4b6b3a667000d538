package stager

import (
	"fmt"
	"time"

	derrors "git.home.luguber.info/inful/assetstager/internal/errors"
	"git.home.luguber.info/inful/assetstager/internal/manifest"
)

// DirResult records one directory handled by EnsureDirectories.
type DirResult struct {
	Path    string
	Created bool
}

// Outcome is the structured result of one manifest entry.
type Outcome struct {
	Index     int
	Entry     manifest.Entry
	Kind      Kind
	SizeBytes int64
	Err       *EntryError
	Duration  time.Duration
}

// OK reports whether the entry succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Result aggregates a run. Succeeded+Failed always equals len(Outcomes), which
// equals the length of the manifest that was staged.
type Result struct {
	RunID       string
	DryRun      bool
	StartedAt   time.Time
	Duration    time.Duration
	Directories []DirResult
	Outcomes    []Outcome
	Succeeded   int
	Failed      int
	BytesStaged int64
}

// Total returns the number of entries processed.
func (r *Result) Total() int {
	return len(r.Outcomes)
}

// Failures returns the failed outcomes in manifest order.
func (r *Result) Failures() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			out = append(out, o)
		}
	}
	return out
}

// ExitCode is 0 when every entry succeeded and non-zero otherwise.
func (r *Result) ExitCode() int {
	if r.Failed > 0 {
		return derrors.ExitStagingFailed
	}
	return derrors.ExitOK
}

// Err converts a run with failed entries into a classified staging error.
// It returns nil when nothing failed.
func (r *Result) Err() error {
	if r.Failed == 0 {
		return nil
	}
	msg := fmt.Sprintf("%d of %d assets failed to stage", r.Failed, r.Total())
	if r.DryRun {
		msg = fmt.Sprintf("%d of %d asset sources are not available", r.Failed, r.Total())
	}
	b := derrors.StagingError(msg).
		WithContext("run_id", r.RunID).
		WithContext("failed", r.Failed).
		WithContext("succeeded", r.Succeeded)
	return b.Build()
}

func (r *Result) tally() {
	r.Succeeded, r.Failed, r.BytesStaged = 0, 0, 0
	for _, o := range r.Outcomes {
		if o.OK() {
			r.Succeeded++
			if o.Kind == KindCopied {
				r.BytesStaged += o.SizeBytes
			}
			continue
		}
		r.Failed++
	}
}
