package report

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"git.home.luguber.info/inful/assetstager/internal/stager"
)

// TextFormatter prints the console report: created directories, one line per
// entry, a summary and, when nothing failed, the next steps.
type TextFormatter struct {
	nextSteps []string
}

// NewTextFormatter creates a text formatter. A nil nextSteps uses DefaultNextSteps;
// an empty non-nil slice prints none.
func NewTextFormatter(nextSteps []string) *TextFormatter {
	if nextSteps == nil {
		nextSteps = DefaultNextSteps
	}
	return &TextFormatter{nextSteps: nextSteps}
}

// lineWriter remembers the first write error so callers can check once.
type lineWriter struct {
	w   io.Writer
	err error
}

func (l *lineWriter) printf(format string, args ...any) {
	if l.err != nil {
		return
	}
	_, l.err = fmt.Fprintf(l.w, format, args...)
}

// Format outputs res in human-readable text format.
func (f *TextFormatter) Format(w io.Writer, res *stager.Result) error {
	lw := &lineWriter{w: w}
	if res.DryRun {
		f.formatCheck(lw, res)
		return lw.err
	}

	lw.printf("Building static JavaScript assets...\n")
	lw.printf("Creating directories...\n")
	for _, d := range res.Directories {
		if d.Created {
			lw.printf("  ✓ Created %s\n", d.Path)
		}
	}

	lw.printf("\nCopying JavaScript dependencies...\n")
	for _, o := range res.Outcomes {
		formatOutcome(lw, o)
	}

	lw.printf("\n📊 Summary:\n")
	lw.printf("  • Successfully copied: %d files\n", res.Succeeded)
	if res.Failed > 0 {
		lw.printf("  • Errors: %d files\n", res.Failed)
	} else {
		lw.printf("  • No errors\n")
	}
	lw.printf("  • Total staged: %s\n", humanize.IBytes(uint64(res.BytesStaged)))

	if res.Failed > 0 {
		return lw.err
	}
	lw.printf("\n✅ Static JavaScript assets build completed!\n")
	if len(f.nextSteps) > 0 {
		lw.printf("\nNext steps:\n")
		for i, step := range f.nextSteps {
			lw.printf("  %d. %s\n", i+1, step)
		}
	}
	return lw.err
}

func formatOutcome(lw *lineWriter, o stager.Outcome) {
	switch o.Kind {
	case stager.KindCopied:
		lw.printf("  ✓ %s: %s -> %s (%d KB)\n", o.Entry.Label(), o.Entry.Source, o.Entry.Destination, sizeKB(o.SizeBytes))
	case stager.KindPresent:
		lw.printf("  ✓ %s: %s (%d KB)\n", o.Entry.Label(), o.Entry.Source, sizeKB(o.SizeBytes))
	case stager.KindMissingSource:
		lw.printf("  ✗ %s: %s\n", o.Entry.Label(), o.Err.Reason())
	default:
		reason := "unknown error"
		if o.Err != nil {
			reason = o.Err.Reason()
		}
		lw.printf("  ✗ %s: Error copying file: %s\n", o.Entry.Label(), reason)
	}
}

func (f *TextFormatter) formatCheck(lw *lineWriter, res *stager.Result) {
	lw.printf("Checking static asset sources...\n\n")
	var total int64
	for _, o := range res.Outcomes {
		formatOutcome(lw, o)
		if o.OK() {
			total += o.SizeBytes
		}
	}
	lw.printf("\n📊 Summary:\n")
	lw.printf("  • Present: %d files (%s)\n", res.Succeeded, humanize.IBytes(uint64(total)))
	if res.Failed > 0 {
		lw.printf("  • Errors: %d files\n", res.Failed)
		return
	}
	lw.printf("  • No errors\n")
}
