package report

import (
	"io"

	"git.home.luguber.info/inful/assetstager/internal/refcheck"
)

// FormatReferences prints the result of a template reference check.
// Only unresolved references are listed; resolved ones are counted.
func FormatReferences(w io.Writer, rep *refcheck.Report) error {
	lw := &lineWriter{w: w}
	lw.printf("Checking template asset references...\n")
	for _, dir := range rep.SkippedDirs {
		lw.printf("  • Skipped missing template directory %s\n", dir)
	}

	missing := rep.Missing()
	if len(missing) > 0 {
		lw.printf("\n")
	}
	for _, f := range missing {
		lw.printf("  ✗ %s: %s -> %s (not staged, not found)\n", f.Template, f.Value, f.Target)
	}

	staged, present := 0, 0
	for _, f := range rep.Findings {
		switch f.Status {
		case refcheck.StatusStaged:
			staged++
		case refcheck.StatusPresent:
			present++
		}
	}

	lw.printf("\n📊 Summary:\n")
	lw.printf("  • Templates scanned: %d\n", rep.Templates)
	lw.printf("  • References staged by manifest: %d\n", staged)
	lw.printf("  • References to other existing files: %d\n", present)
	if len(missing) > 0 {
		lw.printf("  • Unresolved references: %d\n", len(missing))
	} else {
		lw.printf("  • No unresolved references\n")
	}
	return lw.err
}
