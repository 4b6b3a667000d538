// Package report renders staging results for people and for CI.
package report

import (
	"io"

	"git.home.luguber.info/inful/assetstager/internal/stager"
)

// Formatter writes a staging result to w.
type Formatter interface {
	Format(w io.Writer, res *stager.Result) error
}

// DefaultNextSteps are printed after a fully successful run when no steps are configured.
var DefaultNextSteps = []string{
	"Run 'npm run build-css' to build Tailwind CSS",
	"Update your HTML templates to use local assets",
	"Test your application",
}

// NewFormatter creates the appropriate formatter based on format string.
func NewFormatter(format string, nextSteps []string) Formatter {
	switch format {
	case "json":
		return NewJSONFormatter()
	default:
		return NewTextFormatter(nextSteps)
	}
}

// sizeKB rounds a byte count to the nearest whole KiB, halves up.
func sizeKB(n int64) int64 {
	return (n + 512) / 1024
}
