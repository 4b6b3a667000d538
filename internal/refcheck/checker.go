package refcheck

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	derrors "git.home.luguber.info/inful/assetstager/internal/errors"
	"git.home.luguber.info/inful/assetstager/internal/logfields"
	"git.home.luguber.info/inful/assetstager/internal/manifest"
)

// Status classifies a resolved reference.
type Status string

const (
	// StatusStaged: a manifest entry writes the referenced file.
	StatusStaged Status = "staged"
	// StatusPresent: the file exists but no manifest entry produces it.
	StatusPresent Status = "present"
	// StatusMissing: nothing produces the file and it does not exist.
	StatusMissing Status = "missing"
)

// Finding is a reference found in one template, with its resolution.
type Finding struct {
	Template string
	Reference
	Target string // project-relative file the reference resolves to
	Status Status
}

// Report is the result of checking a set of template directories.
type Report struct {
	Templates   int
	Findings    []Finding
	SkippedDirs []string
}

// Missing returns the findings nothing can satisfy.
func (r *Report) Missing() []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Status == StatusMissing {
			out = append(out, f)
		}
	}
	return out
}

// Err returns a templates error when any reference is missing.
func (r *Report) Err() error {
	missing := r.Missing()
	if len(missing) == 0 {
		return nil
	}
	return derrors.TemplatesError("templates reference static assets that are not staged").
		WithContext("missing", len(missing)).
		WithContext("templates", r.Templates).
		Build()
}

// Options configures a Checker. Paths are slash-separated and relative to the
// project root.
type Options struct {
	StaticRoot string
	URLPrefix  string
	Extensions []string
	Logger     *slog.Logger
}

// Checker resolves template references against a manifest and a project tree.
type Checker struct {
	fsys         fs.FS
	staticRoot   string
	urlPrefix    string
	extensions   map[string]bool
	destinations map[string]bool
	logger       *slog.Logger
}

// NewChecker creates a Checker over the project tree fsys.
func NewChecker(fsys fs.FS, m manifest.Manifest, opts Options) *Checker {
	c := &Checker{
		fsys:         fsys,
		staticRoot:   cleanRel(opts.StaticRoot),
		urlPrefix:    opts.URLPrefix,
		extensions:   make(map[string]bool, len(opts.Extensions)),
		destinations: make(map[string]bool, len(m)),
		logger:       opts.Logger,
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	for _, ext := range opts.Extensions {
		c.extensions[strings.ToLower(ext)] = true
	}
	for _, e := range m {
		c.destinations[cleanRel(e.Destination)] = true
	}
	return c
}

// Check scans every template below dirs. Directories that do not exist are
// skipped and listed in the report.
func (c *Checker) Check(ctx context.Context, dirs []string) (*Report, error) {
	report := &Report{}
	for _, dir := range dirs {
		dir = cleanRel(dir)
		err := fs.WalkDir(c.fsys, dir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if d.IsDir() || !c.extensions[strings.ToLower(path.Ext(p))] {
				return nil
			}
			findings, err := c.CheckFile(p)
			if err != nil {
				return err
			}
			report.Templates++
			report.Findings = append(report.Findings, findings...)
			return nil
		})
		switch {
		case err == nil:
		case errors.Is(err, fs.ErrNotExist) && !c.exists(dir):
			c.logger.Warn("Template directory not found", logfields.Path(dir))
			report.SkippedDirs = append(report.SkippedDirs, dir)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return report, derrors.WrapError(err, derrors.CategoryRuntime, "template scan interrupted").Build()
		default:
			return report, derrors.WrapError(err, derrors.CategoryTemplates, "failed to scan templates").
				WithContext("path", dir).
				Build()
		}
	}
	return report, nil
}

// CheckFile extracts and resolves the references of one template.
func (c *Checker) CheckFile(name string) ([]Finding, error) {
	f, err := c.fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	refs, err := ExtractReferences(f, c.urlPrefix)
	if err != nil {
		return nil, err
	}
	findings := make([]Finding, 0, len(refs))
	for _, ref := range refs {
		target := path.Join(c.staticRoot, ref.Path)
		status := StatusMissing
		switch {
		case c.destinations[target]:
			status = StatusStaged
		case c.exists(target):
			status = StatusPresent
		}
		if status == StatusMissing {
			c.logger.Debug("Unresolved static reference", logfields.File(name), logfields.Path(target))
		}
		findings = append(findings, Finding{Template: name, Reference: ref, Target: target, Status: status})
	}
	return findings, nil
}

func (c *Checker) exists(name string) bool {
	_, err := fs.Stat(c.fsys, name)
	return err == nil
}

// cleanRel turns a project-relative path into the slash form io/fs expects.
func cleanRel(p string) string {
	p = path.Clean(filepath.ToSlash(p))
	p = strings.TrimPrefix(p, "./")
	if p == "" || p == "/" {
		return "."
	}
	return strings.TrimPrefix(p, "/")
}
