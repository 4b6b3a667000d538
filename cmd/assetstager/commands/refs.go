package commands

import (
	"os"
	"slices"

	derrors "git.home.luguber.info/inful/assetstager/internal/errors"
	"git.home.luguber.info/inful/assetstager/internal/refcheck"
	"git.home.luguber.info/inful/assetstager/internal/report"
)

// RefsCmd implements the 'refs' command.
type RefsCmd struct {
	Dirs []string `arg:"" optional:"" help:"Template directories to scan; defaults to templates.dirs"`
}

func (r *RefsCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	dirs := cfg.Templates.Dirs
	if len(r.Dirs) > 0 {
		dirs = slices.Clone(r.Dirs)
	}

	checker := refcheck.NewChecker(os.DirFS(cfg.Root), cfg.Manifest(), refcheck.Options{
		StaticRoot: cfg.Templates.StaticRoot,
		URLPrefix:  cfg.Templates.URLPrefix,
		Extensions: cfg.Templates.Extensions,
	})
	rep, err := checker.Check(ctx, dirs)
	if err != nil {
		return err
	}
	if err := report.FormatReferences(g.stdout(), rep); err != nil {
		return derrors.WrapError(err, derrors.CategoryInternal, "failed to write report").Build()
	}
	return rep.Err()
}
