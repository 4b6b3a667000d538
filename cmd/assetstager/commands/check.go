package commands

import (
	derrors "git.home.luguber.info/inful/assetstager/internal/errors"
	"git.home.luguber.info/inful/assetstager/internal/report"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	Format string `short:"f" default:"text" help:"Report format (text or json)" enum:"text,json"`
}

func (c *CheckCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	rt := newStageRuntime(cfg, 0, "")
	res := rt.stager.Check(ctx, cfg.Manifest())
	if err := report.NewFormatter(c.Format, nil).Format(g.stdout(), res); err != nil {
		return derrors.WrapError(err, derrors.CategoryInternal, "failed to write report").Build()
	}
	return res.Err()
}
