package commands

import (
	"context"
	"io"

	"git.home.luguber.info/inful/assetstager/internal/config"
	derrors "git.home.luguber.info/inful/assetstager/internal/errors"
	"git.home.luguber.info/inful/assetstager/internal/report"
)

// StageCmd implements the 'stage' command.
type StageCmd struct {
	Format      string `short:"f" default:"text" help:"Report format (text or json)" enum:"text,json"`
	Workers     int    `short:"w" help:"Concurrent copies; overrides stage.workers"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics to this textfile; overrides metrics.textfile"`
}

func (s *StageCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	return RunStage(ctx, cfg, g.stdout(), s.Format, s.Workers, s.MetricsFile)
}

// RunStage performs one staging run and renders its report to w. A directory
// that cannot be created aborts the run before any copy; otherwise the
// returned error is non-nil exactly when at least one entry failed.
func RunStage(ctx context.Context, cfg *config.Config, w io.Writer, format string, workers int, metricsFile string) error {
	rt := newStageRuntime(cfg, workers, metricsFile)
	defer rt.flushMetrics()

	res, err := rt.stager.Run(ctx, cfg.Directories, cfg.Manifest())
	if err != nil {
		return err
	}
	if err := report.NewFormatter(format, cfg.Report.NextSteps).Format(w, res); err != nil {
		return derrors.WrapError(err, derrors.CategoryInternal, "failed to write report").Build()
	}
	return res.Err()
}
