package commands

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/assetstager/internal/logfields"
	"git.home.luguber.info/inful/assetstager/internal/report"
	"git.home.luguber.info/inful/assetstager/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Workers     int           `short:"w" help:"Concurrent copies; overrides stage.workers"`
	MetricsFile string        `name:"metrics-file" help:"Write Prometheus metrics to this textfile after every run; overrides metrics.textfile"`
	Debounce    time.Duration `help:"Quiet period after a source change; overrides watch.debounce"`
	Resync      time.Duration `help:"Re-stage everything at this interval (0 keeps watch.resync_interval)"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	opts := watch.Options{
		Root:     cfg.Root,
		Sources:  cfg.Manifest().Sources(),
		Debounce: cfg.DebounceDuration(),
		Resync:   cfg.ResyncDuration(),
		Logger:   slog.Default(),
	}
	if w.Debounce > 0 {
		opts.Debounce = w.Debounce
	}
	if w.Resync > 0 {
		opts.Resync = w.Resync
	}

	rt := newStageRuntime(cfg, w.Workers, w.MetricsFile)
	formatter := report.NewTextFormatter(cfg.Report.NextSteps)
	m := cfg.Manifest()

	stage := func(ctx context.Context, trigger watch.Trigger) {
		defer rt.flushMetrics()
		res, err := rt.stager.Run(ctx, cfg.Directories, m)
		if err != nil {
			slog.Error("Staging aborted", logfields.Trigger(string(trigger)), logfields.Error(err))
			return
		}
		if err := formatter.Format(g.stdout(), res); err != nil {
			slog.Warn("Failed to write report", logfields.Error(err))
		}
		if res.Failed > 0 {
			slog.Warn("Staging finished with failures",
				logfields.Trigger(string(trigger)),
				logfields.RunID(res.RunID),
				logfields.Failed(res.Failed))
		}
	}

	if err := watch.Run(ctx, opts, stage); err != nil {
		return err
	}
	slog.Info("Watch stopped")
	return nil
}
