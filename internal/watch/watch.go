package watch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/assetstager/internal/logfields"
)

// Options configures Run.
type Options struct {
	Root     string
	Sources  []string
	Debounce time.Duration
	Resync   time.Duration // zero disables periodic resyncs
	Logger   *slog.Logger
}

// Run calls stage once with TriggerInitial, then again after every debounced
// source change and every resync interval, until ctx is done. Calls to stage
// never overlap.
func Run(ctx context.Context, opts Options, stage func(context.Context, Trigger)) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var mu sync.Mutex
	serialized := func(ctx context.Context, trigger Trigger) {
		mu.Lock()
		defer mu.Unlock()
		if ctx.Err() != nil {
			return
		}
		logger.Info("Staging triggered", logfields.Trigger(string(trigger)))
		stage(ctx, trigger)
	}

	watcher, err := NewSourceWatcher(opts.Root, opts.Sources, opts.Debounce, logger)
	if err != nil {
		return err
	}

	serialized(ctx, TriggerInitial)

	if opts.Resync > 0 {
		sched, err := NewScheduler(logger)
		if err != nil {
			_ = watcher.Close()
			return err
		}
		if _, err := sched.ScheduleResync(ctx, opts.Resync, serialized); err != nil {
			_ = sched.Stop()
			_ = watcher.Close()
			return err
		}
		sched.Start()
		defer func() {
			if err := sched.Stop(); err != nil {
				logger.Error("Error stopping scheduler", logfields.Error(err))
			}
		}()
	}

	logger.Info("Watching asset sources",
		slog.Int("sources", len(opts.Sources)),
		slog.Int("directories", len(watcher.Watched())),
		slog.Duration("debounce", opts.Debounce),
		slog.Duration("resync", opts.Resync))
	return watcher.Run(ctx, serialized)
}
