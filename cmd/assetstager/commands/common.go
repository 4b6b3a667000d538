package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/assetstager/internal/config"
	"git.home.luguber.info/inful/assetstager/internal/logfields"
	"git.home.luguber.info/inful/assetstager/internal/metrics"
	"git.home.luguber.info/inful/assetstager/internal/stager"
	"git.home.luguber.info/inful/assetstager/internal/storage"
)

// Global context passed to subcommands.
type Global struct {
	Stdout io.Writer // reports
	Stderr io.Writer // logs
}

func (g *Global) stdout() io.Writer {
	if g == nil || g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

func (g *Global) stderr() io.Writer {
	if g == nil || g.Stderr == nil {
		return os.Stderr
	}
	return g.Stderr
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config    string           `short:"c" help:"Configuration file path" default:"assetstager.yaml"`
	Verbose   bool             `short:"v" help:"Enable verbose logging"`
	LogFormat string           `name:"log-format" help:"Log output format (text or json); overrides logging.format"`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`

	Stage StageCmd `cmd:"" default:"1" help:"Copy every manifest entry into the static tree (default)"`
	Check CheckCmd `cmd:"" help:"Report which manifest sources exist without copying anything"`
	Init  InitCmd  `cmd:"" help:"Write an example configuration containing the built-in manifest"`
	Watch WatchCmd `cmd:"" help:"Stage, then re-stage whenever a source changes"`
	Refs  RefsCmd  `cmd:"" help:"Find template asset references that nothing stages"`
}

// AfterApply runs after flag parsing; sets up logging until a config is loaded.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(newLogger(os.Stderr, level, config.NormalizeLogFormat(c.LogFormat)))
	return nil
}

// loadConfig loads the configuration (falling back to the built-in manifest
// when the default file is absent) and reconfigures logging from it. Flags
// win over the logging section.
func (c *CLI) loadConfig(g *Global) (*config.Config, error) {
	explicit := c.Config != config.DefaultPath
	cfg, err := config.LoadOrDefault(c.Config, explicit)
	if err != nil {
		return nil, err
	}

	level := cfg.Logging.Level.SlogLevel()
	if c.Verbose {
		level = slog.LevelDebug
	}
	format := cfg.Logging.Format
	if c.LogFormat != "" {
		format = config.NormalizeLogFormat(c.LogFormat)
	}
	slog.SetDefault(newLogger(g.stderr(), level, format))

	if cfg.Path() == "" {
		slog.Debug("No configuration file found, using built-in manifest", logfields.File(c.Config))
	} else {
		slog.Debug("Loaded configuration", logfields.File(cfg.Path()), slog.Int("assets", len(cfg.Assets)))
	}
	return cfg, nil
}

func newLogger(w io.Writer, level slog.Level, format config.LogFormat) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// stageRuntime bundles a Stager with the registry its metrics are recorded in.
type stageRuntime struct {
	stager      *stager.Stager
	registry    *prom.Registry
	metricsFile string
}

func newStageRuntime(cfg *config.Config, workers int, metricsFile string) *stageRuntime {
	if workers < 1 {
		workers = cfg.Stage.Workers
	}
	if metricsFile == "" {
		metricsFile = cfg.Metrics.Textfile
	}
	rt := &stageRuntime{metricsFile: metricsFile}

	opts := []stager.Option{stager.WithWorkers(workers), stager.WithLogger(slog.Default())}
	if metricsFile != "" {
		rt.registry = prom.NewRegistry()
		opts = append(opts, stager.WithRecorder(metrics.NewPrometheusRecorder(rt.registry)))
	}
	rt.stager = stager.New(storage.NewOSFS(cfg.Root), opts...)
	return rt
}

// flushMetrics writes the metrics textfile if one is configured. A failed
// write is logged and never changes the run's outcome.
func (rt *stageRuntime) flushMetrics() {
	if rt.registry == nil {
		return
	}
	if err := metrics.WriteTextfile(rt.metricsFile, rt.registry); err != nil {
		slog.Warn("Failed to write metrics textfile", logfields.File(rt.metricsFile), logfields.Error(err))
		return
	}
	slog.Debug("Wrote metrics textfile", logfields.File(rt.metricsFile))
}
