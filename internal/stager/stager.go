// Package stager copies manifest entries verbatim into a static-asset tree.
//
// The stager is silent: it returns structured results and logs through slog at
// debug level, leaving console presentation to the report package. A run has
// exactly one fatal failure mode (a destination directory cannot be created);
// every per-entry problem is recorded on that entry's Outcome and processing
// continues with the next entry.
package stager

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	derrors "git.home.luguber.info/inful/assetstager/internal/errors"
	"git.home.luguber.info/inful/assetstager/internal/logfields"
	"git.home.luguber.info/inful/assetstager/internal/manifest"
	"git.home.luguber.info/inful/assetstager/internal/metrics"
	"git.home.luguber.info/inful/assetstager/internal/storage"
)

// Stager stages manifests onto an FS.
type Stager struct {
	fs       storage.FS
	recorder metrics.Recorder
	logger   *slog.Logger
	workers  int
	now      func() time.Time
	newRunID func() string
}

// Option configures a Stager.
type Option func(*Stager)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Stager) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Stager) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithWorkers sets how many entries are copied concurrently. Values below 1
// mean sequential processing. Results and report order do not depend on it.
func WithWorkers(n int) Option {
	return func(s *Stager) {
		if n < 1 {
			n = 1
		}
		s.workers = n
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Stager) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Stager on fsys.
func New(fsys storage.FS, opts ...Option) *Stager {
	s := &Stager{
		fs:       fsys,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
		workers:  1,
		now:      time.Now,
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureDirectories creates every path (and missing ancestors) in order.
// Existing directories are left alone. The first failure aborts with a fatal
// filesystem error wrapping ErrDirectoryCreation.
func (s *Stager) EnsureDirectories(ctx context.Context, paths []string) ([]DirResult, error) {
	results := make([]DirResult, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return results, derrors.WrapError(err, derrors.CategoryRuntime, "staging interrupted").Fatal().Build()
		}
		created, err := s.fs.MkdirAll(p)
		if err != nil {
			s.logger.Error("Failed to create directory", logfields.Path(p), logfields.Error(err))
			return results, derrors.FileSystemError("failed to create directory").
				WithContext("path", p).
				WithCause(&DirectoryError{Path: p, Err: err}).
				Build()
		}
		if created {
			s.logger.Debug("Created directory", logfields.Path(p))
		}
		results = append(results, DirResult{Path: p, Created: created})
	}
	return results, nil
}

// StageAll copies every entry of m and returns the aggregate result. It never
// stops early: an entry's failure is recorded and the next entry is processed.
// Entries that have not started when ctx is canceled are recorded as copy
// failures carrying the context error.
func (s *Stager) StageAll(ctx context.Context, m manifest.Manifest) *Result {
	return s.process(ctx, m, false)
}

// Check reports which sources exist without creating or writing anything.
// Outcomes use KindPresent for sources found and carry their size.
func (s *Stager) Check(ctx context.Context, m manifest.Manifest) *Result {
	return s.process(ctx, m, true)
}

// Run ensures dirs and then stages m. A nil dirs derives the directory list
// from the manifest destinations. When directory creation fails nothing is
// copied and the partial result (directories only) is returned with the error.
func (s *Stager) Run(ctx context.Context, dirs []string, m manifest.Manifest) (*Result, error) {
	if dirs == nil {
		dirs = m.Directories()
	}
	started := s.now()
	created, err := s.EnsureDirectories(ctx, dirs)
	if err != nil {
		s.recorder.IncRunOutcome(metrics.OutcomeAborted)
		return &Result{
			RunID:       s.newRunID(),
			StartedAt:   started,
			Duration:    s.now().Sub(started),
			Directories: created,
			Outcomes:    []Outcome{},
		}, err
	}
	res := s.StageAll(ctx, m)
	res.Directories = created
	res.StartedAt = started
	res.Duration = s.now().Sub(started)
	return res, nil
}

func (s *Stager) process(ctx context.Context, m manifest.Manifest, dryRun bool) *Result {
	res := &Result{
		RunID:     s.newRunID(),
		DryRun:    dryRun,
		StartedAt: s.now(),
		Outcomes:  make([]Outcome, len(m)),
	}
	log := s.logger.With(logfields.RunID(res.RunID))
	workers := s.workers
	if workers > len(m) {
		workers = len(m)
	}
	if !dryRun {
		s.recorder.SetWorkers(workers)
	}
	log.Debug("Staging assets", slog.Int("entries", len(m)), logfields.Workers(workers), slog.Bool("dry_run", dryRun))

	handle := func(i int) {
		var o Outcome
		if dryRun {
			o = s.checkEntry(ctx, i, m[i])
		} else {
			o = s.stageEntry(ctx, i, m[i])
		}
		res.Outcomes[i] = o
		s.observe(log, o, dryRun)
	}

	if workers <= 1 {
		for i := range m {
			handle(i)
		}
	} else {
		jobs := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range jobs {
					handle(i)
				}
			}()
		}
		for i := range m {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
	}

	res.tally()
	res.Duration = s.now().Sub(res.StartedAt)

	if !dryRun {
		s.recorder.ObserveRunDuration(res.Duration)
		if res.Failed > 0 {
			s.recorder.IncRunOutcome(metrics.OutcomeFailed)
		} else {
			s.recorder.IncRunOutcome(metrics.OutcomeSuccess)
		}
	}
	log.Info("Staging finished",
		logfields.Succeeded(res.Succeeded),
		logfields.Failed(res.Failed),
		logfields.DurationMS(float64(res.Duration.Microseconds())/1000),
		slog.Bool("dry_run", dryRun))
	return res
}

func (s *Stager) stageEntry(ctx context.Context, i int, e manifest.Entry) (o Outcome) {
	start := s.now()
	o = Outcome{Index: i, Entry: e}
	defer func() { o.Duration = s.now().Sub(start) }()

	if err := ctx.Err(); err != nil {
		o.Kind, o.Err = KindCopy, copyFailure(e, err)
		return o
	}

	exists, err := s.fs.Exists(e.Source)
	if err != nil {
		o.Kind, o.Err = KindCopy, copyFailure(e, err)
		return o
	}
	if !exists {
		o.Kind, o.Err = KindMissingSource, missingSource(e)
		return o
	}

	if err := s.fs.Copy(e.Source, e.Destination); err != nil {
		o.Kind, o.Err = KindCopy, copyFailure(e, err)
		return o
	}

	size, err := s.fs.StatSize(e.Destination)
	if err != nil {
		o.Kind, o.Err = KindCopy, copyFailure(e, err)
		return o
	}

	o.Kind, o.SizeBytes = KindCopied, size
	return o
}

func (s *Stager) checkEntry(ctx context.Context, i int, e manifest.Entry) Outcome {
	o := Outcome{Index: i, Entry: e}
	if err := ctx.Err(); err != nil {
		o.Kind, o.Err = KindCopy, copyFailure(e, err)
		return o
	}
	exists, err := s.fs.Exists(e.Source)
	switch {
	case err != nil:
		o.Kind, o.Err = KindCopy, copyFailure(e, err)
	case !exists:
		o.Kind, o.Err = KindMissingSource, missingSource(e)
	default:
		size, err := s.fs.StatSize(e.Source)
		if err != nil {
			o.Kind, o.Err = KindCopy, copyFailure(e, err)
			break
		}
		o.Kind, o.SizeBytes = KindPresent, size
	}
	return o
}

func (s *Stager) observe(log *slog.Logger, o Outcome, dryRun bool) {
	attrs := []any{
		logfields.Entry(o.Entry.Label()),
		logfields.Source(o.Entry.Source),
		logfields.Destination(o.Entry.Destination),
		logfields.Outcome(string(o.Kind)),
	}
	if o.OK() {
		log.Debug("Asset staged", append(attrs, logfields.SizeBytes(o.SizeBytes))...)
	} else {
		log.Debug("Asset failed", append(attrs, logfields.Error(o.Err))...)
	}
	if dryRun {
		return
	}
	label := metrics.ResultCopied
	switch o.Kind {
	case KindMissingSource:
		label = metrics.ResultMissingSource
	case KindCopy:
		label = metrics.ResultCopyError
	}
	s.recorder.IncEntryResult(label)
	s.recorder.ObserveCopyDuration(o.Duration, label)
	if o.OK() {
		s.recorder.AddBytesStaged(o.SizeBytes)
	}
}
