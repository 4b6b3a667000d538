package metrics

import "time"

// ResultLabel enumerates per-entry result categories for counters.
type ResultLabel string

const (
	ResultCopied        ResultLabel = "copied"
	ResultMissingSource ResultLabel = "missing_source"
	ResultCopyError     ResultLabel = "copy_error"
)

// OutcomeLabel enumerates whole-run outcomes.
type OutcomeLabel string

const (
	OutcomeSuccess OutcomeLabel = "success"
	OutcomeFailed  OutcomeLabel = "failed"
	OutcomeAborted OutcomeLabel = "aborted"
)

// Recorder defines observability hooks for staging runs. Implementations may
// forward to Prometheus or any other backend.
type Recorder interface {
	ObserveRunDuration(d time.Duration)
	ObserveCopyDuration(d time.Duration, result ResultLabel)
	IncEntryResult(result ResultLabel)
	AddBytesStaged(n int64)
	IncRunOutcome(outcome OutcomeLabel)
	SetWorkers(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRunDuration(time.Duration)               {}
func (NoopRecorder) ObserveCopyDuration(time.Duration, ResultLabel) {}
func (NoopRecorder) IncEntryResult(ResultLabel)                     {}
func (NoopRecorder) AddBytesStaged(int64)                           {}
func (NoopRecorder) IncRunOutcome(OutcomeLabel)                     {}
func (NoopRecorder) SetWorkers(int)                                 {}
