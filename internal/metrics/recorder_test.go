package metrics

import (
	"testing"
	"time"
)

type testRecorder struct {
	runs    int
	results map[ResultLabel]int
	bytes   int64
}

func newTestRecorder() *testRecorder {
	return &testRecorder{results: map[ResultLabel]int{}}
}

func (t *testRecorder) ObserveRunDuration(time.Duration)               { t.runs++ }
func (t *testRecorder) ObserveCopyDuration(time.Duration, ResultLabel) {}
func (t *testRecorder) IncEntryResult(r ResultLabel)                   { t.results[r]++ }
func (t *testRecorder) AddBytesStaged(n int64)                         { t.bytes += n }
func (t *testRecorder) IncRunOutcome(OutcomeLabel)                     {}
func (t *testRecorder) SetWorkers(int)                                 {}

func TestRecorderInterfaceUsage(t *testing.T) {
	var r Recorder = newTestRecorder()
	r.ObserveRunDuration(10 * time.Millisecond)
	r.IncEntryResult(ResultCopied)
	r.IncEntryResult(ResultCopyError)
	r.AddBytesStaged(10)

	tr := r.(*testRecorder)
	if tr.runs != 1 || tr.results[ResultCopied] != 1 || tr.results[ResultCopyError] != 1 || tr.bytes != 10 {
		t.Fatalf("unexpected recorder state: %+v", tr)
	}

	// Noop must accept the same calls.
	var noop Recorder = NoopRecorder{}
	noop.IncEntryResult(ResultCopied)
}
