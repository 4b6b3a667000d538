package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type triggerLog struct {
	mu    sync.Mutex
	calls []Trigger
}

func (l *triggerLog) record(_ context.Context, tr Trigger) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, tr)
}

func (l *triggerLog) snapshot() []Trigger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Trigger(nil), l.calls...)
}

func (l *triggerLog) count() int {
	return len(l.snapshot())
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func startWatcher(t *testing.T, sw *SourceWatcher, log *triggerLog) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = sw.Run(ctx, log.record)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestSourceWatcher_DebouncesBurst(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "node_modules", "d3", "dist", "d3.min.js")
	writeFile(t, src, "v1")

	sw, err := NewSourceWatcher(root, []string{"node_modules/d3/dist/d3.min.js"}, 100*time.Millisecond, quietLogger())
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Dir(src)}, sw.Watched())

	var log triggerLog
	startWatcher(t, sw, &log)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(src, []byte{byte('a' + i)}, 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return log.count() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(300 * time.Millisecond)
	require.Equal(t, []Trigger{TriggerChange}, log.snapshot())
}

func TestSourceWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "node_modules", "jquery", "dist", "jquery.min.js"), "jq")

	sw, err := NewSourceWatcher(root, []string{"node_modules/jquery/dist/jquery.min.js"}, 20*time.Millisecond, quietLogger())
	require.NoError(t, err)
	var log triggerLog
	startWatcher(t, sw, &log)

	writeFile(t, filepath.Join(root, "node_modules", "jquery", "dist", "jquery.js"), "unminified")
	time.Sleep(250 * time.Millisecond)
	require.Zero(t, log.count())
}

func TestSourceWatcher_MissingSourceDirectoryAppears(t *testing.T) {
	root := t.TempDir()
	sw, err := NewSourceWatcher(root, []string{"node_modules/chart.js/dist/chart.umd.min.js"}, 20*time.Millisecond, quietLogger())
	require.NoError(t, err)
	require.Equal(t, []string{root}, sw.Watched())

	var log triggerLog
	startWatcher(t, sw, &log)

	writeFile(t, filepath.Join(root, "node_modules", "chart.js", "dist", "chart.umd.min.js"), "chart")
	require.Eventually(t, func() bool { return log.count() >= 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestNewSourceWatcher_RejectsNonPositiveDebounce(t *testing.T) {
	_, err := NewSourceWatcher(t.TempDir(), nil, 0, quietLogger())
	require.Error(t, err)
}

func TestScheduler_ScheduleEvery(t *testing.T) {
	t.Run("returns job id for valid interval", func(t *testing.T) {
		s, err := NewScheduler(quietLogger())
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Stop() })

		id, err := s.ScheduleEvery("test", 10*time.Second, func() {})
		require.NoError(t, err)
		require.NotEmpty(t, id)
	})

	t.Run("rejects non-positive interval", func(t *testing.T) {
		s, err := NewScheduler(quietLogger())
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Stop() })

		_, err = s.ScheduleEvery("test", 0, func() {})
		require.Error(t, err)
	})
}

func TestScheduler_ScheduleResyncRunsPeriodically(t *testing.T) {
	s, err := NewScheduler(quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Stop() })

	var log triggerLog
	_, err = s.ScheduleResync(context.Background(), 20*time.Millisecond, log.record)
	require.NoError(t, err)
	s.Start()

	require.Eventually(t, func() bool { return log.count() >= 2 }, 2*time.Second, 10*time.Millisecond)
	for _, tr := range log.snapshot() {
		require.Equal(t, TriggerResync, tr)
	}
}

func TestRun_InitialThenResyncUntilCanceled(t *testing.T) {
	root := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	var log triggerLog
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, Options{
			Root:     root,
			Sources:  []string{"node_modules/a/a.js"},
			Debounce: 20 * time.Millisecond,
			Resync:   30 * time.Millisecond,
			Logger:   quietLogger(),
		}, log.record)
	}()

	require.Eventually(t, func() bool { return log.count() >= 2 }, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	calls := log.snapshot()
	require.Equal(t, TriggerInitial, calls[0])
	require.Contains(t, calls[1:], TriggerResync)
}
