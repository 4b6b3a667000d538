package errors

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "validation error", err: ValidationError("bad flag").Build(), expected: 2},
		{name: "config error", err: ConfigError("bad config").Build(), expected: 7},
		{name: "staging failed", err: StagingError("1 file failed").Build(), expected: 1},
		{name: "directory creation", err: FileSystemError("mkdir failed").Build(), expected: 11},
		{name: "runtime error", err: RuntimeError("watcher died").Build(), expected: 12},
		{name: "internal error", err: InternalError("bug").Build(), expected: 10},
		{name: "wrapped classified", err: fmt.Errorf("stage: %w", ConfigError("bad").Build()), expected: 7},
		{name: "unclassified error", err: io.EOF, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, adapter.ExitCodeFor(tt.err))
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	require.Empty(t, adapter.FormatError(nil))
	require.Equal(t, "missing assets", adapter.FormatError(ConfigError("missing assets").Build()))
	require.Equal(t, "filesystem: create directory: denied",
		adapter.FormatError(WrapError(fmt.Errorf("denied"), CategoryFileSystem, "create directory").Build()))
	require.Equal(t, "Error: boom", adapter.FormatError(fmt.Errorf("boom")))

	verbose := NewCLIErrorAdapter(true, slog.Default())
	require.Equal(t, "[config:fatal] missing assets", verbose.FormatError(ConfigError("missing assets").Build()))
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var out, logs bytes.Buffer
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&logs, nil)))
	adapter.out = &out
	code := -1
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(FileSystemError("failed to create directory").
		WithContext("path", "src/static/js").
		WithCause(fmt.Errorf("permission denied")).
		Build())

	require.Equal(t, ExitFileSystem, code)
	require.Contains(t, out.String(), "failed to create directory")
	require.Contains(t, logs.String(), "path=src/static/js")
	require.Contains(t, logs.String(), "category=filesystem")

	code = -1
	adapter.HandleError(nil)
	require.Equal(t, -1, code)
}

func TestClassifiedError_Context(t *testing.T) {
	base := NewError(CategoryStaging, "copy failed").Build()
	withEntry := base.WithContext("entry", "jQuery")

	_, ok := base.Context().Get("entry")
	require.False(t, ok, "WithContext must not mutate the receiver")

	name, ok := withEntry.Context().GetString("entry")
	require.True(t, ok)
	require.Equal(t, "jQuery", name)
	require.True(t, HasCategory(withEntry, CategoryStaging))
	require.Equal(t, CategoryInternal, GetCategory(io.EOF))
	require.Equal(t, SeverityError, GetSeverity(withEntry))
}

func TestErrorContext_Merge(t *testing.T) {
	a := ErrorContext{"a": 1, "shared": "left"}
	b := ErrorContext{"b": 2, "shared": "right"}

	merged := a.Merge(b)
	require.Equal(t, ErrorContext{"a": 1, "b": 2, "shared": "right"}, merged)
	require.Equal(t, b, ErrorContext(nil).Merge(b))
	require.Equal(t, a, a.Merge(nil))
}
