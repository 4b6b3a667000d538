package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID       = "run_id"
	KeyEntry       = "entry"
	KeySource      = "source"
	KeyDestination = "destination"
	KeySizeBytes   = "size_bytes"
	KeyPath        = "path"
	KeyFile        = "file"
	KeyOutcome     = "outcome"
	KeySucceeded   = "succeeded"
	KeyFailed      = "failed"
	KeyWorkers     = "workers"
	KeyDurationMS  = "duration_ms"
	KeyTrigger     = "trigger"
	KeyError       = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr        { return slog.String(KeyRunID, id) }
func Entry(name string) slog.Attr      { return slog.String(KeyEntry, name) }
func Source(p string) slog.Attr        { return slog.String(KeySource, p) }
func Destination(p string) slog.Attr   { return slog.String(KeyDestination, p) }
func SizeBytes(n int64) slog.Attr      { return slog.Int64(KeySizeBytes, n) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func File(f string) slog.Attr          { return slog.String(KeyFile, f) }
func Outcome(o string) slog.Attr       { return slog.String(KeyOutcome, o) }
func Succeeded(n int) slog.Attr        { return slog.Int(KeySucceeded, n) }
func Failed(n int) slog.Attr           { return slog.Int(KeyFailed, n) }
func Workers(n int) slog.Attr          { return slog.Int(KeyWorkers, n) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Trigger(reason string) slog.Attr  { return slog.String(KeyTrigger, reason) }
func Error(err error) slog.Attr {
	if err == nil { return slog.String(KeyError, "") }
	return slog.String(KeyError, err.Error())
}
