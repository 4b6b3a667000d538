package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"RunID", KeyRunID, "r-1", RunID("r-1")},
		{"Entry", KeyEntry, "jQuery", Entry("jQuery")},
		{"Source", KeySource, "node_modules/a.js", Source("node_modules/a.js")},
		{"Destination", KeyDestination, "src/static/js/a.js", Destination("src/static/js/a.js")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"File", KeyFile, "index.html", File("index.html")},
		{"Outcome", KeyOutcome, "copied", Outcome("copied")},
		{"Trigger", KeyTrigger, "fsnotify", Trigger("fsnotify")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if got := tc.attr.Value.String(); got != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %v", tc.name, tc.attrVal, got)
		}
	}
}

// TestNumericHelpers verifies keys for numeric & float helpers.
func TestNumericHelpers(t *testing.T) {
	if v := SizeBytes(1024); v.Key != KeySizeBytes || v.Value.Int64() != 1024 {
		t.Fatalf("SizeBytes mismatch: %v", v)
	}
	if v := Succeeded(2); v.Key != KeySucceeded { t.Fatalf("Succeeded key mismatch: %s", v.Key) }
	if v := Failed(1); v.Key != KeyFailed { t.Fatalf("Failed key mismatch: %s", v.Key) }
	if v := Workers(4); v.Key != KeyWorkers { t.Fatalf("Workers key mismatch: %s", v.Key) }
	if v := DurationMS(12.5); v.Key != KeyDurationMS { t.Fatalf("DurationMS key mismatch: %s", v.Key) }
}

// TestErrorHelper ensures Error() handles nil and non-nil errors predictably.
func TestErrorHelper(t *testing.T) {
	attr := Error(nil)
	if attr.Key != KeyError { t.Fatalf("Error key mismatch: %s", attr.Key) }
	if attr.Value.String() != "" { t.Fatalf("Expected empty error string, got %s", attr.Value.String()) }
	if got := Error(errors.New("boom")).Value.String(); got != "boom" {
		t.Fatalf("Expected boom, got %s", got)
	}
}
