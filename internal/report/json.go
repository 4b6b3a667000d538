package report

import (
	"encoding/json"
	"io"
	"time"

	"git.home.luguber.info/inful/assetstager/internal/stager"
)

// JSONFormatter formats results as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// JSONOutput represents the JSON output structure.
type JSONOutput struct {
	RunID       string          `json:"run_id"`
	DryRun      bool            `json:"dry_run"`
	StartedAt   time.Time       `json:"started_at"`
	DurationMS  float64         `json:"duration_ms"`
	Succeeded   int             `json:"succeeded"`
	Failed      int             `json:"failed"`
	BytesStaged int64           `json:"bytes_staged"`
	ExitCode    int             `json:"exit_code"`
	Directories []JSONDirectory `json:"directories"`
	Entries     []JSONEntry     `json:"entries"`
}

// JSONDirectory is one ensured directory.
type JSONDirectory struct {
	Path    string `json:"path"`
	Created bool   `json:"created"`
}

// JSONEntry is the outcome of one manifest entry.
type JSONEntry struct {
	Name        string `json:"name"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Outcome     string `json:"outcome"`
	SizeBytes   int64  `json:"size_bytes,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Format outputs res in JSON format.
func (f *JSONFormatter) Format(w io.Writer, res *stager.Result) error {
	out := JSONOutput{
		RunID:       res.RunID,
		DryRun:      res.DryRun,
		StartedAt:   res.StartedAt,
		DurationMS:  float64(res.Duration.Microseconds()) / 1000,
		Succeeded:   res.Succeeded,
		Failed:      res.Failed,
		BytesStaged: res.BytesStaged,
		ExitCode:    res.ExitCode(),
		Directories: make([]JSONDirectory, 0, len(res.Directories)),
		Entries:     make([]JSONEntry, 0, len(res.Outcomes)),
	}
	for _, d := range res.Directories {
		out.Directories = append(out.Directories, JSONDirectory{Path: d.Path, Created: d.Created})
	}
	for _, o := range res.Outcomes {
		e := JSONEntry{
			Name:        o.Entry.Label(),
			Source:      o.Entry.Source,
			Destination: o.Entry.Destination,
			Outcome:     string(o.Kind),
			SizeBytes:   o.SizeBytes,
		}
		if o.Err != nil {
			e.Error = o.Err.Reason()
		}
		out.Entries = append(out.Entries, e)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
