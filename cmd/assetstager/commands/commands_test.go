package commands

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/assetstager/internal/errors"
	"git.home.luguber.info/inful/assetstager/internal/manifest"
	"git.home.luguber.info/inful/assetstager/internal/report"
)

// run parses args like the assetstager binary and executes the selected
// command, returning its stdout and error.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("assetstager"),
		kong.Vars{"version": "test"},
		kong.Exit(func(int) { t.Fatalf("unexpected exit for %v", args) }),
	)
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	require.NoError(t, err)

	var out bytes.Buffer
	err = kctx.Run(&Global{Stdout: &out, Stderr: io.Discard})
	return out.String(), err
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}

func exitCode(err error) int {
	return derrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err)
}

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{'x'}, size), 0o644))
}

func TestStage_DefaultManifestPartialFailure(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, "node_modules/d3/dist/d3.min.js"), 500*1024)
	writeFile(t, filepath.Join(dir, "node_modules/jquery/dist/jquery.min.js"), 10*1024)

	out, err := run(t)
	require.Error(t, err)
	assert.Equal(t, derrors.ExitStagingFailed, exitCode(err))

	assert.Contains(t, out, "  ✓ Created src/static/js\n")
	assert.Contains(t, out, "  ✓ D3.js: node_modules/d3/dist/d3.min.js -> src/static/js/d3.min.js (500 KB)\n")
	assert.Contains(t, out, "  ✗ Chart.js: Source file not found: node_modules/chart.js/dist/chart.umd.min.js\n")
	assert.Contains(t, out, "  • Successfully copied: 2 files\n  • Errors: 3 files\n")

	info, err := os.Stat(filepath.Join(dir, "src/static/js/d3.min.js"))
	require.NoError(t, err)
	assert.Equal(t, int64(512000), info.Size())
	_, err = os.Stat(filepath.Join(dir, "src/static/js/chart.min.js"))
	assert.True(t, os.IsNotExist(err))
}

func TestStage_ExplicitConfigJSONSuccess(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "assets.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`version: "1.0"
root: web
assets:
  - {from: vendor/app.js, to: public/js/app.js, name: App}
  - {from: vendor/app.css, to: public/css/app.css}
stage:
  workers: 2
`), 0o644))
	writeFile(t, filepath.Join(dir, "web/vendor/app.js"), 3000)
	writeFile(t, filepath.Join(dir, "web/vendor/app.css"), 100)

	out, err := run(t, "-c", cfgPath, "stage", "--format", "json")
	require.NoError(t, err)

	var got report.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 2, got.Succeeded)
	assert.Zero(t, got.Failed)
	assert.Zero(t, got.ExitCode)
	assert.Equal(t, int64(3100), got.BytesStaged)
	assert.NotEmpty(t, got.RunID)
	assert.Equal(t, []report.JSONDirectory{{Path: "public/js", Created: true}, {Path: "public/css", Created: true}}, got.Directories)

	data, err := os.ReadFile(filepath.Join(dir, "web/public/css/app.css"))
	require.NoError(t, err)
	assert.Len(t, data, 100)
}

func TestStage_MissingExplicitConfig(t *testing.T) {
	_, err := run(t, "-c", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, derrors.ExitConfig, exitCode(err))
}

func TestStage_InvalidConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "assets.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("version: \"1.0\"\nassets:\n  - {from: a.js}\n"), 0o644))

	_, err := run(t, "-c", cfgPath, "stage")
	require.Error(t, err)
	assert.Equal(t, derrors.ExitConfig, exitCode(err))
	assert.Contains(t, err.Error(), "destination is required")
}

func TestStage_DirectoryFailureAbortsBeforeCopying(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, "node_modules/d3/dist/d3.min.js"), 10)
	writeFile(t, filepath.Join(dir, "src/static"), 1) // a file where a directory is needed

	out, err := run(t, "stage")
	require.Error(t, err)
	assert.Equal(t, derrors.ExitFileSystem, exitCode(err))
	assert.Empty(t, out)
}

func TestStage_WritesMetricsTextfile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	for _, e := range manifest.Default() {
		writeFile(t, filepath.Join(dir, e.Source), 64)
	}
	metricsPath := filepath.Join(dir, "metrics", "assetstager.prom")

	out, err := run(t, "stage", "--workers", "3", "--metrics-file", metricsPath)
	require.NoError(t, err)
	assert.Contains(t, out, "✅ Static JavaScript assets build completed!")
	assert.Contains(t, out, "Next steps:")

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `assetstager_entry_results_total{result="copied"} 5`)
	assert.Contains(t, string(data), `assetstager_run_outcomes_total{outcome="success"} 1`)
	assert.Contains(t, string(data), "assetstager_workers 3")
}

func TestCheck_DoesNotCopy(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, "node_modules/jquery/dist/jquery.min.js"), 2048)

	out, err := run(t, "check")
	require.Error(t, err)
	assert.Equal(t, derrors.ExitStagingFailed, exitCode(err))
	assert.Contains(t, out, "  ✓ jQuery: node_modules/jquery/dist/jquery.min.js (2 KB)\n")
	assert.Contains(t, out, "  • Errors: 4 files\n")

	_, err = os.Stat(filepath.Join(dir, "src"))
	assert.True(t, os.IsNotExist(err))
}

func TestInit_ThenStageUsesWrittenConfig(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	out, err := run(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote configuration to assetstager.yaml")

	_, err = run(t, "init")
	require.Error(t, err)
	assert.Equal(t, derrors.ExitConfig, exitCode(err))

	_, err = run(t, "init", "--force")
	require.NoError(t, err)

	for _, e := range manifest.Default() {
		writeFile(t, filepath.Join(dir, e.Source), 1)
	}
	out, err = run(t, "stage")
	require.NoError(t, err)
	assert.Contains(t, out, "  • Successfully copied: 5 files\n")
}

func TestRefs_ReportsUnstagedReferences(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src/templates"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src/templates/base.html"), []byte(`<html><head>
<script src="/static/js/d3.min.js"></script>
<script src="/static/js/htmx.min.js"></script>
</head></html>`), 0o644))

	out, err := run(t, "refs")
	require.Error(t, err)
	assert.Equal(t, derrors.ExitStagingFailed, exitCode(err))
	assert.Contains(t, out, "src/templates/base.html: /static/js/htmx.min.js -> src/static/js/htmx.min.js")
	assert.Contains(t, out, "  • References staged by manifest: 1\n")

	writeFile(t, filepath.Join(dir, "src/static/js/htmx.min.js"), 1)
	out, err = run(t, "refs", "src/templates")
	require.NoError(t, err)
	assert.Contains(t, out, "  • No unresolved references\n")
}
