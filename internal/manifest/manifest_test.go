package manifest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	m := Default()
	require.Len(t, m, 5)
	require.NoError(t, m.Validate())
	require.Equal(t, DefaultDirectories(), m.Directories())
}

func TestDefault_ReturnsFreshSlice(t *testing.T) {
	a := Default()
	a[0].Destination = "mutated"

	b := Default()
	require.Equal(t, "src/static/js/d3.min.js", b[0].Destination)
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	m := Manifest{
		{Source: "", Destination: "out/a.js", Name: "A"},
		{Source: "b.js", Destination: ""},
		{Source: "c.js", Destination: "out/./a.js", Name: "C"},
	}

	err := m.Validate()
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Problems, 3)
	require.Contains(t, verr.Problems[0], "source is required")
	require.Contains(t, verr.Problems[1], "entry 1 (b.js): destination is required")
	require.Contains(t, verr.Problems[2], "already used by entry 0")
}

func TestValidate_EmptyManifest(t *testing.T) {
	require.NoError(t, Manifest{}.Validate())
}

func TestDirectories_OrderAndDedup(t *testing.T) {
	m := Manifest{
		{Source: "a", Destination: "static/css/a.css"},
		{Source: "b", Destination: "static/js/b.js"},
		{Source: "c", Destination: "static/css/c.css"},
		{Source: "d", Destination: "root.txt"},
	}
	require.Equal(t, []string{"static/css", "static/js"}, m.Directories())
}

func TestEntryLabel(t *testing.T) {
	require.Equal(t, "jQuery", Entry{Name: "jQuery", Source: "x/jquery.min.js"}.Label())
	require.Equal(t, "jquery.min.js", Entry{Source: "x/jquery.min.js"}.Label())
}

func TestSources(t *testing.T) {
	m := Default()
	require.Len(t, m.Sources(), len(m))
	require.Equal(t, "node_modules/jquery/dist/jquery.min.js", m.Sources()[3])
}

func TestValidateRejectsCopyOntoItself(t *testing.T) {
	m := Manifest{
		{Source: "src/static/js/app.js", Destination: "./src/static/js/app.js", Name: "App"},
		{Source: "node_modules/d3/d3.js", Destination: "src/static/js/d3.js"},
	}
	err := m.Validate()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, []string{"entry 0 (App): source and destination are the same file"}, verr.Problems)
}
