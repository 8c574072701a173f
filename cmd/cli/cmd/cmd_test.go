package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	verrors "viscolab/internal/errors"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func runJSON(t *testing.T, args ...string) map[string]interface{} {
	t.Helper()
	out, err := run(t, append(args, "--format", "json")...)
	require.NoError(t, err)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &got), out)
	return got
}

func TestWaltherCommand(t *testing.T) {
	got := runJSON(t, "walther", "--v1", "68", "--t1", "40", "--v2", "8.6", "--t2", "100", "--target", "70")
	assert.Len(t, got["table"], 13)
	assert.Contains(t, got, "targetViscosity")

	got = runJSON(t, "walther", "--v1", "68", "--v2", "8.6", "--from", "0", "--to", "20", "--step", "10")
	assert.Len(t, got["table"], 3)
}

func TestWaltherCommandRequiresViscosities(t *testing.T) {
	_, err := run(t, "walther", "--v1", "68")
	require.Error(t, err)
	assert.True(t, verrors.IsType(err, verrors.TypeInput))
	assert.Contains(t, err.Error(), "--v2")
}

func TestVICommand(t *testing.T) {
	got := runJSON(t, "vi", "--v40", "100", "--v100", "11")
	assert.Equal(t, 94.0, got["vi"])

	got = runJSON(t, "vi", "--v1", "100", "--t1", "40", "--v2", "11", "--t2", "100")
	assert.Equal(t, 94.0, got["vi"])

	_, err := run(t, "vi", "--v40", "100")
	assert.True(t, verrors.IsType(err, verrors.TypeInput))
}

func TestVICommandOverflow(t *testing.T) {
	got := runJSON(t, "vi", "--v1", "2", "--t1", "100", "--v2", "1e6", "--t2", "99")
	assert.Nil(t, got["v40"])
	assert.Nil(t, got["vi"])
}

func TestVICommandTable(t *testing.T) {
	out, err := run(t, "vi", "--v40", "100", "--v100", "11", "--format", "cli")
	require.NoError(t, err)
	assert.Contains(t, out, "VISCOSITY INDEX")
	assert.Contains(t, out, "94.0")
	assert.Contains(t, out, "[7.2,12.4)")
}

func TestBlendCommand(t *testing.T) {
	got := runJSON(t, "blend", "--component", "30:10", "-c", "70:100")
	assert.InDelta(t, 42.99354400082457, got["viscosity"], 1e-9)

	_, err := run(t, "blend", "--component", "30-10")
	assert.True(t, verrors.IsType(err, verrors.TypeInput))

	_, err = run(t, "blend", "--component", "30:10")
	assert.True(t, verrors.IsType(err, verrors.TypeInput))
}

func TestMix2Command(t *testing.T) {
	got := runJSON(t, "mix2", "--target", "42.99354400082457", "--base-a", "10", "--base-b", "100")
	assert.InDelta(t, 30, got["percentA"], 1e-6)
	assert.InDelta(t, 70, got["percentB"], 1e-6)

	_, err := run(t, "mix2", "--target", "500", "--base-a", "10", "--base-b", "100")
	assert.True(t, verrors.IsType(err, verrors.TypeInfeasible))
}

func TestSolveCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blend.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
name = "light max"
component "additive" {
  viscosity = 460
  type      = "fixed"
  value     = 10
}
component "light" {
  viscosity = 10
  type      = "objectiveMax"
}
component "heavy" {
  viscosity = 100
  type      = "range"
  min       = 25
  max       = 90
}
`), 0o644))

	got := runJSON(t, "solve", path)
	assert.Equal(t, "light max", got["name"])
	assert.Equal(t, []interface{}{"additive", "light", "heavy"}, got["components"])
	fractions := got["fractions"].(map[string]interface{})
	assert.InDelta(t, 65, fractions["1"], 1e-6)

	out, err := run(t, "solve", path)
	require.NoError(t, err)
	assert.Contains(t, out, "BLEND DESIGN: light max")
	assert.Contains(t, out, "heavy")
}

func TestSolveCommandErrors(t *testing.T) {
	_, err := run(t, "solve", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, verrors.IsType(err, verrors.TypeParsing))

	_, err = run(t, "solve")
	assert.Error(t, err)
}

func TestUnknownFormat(t *testing.T) {
	_, err := run(t, "vi", "--v40", "100", "--v100", "11", "--format", "xml")
	assert.True(t, verrors.IsType(err, verrors.TypeInput))
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "viscolab version "+version+"\n", out)
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viscolab.json")
	_, err := run(t, "config", "init", path)
	require.NoError(t, err)
	require.FileExists(t, path)

	out, err := run(t, "--config", path, "config", "show")
	require.NoError(t, err)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Contains(t, got, "solver")

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"table": {"step": 0}}`), 0o644))
	_, err = run(t, "--config", bad, "version")
	assert.True(t, verrors.IsType(err, verrors.TypeConfig))
}
