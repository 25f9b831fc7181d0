package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inspectJSON struct {
	Unit   string `json:"unit"`
	Target string `json:"target"`
	Items  []struct {
		Name   string `json:"name"`
		Kind   string `json:"kind"`
		Opaque bool   `json:"opaque"`
		Copy   bool   `json:"derive_copy"`
		Debug  bool   `json:"derive_debug"`
	} `json:"items"`
	Diagnostics []struct {
		Severity string `json:"severity"`
		Code     string `json:"code"`
		Subject  string `json:"subject"`
	} `json:"diagnostics"`
}

func inspectJSONOutput(t *testing.T, args ...string) inspectJSON {
	t.Helper()
	base := []string{"--color", "off", "--log-level", "off", "inspect", "--no-cache", "--format", "json"}
	out, _, err := execute(t, append(base, args...)...)
	require.NoError(t, err)
	var r inspectJSON
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	return r
}

func TestInspectUsesManifest(t *testing.T) {
	r := inspectJSONOutput(t, filepath.Join("testdata", "proj", "point.toml"))

	assert.Equal(t, "point.h", r.Unit)
	assert.Equal(t, "x86_64-linux-gnu", r.Target)
	require.Len(t, r.Items, 2)
	assert.Equal(t, "point", r.Items[0].Name)
	assert.Equal(t, "struct", r.Items[0].Kind)
	assert.False(t, r.Items[0].Opaque)
	assert.True(t, r.Items[0].Copy)
	assert.True(t, r.Items[0].Debug)

	assert.Equal(t, "handle", r.Items[1].Name)
	assert.True(t, r.Items[1].Opaque, "opaque via cbind.toml")

	require.Len(t, r.Diagnostics, 1)
	assert.Equal(t, "info", r.Diagnostics[0].Severity)
	assert.Equal(t, "handle", r.Diagnostics[0].Subject)
}

func TestInspectFlagsExtendManifest(t *testing.T) {
	r := inspectJSONOutput(t, "--opaque", "point", filepath.Join("testdata", "proj", "point.toml"))
	require.Len(t, r.Items, 2)
	assert.True(t, r.Items[0].Opaque)
	assert.True(t, r.Items[1].Opaque)
}

func TestInspectTargetFlagOverridesManifest(t *testing.T) {
	r := inspectJSONOutput(t, "--target", "i686-linux-gnu", filepath.Join("testdata", "proj", "point.toml"))
	assert.Equal(t, "i686-linux-gnu", r.Target)
}

func TestInspectAllIncludesBuiltins(t *testing.T) {
	r := inspectJSONOutput(t, "--all", filepath.Join("testdata", "proj", "point.toml"))
	names := make([]string, 0, len(r.Items))
	for _, it := range r.Items {
		names = append(names, it.Name)
	}
	assert.Contains(t, names, "int")
	assert.Contains(t, names, "point")
	assert.Greater(t, len(r.Items), 2)
}

func TestInspectPretty(t *testing.T) {
	out, _, err := execute(t, "--color", "off", "--log-level", "off",
		"inspect", "--no-cache", filepath.Join("testdata", "proj", "point.toml"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "point.h (x86_64-linux-gnu)\n"))
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "2 items, 0 errors, 0 warnings, 1 info")
}

func TestInspectTimings(t *testing.T) {
	_, stderr, err := execute(t, "--color", "off", "--log-level", "off", "--timings",
		"inspect", "--no-cache", filepath.Join("testdata", "proj", "point.toml"))
	require.NoError(t, err)
	for _, phase := range []string{"load", "ingest", "analyze", "render"} {
		assert.Contains(t, stderr, phase)
	}
}

func TestInspectErrorsExitNonZero(t *testing.T) {
	out, _, err := execute(t, "--color", "off", "--log-level", "off",
		"inspect", "--no-cache", filepath.Join("testdata", "broken", "bad.toml"))
	require.ErrorIs(t, err, errDiagnostics)
	assert.Contains(t, out, "bad_t")
	assert.Contains(t, out, "1 error")
}

func TestInspectFailOnThreshold(t *testing.T) {
	dump := filepath.Join("testdata", "proj", "point.toml")

	_, _, err := execute(t, "--color", "off", "--log-level", "off",
		"inspect", "--no-cache", "--fail-on", "warning", dump)
	require.NoError(t, err, "only an info diagnostic")

	_, _, err = execute(t, "--color", "off", "--log-level", "off",
		"inspect", "--no-cache", "--fail-on", "info", dump)
	require.ErrorIs(t, err, errDiagnostics)

	_, _, err = execute(t, "--color", "off", "--log-level", "off",
		"inspect", "--no-cache", "--fail-on", "fatal", dump)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--fail-on")
}

func TestInspectWritesAndReusesCache(t *testing.T) {
	cacheHome := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)
	args := []string{"--color", "off", "--log-level", "off", "inspect", "--format", "json",
		filepath.Join("testdata", "proj", "point.toml")}

	first, _, err := execute(t, args...)
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(cacheHome, cacheApp, "reports"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".mp", filepath.Ext(entries[0].Name()))

	second, _, err := execute(t, args...)
	require.NoError(t, err)
	assert.JSONEq(t, first, second)

	out, _, err := execute(t, "cache", "dir")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cacheHome, cacheApp)+"\n", out)

	_, _, err = execute(t, "cache", "clean")
	require.NoError(t, err)
	entries, err = os.ReadDir(filepath.Join(cacheHome, cacheApp, "reports"))
	if err == nil {
		assert.Empty(t, entries)
	} else {
		assert.ErrorIs(t, err, os.ErrNotExist)
	}
}

func TestInspectInputErrors(t *testing.T) {
	_, _, err := execute(t, "--color", "off", "inspect", "--no-cache", filepath.Join("testdata", "missing.toml"))
	assert.Error(t, err)

	_, _, err = execute(t, "--color", "off", "inspect", "--no-cache", filepath.Join("testdata", "proj", "cbind.yaml"))
	assert.Error(t, err, "unknown extension")

	_, _, err = execute(t, "--color", "off", "inspect", "--no-cache", "--jobs", "-2",
		filepath.Join("testdata", "proj", "point.toml"))
	assert.Error(t, err)

	_, _, err = execute(t, "--color", "off", "inspect", "--no-cache", "--format", "xml",
		filepath.Join("testdata", "proj", "point.toml"))
	assert.Error(t, err)
}
