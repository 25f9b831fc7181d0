package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, manifestName), "[bind]\n")
	nested := filepath.Join(root, "include", "net")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	path, ok, err := findManifest(nested)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, manifestName), path)
}

func TestFindManifestPrefersNearest(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, manifestName), "")
	writeFile(t, filepath.Join(root, "sub", manifestName), "")

	path, ok, err := findManifest(filepath.Join(root, "sub"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "sub", manifestName), path)
}

func TestLoadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), manifestName)
	writeFile(t, path, `
[bind]
opaque = ["handle", "  ", " pthread_mutex_t "]
hidden = ["internal_state"]

[target]
triple = "aarch64-apple-darwin"

[analysis]
jobs = 4
`)
	m, err := loadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, path, m.Path)
	assert.Equal(t, []string{"handle", "pthread_mutex_t"}, m.Config.Bind.Opaque)
	assert.Equal(t, []string{"internal_state"}, m.Config.Bind.Hidden)
	assert.Equal(t, "aarch64-apple-darwin", m.Config.Target.Triple)
	assert.Equal(t, 4, m.Config.Analysis.Jobs)
}

func TestLoadManifestErrors(t *testing.T) {
	cases := map[string]struct {
		body string
		want string
	}{
		"syntax":        {body: "[bind\n", want: "failed to parse TOML"},
		"unknown key":   {body: "[bind]\nopaqe = [\"x\"]\n", want: "unknown keys: bind.opaqe"},
		"bad triple":    {body: "[target]\ntriple = \"pdp11-unix\"\n", want: "[target].triple"},
		"negative jobs": {body: "[analysis]\njobs = -1\n", want: "must not be negative"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), manifestName)
			writeFile(t, path, tc.body)
			_, err := loadManifest(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestResolveManifestExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	writeFile(t, path, "[bind]\nhidden = [\"x\"]\n")

	m, err := resolveManifest(path, filepath.Join(t.TempDir(), "dump.toml"))
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, []string{"x"}, m.Config.Bind.Hidden)

	_, err = resolveManifest(filepath.Join(dir, "missing.toml"), "")
	assert.Error(t, err)
}
