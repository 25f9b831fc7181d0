package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"cbind/internal/layout"
)

const manifestName = "cbind.toml"

type manifest struct {
	Path   string
	Config manifestConfig
}

type manifestConfig struct {
	Bind     bindConfig     `toml:"bind"`
	Target   targetConfig   `toml:"target"`
	Analysis analysisConfig `toml:"analysis"`
}

type bindConfig struct {
	Opaque []string `toml:"opaque"`
	Hidden []string `toml:"hidden"`
}

type targetConfig struct {
	Triple string `toml:"triple"`
}

type analysisConfig struct {
	Jobs int `toml:"jobs"`
}

// findManifest walks up from startDir looking for cbind.toml.
func findManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, manifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadManifest(path string) (*manifest, error) {
	var cfg manifestConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("target", "triple") {
		if _, err := layout.LookupTarget(cfg.Target.Triple); err != nil {
			return nil, fmt.Errorf("%s: [target].triple: %w", path, err)
		}
	}
	if cfg.Analysis.Jobs < 0 {
		return nil, fmt.Errorf("%s: [analysis].jobs must not be negative", path)
	}
	cfg.Bind.Opaque = cleanNames(cfg.Bind.Opaque)
	cfg.Bind.Hidden = cleanNames(cfg.Bind.Hidden)
	return &manifest{Path: path, Config: cfg}, nil
}

// resolveManifest loads the explicit --config path, or the nearest
// cbind.toml above dumpPath. Having no manifest is fine.
func resolveManifest(explicit, dumpPath string) (*manifest, error) {
	if explicit != "" {
		return loadManifest(explicit)
	}
	path, ok, err := findManifest(filepath.Dir(dumpPath))
	if err != nil || !ok {
		return nil, err
	}
	return loadManifest(path)
}

func cleanNames(names []string) []string {
	out := names[:0]
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
