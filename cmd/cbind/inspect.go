package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cbind/internal/clang/tu"
	"cbind/internal/diag"
	"cbind/internal/driver"
	"cbind/internal/ir"
	"cbind/internal/layout"
	"cbind/internal/observ"
)

const cacheApp = "cbind"

type inspectSettings struct {
	dumpPath       string
	format         driver.Format
	opts           ir.Options
	inspect        driver.InspectOptions
	noCache        bool
	quiet          bool
	timings        bool
	color          bool
	maxDiagnostics int
	failOn         diag.Severity
}

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <dump>",
		Short: "Ingest a declaration dump and report derivable capabilities",
		Long: `Inspect loads a translation-unit dump (.toml or .mp), ingests every
top-level declaration and reports, per item, whether it can be copied,
printed, or needs a destructor.`,
		Args: cobra.ExactArgs(1),
		RunE: runInspect,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	cmd.Flags().Int("jobs", 0, "parallel analysis workers (0 = GOMAXPROCS)")
	cmd.Flags().StringSlice("opaque", nil, "type names to treat as opaque blobs")
	cmd.Flags().StringSlice("hide", nil, "type names to hide from generated bindings")
	cmd.Flags().String("target", "", "target triple (default: manifest or x86_64-linux-gnu)")
	cmd.Flags().Bool("all", false, "report every registered item, not just top-level declarations")
	cmd.Flags().Bool("no-cache", false, "bypass the on-disk report cache")
	cmd.Flags().String("fail-on", "error", "exit non-zero on diagnostics of this severity or worse (info|warning|error)")
	return cmd
}

func runInspect(cmd *cobra.Command, args []string) error {
	settings, err := readInspectSettings(cmd, args[0])
	if err != nil {
		return err
	}
	logLevel, err := cmd.Root().PersistentFlags().GetString("log-level")
	if err != nil {
		return fmt.Errorf("failed to get log-level flag: %w", err)
	}
	logger, err := newLogger(logLevel, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	settings.opts.Logger = logger

	timer := observ.NewTimer()
	report, err := inspectDump(cmd.Context(), settings, timer, logger)
	if err != nil {
		return err
	}

	renderIdx := timer.Begin("render")
	err = driver.Render(cmd.OutOrStdout(), report, driver.RenderOptions{
		Format: settings.format,
		Color:  settings.color,
		Quiet:  settings.quiet,
	})
	timer.End(renderIdx, "")
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	timer.Log(logger)
	if settings.timings {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}
	if failsAt(report, settings.failOn) {
		return errDiagnostics
	}
	return nil
}

func readInspectSettings(cmd *cobra.Command, dumpPath string) (*inspectSettings, error) {
	s := &inspectSettings{dumpPath: dumpPath}

	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return nil, fmt.Errorf("failed to get format flag: %w", err)
	}
	if s.format, err = driver.ParseFormat(formatStr); err != nil {
		return nil, err
	}
	opaque, err := cmd.Flags().GetStringSlice("opaque")
	if err != nil {
		return nil, fmt.Errorf("failed to get opaque flag: %w", err)
	}
	hidden, err := cmd.Flags().GetStringSlice("hide")
	if err != nil {
		return nil, fmt.Errorf("failed to get hide flag: %w", err)
	}
	triple, err := cmd.Flags().GetString("target")
	if err != nil {
		return nil, fmt.Errorf("failed to get target flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return nil, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if s.inspect.All, err = cmd.Flags().GetBool("all"); err != nil {
		return nil, fmt.Errorf("failed to get all flag: %w", err)
	}
	if s.noCache, err = cmd.Flags().GetBool("no-cache"); err != nil {
		return nil, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	failOn, err := cmd.Flags().GetString("fail-on")
	if err != nil {
		return nil, fmt.Errorf("failed to get fail-on flag: %w", err)
	}
	if s.failOn, err = diag.ParseSeverity(failOn); err != nil {
		return nil, fmt.Errorf("--fail-on: %w", err)
	}

	root := cmd.Root().PersistentFlags()
	if s.quiet, err = root.GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = root.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if s.maxDiagnostics, err = root.GetInt("max-diagnostics"); err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	configPath, err := root.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	colorMode, err := root.GetString("color")
	if err != nil {
		return nil, fmt.Errorf("failed to get color flag: %w", err)
	}
	if s.color, err = colorEnabled(colorMode, os.Stdout); err != nil {
		return nil, err
	}

	m, err := resolveManifest(configPath, dumpPath)
	if err != nil {
		return nil, err
	}
	if m != nil {
		opaque = append(m.Config.Bind.Opaque, opaque...)
		hidden = append(m.Config.Bind.Hidden, hidden...)
		if triple == "" {
			triple = m.Config.Target.Triple
		}
		if !cmd.Flags().Changed("jobs") {
			jobs = m.Config.Analysis.Jobs
		}
	}
	if jobs < 0 {
		return nil, fmt.Errorf("--jobs must not be negative, got %d", jobs)
	}

	target, err := layout.LookupTarget(triple)
	if err != nil {
		return nil, err
	}
	s.opts = ir.Options{
		Target:      target,
		OpaqueTypes: cleanNames(opaque),
		HiddenTypes: cleanNames(hidden),
	}
	s.inspect.Jobs = jobs
	return s, nil
}

// inspectDump produces the report for s, consulting the disk cache first
// unless it is disabled. Cache failures are logged and never fatal.
func inspectDump(ctx context.Context, s *inspectSettings, timer *observ.Timer, logger *zap.Logger) (*driver.Report, error) {
	if _, err := tu.FormatForPath(s.dumpPath); err != nil {
		return nil, err
	}

	var (
		cache *driver.DiskCache
		key   driver.Digest
	)
	if !s.noCache {
		data, err := os.ReadFile(s.dumpPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read dump: %w", err)
		}
		key = driver.CacheKey(data, s.opts, s.inspect.All)
		if cache, err = driver.OpenDiskCache(cacheApp); err != nil {
			logger.Warn("report cache unavailable", zap.Error(err))
			cache = nil
		}
	}
	if cache != nil {
		report, hit, err := cache.Get(key)
		switch {
		case err != nil:
			logger.Warn("report cache read failed", zap.String("key", key.String()), zap.Error(err))
		case hit:
			logger.Debug("report cache hit", zap.String("key", key.String()))
			return report, nil
		}
	}

	var unit *tu.Unit
	err := timer.Track("load", func() error {
		var err error
		unit, err = tu.Load(s.dumpPath)
		return err
	})
	if err != nil {
		return nil, err
	}

	ingestIdx := timer.Begin("ingest")
	graph := driver.Build(unit, s.opts, s.maxDiagnostics)
	timer.End(ingestIdx, fmt.Sprintf("%d items", graph.Ctx.Len()))

	var report *driver.Report
	err = timer.Track("analyze", func() error {
		var err error
		report, err = driver.Inspect(ctx, graph, s.inspect)
		return err
	})
	if err != nil {
		return nil, err
	}

	if cache != nil {
		if err := cache.Put(key, report); err != nil {
			logger.Warn("report cache write failed", zap.String("key", key.String()), zap.Error(err))
		}
	}
	return report, nil
}

// failsAt reports whether any diagnostic reaches the threshold severity.
func failsAt(r *driver.Report, threshold diag.Severity) bool {
	for _, d := range r.Diagnostics {
		if d.Severity >= threshold {
			return true
		}
	}
	return false
}
