package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"cbind/internal/version"
)

// errDiagnostics marks a run that completed but reported diagnostics at or
// above the --fail-on severity.
// The report itself is the user-facing message.
var errDiagnostics = errors.New("diagnostics reported")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cbind",
		Short:         "Inspect foreign C/C++ type dumps for binding generation",
		Long:          `cbind ingests translation-unit dumps of C/C++ declarations and reports which ones generated bindings may copy, print, or must destroy`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			mode, err := cmd.Flags().GetString("color")
			if err != nil {
				return fmt.Errorf("failed to get color flag: %w", err)
			}
			enabled, err := colorEnabled(mode, os.Stdout)
			if err != nil {
				return err
			}
			color.NoColor = !enabled
			return nil
		},
	}

	root.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	root.PersistentFlags().Bool("quiet", false, "suppress informational diagnostics")
	root.PersistentFlags().Bool("timings", false, "print phase timings to stderr")
	root.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to keep")
	root.PersistentFlags().String("log-level", "warn", "log level (debug|info|warn|error|off)")
	root.PersistentFlags().String("config", "", "path to cbind.toml (default: search upwards from the dump)")

	root.AddCommand(newInspectCmd())
	root.AddCommand(newVersionCmd())
	root.AddCommand(newCacheCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintln(os.Stderr, "cbind:", err)
		}
		os.Exit(1)
	}
}

func colorEnabled(mode string, f *os.File) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	case "", "auto":
		return f != nil && isTerminal(f) && os.Getenv("NO_COLOR") == "", nil
	default:
		return false, fmt.Errorf("unsupported color mode %q (must be auto, on or off)", mode)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
