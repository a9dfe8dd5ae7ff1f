package main

import (
	"github.com/spf13/cobra"
)

// version can be overridden at build time:
// go build -ldflags "-X main.version=1.1.0"
var version = "1.0.0"

var (
	// formatFlag selects the CLI output encoding
	formatFlag string
	// verboseFlag raises log verbosity to debug
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "codeslice",
	Short: "codeslice - minimal definition slices from object-oriented source",
	Long: `codeslice extracts the smallest subset of type and member declarations
sufficient to explain every non-local symbol referenced by a set of entry-point
source files, transitively, up to a cross-type depth budget. Declarations are
taken verbatim from the original source tree and can be annotated with the
reference paths that caused their inclusion.

A workspace is any directory tree with a codeslice.toml manifest pointing at
its SCIP index.`,
	Version: version,
}

func init() {
	rootCmd.SetVersionTemplate("codeslice version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "json", "Output format (json, yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")
}
