package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var fullDepth int

var fullCmd = &cobra.Command{
	Use:   "full <root-file>",
	Short: "Extract every definition reachable from an entry file",
	Long: `Walk the reference graph from the entry file's use sites and emit every
reachable declaration with all of its members, ignoring minimisation. The
depth budget still bounds the walk.

Examples:
  codeslice full src/App.cs
  codeslice full --depth=3 src/Billing/Invoice.cs`,
	Args: cobra.ExactArgs(1),
	Run:  runFull,
}

func init() {
	fullCmd.Flags().IntVar(&fullDepth, "depth", -1, "Cross-type hop budget (default from config)")
	rootCmd.AddCommand(fullCmd)
}

func runFull(cmd *cobra.Command, args []string) {
	wctx := mustWorkspace(args[0])

	depth := fullDepth
	if !cmd.Flags().Changed("depth") {
		depth = wctx.cfg.Extraction.Depth
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := wctx.engine.FindAllDefinitions(ctx, args[0], depth)
	if err != nil {
		fail(err)
	}

	output, err := FormatResults(results, OutputFormat(formatFlag))
	if err != nil {
		fail(err)
	}
	fmt.Println(output)
}
