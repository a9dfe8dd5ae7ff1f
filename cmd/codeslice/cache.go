package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"codeslice/internal/config"
	"codeslice/internal/storage"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the result cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [path]",
	Short: "Drop every cached extraction result for a workspace",
	Args:  cobra.MaximumNArgs(1),
	Run:   runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheClear(cmd *cobra.Command, args []string) {
	anyPath := "."
	if len(args) == 1 {
		anyPath = args[0]
	}

	root, err := config.FindManifest(anyPath)
	if err != nil {
		fail(err)
	}
	cfg, err := config.Load(root)
	if err != nil {
		fail(err)
	}
	logger := newLogger(cfg)

	db, err := storage.Open(root, logger)
	if err != nil {
		fail(err)
	}
	defer db.Close()

	if err := db.Clear(); err != nil {
		fail(err)
	}
	fmt.Println("result cache cleared")
}
