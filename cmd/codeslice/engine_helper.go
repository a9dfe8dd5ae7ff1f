package main

import (
	"fmt"
	"os"

	"codeslice/internal/config"
	"codeslice/internal/extract"
	"codeslice/internal/logging"
	"codeslice/internal/semantic/scipws"
)

// workspaceContext bundles everything one command invocation needs
type workspaceContext struct {
	root     string
	cfg      *config.Config
	manifest *config.Manifest
	logger   *logging.Logger
	engine   *extract.Engine
}

// newLogger builds the CLI logger from config plus the --verbose flag
func newLogger(cfg *config.Config) *logging.Logger {
	level := logging.ParseLevel(cfg.Logging.Level)
	if verboseFlag {
		level = logging.DebugLevel
	}
	return logging.New(logging.ParseFormat(cfg.Logging.Format), level, os.Stderr)
}

// mustWorkspace resolves the manifest enclosing anyPath, loads config and the
// indexed workspace, and wires an extraction engine. Failures terminate the
// command.
func mustWorkspace(anyPath string) *workspaceContext {
	root, err := config.FindManifest(anyPath)
	if err != nil {
		fail(err)
	}
	cfg, err := config.Load(root)
	if err != nil {
		fail(err)
	}
	logger := newLogger(cfg)

	manifest, err := config.LoadManifest(root)
	if err != nil {
		fail(err)
	}

	cache, err := scipws.NewCache(cfg.Cache.MaxWorkspaces, logger)
	if err != nil {
		fail(err)
	}
	ws, err := cache.Load(manifest.Workspace.Index, manifest.Workspace.SourceRoot)
	if err != nil {
		fail(err)
	}

	return &workspaceContext{
		root:     root,
		cfg:      cfg,
		manifest: manifest,
		logger:   logger,
		engine:   extract.NewEngine(ws, logger, cfg.Extraction.ExcludedNamespacePrefixes),
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
