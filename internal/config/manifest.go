package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"codeslice/internal/errors"
)

// ManifestName is the file that declares where a workspace's semantic index
// lives, relative to the solution root.
const ManifestName = "codeslice.toml"

// Manifest describes one analyzable workspace
type Manifest struct {
	Workspace WorkspaceManifest `toml:"workspace"`
}

// WorkspaceManifest maps a solution root to its semantic index
type WorkspaceManifest struct {
	// Index is the path to the SCIP index, relative to the manifest
	Index string `toml:"index"`

	// SourceRoot is the directory source paths in the index are relative
	// to; defaults to the manifest's directory
	SourceRoot string `toml:"source-root"`
}

// FindManifest walks upward from anyPath looking for a codeslice.toml,
// mirroring how a build unit encloses its source files. Returns the
// directory containing the manifest.
func FindManifest(anyPath string) (string, error) {
	dir, err := filepath.Abs(anyPath)
	if err != nil {
		return "", errors.New(errors.WorkspaceLoad, "cannot resolve path", err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.Newf(errors.WorkspaceLoad, nil,
				"no %s found enclosing %s", ManifestName, anyPath)
		}
		dir = parent
	}
}

// LoadManifest reads the manifest in dir and resolves its paths
func LoadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestName)
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, errors.Newf(errors.WorkspaceLoad, err, "failed to parse %s", path)
	}

	if m.Workspace.Index == "" {
		return nil, errors.Newf(errors.WorkspaceLoad, nil, "%s does not declare workspace.index", path)
	}
	if !filepath.IsAbs(m.Workspace.Index) {
		m.Workspace.Index = filepath.Join(dir, m.Workspace.Index)
	}

	if m.Workspace.SourceRoot == "" {
		m.Workspace.SourceRoot = dir
	} else if !filepath.IsAbs(m.Workspace.SourceRoot) {
		m.Workspace.SourceRoot = filepath.Join(dir, m.Workspace.SourceRoot)
	}

	return &m, nil
}
