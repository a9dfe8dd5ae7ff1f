package config

import (
	"os"
	"path/filepath"
	"testing"

	"codeslice/internal/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg.Extraction.Depth != 1 {
		t.Errorf("expected default depth 1, got %d", cfg.Extraction.Depth)
	}
	if cfg.Extraction.ExplainMode != string(ExplainNone) {
		t.Errorf("expected default explain mode none, got %s", cfg.Extraction.ExplainMode)
	}
	if len(cfg.Extraction.ExcludedNamespacePrefixes) == 0 {
		t.Error("expected default namespace exclusions")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load with no config file: %v", err)
	}
	if cfg.Extraction.Depth != 1 {
		t.Errorf("expected default depth, got %d", cfg.Extraction.Depth)
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	confDir := filepath.Join(dir, ".codeslice")
	if err := os.MkdirAll(confDir, 0755); err != nil {
		t.Fatal(err)
	}
	content := `{
  "extraction": {
    "depth": 3,
    "explainMode": "reason-for-inclusion",
    "excludedNamespacePrefixes": ["Sys"]
  },
  "logging": {"level": "debug"}
}`
	if err := os.WriteFile(filepath.Join(confDir, "config.json"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Extraction.Depth != 3 {
		t.Errorf("expected depth 3, got %d", cfg.Extraction.Depth)
	}
	if cfg.Extraction.ExplainMode != "reason-for-inclusion" {
		t.Errorf("unexpected explain mode %s", cfg.Extraction.ExplainMode)
	}
	if len(cfg.Extraction.ExcludedNamespacePrefixes) != 1 || cfg.Extraction.ExcludedNamespacePrefixes[0] != "Sys" {
		t.Errorf("unexpected exclusions %v", cfg.Extraction.ExcludedNamespacePrefixes)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("unexpected log level %s", cfg.Logging.Level)
	}
}

func TestValidateRejectsNegativeDepth(t *testing.T) {
	cfg := Default()
	cfg.Extraction.Depth = -1

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for negative depth")
	}
	if errors.CodeOf(err) != errors.InvalidArgument {
		t.Errorf("expected InvalidArgument, got %s", errors.CodeOf(err))
	}
}

func TestParseExplainMode(t *testing.T) {
	tests := []struct {
		in       string
		expected ExplainMode
		wantErr  bool
	}{
		{"none", ExplainNone, false},
		{"", ExplainNone, false},
		{"reason-for-inclusion", ExplainReasonForInclusion, false},
		{"Reason", ExplainReasonForInclusion, false},
		{"verbose", ExplainNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			mode, err := ParseExplainMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err=%v, wantErr=%v", err, tt.wantErr)
			}
			if !tt.wantErr && mode != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, mode)
			}
		})
	}
}

func TestManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "src", "app")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}
	manifest := "[workspace]\nindex = \".codeslice/index.scip\"\n"
	if err := os.WriteFile(filepath.Join(dir, ManifestName), []byte(manifest), 0644); err != nil {
		t.Fatal(err)
	}

	found, err := FindManifest(filepath.Join(sub, "Program.cs"))
	if err != nil {
		t.Fatalf("FindManifest: %v", err)
	}
	if found != dir {
		t.Errorf("expected manifest dir %s, got %s", dir, found)
	}

	m, err := LoadManifest(found)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Workspace.Index != filepath.Join(dir, ".codeslice", "index.scip") {
		t.Errorf("unexpected index path %s", m.Workspace.Index)
	}
	if m.Workspace.SourceRoot != dir {
		t.Errorf("unexpected source root %s", m.Workspace.SourceRoot)
	}
}

func TestFindManifestMissing(t *testing.T) {
	dir := t.TempDir()

	_, err := FindManifest(filepath.Join(dir, "orphan.cs"))
	if err == nil {
		t.Fatal("expected error when no manifest encloses the path")
	}
	if errors.CodeOf(err) != errors.WorkspaceLoad {
		t.Errorf("expected WorkspaceLoad, got %s", errors.CodeOf(err))
	}
}
