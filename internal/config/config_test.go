package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateRequiresDepotRoot(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error for missing depot root")
	}
	if err != ErrDepotRootMissing {
		t.Fatalf("expected ErrDepotRootMissing, got %v", err)
	}
}

func TestLoadReadsFileAndExpandsPaths(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	content := `
[paths]
depot_root = "` + dir + `"
media_db = "` + filepath.Join(dir, "media.db") + `"
jobs_db = "` + filepath.Join(dir, "jobs.db") + `"
state_dir = "` + dir + `"

[search]
table_page_size = 50
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be reported as existing")
	}
	if resolved != configPath {
		t.Fatalf("resolved path = %q, want %q", resolved, configPath)
	}
	if cfg.Paths.DepotRoot != dir {
		t.Fatalf("depot root = %q, want %q", cfg.Paths.DepotRoot, dir)
	}
	if cfg.Search.TablePageSize != 50 {
		t.Fatalf("table page size = %d, want 50", cfg.Search.TablePageSize)
	}
	if cfg.Search.GridPageSize != 30 {
		t.Fatalf("grid page size = %d, want default 30", cfg.Search.GridPageSize)
	}
}

func TestLoadEnvOverridesWinOverFile(t *testing.T) {
	dir := t.TempDir()
	envRoot := filepath.Join(dir, "env-root")
	configPath := filepath.Join(dir, "config.toml")
	content := `
[paths]
depot_root = "` + filepath.Join(dir, "file-root") + `"

[auth]
admin_key = "from-file"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("DEPOT_ALL", envRoot)
	t.Setenv("MEDIADEPOT_ADMIN_KEY", "from-env")

	cfg, _, _, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Paths.DepotRoot != envRoot {
		t.Fatalf("depot root = %q, want env value %q", cfg.Paths.DepotRoot, envRoot)
	}
	if cfg.Auth.AdminKey != "from-env" {
		t.Fatalf("admin key = %q, want env value", cfg.Auth.AdminKey)
	}
}

func TestLoadMissingFileUsesDefaultsWithEnvRoot(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DEPOT_ALL", dir)

	cfg, _, exists, err := Load(filepath.Join(dir, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected missing file to be reported as not existing")
	}
	if cfg.Paths.DepotRoot != dir {
		t.Fatalf("depot root = %q, want %q", cfg.Paths.DepotRoot, dir)
	}
	if cfg.Search.TablePageSize != 100 {
		t.Fatalf("table page size = %d, want default 100", cfg.Search.TablePageSize)
	}
}

func TestExpandPathTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	expanded, err := expandPath("~/somewhere/file.db")
	if err != nil {
		t.Fatalf("expandPath: %v", err)
	}
	if !strings.HasPrefix(expanded, home) {
		t.Fatalf("expanded path %q does not start with home %q", expanded, home)
	}
	if strings.Contains(expanded, "~") {
		t.Fatalf("expanded path %q still contains tilde", expanded)
	}
}

func TestValidateRejectsBadLoggingValues(t *testing.T) {
	cfg := Default()
	cfg.Paths.DepotRoot = t.TempDir()
	cfg.Logging.Format = "xml"
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error for bad logging format")
	}
	if !strings.Contains(err.Error(), "logging.format") {
		t.Fatalf("unexpected error: %v", err)
	}
}
