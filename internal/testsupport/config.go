package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"mediadepot/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DepotRoot = filepath.Join(base, "depot")
	cfgVal.Paths.MediaDB = filepath.Join(base, "media.db")
	cfgVal.Paths.JobsDB = filepath.Join(base, "jobs.db")
	cfgVal.Paths.ArchiveDir = filepath.Join(base, "depot", "arch")
	cfgVal.Paths.ThumbsDir = filepath.Join(base, "thumbs")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.Jobs.ProjectsNetworkDir = filepath.Join(base, "projects")
	cfgVal.Jobs.RenderNetworkDir = filepath.Join(base, "render")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	for _, dir := range []string{
		builder.cfg.Paths.DepotRoot,
		builder.cfg.Paths.StateDir,
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	return builder.cfg
}

// WithAdminKey sets the shared mutation secret on the test config.
func WithAdminKey(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Auth.AdminKey = key
	}
}

// WithEnvTemplate writes an env template file and points the job
// configuration at it.
func WithEnvTemplate(content string) ConfigOption {
	return func(b *configBuilder) {
		path := filepath.Join(b.baseDir, "job.env.tmpl")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			b.t.Fatalf("write env template: %v", err)
		}
		b.cfg.Jobs.EnvTemplatePath = path
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
