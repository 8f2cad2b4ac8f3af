package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory, database, and bind address configuration.
type Paths struct {
	// DepotRoot is the directory the $DEPOT_ALL placeholder expands to.
	DepotRoot  string `toml:"depot_root"`
	MediaDB    string `toml:"media_db"`
	JobsDB     string `toml:"jobs_db"`
	ArchiveDir string `toml:"archive_dir"`
	ThumbsDir  string `toml:"thumbs_dir"`
	StateDir   string `toml:"state_dir"`
	LogDir     string `toml:"log_dir"`
	APIBind    string `toml:"api_bind"`
}

// Jobs contains the project registry's filesystem layout.
type Jobs struct {
	ProjectsNetworkDir string `toml:"projects_network_dir"`
	RenderNetworkDir   string `toml:"render_network_dir"`
	ProjectsLocalDir   string `toml:"projects_local_dir"`
	RenderLocalDir     string `toml:"render_local_dir"`
	EnvTemplatePath    string `toml:"env_template_path"`
	NavFilePath        string `toml:"nav_file_path"`
}

// Search contains pagination and word-cloud sizing.
type Search struct {
	TablePageSize int `toml:"table_page_size"`
	GridPageSize  int `toml:"grid_page_size"`
	TopTopics     int `toml:"top_topics"`
}

// Auth contains the shared secret required for mutating operations.
type Auth struct {
	AdminKey string `toml:"admin_key"`
}

// Logging contains log output configuration.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for mediadepot.
//
// Sections by subsystem:
//   - Paths: depot root, databases, archive/thumbnail dirs, API bind
//   - Jobs: project/render directory roots and template/nav file locations
//   - Search: page sizes for the table and grid views
//   - Auth: shared secret gating metadata mutations
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Jobs    Jobs    `toml:"jobs"`
	Search  Search  `toml:"search"`
	Auth    Auth    `toml:"auth"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/mediadepot/config.toml")
}

// Load locates, parses, and validates a configuration file. A .env file in
// the working directory is applied first so DEPOT_ALL and friends behave the
// same whether exported by the shell or kept in a dotfile. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	// Missing .env is the common case and not an error.
	_ = godotenv.Load()

	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// applyEnvOverrides honours the environment variables the original tooling
// relied on, taking precedence over file values.
func (c *Config) applyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv("DEPOT_ALL")); v != "" {
		c.Paths.DepotRoot = v
	}
	if v := strings.TrimSpace(os.Getenv("MEDIADEPOT_ADMIN_KEY")); v != "" {
		c.Auth.AdminKey = v
	}
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("mediadepot.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// WriteSample writes the embedded sample configuration to the given path,
// refusing to overwrite an existing file.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// EnsureDirectories creates the directories the daemon writes to. The
// archive and thumbnail dirs live on depot storage and are created
// best-effort so config load does not fail when storage is offline.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	for _, dir := range []string{c.Paths.ArchiveDir, c.Paths.ThumbsDir} {
		if strings.TrimSpace(dir) != "" {
			_ = os.MkdirAll(dir, 0o755)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
