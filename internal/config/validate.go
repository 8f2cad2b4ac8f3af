package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDepotRootMissing indicates no depot root was configured. Every stored
// media path is symbolic against the depot root, so the service cannot run
// without one.
var ErrDepotRootMissing = errors.New("depot root is not configured (set paths.depot_root or the DEPOT_ALL environment variable)")

// Validate checks the configuration for problems that should stop startup.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Paths.DepotRoot) == "" {
		return ErrDepotRootMissing
	}

	if c.Paths.MediaDB == "" {
		problems = append(problems, "paths.media_db must not be empty")
	}
	if c.Paths.JobsDB == "" {
		problems = append(problems, "paths.jobs_db must not be empty")
	}
	if c.Paths.StateDir == "" {
		problems = append(problems, "paths.state_dir must not be empty")
	}
	if c.Paths.APIBind == "" {
		problems = append(problems, "paths.api_bind must not be empty")
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format %q is not one of console, json", c.Logging.Format))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
