package config

import "strings"

// normalize expands every path field and fills derived values that depend
// on other fields. It runs after file parsing and env overrides, before
// validation.
func (c *Config) normalize() error {
	pathFields := []*string{
		&c.Paths.DepotRoot,
		&c.Paths.MediaDB,
		&c.Paths.JobsDB,
		&c.Paths.ArchiveDir,
		&c.Paths.ThumbsDir,
		&c.Paths.StateDir,
		&c.Paths.LogDir,
		&c.Jobs.ProjectsNetworkDir,
		&c.Jobs.RenderNetworkDir,
		&c.Jobs.ProjectsLocalDir,
		&c.Jobs.RenderLocalDir,
		&c.Jobs.EnvTemplatePath,
		&c.Jobs.NavFilePath,
	}
	for _, field := range pathFields {
		trimmed := strings.TrimSpace(*field)
		if trimmed == "" {
			*field = ""
			continue
		}
		expanded, err := expandPath(trimmed)
		if err != nil {
			return err
		}
		*field = expanded
	}

	if c.Search.TablePageSize <= 0 {
		c.Search.TablePageSize = 100
	}
	if c.Search.GridPageSize <= 0 {
		c.Search.GridPageSize = 30
	}
	if c.Search.TopTopics <= 0 {
		c.Search.TopTopics = 20
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	c.Auth.AdminKey = strings.TrimSpace(c.Auth.AdminKey)
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)

	return nil
}
