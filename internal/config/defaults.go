package config

// Default returns a Config populated with repository defaults. Paths are
// kept in their symbolic (tilde) form here; Load expands them during
// normalization.
func Default() Config {
	return Config{
		Paths: Paths{
			DepotRoot:  "",
			MediaDB:    "~/.local/share/mediadepot/media.db",
			JobsDB:     "~/.local/share/mediadepot/jobs.db",
			ArchiveDir: "",
			ThumbsDir:  "",
			StateDir:   "~/.local/share/mediadepot",
			LogDir:     "~/.local/share/mediadepot/logs",
			APIBind:    "127.0.0.1:7487",
		},
		Jobs: Jobs{
			ProjectsNetworkDir: "",
			RenderNetworkDir:   "",
			ProjectsLocalDir:   "",
			RenderLocalDir:     "",
			EnvTemplatePath:    "",
			NavFilePath:        "",
		},
		Search: Search{
			TablePageSize: 100,
			GridPageSize:  30,
			TopTopics:     20,
		},
		Auth: Auth{
			AdminKey: "",
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
	}
}
