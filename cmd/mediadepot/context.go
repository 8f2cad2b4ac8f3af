package main

import (
	"context"
	"strings"
	"sync"

	"mediadepot/internal/config"
	"mediadepot/internal/depot"
	"mediadepot/internal/jobs"
	"mediadepot/internal/logging"
	"mediadepot/internal/media"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) resolver() (*depot.Resolver, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return depot.NewResolver(cfg.Paths.DepotRoot)
}

// withMediaStore opens the metadata store for the duration of one command.
func (c *commandContext) withMediaStore(ctx context.Context, fn func(*media.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := media.Open(ctx, cfg.Paths.MediaDB)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// withRegistry opens the job store and wraps it in a registry for one
// command.
func (c *commandContext) withRegistry(ctx context.Context, fn func(*jobs.Registry) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	resolver, err := c.resolver()
	if err != nil {
		return err
	}
	store, err := jobs.Open(ctx, cfg.Paths.JobsDB)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(jobs.NewRegistry(store, cfg.Jobs, resolver, logging.NewNop()))
}
